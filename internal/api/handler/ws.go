package handler

import (
	"net/http"

	"carwatch/backend/internal/models"
	"carwatch/backend/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed upgrades an admin's connection to a WebSocket streaming the
// live event feed. Runs behind Authenticate and RequireAdmin.
func (h *Handler) ServeFeed(c *gin.Context) {
	hub, ok := h.Hub.(*notify.Hub)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": h.msg(c, "server_error")})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": h.msg(c, "server_error")})
		return
	}

	client := &notify.Client{
		UserID: h.currentUser(c).ID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.Event, 64),
	}

	hub.RegisterCh <- client
	client.Run()
}
