package handler

import (
	"net/http"
	"strings"

	"carwatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// userKey is the gin context key holding the authenticated user.
const userKey = "currentUser"

// Authenticate resolves the bearer token to a user and rejects requests
// from missing or deactivated accounts. Later handlers trust the loaded
// user's role and active flag as-is.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "login_required")})
			return
		}

		userID, err := h.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "invalid_token")})
			return
		}

		user, err := h.Storage.GetUserByID(userID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "user_inactive")})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin-tier users. Must run after
// Authenticate.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := h.currentUser(c)
		if user == nil || !user.Role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
			return
		}
		c.Next()
	}
}

// currentUser returns the user Authenticate stored on the context.
func (h *Handler) currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
