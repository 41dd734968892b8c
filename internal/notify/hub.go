// Package notify fans lifecycle events out to connected admin dashboards
// over WebSocket, with Redis Pub/Sub carrying events between instances.
package notify

import (
	"encoding/json"
	"log"

	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"
)

// Publisher is the side of the hub the HTTP handlers see.
type Publisher interface {
	Publish(event models.Event)
}

// Hub tracks connected dashboard clients and broadcasts events to them.
type Hub struct {
	Clients map[*Client]bool

	RegisterCh   chan *Client
	UnregisterCh chan *Client

	Storage *storage.Service

	broadcastCh chan models.Event
	listeners   []chan models.Event
}

// NewHub creates a hub bound to the storage service whose Redis connection
// carries the event channel.
func NewHub(s *storage.Service) *Hub {
	return &Hub{
		Clients:      make(map[*Client]bool),
		RegisterCh:   make(chan *Client),
		UnregisterCh: make(chan *Client),
		Storage:      s,
		broadcastCh:  make(chan models.Event),
	}
}

// AddListener registers an in-process consumer (the Telegram alert bot).
// Must be called before Run.
func (h *Hub) AddListener() <-chan models.Event {
	ch := make(chan models.Event, 64)
	h.listeners = append(h.listeners, ch)
	return ch
}

// Publish pushes an event through Redis so every instance's hub sees it.
// Publish failures are logged and dropped; the feed is best effort.
func (h *Hub) Publish(event models.Event) {
	if err := h.Storage.PublishEvent(event); err != nil {
		log.Printf("ERROR: Failed to publish event %s: %v", event.Type, err)
	}
}

// Run is the hub's dispatcher loop. It starts the Redis listener and then
// serves register/unregister/broadcast commands until the process exits.
func (h *Hub) Run() {
	h.startPubSubListener()

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client] = true

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}

		case event := <-h.broadcastCh:
			for _, l := range h.listeners {
				select {
				case l <- event:
				default:
					// Slow listener, drop the event rather than stall the hub.
				}
			}
			for client := range h.Clients {
				select {
				case client.Send <- event:
				default:
					delete(h.Clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// startPubSubListener drains the Redis event channel into the broadcast
// loop.
func (h *Hub) startPubSubListener() {
	go func() {
		pubsub := h.Storage.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshalling Redis event: %v", err)
				continue
			}
			h.broadcastCh <- event
		}
	}()
}
