// Package ws implements the realtime push channel. The server pushes two
// message shapes: periodic dashboard snapshots and freshly created
// notifications. Delivery is best effort; a slow or dead client never blocks
// a mutating operation.
package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Message type constants for the push channel
const (
	MessagePriceUpdate     = "price_update"
	MessageNewNotification = "new_notification"
)

// Envelope wraps every message sent over the channel
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of connected clients and fans messages out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister/broadcast events until the process exits.
// Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			zap.L().Info("WebSocket client connected", zap.Int("clients", len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				zap.L().Info("WebSocket client disconnected", zap.Int("clients", len(h.clients)))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client cannot keep up; drop it rather than block the hub
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast marshals payload into an envelope and fans it out to every
// connected client. Failures are logged, never returned; the authoritative
// state change has already been committed by the time this runs.
func (h *Hub) Broadcast(messageType string, payload any) {
	raw, err := json.Marshal(Envelope{Type: messageType, Data: payload})
	if err != nil {
		zap.L().Warn("Failed to marshal broadcast message", zap.String("type", messageType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		zap.L().Warn("Broadcast queue full, dropping message", zap.String("type", messageType))
	}
}
