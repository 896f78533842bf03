package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub  *Hub
	ID   uint
	Role string // "user", "worker" or "admin"
	Conn *websocket.Conn
	Send chan []byte
}

// Hub tracks one live connection per user and fans booking events out to them
type Hub struct {
	// Registered clients keyed by user ID
	Clients map[uint]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// replaced holds superseded clients until their read pump unregisters them
	replaced map[*Client]struct{}

	// Message handlers
	MessageHandlers map[string]MessageHandler

	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// Message is the envelope written to clients
type Message struct {
	Type      string      `json:"type"`
	SenderID  uint        `json:"sender_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// MessageHandler handles different types of messages
type MessageHandler func(*Client, *Message) error

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	hub := &Hub{
		Clients:         make(map[uint]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		replaced:        make(map[*Client]struct{}),
		MessageHandlers: make(map[string]MessageHandler),
		done:            make(chan struct{}),
	}
	hub.MessageHandlers["ping"] = hub.handlePing
	return hub
}

// Run processes registrations until ctx is cancelled, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			// A newer connection replaces the previous one. Closing the old socket stops its read pump,
			// whose unregister then closes its send channel.
			if old, ok := h.Clients[client.ID]; ok && old != client {
				h.replaced[old] = struct{}{}
				if old.Conn != nil {
					old.Conn.Close()
				}
			}
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Role=%s", client.ID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.ID]; ok && current == client {
				delete(h.Clients, client.ID)
				close(client.Send)
			} else if _, ok := h.replaced[client]; ok {
				delete(h.replaced, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Role=%s", client.ID, client.Role)

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.Clients {
				if client.Conn != nil {
					client.Conn.Close()
				}
				delete(h.Clients, id)
			}
			for client := range h.replaced {
				delete(h.replaced, client)
			}
			h.mu.Unlock()
			log.Println("🔌 WebSocket hub stopped")
			return
		}
	}
}

// SendToUser sends a message to a specific user. It reports whether the message was queued.
func (h *Hub) SendToUser(userID uint, message *Message) bool {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.Clients[userID]
	if !exists {
		log.Printf("⚠️ User %d not connected, message will be sent via push notification", userID)
		return false
	}

	select {
	case client.Send <- data:
		return true
	default:
		log.Printf("⚠️ User %d's send buffer is full", userID)
		return false
	}
}

// SendEvent wraps data in a typed message for the user
func (h *Hub) SendEvent(userID uint, eventType string, data interface{}) bool {
	return h.SendToUser(userID, &Message{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// GetConnectedUsers returns a list of currently connected user IDs
func (h *Hub) GetConnectedUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.Clients))
	for userID := range h.Clients {
		users = append(users, userID)
	}
	return users
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[userID]
	return exists
}

// handlePing handles ping messages for connection health
func (h *Hub) handlePing(client *Client, message *Message) error {
	return client.SendMessage(&Message{
		Type:      "pong",
		Timestamp: time.Now(),
	})
}
