package websocket

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed to the dashboard
const (
	NotificationTypeCreditWindowAlert = "credit_window_alert"
	NotificationTypeDealApproved      = "deal_approved"
	NotificationTypeDealRejected      = "deal_rejected"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// Broadcast sends a notification to every connected client
func (h *Hub) Broadcast(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.Conn.WriteJSON(notification)
	}
}

// NotifyCreditWindowAlerts pushes the current alert set to all connected
// dashboard clients
func (h *Hub) NotifyCreditWindowAlerts(alerts interface{}) {
	h.Broadcast(Notification{
		Type:    NotificationTypeCreditWindowAlert,
		Message: "Credit window alerts updated",
		Data:    alerts,
	})
}

// NotifyDealApproval tells the setter that their deal was approved or
// rejected
func (h *Hub) NotifyDealApproval(setterID primitive.ObjectID, approved bool, dealData interface{}) error {
	notifType := NotificationTypeDealApproved
	message := "Your deal has been approved"
	if !approved {
		notifType = NotificationTypeDealRejected
		message = "Your deal has been rejected"
	}

	return h.SendToUser(setterID, Notification{
		Type:    notifType,
		Message: message,
		Data:    dealData,
	})
}
