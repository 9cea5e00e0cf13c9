package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected dashboards
const (
	EventSaleRecorded     = "sale_recorded"
	EventInventoryUpdated = "inventory_updated"
	EventGoalsUpdated     = "goals_updated"
)

// Event is a message sent over WebSocket to the live dashboard
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected dashboard
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of connected dashboards and broadcasts events
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
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
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes an event to every connected dashboard, best effort.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		// A slow or dead peer fails its own write; the loop moves on.
		client.Conn.WriteJSON(event)
	}
}

// BroadcastSale announces a committed sale.
func (h *Hub) BroadcastSale(saleData interface{}) {
	h.Broadcast(Event{
		Type:    EventSaleRecorded,
		Message: "A sale was recorded",
		Data:    saleData,
	})
}

// BroadcastInventory announces an inventory change.
func (h *Hub) BroadcastInventory(itemData interface{}) {
	h.Broadcast(Event{
		Type:    EventInventoryUpdated,
		Message: "Inventory was updated",
		Data:    itemData,
	})
}

// BroadcastGoals announces a goal distribution.
func (h *Hub) BroadcastGoals(goalData interface{}) {
	h.Broadcast(Event{
		Type:    EventGoalsUpdated,
		Message: "Sprint goals were updated",
		Data:    goalData,
	})
}
