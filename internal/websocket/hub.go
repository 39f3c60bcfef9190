package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/model"
	"github.com/freshplatter/platter-backend/pkg/logger"
)

// OrderEvent is pushed to connected admin dashboards whenever an order
// is placed or changes status.
type OrderEvent struct {
	Type        string            `json:"type"` // order_created, order_status_changed
	OrderID     uint              `json:"order_id"`
	UserID      uint              `json:"user_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount float64           `json:"total_amount"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Client is one connected admin session.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans order events out to every connected admin. It is push-only:
// inbound frames are read solely to detect disconnects.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Order feed client connected", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Order feed client disconnected", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop the frame rather than
					// blocking the hub.
					logger.Warn("Dropping order event for slow client", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) publish(event OrderEvent) {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"order_id": event.OrderID,
		})
		return
	}
	h.broadcast <- data
}

// BroadcastJSON pushes an arbitrary event to every connected admin. The
// delivery scheduler uses it for the morning manifest.
func (h *Hub) BroadcastJSON(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal broadcast event", err, nil)
		return
	}
	h.broadcast <- data
}

// OrderCreated implements service.OrderNotifier.
func (h *Hub) OrderCreated(order *model.Order) {
	h.publish(OrderEvent{
		Type:        "order_created",
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
}

// OrderStatusChanged implements service.OrderNotifier.
func (h *Hub) OrderStatusChanged(order *model.Order) {
	h.publish(OrderEvent{
		Type:        "order_status_changed",
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
}
