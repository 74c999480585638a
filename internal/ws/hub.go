package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"connectibles/internal/models"
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one registered socket. Writes are serialized per client.
type Client struct {
	conn Conn
	info ConnInfo
	mu   sync.Mutex
}

func (c *Client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub keeps every open socket, grouped by user. A user may hold several.
type Hub struct {
	users map[int64]map[*Client]struct{}
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{users: make(map[int64]map[*Client]struct{})}
}

// Register adds conn under info.UserID.
func (h *Hub) Register(conn Conn, info ConnInfo) *Client {
	client := &Client{conn: conn, info: info}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[info.UserID]; !ok {
		h.users[info.UserID] = make(map[*Client]struct{})
	}
	h.users[info.UserID][client] = struct{}{}
	return client
}

// Unregister removes client; it is safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userID := client.info.UserID
	if clients, ok := h.users[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.users, userID)
		}
	}
}

// Online reports whether the user has at least one open socket.
func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// Stats counts connected users and their open sockets.
func (h *Hub) Stats() (users, sockets int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.users {
		sockets += len(clients)
	}
	return len(h.users), sockets
}

// SendToUser pushes event to every socket of userID.
func (h *Hub) SendToUser(userID int64, event models.Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.users[userID]))
	for client := range h.users[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()
	h.deliver(targets, event)
}

// Broadcast pushes event to every connected socket.
func (h *Hub) Broadcast(event models.Event) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	for _, clients := range h.users {
		for client := range clients {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()
	h.deliver(targets, event)
}

func (h *Hub) deliver(targets []*Client, event models.Event) {
	if len(targets) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("websocket encode failed")
		return
	}
	for _, client := range targets {
		if err := client.write(payload); err != nil {
			log.Warn().Err(err).Int64("user_id", client.info.UserID).Msg("websocket write error")
			_ = client.conn.Close()
			h.Unregister(client)
			publishWSEvent(context.Background(), "ws_error", client.info, err.Error())
		}
	}
}
