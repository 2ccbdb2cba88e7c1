package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const clientBuffer = 64

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, clientBuffer)}
}

// trySend queues msg without blocking. It reports false when the client's
// buffer is full.
func (c *Client) trySend(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Hub manages WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	dropped int
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast queues msg for every connected client. Clients whose buffer is
// full miss the message.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	var full int
	for c := range h.clients {
		if !c.trySend(msg) {
			full++
		}
	}
	h.mu.RUnlock()

	if full > 0 {
		h.mu.Lock()
		h.dropped += full
		h.mu.Unlock()
		log.Printf("%d client buffer(s) full, dropping message", full)
	}
}

// SendTo queues msg for one registered client.
func (h *Hub) SendTo(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return false
	}
	return c.trySend(msg)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many per-client deliveries were skipped.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
