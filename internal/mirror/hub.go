// Package mirror streams cabinet display updates to websocket viewers.
package mirror

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
)

// sendBuffer is the per-client queue length before updates are dropped.
const sendBuffer = 32

// Message is the JSON structure sent to viewers.
type Message struct {
	Type string `json:"t"`
	Text string `json:"text"`
	Seq  uint64 `json:"seq"`
}

// Client represents a single viewer connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// NewClient creates a client with a buffered send queue.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, Conn: conn, Send: make(chan []byte, sendBuffer)}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub fans display updates out to every connected viewer.
// It implements reaction.Display and is safe for concurrent use.
type Hub struct {
	logger *log.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	latest  Message
	encoded []byte
}

// NewHub creates a new Hub. A nil logger uses the default logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default().WithPrefix("mirror")
	}
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

// SetDisplay records the text and broadcasts it to all viewers.
// Non-blocking: a viewer whose queue is full misses the update.
// Sequencing and queueing share one critical section, so every viewer
// receives updates in seq order even with concurrent writers.
func (h *Hub) SetDisplay(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Message{Type: "display", Text: text, Seq: h.latest.Seq + 1}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal failed", "err", err)
		return
	}
	h.latest = msg
	h.encoded = data

	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// Latest returns the most recent display message. Seq is 0 before any update.
func (h *Hub) Latest() Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Register adds a client and queues the latest display for it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	if h.encoded != nil {
		c.Send <- h.encoded
	}
	h.logger.Debug("viewer joined", "id", c.ID, "viewers", len(h.clients))
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	close(c.Send)
	delete(h.clients, id)
	h.logger.Debug("viewer left", "id", id, "viewers", len(h.clients))
}

// Len returns the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
