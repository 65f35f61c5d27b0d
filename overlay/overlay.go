// Package overlay serves bus traffic to external overlay clients (stream
// widgets, second-screen dashboards) over websockets. The hub is write-only
// toward clients; a slow client loses frames rather than stalling the bus.
package overlay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathoo/starpilot/types"
)

const (
	writeWait      = 5 * time.Second
	clientQueue    = 64
	pingInterval   = 30 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The overlay binds to localhost; any local page may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Frame is the JSON envelope sent to overlay clients. Mirrors the bus
// message shape with a timestamp for client-side ordering.
type Frame struct {
	Kind   string              `json:"kind"`
	Label  string              `json:"label,omitempty"`
	Status *types.StatusEvent  `json:"status,omitempty"`
	Slot   *types.UISlot       `json:"slot,omitempty"`
	Ship   *types.ShipSnapshot `json:"ship,omitempty"`
	Log    string              `json:"log,omitempty"`
	TS     time.Time           `json:"ts"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans bus messages out to all connected overlay clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: map[*client]struct{}{}}
}

// Handler returns the websocket upgrade endpoint, mountable on any mux.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &client{conn: conn, send: make(chan []byte, clientQueue)}
		h.mu.Lock()
		h.clients[c] = struct{}{}
		h.mu.Unlock()
		go h.writeLoop(c)
		go h.readLoop(c)
	})
}

// Run consumes bus messages until ctx is done. Call with a dedicated
// subscription channel.
func (h *Hub) Run(ctx context.Context, ch <-chan types.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			h.Broadcast(m)
		}
	}
}

// Broadcast encodes one bus message and queues it to every client,
// dropping the frame for clients whose queue is full.
func (h *Hub) Broadcast(m types.Message) {
	raw, err := json.Marshal(Frame{
		Kind:   m.Kind,
		Label:  m.Label,
		Status: m.Status,
		Slot:   m.Slot,
		Ship:   m.Ship,
		Log:    m.Log,
		TS:     time.Now(),
	})
	if err != nil {
		log.Printf("overlay: encoding frame: %v", err)
		return
	}
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
		}
	}
	h.mu.Unlock()
}

// ClientCount reports the connected clients, for diagnostics.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client input; its job is to notice disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
