// Package stream broadcasts simulation frames to WebSocket clients.
package stream

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	MessageHello = "hello"
	MessageFrame = "frame"
	MessageDone  = "done"

	DefaultWriteTimeout = 2 * time.Second
)

// Message is the JSON envelope sent to clients.
type Message struct {
	Type  string     `json:"type"`
	Scene string     `json:"scene,omitempty"`
	Frame *sim.Frame `json:"frame,omitempty"`
}

// client serialises writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub accepts WebSocket connections and fans frames out to them. It
// implements sim.Observer and http.Handler.
type Hub struct {
	scene        string
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       *log.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(scene string, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		scene: scene,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		writeTimeout: DefaultWriteTimeout,
		logger:       logger,
		clients:      make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request, greets the client and keeps reading until
// the connection closes. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn}
	// greet before registering so no frame can overtake the hello
	if err := c.writeJSON(Message{Type: MessageHello, Scene: h.scene}, h.writeTimeout); err != nil {
		h.logger.Debug("hello failed", "remote", r.RemoteAddr, "err", err)
		conn.Close()
		return
	}
	h.add(c)
	defer h.remove(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "remote", c.conn.RemoteAddr(), "clients", n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
		h.logger.Info("client disconnected", "remote", c.conn.RemoteAddr(), "clients", n)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients whose write fails are dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(msg, h.writeTimeout); err != nil {
			h.logger.Debug("dropping client", "remote", c.conn.RemoteAddr(), "err", err)
			h.remove(c)
		}
	}
}

func (h *Hub) OnFrame(f sim.Frame) {
	h.Broadcast(Message{Type: MessageFrame, Frame: &f})
}

// Done tells clients the run has finished.
func (h *Hub) Done() { h.Broadcast(Message{Type: MessageDone, Scene: h.scene}) }

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(h.writeTimeout))
		c.mu.Unlock()
		c.conn.Close()
	}
}
