package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

const (
	sendBuffer = 16
	writeWait  = 2 * time.Second
)

// Message is one websocket frame sent to clients.
type Message struct {
	Type      string         `json:"type"`
	Telemetry *sim.Telemetry `json:"telemetry,omitempty"`
	Status    *sim.Status    `json:"status,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// safeWriter serializes writes to a connection.
type safeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *safeWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(v)
}

func (w *safeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}

type client struct {
	w       *safeWriter
	limiter *rate.Limiter
	send    chan sim.Telemetry
	done    chan struct{}
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.w.Close()
	})
}

// hub fans telemetry out to clients. broadcast runs on the loop goroutine
// and never blocks.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	limit   rate.Limit
}

func newHub(perSecond float64) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		limit:   rate.Limit(perSecond),
	}
}

func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{
		w:       &safeWriter{conn: conn},
		limiter: rate.NewLimiter(h.limit, 1),
		send:    make(chan sim.Telemetry, sendBuffer),
		done:    make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(t sim.Telemetry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.limiter.Allow() {
			continue
		}
		select {
		case c.send <- t:
		default:
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("[ws] upgrade: %v", err)
		return
	}
	c := s.hub.add(conn)
	s.log.Printf("[ws] client connected from %s", r.RemoteAddr)

	if st, err := s.status(); err == nil {
		_ = c.w.WriteJSON(Message{Type: "status", Status: &st.Status})
	}

	go s.writePump(c)
	s.readPump(c)
	s.hub.remove(c)
	s.log.Printf("[ws] client %s disconnected", r.RemoteAddr)
}

func (s *Server) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case t := <-c.send:
			if err := c.w.WriteJSON(Message{Type: "telemetry", Telemetry: &t}); err != nil {
				s.hub.remove(c)
				return
			}
		}
	}
}

// readPump accepts control requests until the connection closes. Each
// request is answered with the new status or an error.
func (s *Server) readPump(c *client) {
	for {
		_, data, err := c.w.conn.ReadMessage()
		if err != nil {
			return
		}
		var req ControlRequest
		if err := json.Unmarshal(data, &req); err != nil {
			_ = c.w.WriteJSON(Message{Type: "error", Error: err.Error()})
			continue
		}
		if err := s.control(req); err != nil {
			_ = c.w.WriteJSON(Message{Type: "error", Error: err.Error()})
			continue
		}
		if st, err := s.status(); err == nil {
			_ = c.w.WriteJSON(Message{Type: "status", Status: &st.Status})
		}
	}
}
