// Package telemetry exposes read-only world statistics to debug tools over
// HTTP and a websocket feed.
package telemetry

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"spherecraft/internal/world"

	"github.com/gorilla/websocket"
)

const writeWait = time.Second

// Hub keeps the latest stats snapshot and pushes every new one to the
// connected websocket clients. Publish is called from the tick goroutine;
// handlers run on the HTTP server's goroutines.
type Hub struct {
	mu     sync.RWMutex
	latest world.Stats
	has    bool

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]*sync.Mutex

	upgrader websocket.Upgrader
	log      *log.Logger
}

// NewHub creates an empty hub. logger may be nil.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			// Debug tooling only; any origin may read the feed
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logger,
	}
}

// Latest returns the most recent snapshot, if any was published.
func (h *Hub) Latest() (world.Stats, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.has
}

// ClientCount returns the number of connected websocket clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// Publish stores st and sends it to every client. Clients that fail to
// accept it within writeWait are dropped.
func (h *Hub) Publish(st world.Stats) {
	h.mu.Lock()
	h.latest, h.has = st, true
	h.mu.Unlock()

	h.clientsMu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, m := range h.clients {
		conns[c] = m
	}
	h.clientsMu.Unlock()

	for conn, m := range conns {
		if err := send(conn, m, st); err != nil {
			h.log.Printf("telemetry: dropping client %s: %v", conn.RemoteAddr(), err)
			h.remove(conn)
			conn.Close()
		}
	}
}

// Handler serves /stats as JSON and /ws as a websocket feed.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", h.serveStats)
	mux.HandleFunc("/ws", h.serveWebSocket)
	return mux
}

func (h *Hub) serveStats(w http.ResponseWriter, r *http.Request) {
	st, ok := h.Latest()
	if !ok {
		http.Error(w, "no stats published yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		h.log.Printf("telemetry: encode stats: %v", err)
	}
}

func (h *Hub) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Println("telemetry: websocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	h.clientsMu.Lock()
	h.clients[conn] = connMutex
	h.clientsMu.Unlock()
	defer h.remove(conn)

	// Send the current snapshot straight away
	if st, ok := h.Latest(); ok {
		if err := send(conn, connMutex, st); err != nil {
			return
		}
	}

	// The feed is one-way; reading only detects the close.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func send(conn *websocket.Conn, m *sync.Mutex, st world.Stats) error {
	m.Lock()
	defer m.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(st)
}
