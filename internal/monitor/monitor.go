// Package monitor streams per-step simulation statistics to websocket
// clients as JSON, for external dashboards.
package monitor

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Stats is one published sample.
type Stats struct {
	Step           int          `json:"step"`
	Time           float64      `json:"time"`
	Temperature    float64      `json:"temperature"`
	ActiveVariants string       `json:"activeVariants"`
	BoundaryForces [][3]float64 `json:"boundaryForces,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server fans Stats out to every connected client. Writes to a connection
// are serialized with a per-connection mutex; a failed write drops the
// client.
type Server struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewServer() *Server {
	return &Server{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// Handler serves the websocket endpoint.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("websocket upgrade error:", err)
			return
		}
		defer conn.Close()

		s.mu.Lock()
		s.clients[conn] = &sync.Mutex{}
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
		}()

		// Drain control frames until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// Publish sends st to every connected client.
func (s *Server) Publish(st Stats) {
	s.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for c, m := range s.clients {
		conns[c] = m
	}
	s.mu.RUnlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteJSON(st)
		mu.Unlock()
		if err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}

// ClientCount reports the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ListenAndServe mounts the handler at /ws and blocks.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	log.Printf("monitor listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
