package hub

import (
	"encoding/json"
	"sync"

	"github.com/Raj72620/meet-relay/pkg/log"
)

// Hub tracks live WebSocket clients by connection id and delivers outbound
// frames to them. It is delivery-only: room membership lives in the
// directory, so the hub never decides who a message is for.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	l := log.L()
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				client.Conn.Close()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l.Info().Str(log.FieldConnID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l.Info().Str(log.FieldConnID, client.ID).Msg("client unregistered")
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Stop shuts the hub down and closes every client connection.
func (h *Hub) Stop() {
	close(h.quit)
}

// Send marshals a message and enqueues it for one connection. Unknown
// connection ids are dropped without error; a client whose send buffer is
// full is considered dead and torn down.
func (h *Hub) Send(connID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// The read lock is held across the enqueue: the run loop closes
	// client.Send under the write lock, so a send can never race the
	// close. The send itself cannot block, it only fills a buffer.
	h.mu.RLock()
	client, ok := h.clients[connID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}

	var full bool
	select {
	case client.Send <- data:
	default:
		full = true
	}
	h.mu.RUnlock()

	if full {
		log.L().Warn().Str(log.FieldConnID, connID).Msg("send buffer full, dropping client")
		go h.Unregister(client)
	}
	return nil
}

// CloseConn force-closes the transport of one connection. The client's
// read pump observes the close and runs the normal disconnect path.
func (h *Hub) CloseConn(connID string) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if ok {
		client.Conn.Close()
	}
}
