package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub fans builder session changes out to the clients watching each session.
type Hub struct {
	builder *service.BuilderService
	logger  *zap.Logger

	sessions   map[uuid.UUID]map[*Client]bool
	seq        map[uuid.UUID]int
	versions   map[uuid.UUID]uint64 // last view version sent per session
	register   chan *Client
	unregister chan *Client
	broadcast  chan *service.View
	done       chan struct{} // closed when Run() exits
	mu         sync.RWMutex
}

// NewHub creates a hub and subscribes it to every change made through builder.
func NewHub(builder *service.BuilderService, logger *zap.Logger) *Hub {
	h := &Hub{
		builder:    builder,
		logger:     logger,
		sessions:   make(map[uuid.UUID]map[*Client]bool),
		seq:        make(map[uuid.UUID]int),
		versions:   make(map[uuid.UUID]uint64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *service.View, 64),
		done:       make(chan struct{}),
	}
	builder.OnChange(h.Publish)
	return h
}

// Run serves registrations and broadcasts until ctx is done, then closes every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.sessions {
				for client := range clients {
					client.Close()
				}
			}
			h.sessions = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.sessions[client.sessionID]
			if !ok {
				clients = make(map[*Client]bool)
				h.sessions[client.sessionID] = clients
			}
			clients[client] = true
			h.mu.Unlock()
			client.logger.Debug("client subscribed")

		case client := <-h.unregister:
			h.remove(client)

		case view := <-h.broadcast:
			h.fanOut(view)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
		delete(h.seq, client.sessionID)
		delete(h.versions, client.sessionID)
	}
	client.Close()
}

func (h *Hub) fanOut(view *service.View) {
	h.mu.Lock()
	clients := h.sessions[view.SessionID]
	if len(clients) == 0 {
		h.mu.Unlock()
		return
	}
	// Listeners run outside the session lock, so views can arrive out of order.
	if last, ok := h.versions[view.SessionID]; ok && view.Version <= last {
		h.mu.Unlock()
		h.logger.Debug("dropped stale state",
			zap.String("session", view.SessionID.String()),
			zap.Uint64("version", view.Version),
			zap.Uint64("last", last),
		)
		return
	}
	h.versions[view.SessionID] = view.Version
	h.seq[view.SessionID]++
	seq := h.seq[view.SessionID]
	targets := make([]*Client, 0, len(clients))
	for client := range clients {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	msg, err := NewMessage(MessageTypeState, view)
	if err != nil {
		h.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	msg.Seq = seq
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal state message", zap.Error(err))
		return
	}

	for _, client := range targets {
		if !client.queue(data) {
			h.remove(client)
		}
	}
}

// Publish queues view for the session's subscribers. It is registered with the
// builder service and is a no-op once the hub has stopped.
func (h *Hub) Publish(view *service.View) {
	select {
	case h.broadcast <- view:
	case <-h.done:
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client, handling the case where the hub has already
// stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribers returns how many clients watch the session.
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
