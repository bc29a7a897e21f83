// Package feed pushes entity-store mutations to connected UI surfaces over
// WebSocket. The hub is wired as a state observer: every completed mutation
// becomes one broadcast message, so kiosk screens and phones render the
// optimistic record, its reconciliation, and any rollback in order.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hearthhq/hearth/internal/state"
)

// Message is the change notification sent to every connected client.
// OldID is present when an optimistic id was swapped for the authoritative
// one, so clients can re-key the record they already rendered.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
	OldID  string `json:"old_id,omitempty"`
}

func messageFromEvent(ev state.Event) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", ev.Entity, ev.Action),
		Entity: ev.Entity,
		Action: string(ev.Action),
		ID:     ev.ID,
		OldID:  ev.OldID,
	}
}

// Hub maintains the set of active WebSocket clients and fans out change
// messages to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Observe is a state.Observer; subscribe it with State.SubscribeAll.
func (h *Hub) Observe(ev state.Event) {
	h.broadcast(messageFromEvent(ev))
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
