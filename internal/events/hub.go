package events

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Event types published by the lifecycle engine.
const (
	TypeDocumentTrashed  = "document.trashed"
	TypeDocumentRestored = "document.restored"
	TypeAccountArchived  = "account.archived"
	TypeAccountRestored  = "account.restored"
)

type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Hub fans lifecycle events out to a user's connected sessions. Delivery is
// best-effort; a slow client is dropped rather than blocking a publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Publish sends an event to every session of the given user.
func (h *Hub) Publish(userID uint, eventType string, payload any) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: time.Now().UTC()})
	if err != nil {
		log.WithError(err).WithField("type", eventType).Warn("events: marshal failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			// Buffer full; the client's write pump has stalled.
			go c.conn.Close()
		}
	}
}

// Close tears down every connection, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			close(c.send)
			c.conn.Close()
		}
	}
	h.clients = make(map[uint]map[*Client]struct{})
}
