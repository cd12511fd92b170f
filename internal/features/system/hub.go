package system

import (
	"sync"
	"time"

	"go-analytics/internal/features/dashboard"
)

// Client is a live connection that receives dashboard updates.
type Client interface {
	WriteJSON(v interface{}) error
}

// Subscription is what a client is watching.
type Subscription struct {
	UserID    string
	Dashboard string
	Request   dashboard.RenderRequest
}

// Message is pushed to subscribers after every render.
type Message struct {
	Dashboard  string                 `json:"dashboard"`
	Widgets    []dashboard.WidgetView `json:"widgets,omitempty"`
	Error      string                 `json:"error,omitempty"`
	RenderedAt time.Time              `json:"renderedAt"`
}

type peer struct {
	sub Subscription
	// writes to one connection must not interleave
	mu sync.Mutex
}

// Hub tracks the dashboard subscriptions of connected clients.
type Hub struct {
	mu    sync.RWMutex
	peers map[Client]*peer
}

func NewHub() *Hub {
	return &Hub{peers: make(map[Client]*peer)}
}

// Subscribe registers the client or replaces its subscription.
func (h *Hub) Subscribe(c Client, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.peers[c]; ok {
		p.sub = sub
		return
	}
	h.peers[c] = &peer{sub: sub}
}

func (h *Hub) Unsubscribe(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, c)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Snapshot copies the current subscriptions.
func (h *Hub) Snapshot() map[Client]Subscription {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[Client]Subscription, len(h.peers))
	for c, p := range h.peers {
		out[c] = p.sub
	}
	return out
}

// Send writes msg to a subscribed client. Unknown clients are skipped.
func (h *Hub) Send(c Client, msg Message) error {
	h.mu.RLock()
	p, ok := h.peers[c]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return c.WriteJSON(msg)
}
