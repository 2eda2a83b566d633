package web

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Zycke/star-mercs/internal/game/session"
)

// Hub fans session events out to every attached feed. It is the Notifier a
// hosted session publishes to; each websocket client holds one feed.
type Hub struct {
	mu     sync.Mutex
	buffer int
	feeds  map[string]*session.Feed
}

// NewHub creates a Hub whose feeds carry the given buffer size.
func NewHub(buffer int) *Hub {
	return &Hub{
		buffer: buffer,
		feeds:  make(map[string]*session.Feed),
	}
}

// Notify delivers the event to every attached feed. Feeds with full buffers
// drop the event rather than blocking.
func (h *Hub) Notify(e session.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, f := range h.feeds {
		f.Notify(e)
	}
}

// Attach creates and registers a new feed for one client.
//
// Postcondition: Returns an open feed with a unique ID.
func (h *Hub) Attach() *session.Feed {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := session.NewFeed(uuid.NewString(), h.buffer)
	h.feeds[f.ID()] = f
	return f
}

// Detach closes and removes the feed with the given ID.
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.feeds[id]; ok {
		f.Close()
		delete(h.feeds, id)
	}
}

// Close closes every attached feed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, f := range h.feeds {
		f.Close()
		delete(h.feeds, id)
	}
}

// ClientCount returns the number of attached feeds.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.feeds)
}
