package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Publisher broadcasts catalog events. Publish never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Hub fans events out to every currently connected subscriber. Delivery is
// best effort: a subscriber whose buffer is full misses the event, and nothing
// is replayed to subscribers that connect later.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	logger zerolog.Logger
}

type subscription struct {
	ch chan Event
}

// Ensure Hub implements Publisher
var _ Publisher = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &subscription{ch: make(chan Event, buffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			close(sub.ch)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish delivers event to every subscriber without blocking.
func (h *Hub) Publish(ctx context.Context, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}

	h.logger.Debug().
		Str("event", string(event.Kind)).
		Uint("product_id", event.Data.ID).
		Int("subscribers", len(h.subs)).
		Int("dropped", dropped).
		Msg("catalog event published")
}
