// Package notify implements the refresh-notification hub: a
// process-wide publish/subscribe channel broadcast after vote writes so
// result views can re-read changed events. The hub is injected into the
// write path explicitly; there is no ambient global state.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-radar/internal/ports"
)

var _ ports.RefreshPublisher = (*Hub)(nil)

// Hub fans refresh notifications out to subscribers. Publishing never
// blocks the write path: a subscriber whose buffer is full misses the
// signal, and a rate limiter coalesces bursts of writes into a bounded
// notification stream. Subscribers own their own lifecycle through the
// cancel function returned by Subscribe.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan ports.RefreshEvent
	nextID  int
	limiter *rate.Limiter
	logger  *zap.Logger
	dropped int
}

// NewHub creates a hub that forwards at most limit notifications per
// second with the given burst. A nil logger disables logging.
func NewHub(limit rate.Limit, burst int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[int]chan ports.RefreshEvent),
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Subscribe registers a new subscriber with the given channel buffer
// and returns the receive channel plus a cancel function. Cancelling
// closes the channel; subscribers must not close it themselves.
func (h *Hub) Subscribe(buffer int) (<-chan ports.RefreshEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan ports.RefreshEvent, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish implements ports.RefreshPublisher. Signals beyond the rate
// limit or beyond a subscriber's buffer are dropped, never queued, so
// the engine's write path cannot stall on slow consumers.
func (h *Hub) Publish(ctx context.Context, event ports.RefreshEvent) {
	if !h.limiter.Allow() {
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.dropped++
			h.logger.Debug("dropped refresh notification for slow subscriber",
				zap.String("event_id", event.EventID),
				zap.String("reason", event.Reason))
		}
	}
}

// Dropped returns the number of notifications discarded so far, either
// by the rate limiter or by full subscriber buffers.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
