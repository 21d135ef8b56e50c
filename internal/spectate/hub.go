// internal/spectate/hub.go
package spectate

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many lines a spectator may fall behind before it is
// dropped.
const subscriberBuffer = 64

// Hub fans public game lines out to spectators. Publish never blocks the
// dealer.
type Hub struct {
	mu       sync.Mutex
	subs     map[chan string]struct{}
	closed   bool
	snapshot func() any
	log      *logrus.Entry
}

// NewHub creates a hub. snapshot returns the state sent to each spectator
// when it joins.
func NewHub(snapshot func() any, logger *logrus.Logger) *Hub {
	return &Hub{
		subs:     make(map[chan string]struct{}),
		snapshot: snapshot,
		log:      logger.WithField("component", "spectate"),
	}
}

// Publish queues line for every spectator.
func (h *Hub) Publish(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for ch := range h.subs {
		select {
		case ch <- line:
		default:
			h.log.Warn("spectator too slow, dropping")
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Close ends every feed. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// Subscribers returns the number of live feeds.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
