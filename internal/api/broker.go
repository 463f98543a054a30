package api

import (
	"sync"

	"github.com/statuskit/lspstatus/internal/metrics"
)

// Broker fans a single update signal out to every connected subscriber. It is
// the bridge between the debounced notifier callback and the SSE handlers.
type Broker struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan struct{}]struct{})}
}

// Notify wakes every subscriber. Subscribers that have not drained their
// previous signal are skipped; the channel already carries a pending wake.
func (b *Broker) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its signal channel plus a
// cancel function. The cancel function is safe to call more than once.
func (b *Broker) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	metrics.IncSubscribers()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			metrics.DecSubscribers()
		})
	}
	return ch, cancel
}

// Subscribers reports the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
