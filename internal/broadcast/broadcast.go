// Package broadcast fans newly persisted reports out to in-process
// subscribers (the SSE stream endpoint, log watchers in tests).
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
)

type subscriber struct {
	ch          chan *models.DisasterReport
	minSeverity models.Severity
}

type Broadcaster struct {
	subscribers map[uint64]subscriber
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]subscriber),
	}
}

// Subscribe registers a listener for reports at or above minSeverity.
// Pass models.SeverityLow to receive everything.
func (b *Broadcaster) Subscribe(minSeverity models.Severity) (uint64, <-chan *models.DisasterReport) {
	id := b.nextID.Add(1)
	ch := make(chan *models.DisasterReport, 16)

	b.mu.Lock()
	b.subscribers[id] = subscriber{ch: ch, minSeverity: minSeverity}
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish delivers r to every matching subscriber. Slow subscribers
// are skipped rather than blocking the store's write path.
func (b *Broadcaster) Publish(r *models.DisasterReport) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if !r.Severity.AtLeast(sub.minSeverity) {
			continue
		}
		select {
		case sub.ch <- r:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, ending their streams.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
