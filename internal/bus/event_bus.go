package bus

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// EventBus is a buffered, single-run event stream. Publish never blocks:
// when the buffer is full the event is dropped, so a slow subscriber can
// never stall the workers producing events.
//
// A nil *EventBus is valid and discards everything.
type EventBus struct {
	ch      chan Event
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func NewEventBus(bufSize int) *EventBus {
	return &EventBus{ch: make(chan Event, bufSize)}
}

// Publish delivers ev if there is room and reports whether it was queued.
func (b *EventBus) Publish(ev Event) bool {
	if b == nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}

	select {
	case b.ch <- ev:
		return true
	default:
		b.dropped.Add(1)
		slog.Warn("Event bus full, dropping event", "type", ev.Type, "run_id", ev.RunID)
		return false
	}
}

// Subscribe returns a receive-only view of the stream. It is closed by Close.
func (b *EventBus) Subscribe() <-chan Event {
	return b.ch
}

// Close ends the stream. Safe to call more than once.
func (b *EventBus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (b *EventBus) Dropped() int64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}
