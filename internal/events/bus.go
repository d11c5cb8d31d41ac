// Package events carries the process-wide sync-completion broadcast.
// Observers (typically a currently rendered list) subscribe to learn that
// something changed and should be reloaded; the signal carries no payload.
package events

import "sync"

// Bus is a minimal broadcast emitter. Safe for concurrent use.
type Bus struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a cancel function.
func (b *Bus) Subscribe(fn func()) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish invokes every subscriber synchronously.
func (b *Bus) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
