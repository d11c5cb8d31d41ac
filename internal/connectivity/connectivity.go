// Package connectivity reports whether the client currently has network
// access and signals restoration so the reconciler can flush.
//
// Callers re-check the oracle per operation; connectivity can change between
// calls and the oracle never caches its own answer.
package connectivity

import "sync"

// Oracle reports the current offline state.
type Oracle interface {
	// Offline returns true only when a connectivity signal is present and
	// reports no network. Contexts without a signal are treated as online.
	Offline() bool
}

// AlwaysOnline is the oracle for non-interactive contexts that have no
// connectivity signal of their own.
type AlwaysOnline struct{}

// Offline always returns false.
func (AlwaysOnline) Offline() bool { return false }

// Flag is a settable oracle fed by the embedding application's connectivity
// signal. Subscribers are notified on each offline-to-online transition.
type Flag struct {
	mu      sync.Mutex
	offline bool
	subs    map[int]func()
	next    int
}

// NewFlag returns a flag with the given initial state.
func NewFlag(online bool) *Flag {
	return &Flag{offline: !online, subs: make(map[int]func())}
}

// Offline reports the current state.
func (f *Flag) Offline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offline
}

// SetOnline records the new state. Moving from offline to online invokes all
// subscribers synchronously, in the caller's flow.
func (f *Flag) SetOnline(online bool) {
	f.mu.Lock()
	wasOffline := f.offline
	f.offline = !online
	var notify []func()
	if wasOffline && online {
		notify = make([]func(), 0, len(f.subs))
		for _, fn := range f.subs {
			notify = append(notify, fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range notify {
		fn()
	}
}

// Subscribe registers fn for offline-to-online transitions and returns a
// cancel function.
func (f *Flag) Subscribe(fn func()) (cancel func()) {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}
