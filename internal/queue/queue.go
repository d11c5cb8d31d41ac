// Package queue persists the ordered log of not-yet-confirmed mutations.
//
// The queue lives in the local cache store under a dedicated key. Enqueue
// appends to the end; nothing reorders entries except ReplaceAll, which the
// reconciler uses to persist the unflushed suffix after a partial flush.
// Access is sequential by design (single logical flow), so the
// read-modify-write pattern here needs no locking.
package queue

import (
	"github.com/tbourn/go-trip-sync/internal/cache"
	"github.com/tbourn/go-trip-sync/internal/domain"
)

// Queue is the durable pending-action log.
type Queue struct {
	store *cache.Store
}

// New returns a queue backed by the given cache store.
func New(store *cache.Store) *Queue {
	return &Queue{store: store}
}

// List returns the queued actions in insertion order.
func (q *Queue) List() []domain.PendingAction {
	var out []domain.PendingAction
	if !q.store.Get(cache.PendingActionsKey, &out) {
		return nil
	}
	return out
}

// Len returns the number of queued actions.
func (q *Queue) Len() int { return len(q.List()) }

// Enqueue appends an action to the end of the queue.
func (q *Queue) Enqueue(a domain.PendingAction) {
	q.store.Put(cache.PendingActionsKey, append(q.List(), a))
}

// Remove deletes the action with the given queue-entry id, keeping order.
func (q *Queue) Remove(actionID string) {
	current := q.List()
	kept := current[:0]
	for _, a := range current {
		if a.ID != actionID {
			kept = append(kept, a)
		}
	}
	q.store.Put(cache.PendingActionsKey, kept)
}

// ReplaceAll overwrites the queue with the given ordered list.
func (q *Queue) ReplaceAll(actions []domain.PendingAction) {
	if actions == nil {
		actions = []domain.PendingAction{}
	}
	q.store.Put(cache.PendingActionsKey, actions)
}
