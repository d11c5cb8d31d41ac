package services

import (
	"context"
	"errors"

	"github.com/tbourn/go-trip-sync/internal/domain"
	"github.com/tbourn/go-trip-sync/internal/remote"
)

// CreateItineraryItem creates an item. Online it inserts directly and caches
// the confirmed row. Offline it synthesizes a placeholder record with a
// local- id, queues the create for replay, prepends the provisional record
// to the cache, and returns it immediately; no network call is attempted.
func (c *Coordinator) CreateItineraryItem(ctx context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
	if c.Oracle.Offline() {
		now := c.now()
		localID := domain.LocalIDPrefix + c.newID()
		item := draft.Materialize(localID, now)

		c.Queue.Enqueue(domain.PendingAction{
			ID:        c.newID(),
			Type:      domain.ActionCreateItineraryItem,
			CreatedAt: now,
			LocalID:   localID,
			Item:      &draft,
		})
		c.Cache.AddItem(item)
		return &item, nil
	}

	created, err := c.Remote.InsertItem(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.Cache.AddItem(*created)
	return created, nil
}

// UpdateItineraryItem applies a partial update to the item with the given id
// (real or placeholder).
//
// Offline, the coordinator cannot synthesize an update without base data, so
// the caller must supply its current snapshot of the record; otherwise
// ErrNoSnapshot. The merged record is returned immediately and the update is
// queued keyed by id, placeholder or not; replay resolves it against
// whatever the id is by then.
func (c *Coordinator) UpdateItineraryItem(ctx context.Context, id string, updates domain.ItineraryItemUpdate, current *domain.ItineraryItem) (*domain.ItineraryItem, error) {
	if c.Oracle.Offline() {
		if current == nil {
			return nil, ErrNoSnapshot
		}
		now := c.now()
		merged := updates.Apply(*current, now)

		c.Queue.Enqueue(domain.PendingAction{
			ID:        c.newID(),
			Type:      domain.ActionUpdateItineraryItem,
			CreatedAt: now,
			TargetID:  id,
			Updates:   &updates,
		})
		c.Cache.PatchItem(current.TripID, id, updates, now)
		return &merged, nil
	}

	updated, err := c.Remote.UpdateItem(ctx, id, updates)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	c.Cache.PatchItem(updated.TripID, id, updates, updated.UpdatedAt)
	return updated, nil
}

// CreateSuggestion creates a place suggestion with the same offline
// semantics as CreateItineraryItem.
func (c *Coordinator) CreateSuggestion(ctx context.Context, draft domain.SuggestionDraft) (*domain.PlaceSuggestion, error) {
	if c.Oracle.Offline() {
		now := c.now()
		localID := domain.LocalIDPrefix + c.newID()
		item := draft.Materialize(localID, now)

		c.Queue.Enqueue(domain.PendingAction{
			ID:         c.newID(),
			Type:       domain.ActionCreateSuggestion,
			CreatedAt:  now,
			LocalID:    localID,
			Suggestion: &draft,
		})
		c.Cache.AddSuggestion(item)
		return &item, nil
	}

	created, err := c.Remote.InsertSuggestion(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.Cache.AddSuggestion(*created)
	return created, nil
}
