package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-trip-sync/internal/cache"
	"github.com/tbourn/go-trip-sync/internal/connectivity"
	"github.com/tbourn/go-trip-sync/internal/domain"
	"github.com/tbourn/go-trip-sync/internal/events"
	"github.com/tbourn/go-trip-sync/internal/identity"
	"github.com/tbourn/go-trip-sync/internal/queue"
	"github.com/tbourn/go-trip-sync/internal/remote"
)

// Coordinator routes every read and write through the offline layer: reads
// prefer live data and fall back to the cache, writes either go straight to
// the remote store or are queued durably for later replay.
//
// All collaborators are injected; construct once per process and share. The
// coordinator assumes a single logical flow of operations (no two operations
// race a cache slice), with the exception of Flush, which serializes itself.
type Coordinator struct {
	Remote   remote.Store
	Cache    *cache.Store
	Queue    *queue.Queue
	Oracle   connectivity.Oracle
	Identity identity.Provider
	Bus      *events.Bus
	Log      zerolog.Logger

	// Overridable for deterministic tests.
	now   func() time.Time
	newID func() string

	flushMu sync.Mutex
}

// NewCoordinator wires a coordinator from its collaborators.
func NewCoordinator(rs remote.Store, cs *cache.Store, q *queue.Queue, oracle connectivity.Oracle, ident identity.Provider, bus *events.Bus, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		Remote:   rs,
		Cache:    cs,
		Queue:    q,
		Oracle:   oracle,
		Identity: ident,
		Bus:      bus,
		Log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// serveStale reports whether a remote read failure should be served from the
// cache instead of surfacing: either connectivity dropped mid-call or the
// error is network-shaped. A non-network failure while online signals a real
// server-side problem and propagates.
func (c *Coordinator) serveStale(err error) bool {
	return c.Oracle.Offline() || remote.IsNetworkError(err)
}

// requireUser resolves the authenticated user id, mapping any identity
// failure to ErrAuthRequired.
func (c *Coordinator) requireUser(ctx context.Context) (string, error) {
	id, err := c.Identity.UserID(ctx)
	if err != nil {
		c.Log.Debug().Err(err).Msg("identity unavailable")
		return "", ErrAuthRequired
	}
	return id, nil
}

// Trips returns the user's trips: cache-only while offline, live data (and a
// refreshed cache) otherwise, stale cache on network-shaped failure.
func (c *Coordinator) Trips(ctx context.Context) ([]domain.Trip, error) {
	if c.Oracle.Offline() {
		return c.Cache.Trips(), nil
	}
	trips, err := c.Remote.ListTrips(ctx)
	if err != nil {
		if c.serveStale(err) {
			return c.Cache.Trips(), nil
		}
		return nil, err
	}
	c.Cache.SetTrips(trips)
	return trips, nil
}

// CurrentTrip resolves the active-trip pointer against the trip list. A
// stale or absent pointer falls back to the first trip and the resolution is
// persisted. With no trips at all it returns (nil, nil).
func (c *Coordinator) CurrentTrip(ctx context.Context) (*domain.Trip, error) {
	trips, err := c.Trips(ctx)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, nil
	}
	want := c.Cache.ActiveTripID()
	for i := range trips {
		if trips[i].ID == want {
			t := trips[i]
			return &t, nil
		}
	}
	t := trips[0]
	c.Cache.SetActiveTripID(t.ID)
	return &t, nil
}

// Items returns a trip's itinerary items with the same offline semantics as
// Trips. An empty cache while offline yields an empty list, not an error.
func (c *Coordinator) Items(ctx context.Context, tripID string) ([]domain.ItineraryItem, error) {
	if c.Oracle.Offline() {
		return c.Cache.Items(tripID), nil
	}
	items, err := c.Remote.ListItems(ctx, tripID)
	if err != nil {
		if c.serveStale(err) {
			return c.Cache.Items(tripID), nil
		}
		return nil, err
	}
	c.Cache.SetItems(tripID, items)
	return items, nil
}

// Suggestions returns a trip's place suggestions with the same offline
// semantics as Items.
func (c *Coordinator) Suggestions(ctx context.Context, tripID string) ([]domain.PlaceSuggestion, error) {
	if c.Oracle.Offline() {
		return c.Cache.Suggestions(tripID), nil
	}
	items, err := c.Remote.ListSuggestions(ctx, tripID)
	if err != nil {
		if c.serveStale(err) {
			return c.Cache.Suggestions(tripID), nil
		}
		return nil, err
	}
	c.Cache.SetSuggestions(tripID, items)
	return items, nil
}
