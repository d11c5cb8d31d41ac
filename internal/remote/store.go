// Package remote defines the hosted trip-store collaborator: a networked
// request/response service holding the authoritative trip, membership,
// itinerary-item, and suggestion tables.
//
// Calls fail in one of three shapes: a row-level not-found (ErrNotFound), a
// constraint violation surfaced with the store's message (for example a
// duplicate invite code), or a network-unreachable condition. The sync
// coordinator and reconciler distinguish the last one with IsNetworkError.
package remote

import (
	"context"
	"errors"
	"regexp"

	"github.com/tbourn/go-trip-sync/internal/domain"
)

// ErrNotFound is returned when the target row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the remote data store reached over the network.
type Store interface {
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	GetTripByCode(ctx context.Context, code string) (*domain.Trip, error)
	InsertTrip(ctx context.Context, trip domain.Trip) error
	UpdateTripName(ctx context.Context, id, name string) (*domain.Trip, error)

	InsertMember(ctx context.Context, m domain.TripMember) error
	// UpsertMember inserts or refreshes a membership keyed by
	// (trip_id, user_id); calling it twice is safe.
	UpsertMember(ctx context.Context, m domain.TripMember) error

	ListItems(ctx context.Context, tripID string) ([]domain.ItineraryItem, error)
	InsertItem(ctx context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error)
	UpdateItem(ctx context.Context, id string, updates domain.ItineraryItemUpdate) (*domain.ItineraryItem, error)

	ListSuggestions(ctx context.Context, tripID string) ([]domain.PlaceSuggestion, error)
	InsertSuggestion(ctx context.Context, draft domain.SuggestionDraft) (*domain.PlaceSuggestion, error)
}

// networkPattern classifies an error as network-shaped by sniffing its
// message. Carried over from the web client as-is: it is the system's sole
// classification heuristic and a known fragility (a server error whose
// message happens to contain "network" gets misclassified). Pinned by tests;
// do not "improve" without restructuring the Store error contract.
var networkPattern = regexp.MustCompile(`(?i)fetch|network|offline`)

// IsNetworkError reports whether err looks like a connectivity failure
// rather than a logical rejection by the store.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return networkPattern.MatchString(err.Error())
}
