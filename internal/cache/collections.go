package cache

import (
	"time"

	"github.com/tbourn/go-trip-sync/internal/domain"
)

// Logical cache keys. The pending-action queue key is exported because the
// queue package persists through this store under its own dedicated key.
const (
	keyTrips  = "trip:trips"
	keyActive = "trip:active"

	// PendingActionsKey holds the ordered pending-action queue.
	PendingActionsKey = "trip:pending-actions"
)

func itemsKey(tripID string) string       { return "trip:items:" + tripID }
func suggestionsKey(tripID string) string { return "trip:suggestions:" + tripID }

// Trips returns the cached trip list, or nil when absent.
func (s *Store) Trips() []domain.Trip {
	var out []domain.Trip
	if !s.Get(keyTrips, &out) {
		return nil
	}
	return out
}

// SetTrips overwrites the cached trip list.
func (s *Store) SetTrips(trips []domain.Trip) { s.Put(keyTrips, trips) }

// UpsertTrip replaces the cached trip with the same id, or appends it.
func (s *Store) UpsertTrip(t domain.Trip) {
	trips := s.Trips()
	for i := range trips {
		if trips[i].ID == t.ID {
			trips[i] = t
			s.Put(keyTrips, trips)
			return
		}
	}
	s.Put(keyTrips, append(trips, t))
}

// ActiveTripID returns the persisted active-trip pointer, or "".
func (s *Store) ActiveTripID() string {
	var id string
	if !s.Get(keyActive, &id) {
		return ""
	}
	return id
}

// SetActiveTripID persists the active-trip pointer.
func (s *Store) SetActiveTripID(id string) { s.Put(keyActive, id) }

// Items returns the cached itinerary items for a trip, or nil when absent.
func (s *Store) Items(tripID string) []domain.ItineraryItem {
	var out []domain.ItineraryItem
	if !s.Get(itemsKey(tripID), &out) {
		return nil
	}
	return out
}

// SetItems overwrites the cached itinerary list for a trip.
func (s *Store) SetItems(tripID string, items []domain.ItineraryItem) {
	s.Put(itemsKey(tripID), items)
}

// AddItem prepends a new item to its trip's cached list (most recent first).
func (s *Store) AddItem(item domain.ItineraryItem) {
	current := s.Items(item.TripID)
	s.Put(itemsKey(item.TripID), append([]domain.ItineraryItem{item}, current...))
}

// PatchItem merges updates into the cached item with the given id, stamping
// updatedAt. Items keep their list position.
func (s *Store) PatchItem(tripID, id string, updates domain.ItineraryItemUpdate, updatedAt time.Time) {
	items := s.Items(tripID)
	for i := range items {
		if items[i].ID == id {
			items[i] = updates.Apply(items[i], updatedAt)
		}
	}
	s.Put(itemsKey(tripID), items)
}

// ReplaceItem substitutes the cached entry whose id equals matchID with item,
// preserving its position. Used to confirm placeholder records in place.
func (s *Store) ReplaceItem(tripID, matchID string, item domain.ItineraryItem) {
	items := s.Items(tripID)
	for i := range items {
		if items[i].ID == matchID {
			items[i] = item
		}
	}
	s.Put(itemsKey(tripID), items)
}

// Suggestions returns the cached suggestions for a trip, or nil when absent.
func (s *Store) Suggestions(tripID string) []domain.PlaceSuggestion {
	var out []domain.PlaceSuggestion
	if !s.Get(suggestionsKey(tripID), &out) {
		return nil
	}
	return out
}

// SetSuggestions overwrites the cached suggestion list for a trip.
func (s *Store) SetSuggestions(tripID string, items []domain.PlaceSuggestion) {
	s.Put(suggestionsKey(tripID), items)
}

// AddSuggestion prepends a new suggestion to its trip's cached list.
func (s *Store) AddSuggestion(item domain.PlaceSuggestion) {
	current := s.Suggestions(item.TripID)
	s.Put(suggestionsKey(item.TripID), append([]domain.PlaceSuggestion{item}, current...))
}

// ReplaceSuggestion substitutes the cached entry whose id equals matchID,
// preserving its position.
func (s *Store) ReplaceSuggestion(tripID, matchID string, item domain.PlaceSuggestion) {
	current := s.Suggestions(tripID)
	for i := range current {
		if current[i].ID == matchID {
			current[i] = item
		}
	}
	s.Put(suggestionsKey(tripID), current)
}
