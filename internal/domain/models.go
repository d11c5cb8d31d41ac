// Package domain defines the entities shared between the local cache and the
// remote trip store: trips, memberships, itinerary items, and place
// suggestions, plus the pending-action log the reconciler replays.
//
// All JSON tags use the wire schema's snake_case field names so that cached
// snapshots and remote rows round-trip byte-compatibly.
package domain

import (
	"strings"
	"time"
)

// LocalIDPrefix marks client-generated placeholder identifiers assigned to
// records created while offline. Placeholder ids live in their own namespace
// and are replaced in place once the remote store confirms the record.
const LocalIDPrefix = "local-"

// IsLocalID reports whether id is a placeholder awaiting confirmation.
func IsLocalID(id string) bool { return strings.HasPrefix(id, LocalIDPrefix) }

// Membership roles within a trip.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Trip is a shared planning space identified by a human-shareable invite code.
//
// Fields:
//   - ID: server-assigned identifier (UUID string).
//   - Name: display name, the only locally mutable field.
//   - Code: short join token, globally unique, generated client-side.
//   - CreatedAt: server-assigned creation timestamp.
type Trip struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// TripMember links a user to a trip with a role. The remote store enforces
// uniqueness on (trip_id, user_id), which makes member upserts idempotent.
type TripMember struct {
	TripID string `json:"trip_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// ItineraryItem is a scheduled or unscheduled planned activity within a trip.
// ID is either a server identifier or a local placeholder (see LocalIDPrefix).
type ItineraryItem struct {
	ID        string     `json:"id"`
	TripID    string     `json:"trip_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Notes     *string    `json:"notes"`
	StartTime *time.Time `json:"start_time"`
	Done      bool       `json:"done"`
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	PlaceName *string    `json:"place_name,omitempty"`
	PlaceID   *string    `json:"place_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PlaceSuggestion is an unscheduled candidate activity proposed for a trip.
// Same ownership and placeholder-identifier rules as ItineraryItem.
type PlaceSuggestion struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Notes     *string   `json:"notes"`
	Lat       *float64  `json:"lat"`
	Lng       *float64  `json:"lng"`
	PlaceName *string   `json:"place_name,omitempty"`
	PlaceID   *string   `json:"place_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ItineraryItemDraft is the payload for creating an itinerary item. The
// server (or the offline path) supplies id and timestamps.
type ItineraryItemDraft struct {
	TripID    string     `json:"trip_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Notes     *string    `json:"notes,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Done      bool       `json:"done"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
	PlaceName *string    `json:"place_name,omitempty"`
	PlaceID   *string    `json:"place_id,omitempty"`
}

// Materialize builds the provisional record returned to the caller when the
// item is created offline. id is a placeholder identifier and now stamps both
// timestamps.
func (d ItineraryItemDraft) Materialize(id string, now time.Time) ItineraryItem {
	return ItineraryItem{
		ID:        id,
		TripID:    d.TripID,
		Type:      d.Type,
		Title:     d.Title,
		Notes:     d.Notes,
		StartTime: d.StartTime,
		Done:      d.Done,
		Lat:       d.Lat,
		Lng:       d.Lng,
		PlaceName: d.PlaceName,
		PlaceID:   d.PlaceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SuggestionDraft is the payload for creating a place suggestion.
type SuggestionDraft struct {
	TripID    string   `json:"trip_id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Notes     *string  `json:"notes,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	PlaceName *string  `json:"place_name,omitempty"`
	PlaceID   *string  `json:"place_id,omitempty"`
}

// Materialize builds the provisional suggestion for the offline create path.
func (d SuggestionDraft) Materialize(id string, now time.Time) PlaceSuggestion {
	return PlaceSuggestion{
		ID:        id,
		TripID:    d.TripID,
		Type:      d.Type,
		Title:     d.Title,
		Notes:     d.Notes,
		Lat:       d.Lat,
		Lng:       d.Lng,
		PlaceName: d.PlaceName,
		PlaceID:   d.PlaceID,
		CreatedAt: now,
	}
}

// ItineraryItemUpdate is a partial update. Nil fields are left unchanged.
type ItineraryItemUpdate struct {
	Type      *string    `json:"type,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Done      *bool      `json:"done,omitempty"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
	PlaceName *string    `json:"place_name,omitempty"`
	PlaceID   *string    `json:"place_id,omitempty"`
}

// Apply merges the update into a base snapshot and stamps UpdatedAt.
// The base value is copied; the snapshot itself is not mutated.
func (u ItineraryItemUpdate) Apply(base ItineraryItem, updatedAt time.Time) ItineraryItem {
	out := base
	if u.Type != nil {
		out.Type = *u.Type
	}
	if u.Title != nil {
		out.Title = *u.Title
	}
	if u.Notes != nil {
		out.Notes = u.Notes
	}
	if u.StartTime != nil {
		out.StartTime = u.StartTime
	}
	if u.Done != nil {
		out.Done = *u.Done
	}
	if u.Lat != nil {
		out.Lat = u.Lat
	}
	if u.Lng != nil {
		out.Lng = u.Lng
	}
	if u.PlaceName != nil {
		out.PlaceName = u.PlaceName
	}
	if u.PlaceID != nil {
		out.PlaceID = u.PlaceID
	}
	out.UpdatedAt = updatedAt
	return out
}
