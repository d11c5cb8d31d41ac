// Package services implements the sync coordinator: the façade every
// trip-facing operation goes through. Per operation it decides whether to
// hit the remote store or serve/queue locally, owns optimistic local
// identifiers, and replays the pending-action queue once connectivity
// returns.
//
// This file centralizes the coordinator's sentinel errors so callers can
// match them with errors.Is and translate them into user-facing messages.
package services

import "errors"

var (
	// ErrAuthRequired is returned when no authenticated identity is
	// available for an operation that writes on the user's behalf.
	ErrAuthRequired = errors.New("please sign in to continue")

	// ErrTripNotFound indicates the requested trip does not exist (or the
	// invite code matches nothing).
	ErrTripNotFound = errors.New("trip not found")

	// ErrItemNotFound indicates the target itinerary item no longer exists
	// on the remote store.
	ErrItemNotFound = errors.New("itinerary item not found")

	// ErrNoSnapshot is returned when an offline update is attempted without
	// a caller-supplied base snapshot. This is a contract violation by the
	// caller, not a runtime condition.
	ErrNoSnapshot = errors.New("unable to update offline without cached data")

	// ErrTripCreateFailed is returned after every create attempt was
	// rejected, typically from repeated invite-code collisions.
	ErrTripCreateFailed = errors.New("unable to create trip")
)
