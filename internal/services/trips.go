package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-trip-sync/internal/domain"
	"github.com/tbourn/go-trip-sync/internal/remote"
	"github.com/tbourn/go-trip-sync/internal/utils"
)

// createTripAttempts bounds invite-code collision retries.
const createTripAttempts = 5

// CreateTrip creates a trip with a freshly generated invite code, retrying
// with a new code on any insert failure (code collisions included). On
// success it records an owner membership, re-fetches the canonical row, sets
// the active-trip pointer, and caches the trip.
//
// Requires an authenticated user; fails fast with ErrAuthRequired otherwise.
// After exhausting all attempts it returns ErrTripCreateFailed wrapping the
// last store message.
func (c *Coordinator) CreateTrip(ctx context.Context, name string) (*domain.Trip, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < createTripAttempts; attempt++ {
		id := c.newID()
		code := utils.GenerateTripCode()

		if err := c.Remote.InsertTrip(ctx, domain.Trip{ID: id, Name: name, Code: code}); err != nil {
			lastErr = err
			continue
		}
		if err := c.Remote.InsertMember(ctx, domain.TripMember{TripID: id, UserID: userID, Role: domain.RoleOwner}); err != nil {
			lastErr = err
			continue
		}
		trip, err := c.Remote.GetTrip(ctx, id)
		if err != nil {
			lastErr = err
			continue
		}

		c.Cache.UpsertTrip(*trip)
		c.Cache.SetActiveTripID(trip.ID)
		return trip, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrTripCreateFailed, lastErr)
	}
	return nil, ErrTripCreateFailed
}

// JoinTrip adds the current user to the trip matching code. The membership
// upsert is keyed by (trip, user), so joining twice is harmless. On success
// the joined trip becomes the active trip.
func (c *Coordinator) JoinTrip(ctx context.Context, code string) (*domain.Trip, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	code = utils.NormalizeTripCode(code)
	trip, err := c.Remote.GetTripByCode(ctx, code)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if err := c.Remote.UpsertMember(ctx, domain.TripMember{TripID: trip.ID, UserID: userID, Role: domain.RoleMember}); err != nil {
		return nil, err
	}

	c.Cache.UpsertTrip(*trip)
	c.Cache.SetActiveTripID(trip.ID)
	return trip, nil
}

// UpdateTripName renames a trip. Online-only: a missing row surfaces as
// ErrTripNotFound, never queues.
func (c *Coordinator) UpdateTripName(ctx context.Context, id, name string) (*domain.Trip, error) {
	trip, err := c.Remote.UpdateTripName(ctx, id, name)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	c.Cache.UpsertTrip(*trip)
	return trip, nil
}
