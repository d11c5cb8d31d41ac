package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-trip-sync/internal/connectivity"
	"github.com/tbourn/go-trip-sync/internal/domain"
	"github.com/tbourn/go-trip-sync/internal/observability"
	"github.com/tbourn/go-trip-sync/internal/remote"
)

var tracer = otel.Tracer("github.com/tbourn/go-trip-sync/internal/services")

// FlushResult reports one reconciler pass over the pending-action queue.
type FlushResult struct {
	Flushed   int
	Remaining int
}

// Flush replays the pending-action queue against the remote store, in order,
// one in-flight call at a time.
//
// Failure policy is asymmetric, and is the central correctness property of
// the engine: a network-shaped failure (or going offline mid-pass) pauses
// the pass and persists this entry plus everything after it for the next
// attempt, while a non-network rejection drops only the offending action
// (warn-logged) and continues, so one unprocessable action can never starve
// the rest of the queue. Context cancellation pauses like a network failure.
//
// While offline, Flush does nothing and reports the untouched queue length.
// When at least one action was flushed, the completion signal is broadcast.
// Passes serialize on an internal mutex; callers may invoke Flush freely.
func (c *Coordinator) Flush(ctx context.Context) FlushResult {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	ctx, span := tracer.Start(ctx, "sync.flush")
	defer span.End()
	observability.FlushRuns.Inc()

	if c.Oracle.Offline() {
		remaining := c.Queue.Len()
		span.SetAttributes(attribute.Int("sync.remaining", remaining))
		return FlushResult{Remaining: remaining}
	}

	pending := c.Queue.List()
	if len(pending) == 0 {
		return FlushResult{}
	}

	flushed := 0
	remaining := 0
	for i := 0; i < len(pending); i++ {
		action := pending[i]

		err := c.replay(ctx, action)
		if err == nil {
			c.Queue.Remove(action.ID)
			flushed++
			observability.ActionsFlushed.Inc()
			continue
		}

		if c.shouldPause(ctx, err) {
			rest := pending[i:]
			c.Queue.ReplaceAll(rest)
			remaining = len(rest)
			observability.ActionsRequeued.Add(float64(remaining))
			c.Log.Info().Err(err).Int("remaining", remaining).Msg("flush paused, queue preserved")
			break
		}

		// Permanently rejected by the store; do not block the queue on it.
		c.Log.Warn().Err(err).
			Str("action_id", action.ID).
			Str("action_type", string(action.Type)).
			Msg("offline sync failed, dropping action")
		c.Queue.Remove(action.ID)
		observability.ActionsDropped.Inc()
	}

	observability.PendingActions.Set(float64(remaining))
	span.SetAttributes(
		attribute.Int("sync.flushed", flushed),
		attribute.Int("sync.remaining", remaining),
	)

	if flushed > 0 && c.Bus != nil {
		c.Bus.Publish()
	}
	return FlushResult{Flushed: flushed, Remaining: remaining}
}

// shouldPause decides whether a replay failure preserves the queue suffix.
func (c *Coordinator) shouldPause(ctx context.Context, err error) bool {
	if c.Oracle.Offline() || remote.IsNetworkError(err) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil
}

// replay dispatches one queued action to the matching remote write and
// reconciles the cache with the confirmed row.
func (c *Coordinator) replay(ctx context.Context, a domain.PendingAction) error {
	if err := a.Validate(); err != nil {
		return err
	}

	switch a.Type {
	case domain.ActionCreateItineraryItem:
		created, err := c.Remote.InsertItem(ctx, *a.Item)
		if err != nil {
			return err
		}
		// Positional replace: the placeholder keeps its slot in the list
		// the user is already looking at.
		c.Cache.ReplaceItem(created.TripID, a.LocalID, *created)
		return nil

	case domain.ActionUpdateItineraryItem:
		updated, err := c.Remote.UpdateItem(ctx, a.TargetID, *a.Updates)
		if errors.Is(err, remote.ErrNotFound) {
			// Target row vanished; nothing left to reconcile.
			return nil
		}
		if err != nil {
			return err
		}
		c.Cache.PatchItem(updated.TripID, a.TargetID, *a.Updates, updated.UpdatedAt)
		return nil

	case domain.ActionCreateSuggestion:
		created, err := c.Remote.InsertSuggestion(ctx, *a.Suggestion)
		if err != nil {
			return err
		}
		c.Cache.ReplaceSuggestion(created.TripID, a.LocalID, *created)
		return nil
	}

	return fmt.Errorf("action %s: unknown type %q", a.ID, a.Type)
}

// StartAutoFlush replays the queue whenever the connectivity flag reports
// restoration, plus once immediately if already online. The returned stop
// function unsubscribes.
func (c *Coordinator) StartAutoFlush(ctx context.Context, flag *connectivity.Flag) (stop func()) {
	cancel := flag.Subscribe(func() {
		res := c.Flush(ctx)
		c.Log.Debug().Int("flushed", res.Flushed).Int("remaining", res.Remaining).Msg("connectivity restored, flushed queue")
	})
	if !flag.Offline() {
		c.Flush(ctx)
	}
	return cancel
}
