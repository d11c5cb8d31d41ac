package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-trip-sync/internal/connectivity"
	"github.com/tbourn/go-trip-sync/internal/domain"
	"github.com/tbourn/go-trip-sync/internal/remote"
)

func createAction(id, localID, title string) domain.PendingAction {
	return domain.PendingAction{
		ID:      id,
		Type:    domain.ActionCreateItineraryItem,
		LocalID: localID,
		Item:    &domain.ItineraryItemDraft{TripID: "t1", Type: "food", Title: title},
	}
}

func queueIDs(c *Coordinator) []string {
	actions := c.Queue.List()
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

func TestFlush_OfflineLeavesQueueUntouched(t *testing.T) {
	rm := &fakeRemote{
		insertItem: func(context.Context, domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			t.Error("remote called while offline")
			return nil, nil
		},
	}
	c := newTestCoordinator(t, rm, connectivity.NewFlag(false))
	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))

	res := c.Flush(context.Background())
	if res.Flushed != 0 || res.Remaining != 2 {
		t.Fatalf("result = %+v, want {0 2}", res)
	}
	if c.Queue.Len() != 2 {
		t.Fatalf("queue length = %d", c.Queue.Len())
	}
}

func TestFlush_EmptyQueue(t *testing.T) {
	published := 0
	c := newTestCoordinator(t, &fakeRemote{}, connectivity.AlwaysOnline{})
	c.Bus.Subscribe(func() { published++ })

	res := c.Flush(context.Background())
	if res.Flushed != 0 || res.Remaining != 0 {
		t.Fatalf("result = %+v", res)
	}
	if published != 0 {
		t.Fatal("empty flush broadcast a completion signal")
	}
}

func TestFlush_ReplaysInQueueOrder(t *testing.T) {
	var sent []string
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			sent = append(sent, draft.Title)
			return &domain.ItineraryItem{ID: "srv-" + draft.Title, TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	c := newTestCoordinator(t, rm, connectivity.AlwaysOnline{})
	published := 0
	c.Bus.Subscribe(func() { published++ })

	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))
	c.Queue.Enqueue(createAction("c", "local-c", "C"))

	res := c.Flush(context.Background())
	if res.Flushed != 3 || res.Remaining != 0 {
		t.Fatalf("result = %+v, want {3 0}", res)
	}
	if len(sent) != 3 || sent[0] != "A" || sent[1] != "B" || sent[2] != "C" {
		t.Fatalf("replay order = %v", sent)
	}
	if c.Queue.Len() != 0 {
		t.Fatalf("queue not drained: %v", queueIDs(c))
	}
	if published != 1 {
		t.Fatalf("completion broadcasts = %d, want 1", published)
	}
}

func TestFlush_NetworkFailurePreservesSuffix(t *testing.T) {
	var sent []string
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			sent = append(sent, draft.Title)
			if draft.Title == "B" && len(sent) == 2 {
				return nil, errors.New("network request failed: dial tcp: no route to host")
			}
			return &domain.ItineraryItem{ID: "srv-" + draft.Title, TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	c := newTestCoordinator(t, rm, connectivity.AlwaysOnline{})
	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))
	c.Queue.Enqueue(createAction("c", "local-c", "C"))

	res := c.Flush(context.Background())
	if res.Flushed != 1 || res.Remaining != 2 {
		t.Fatalf("result = %+v, want {1 2}", res)
	}
	got := queueIDs(c)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("preserved suffix = %v, want [b c]", got)
	}

	// The next pass resumes from B; A is never re-sent.
	res = c.Flush(context.Background())
	if res.Flushed != 2 || res.Remaining != 0 {
		t.Fatalf("second pass result = %+v, want {2 0}", res)
	}
	want := []string{"A", "B", "B", "C"}
	if len(sent) != len(want) {
		t.Fatalf("sent = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Fatalf("sent = %v, want %v", sent, want)
		}
	}
}

func TestFlush_PermanentFailureDropsAndContinues(t *testing.T) {
	var sent []string
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			sent = append(sent, draft.Title)
			if draft.Title == "B" {
				return nil, errors.New("new row violates row-level security policy")
			}
			return &domain.ItineraryItem{ID: "srv-" + draft.Title, TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	c := newTestCoordinator(t, rm, connectivity.AlwaysOnline{})
	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))
	c.Queue.Enqueue(createAction("c", "local-c", "C"))

	res := c.Flush(context.Background())
	if res.Flushed != 2 || res.Remaining != 0 {
		t.Fatalf("result = %+v, want {2 0}", res)
	}
	if c.Queue.Len() != 0 {
		t.Fatalf("queue not drained: %v", queueIDs(c))
	}
	if len(sent) != 3 {
		t.Fatalf("sent = %v, want all three attempted", sent)
	}
}

func TestFlush_ConfirmsPlaceholderInPlace(t *testing.T) {
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			return &domain.ItineraryItem{ID: "srv-9", TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	flag := connectivity.NewFlag(false)
	c := newTestCoordinator(t, rm, flag)
	c.Cache.SetItems("t1", []domain.ItineraryItem{{ID: "existing", TripID: "t1"}})

	if _, err := c.CreateItineraryItem(context.Background(), domain.ItineraryItemDraft{
		TripID: "t1", Type: "food", Title: "Dinner",
	}); err != nil {
		t.Fatalf("CreateItineraryItem: %v", err)
	}

	flag.SetOnline(true)
	res := c.Flush(context.Background())
	if res.Flushed != 1 || res.Remaining != 0 {
		t.Fatalf("result = %+v", res)
	}

	items := c.Cache.Items("t1")
	if len(items) != 2 {
		t.Fatalf("cache = %+v", items)
	}
	if items[0].ID != "srv-9" || items[1].ID != "existing" {
		t.Fatalf("confirmed row not at the placeholder's position: %+v", items)
	}
	for _, it := range items {
		if domain.IsLocalID(it.ID) {
			t.Fatalf("placeholder survived reconciliation: %+v", it)
		}
	}
}

func TestFlush_UpdateTargetVanished(t *testing.T) {
	rm := &fakeRemote{
		updateItem: func(context.Context, string, domain.ItineraryItemUpdate) (*domain.ItineraryItem, error) {
			return nil, remote.ErrNotFound
		},
	}
	c := newTestCoordinator(t, rm, connectivity.AlwaysOnline{})
	c.Queue.Enqueue(domain.PendingAction{
		ID:       "u1",
		Type:     domain.ActionUpdateItineraryItem,
		TargetID: "gone",
		Updates:  &domain.ItineraryItemUpdate{Done: boolPtr(true)},
	})

	res := c.Flush(context.Background())
	if res.Flushed != 1 || res.Remaining != 0 {
		t.Fatalf("result = %+v, want vanished target counted as flushed", res)
	}
	if c.Queue.Len() != 0 {
		t.Fatal("vanished-target update left in queue")
	}
}

func TestFlush_SuggestionReconciliation(t *testing.T) {
	rm := &fakeRemote{
		insertSuggestion: func(_ context.Context, draft domain.SuggestionDraft) (*domain.PlaceSuggestion, error) {
			return &domain.PlaceSuggestion{ID: "srv-s", TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	flag := connectivity.NewFlag(false)
	c := newTestCoordinator(t, rm, flag)

	sug, err := c.CreateSuggestion(context.Background(), domain.SuggestionDraft{
		TripID: "t1", Type: "sight", Title: "Museum",
	})
	if err != nil {
		t.Fatalf("CreateSuggestion: %v", err)
	}

	flag.SetOnline(true)
	if res := c.Flush(context.Background()); res.Flushed != 1 {
		t.Fatalf("result = %+v", res)
	}

	sugs := c.Cache.Suggestions("t1")
	if len(sugs) != 1 || sugs[0].ID != "srv-s" {
		t.Fatalf("cache = %+v", sugs)
	}
	if domain.IsLocalID(sugs[0].ID) {
		t.Fatalf("placeholder %q survived", sug.ID)
	}
}

func TestFlush_CancelledContextPauses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rm := &fakeRemote{
		insertItem: func(ctx context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			cancel()
			return nil, ctx.Err()
		},
	}
	c := newTestCoordinator(t, rm, connectivity.AlwaysOnline{})
	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))

	res := c.Flush(ctx)
	if res.Flushed != 0 || res.Remaining != 2 {
		t.Fatalf("result = %+v, want cancellation to preserve the queue", res)
	}
	if c.Queue.Len() != 2 {
		t.Fatalf("queue length = %d", c.Queue.Len())
	}
}

func TestFlush_GoingOfflineMidPassPauses(t *testing.T) {
	flag := connectivity.NewFlag(true)
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			if draft.Title == "B" {
				flag.SetOnline(false)
				return nil, errors.New("request aborted")
			}
			return &domain.ItineraryItem{ID: "srv-" + draft.Title, TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	c := newTestCoordinator(t, rm, flag)
	c.Queue.Enqueue(createAction("a", "local-a", "A"))
	c.Queue.Enqueue(createAction("b", "local-b", "B"))
	c.Queue.Enqueue(createAction("c", "local-c", "C"))

	res := c.Flush(context.Background())
	if res.Flushed != 1 || res.Remaining != 2 {
		t.Fatalf("result = %+v, want {1 2}", res)
	}
	got := queueIDs(c)
	if len(got) != 2 || got[0] != "b" {
		t.Fatalf("queue = %v", got)
	}
}

func TestFlush_InvalidActionDropped(t *testing.T) {
	c := newTestCoordinator(t, &fakeRemote{}, connectivity.AlwaysOnline{})
	// Create variant without its payload cannot ever replay.
	c.Queue.Enqueue(domain.PendingAction{ID: "bad", Type: domain.ActionCreateItineraryItem})

	res := c.Flush(context.Background())
	if res.Flushed != 0 || res.Remaining != 0 {
		t.Fatalf("result = %+v", res)
	}
	if c.Queue.Len() != 0 {
		t.Fatal("unreplayable action left in queue")
	}
}

func TestStartAutoFlush_FlushesOnRestore(t *testing.T) {
	var sent []string
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			sent = append(sent, draft.Title)
			return &domain.ItineraryItem{ID: "srv-" + draft.Title, TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	flag := connectivity.NewFlag(false)
	c := newTestCoordinator(t, rm, flag)
	stop := c.StartAutoFlush(context.Background(), flag)
	defer stop()

	if _, err := c.CreateItineraryItem(context.Background(), domain.ItineraryItemDraft{
		TripID: "t1", Type: "food", Title: "A",
	}); err != nil {
		t.Fatalf("offline create: %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("flushed before restoration: %v", sent)
	}

	flag.SetOnline(true)
	if len(sent) != 1 || sent[0] != "A" {
		t.Fatalf("restoration did not flush: %v", sent)
	}
	if c.Queue.Len() != 0 {
		t.Fatalf("queue length = %d after auto flush", c.Queue.Len())
	}
}

func TestStartAutoFlush_EagerWhenAlreadyOnline(t *testing.T) {
	flushes := 0
	rm := &fakeRemote{
		insertItem: func(_ context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
			flushes++
			return &domain.ItineraryItem{ID: "srv-1", TripID: draft.TripID, Title: draft.Title}, nil
		},
	}
	flag := connectivity.NewFlag(true)
	c := newTestCoordinator(t, rm, flag)
	c.Queue.Enqueue(createAction("a", "local-a", "A"))

	stop := c.StartAutoFlush(context.Background(), flag)
	defer stop()

	if flushes != 1 {
		t.Fatalf("eager flush attempts = %d, want 1", flushes)
	}
}
