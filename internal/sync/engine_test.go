package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/pucsync/internal/backend"
	"github.com/example/pucsync/internal/db"
	"github.com/example/pucsync/internal/models"
)

// chanNotifier records notifications on a channel so tests can wait for the
// fire-and-forget dispatch.
type chanNotifier struct {
	titles chan string
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{titles: make(chan string, 16)}
}

func (n *chanNotifier) Notify(title, message string) {
	n.titles <- title
}

func (n *chanNotifier) wait(t *testing.T) string {
	t.Helper()
	select {
	case title := <-n.titles:
		return title
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return ""
	}
}

func setupEngine(t *testing.T, handler http.HandlerFunc) (*Engine, *db.DB, *chanNotifier) {
	t.Helper()

	database, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	notifier := newChanNotifier()
	engine, err := NewEngine(database, backend.New(srv.URL), notifier)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, database, notifier
}

func TestSubmit_Success(t *testing.T) {
	var hits atomic.Int64
	engine, database, notifier := setupEngine(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"saved":true}`))
	})

	rec := makeRecord("MH12AB1234", "9876543210")
	if err := engine.Submit(rec); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("backend hits: got %d, want 1", got)
	}

	total, err := database.TotalSynced()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 1 {
		t.Errorf("total synced: got %d, want 1", total)
	}

	saved, err := database.LatestSaved()
	if err != nil {
		t.Fatalf("latest saved: %v", err)
	}
	if saved == nil || saved.VehicleNo != "MH12AB1234" {
		t.Errorf("latest saved: %+v", saved)
	}

	depth, err := engine.QueueDepth()
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("queue depth: got %d, want 0", depth)
	}

	if title := notifier.wait(t); title != "Data Saved" {
		t.Errorf("notification: got %q", title)
	}
}

func TestSubmit_FailureQueuesForRetry(t *testing.T) {
	engine, database, notifier := setupEngine(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	rec := makeRecord("MH12AB1234", "9876543210")
	if err := engine.Submit(rec); err == nil {
		t.Fatal("expected delivery failure")
	}

	depth, err := engine.QueueDepth()
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if depth != 1 {
		t.Fatalf("queue depth: got %d, want 1", depth)
	}

	// Second failure for the same key does not grow the queue.
	if err := engine.Submit(rec); err == nil {
		t.Fatal("expected delivery failure")
	}
	depth, _ = engine.QueueDepth()
	if depth != 1 {
		t.Fatalf("queue depth after dup: got %d, want 1", depth)
	}

	total, err := database.TotalSynced()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Errorf("total synced: got %d, want 0", total)
	}

	if title := notifier.wait(t); title != "Save Failed" {
		t.Errorf("notification: got %q", title)
	}
}

func TestSubmit_MissingMobileRejectedBeforeNetwork(t *testing.T) {
	var hits atomic.Int64
	engine, _, notifier := setupEngine(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	cases := []*string{nil, ptr(""), ptr("   ")}
	for _, mobile := range cases {
		rec := models.SubmissionRecord{VehicleNo: "MH12AB1234", Mobile: mobile}
		err := engine.Submit(rec)
		if !errors.Is(err, ErrMissingMobile) {
			t.Fatalf("mobile=%v: got err %v, want ErrMissingMobile", mobile, err)
		}
		if title := notifier.wait(t); title != "Save Failed" {
			t.Errorf("notification: got %q", title)
		}
	}

	if got := hits.Load(); got != 0 {
		t.Errorf("backend hits: got %d, want 0", got)
	}

	// Not submission-ready, so never queued.
	depth, err := engine.QueueDepth()
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("queue depth: got %d, want 0", depth)
	}
}

func TestDrainThenResubmit(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	engine, database, _ := setupEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"saved":true}`))
	})

	rec := makeRecord("MH12AB1234", "9876543210")
	if err := engine.Submit(rec); err == nil {
		t.Fatal("expected failure while backend down")
	}

	batch, err := engine.drain()
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch: got %d, want 1", len(batch))
	}
	if depth, _ := engine.QueueDepth(); depth != 0 {
		t.Fatalf("queue depth after drain: got %d, want 0", depth)
	}

	// Backend recovers; the batched record delivers and the counter moves
	// by exactly one.
	fail.Store(false)
	if err := engine.Submit(batch[0].Record); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	total, err := database.TotalSynced()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 1 {
		t.Fatalf("total synced: got %d, want 1", total)
	}
	if depth, _ := engine.QueueDepth(); depth != 0 {
		t.Fatalf("queue depth after success: got %d, want 0", depth)
	}
}

func TestRunRetryLoop_RetriesUntilDelivered(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var delivered atomic.Int64
	engine, _, _ := setupEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		delivered.Add(1)
		w.Write([]byte(`{}`))
	})
	engine.SetIntervals(10*time.Millisecond, 10*time.Millisecond)

	if err := engine.Submit(makeRecord("MH12AB1234", "9876543210")); err == nil {
		t.Fatal("expected failure while backend down")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		engine.RunRetryLoop(ctx)
		close(done)
	}()

	// Let at least one failing pass happen, then recover the backend.
	time.Sleep(30 * time.Millisecond)
	fail.Store(false)

	deadline := time.After(2 * time.Second)
	for delivered.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("record never delivered by retry loop")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if depth, _ := engine.QueueDepth(); depth != 0 {
		t.Fatalf("queue depth after delivery: got %d, want 0", depth)
	}
}

func ptr(s string) *string { return &s }
