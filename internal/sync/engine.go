// Package sync owns the submission lifecycle: single delivery attempts,
// outcome classification, the durable retry queue, and the background
// drain-and-retry scheduler.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/pucsync/internal/backend"
	"github.com/example/pucsync/internal/db"
	"github.com/example/pucsync/internal/models"
	"github.com/example/pucsync/internal/notify"
)

// Scheduler intervals: a long wait while the queue is idle, a shorter one
// after a drain-and-retry pass. There is no backoff growth and no retry cap.
const (
	DefaultIdleInterval  = 15 * time.Minute
	DefaultRetryInterval = 10 * time.Minute
)

// ErrMissingMobile marks a submission refused before any network attempt
// because the record has no contact number. Such records are never queued
// for retry; routing them to the pending store is the caller's job.
var ErrMissingMobile = errors.New("missing mobile number")

// Engine drives record delivery to the backend. All queue and counter state
// lives in the store behind its methods; construct one per process.
type Engine struct {
	db       *db.DB
	client   *backend.Client
	notifier notify.Notifier

	idleInterval  time.Duration
	retryInterval time.Duration
}

// NewEngine creates the sync engine and ensures its retry queue table
// exists. A nil notifier falls back to log-only notifications.
func NewEngine(database *db.DB, client *backend.Client, notifier notify.Notifier) (*Engine, error) {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	if err := InitRetryQueue(database.Conn()); err != nil {
		return nil, err
	}
	return &Engine{
		db:            database,
		client:        client,
		notifier:      notifier,
		idleInterval:  DefaultIdleInterval,
		retryInterval: DefaultRetryInterval,
	}, nil
}

// SetIntervals overrides the scheduler intervals. Zero values keep the
// defaults.
func (e *Engine) SetIntervals(idle, retry time.Duration) {
	if idle > 0 {
		e.idleInterval = idle
	}
	if retry > 0 {
		e.retryInterval = retry
	}
}

// Submit attempts one delivery of a formatted record and applies the outcome:
// success updates the counter and latest-saved snapshot and clears any queued
// entry for the key; failure queues the record for the next retry pass. Both
// outcomes surface a notification. Missing contact number is rejected before
// any network call.
func (e *Engine) Submit(rec models.SubmissionRecord) error {
	if !rec.HasMobile() {
		slog.Warn("submit refused: no mobile", "vehicle", rec.VehicleNo)
		e.notifyAsync("Save Failed", fmt.Sprintf("No mobile number for %s. Complete the record before saving.", rec.VehicleNo))
		return fmt.Errorf("submit %s: %w", rec.VehicleNo, ErrMissingMobile)
	}

	respBody, err := e.client.SubmitRecord(rec)
	if err != nil {
		slog.Warn("submit failed", "vehicle", rec.VehicleNo, "err", err)
		if added, qErr := e.enqueueRetry(rec); qErr != nil {
			slog.Error("enqueue retry", "vehicle", rec.VehicleNo, "err", qErr)
		} else if added {
			slog.Info("queued for retry", "vehicle", rec.VehicleNo)
		}
		e.notifyAsync("Save Failed", fmt.Sprintf("Could not save data for %s. Will retry later.", rec.VehicleNo))
		return fmt.Errorf("submit %s: %w", rec.VehicleNo, err)
	}

	slog.Debug("backend response", "vehicle", rec.VehicleNo, "body", string(respBody))

	// Post-delivery bookkeeping is advisory; a failed write here never
	// turns a delivered record back into a failure.
	if total, err := e.db.IncrementTotalSynced(); err != nil {
		slog.Error("increment synced counter", "err", err)
	} else {
		slog.Info("record synced", "vehicle", rec.VehicleNo, "total", total)
	}
	if err := e.db.SetLatestSaved(rec); err != nil {
		slog.Error("set latest saved", "err", err)
	}
	if err := e.ClearRetry(rec.VehicleNo); err != nil {
		slog.Error("clear retry entry", "vehicle", rec.VehicleNo, "err", err)
	}

	e.notifyAsync("Data Saved", fmt.Sprintf("Vehicle %s pollution details saved.", rec.VehicleNo))
	return nil
}

// SubmitAsync schedules a delivery attempt without blocking the caller.
// The outcome is handled entirely inside Submit.
func (e *Engine) SubmitAsync(rec models.SubmissionRecord) {
	go func() {
		_ = e.Submit(rec)
	}()
}

// ClearRetry removes any queued entry for a vehicle, e.g. when a newer
// submission supersedes an older failed attempt.
func (e *Engine) ClearRetry(vehicleNo string) error {
	tx, err := e.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := RemoveRetry(tx, vehicleNo); err != nil {
		return err
	}
	return tx.Commit()
}

// QueueDepth returns the number of records awaiting retry.
func (e *Engine) QueueDepth() (int64, error) {
	return CountRetry(e.db.Conn())
}

// RunRetryLoop is the perpetual background scheduler. Each pass atomically
// drains the queue into a working batch and re-submits every entry; records
// failing again re-enter the queue via Submit. The loop waits the idle
// interval when the queue was empty and the retry interval otherwise, and
// only exits when ctx is done.
func (e *Engine) RunRetryLoop(ctx context.Context) {
	for {
		wait := e.retryInterval

		batch, err := e.drain()
		switch {
		case err != nil:
			slog.Error("drain retry queue", "err", err)
		case len(batch) == 0:
			slog.Debug("retry queue empty")
			wait = e.idleInterval
		default:
			slog.Info("retry pass", "records", len(batch))
			for _, entry := range batch {
				_ = e.Submit(entry.Record)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (e *Engine) drain() ([]models.RetryEntry, error) {
	tx, err := e.db.Conn().Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	batch, err := DrainRetryQueue(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit drain: %w", err)
	}
	return batch, nil
}

func (e *Engine) enqueueRetry(rec models.SubmissionRecord) (bool, error) {
	tx, err := e.db.Conn().Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	added, err := EnqueueRetry(tx, rec)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit enqueue: %w", err)
	}
	return added, nil
}

// notifyAsync fires a notification without blocking the submission path.
func (e *Engine) notifyAsync(title, message string) {
	go e.notifier.Notify(title, message)
}
