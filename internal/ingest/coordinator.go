// Package ingest coordinates the two capture paths: automatic fragment
// merging from the scraping sources, and the explicit manual save workflow.
// Both share the same merge, pending, and retry stores and the same
// completion gate.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/pucsync/internal/db"
	"github.com/example/pucsync/internal/models"
	"github.com/example/pucsync/internal/record"
	"github.com/example/pucsync/internal/sync"
)

// ErrNotFound marks a completion request for a vehicle with no pending
// record.
var ErrNotFound = errors.New("pending record not found")

// Coordinator routes incoming fragments and manual saves between the merge
// store, the pending store, and the sync engine.
type Coordinator struct {
	db     *db.DB
	engine *sync.Engine

	// submit hands a formatted record to the sync engine without blocking
	// the ingestion path. Tests swap in a synchronous hand-off.
	submit func(models.SubmissionRecord)
}

// NewCoordinator creates a coordinator over the shared store and engine.
func NewCoordinator(database *db.DB, engine *sync.Engine) *Coordinator {
	return &Coordinator{
		db:     database,
		engine: engine,
		submit: engine.SubmitAsync,
	}
}

// Synchronous makes submissions block until a delivery attempt finishes.
// One-shot CLI invocations use this so the process does not exit with a
// hand-off still in flight; failures are still queued for retry by the
// engine, so the error does not need to surface here.
func (c *Coordinator) Synchronous() {
	c.submit = func(rec models.SubmissionRecord) { _ = c.engine.Submit(rec) }
}

// Ingest merges one observed fragment and routes the result: complete
// records are formatted and handed to the sync engine, incomplete ones are
// held in the pending store. Fragments without a vehicle number carry no
// actionable information and are dropped silently.
func (c *Coordinator) Ingest(f models.Fragment) error {
	f.VehicleNo = strings.TrimSpace(f.VehicleNo)
	if f.VehicleNo == "" {
		slog.Debug("dropping fragment without vehicle number", "source", f.Source)
		return nil
	}

	merged, err := c.db.MergeFragment(f)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", f.VehicleNo, err)
	}
	slog.Debug("fragment merged", "vehicle", merged.VehicleNo, "source", f.Source)

	if err := c.db.SetLatestScraped(merged); err != nil {
		slog.Error("set latest scraped", "err", err)
	}

	if !record.IsComplete(merged) {
		if err := c.db.UpsertPending(merged, time.Now().UTC()); err != nil {
			return fmt.Errorf("hold pending %s: %w", merged.VehicleNo, err)
		}
		slog.Info("record incomplete, held pending", "vehicle", merged.VehicleNo)
		return nil
	}

	// Complete: the fresh submission supersedes any older queued attempt,
	// so clear the stale retry entry before handing off. After the
	// hand-off the key belongs to the engine, which may have queued its
	// own entry for a failed delivery.
	if err := c.engine.ClearRetry(merged.VehicleNo); err != nil {
		slog.Error("purge stale retry entry", "vehicle", merged.VehicleNo, "err", err)
	}
	c.submit(record.Format(merged))
	if err := c.db.DeleteMerged(merged.VehicleNo); err != nil {
		slog.Error("purge merge entry", "vehicle", merged.VehicleNo, "err", err)
	}
	if err := c.db.DeletePending(merged.VehicleNo); err != nil {
		slog.Error("purge pending entry", "vehicle", merged.VehicleNo, "err", err)
	}
	slog.Info("record complete, submitted", "vehicle", merged.VehicleNo)
	return nil
}

// SavePending holds a record in the pending store without any backend call.
// This is the deliberate path for records missing the mandatory contact
// number. Records without a vehicle number are dropped silently.
func (c *Coordinator) SavePending(m models.MergedRecord) error {
	m.VehicleNo = strings.TrimSpace(m.VehicleNo)
	if m.VehicleNo == "" {
		slog.Debug("dropping pending save without vehicle number")
		return nil
	}
	if err := c.db.UpsertPending(m, time.Now().UTC()); err != nil {
		return fmt.Errorf("save pending %s: %w", m.VehicleNo, err)
	}
	slog.Info("record saved as pending", "vehicle", m.VehicleNo)
	return nil
}

// CompletePending merges a contact number into a held record and hands the
// result to the sync engine. The pending entry is removed at hand-off, not
// at confirmed delivery: a failed delivery is tracked by the retry queue
// from then on.
func (c *Coordinator) CompletePending(vehicleNo, mobile string) error {
	vehicleNo = strings.TrimSpace(vehicleNo)

	pending, err := c.db.GetPending(vehicleNo)
	if err != nil {
		return fmt.Errorf("complete pending %s: %w", vehicleNo, err)
	}
	if pending == nil {
		return fmt.Errorf("complete pending %s: %w", vehicleNo, ErrNotFound)
	}

	merged := pending.MergedRecord
	merged.Mobile = mobile
	rec := record.Format(merged)

	if err := c.db.DeletePending(vehicleNo); err != nil {
		return fmt.Errorf("remove pending %s: %w", vehicleNo, err)
	}
	c.submit(rec)
	slog.Info("pending record completed", "vehicle", vehicleNo)
	return nil
}

// SaveDirect formats and submits a caller-supplied record immediately. On
// successful hand-off the record supersedes any pending placeholder for the
// same key; a record that cannot pass the contact gate is rejected by the
// engine and leaves pending state untouched.
func (c *Coordinator) SaveDirect(m models.MergedRecord) error {
	m.VehicleNo = strings.TrimSpace(m.VehicleNo)
	if m.VehicleNo == "" {
		slog.Debug("dropping direct save without vehicle number")
		return nil
	}

	rec := record.Format(m)
	c.submit(rec)
	if !rec.HasMobile() {
		// The engine will refuse and notify; keep any pending entry so the
		// record can still be completed later.
		return fmt.Errorf("save direct %s: %w", m.VehicleNo, sync.ErrMissingMobile)
	}

	if err := c.db.DeletePending(m.VehicleNo); err != nil {
		slog.Error("purge pending entry", "vehicle", m.VehicleNo, "err", err)
	}
	slog.Info("record saved", "vehicle", m.VehicleNo)
	return nil
}

// GetPending returns the held records, newest capture first.
func (c *Coordinator) GetPending() ([]models.PendingRecord, error) {
	return c.db.ListPending()
}

// LatestSaved returns the last successfully delivered record, or nil.
func (c *Coordinator) LatestSaved() (*models.SubmissionRecord, error) {
	return c.db.LatestSaved()
}

// LatestScraped returns the most recently merged record, or nil.
func (c *Coordinator) LatestScraped() (*models.MergedRecord, error) {
	return c.db.LatestScraped()
}

// Status assembles the operator status snapshot.
func (c *Coordinator) Status() (models.Status, error) {
	var s models.Status
	var err error

	if s.TotalSynced, err = c.db.TotalSynced(); err != nil {
		return s, fmt.Errorf("status: %w", err)
	}
	if s.RetryQueued, err = c.engine.QueueDepth(); err != nil {
		return s, fmt.Errorf("status: %w", err)
	}
	if s.PendingCount, err = c.db.CountPending(); err != nil {
		return s, fmt.Errorf("status: %w", err)
	}
	if s.MergeCount, err = c.db.CountMerged(); err != nil {
		return s, fmt.Errorf("status: %w", err)
	}
	return s, nil
}
