package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/pucsync/internal/models"
)

// Snapshot keys for the operator panels. Both are advisory display state,
// re-derivable from the live model.
const (
	snapLatestScraped = "latest_scraped"
	snapLatestSaved   = "latest_saved"
)

// TotalSynced returns the count of records confirmed delivered.
func (db *DB) TotalSynced() (int64, error) {
	var total int64
	err := db.conn.QueryRow(`SELECT total_synced FROM sync_status WHERE id = 1`).Scan(&total)
	return total, err
}

// IncrementTotalSynced bumps the delivered counter and returns the new total.
func (db *DB) IncrementTotalSynced() (int64, error) {
	var total int64
	err := db.conn.QueryRow(`
		UPDATE sync_status SET total_synced = total_synced + 1 WHERE id = 1
		RETURNING total_synced`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("increment total synced: %w", err)
	}
	return total, nil
}

// SetLatestScraped records the most recently merged record for display.
func (db *DB) SetLatestScraped(m models.MergedRecord) error {
	return db.setSnapshot(snapLatestScraped, m)
}

// LatestScraped returns the most recently merged record, or nil if none.
func (db *DB) LatestScraped() (*models.MergedRecord, error) {
	var m models.MergedRecord
	ok, err := db.getSnapshot(snapLatestScraped, &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// SetLatestSaved records the last successfully delivered record for display.
func (db *DB) SetLatestSaved(rec models.SubmissionRecord) error {
	return db.setSnapshot(snapLatestSaved, rec)
}

// LatestSaved returns the last successfully delivered record, or nil if none.
func (db *DB) LatestSaved() (*models.SubmissionRecord, error) {
	var rec models.SubmissionRecord
	ok, err := db.getSnapshot(snapLatestSaved, &rec)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}

func (db *DB) setSnapshot(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("set snapshot %s: %w", key, err)
	}
	return nil
}

func (db *DB) getSnapshot(key string, v any) (bool, error) {
	var data string
	err := db.conn.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("parse snapshot %s: %w", key, err)
	}
	return true, nil
}
