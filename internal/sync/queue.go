package sync

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/pucsync/internal/models"
)

// InitRetryQueue creates the retry queue table and index if they don't exist.
func InitRetryQueue(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS retry_queue (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			vehicle_no TEXT NOT NULL UNIQUE,
			record     JSON NOT NULL,
			queued_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_retry_queued ON retry_queue(queued_at);
	`)
	if err != nil {
		return fmt.Errorf("init retry queue: %w", err)
	}
	return nil
}

// EnqueueRetry inserts a failed submission into the retry queue within the
// given transaction. A key already queued is left untouched: the oldest
// attempt keeps its queue position. Returns whether a new entry was added.
func EnqueueRetry(tx *sql.Tx, rec models.SubmissionRecord) (bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal retry record: %w", err)
	}

	res, err := tx.Exec(
		`INSERT OR IGNORE INTO retry_queue (vehicle_no, record) VALUES (?, ?)`,
		rec.VehicleNo, string(payload),
	)
	if err != nil {
		return false, fmt.Errorf("enqueue retry %s: %w", rec.VehicleNo, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// RemoveRetry deletes any queued entry for the given vehicle. A missing
// entry is not an error.
func RemoveRetry(tx *sql.Tx, vehicleNo string) error {
	if _, err := tx.Exec(`DELETE FROM retry_queue WHERE vehicle_no = ?`, vehicleNo); err != nil {
		return fmt.Errorf("remove retry %s: %w", vehicleNo, err)
	}
	return nil
}

// DrainRetryQueue empties the live queue into a working batch, oldest first,
// within the given transaction. Once the transaction commits the records
// exist only in the returned batch; entries failing again re-enter the live
// queue through EnqueueRetry's dedup.
func DrainRetryQueue(tx *sql.Tx) ([]models.RetryEntry, error) {
	rows, err := tx.Query(`SELECT id, vehicle_no, record, queued_at FROM retry_queue ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query retry queue: %w", err)
	}
	defer rows.Close()

	var batch []models.RetryEntry
	for rows.Next() {
		var entry models.RetryEntry
		var vehicleNo, payload, ts string
		if err := rows.Scan(&entry.ID, &vehicleNo, &payload, &ts); err != nil {
			return nil, fmt.Errorf("scan retry row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &entry.Record); err != nil {
			return nil, fmt.Errorf("parse retry record %s: %w", vehicleNo, err)
		}
		entry.QueuedAt, err = parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp id=%d: %w", entry.ID, err)
		}
		batch = append(batch, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM retry_queue`); err != nil {
		return nil, fmt.Errorf("clear retry queue: %w", err)
	}
	return batch, nil
}

// CountRetry returns the number of records awaiting a retry pass.
func CountRetry(db *sql.DB) (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM retry_queue`).Scan(&count)
	return count, err
}

// parseTimestamp tries common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999Z07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
