package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/pucsync/internal/models"
)

// UpsertPending stores a merged snapshot in the pending store, replacing any
// existing entry for the same vehicle. Exactly one pending record exists per
// vehicle at a time.
func (db *DB) UpsertPending(m models.MergedRecord, capturedAt time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO pending_records (vehicle_no, mobile, rate, valid_date, upto_date, captured_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(vehicle_no) DO UPDATE SET
			mobile      = excluded.mobile,
			rate        = excluded.rate,
			valid_date  = excluded.valid_date,
			upto_date   = excluded.upto_date,
			captured_at = excluded.captured_at`,
		m.VehicleNo, m.Mobile, m.Rate, m.ValidDate, m.UptoDate, capturedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert pending %s: %w", m.VehicleNo, err)
	}
	return nil
}

// GetPending returns the pending record for a vehicle, or nil if absent.
func (db *DB) GetPending(vehicleNo string) (*models.PendingRecord, error) {
	row := db.conn.QueryRow(`
		SELECT vehicle_no, mobile, rate, valid_date, upto_date, captured_at
		FROM pending_records WHERE vehicle_no = ?`, vehicleNo)

	p, err := scanPending(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending %s: %w", vehicleNo, err)
	}
	return p, nil
}

// ListPending returns all pending records, newest capture first.
func (db *DB) ListPending() ([]models.PendingRecord, error) {
	rows, err := db.conn.Query(`
		SELECT vehicle_no, mobile, rate, valid_date, upto_date, captured_at
		FROM pending_records ORDER BY captured_at DESC, vehicle_no ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var pending []models.PendingRecord
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		pending = append(pending, *p)
	}
	return pending, rows.Err()
}

// DeletePending removes a vehicle's pending entry. Missing entries are not
// an error.
func (db *DB) DeletePending(vehicleNo string) error {
	_, err := db.conn.Exec(`DELETE FROM pending_records WHERE vehicle_no = ?`, vehicleNo)
	if err != nil {
		return fmt.Errorf("delete pending %s: %w", vehicleNo, err)
	}
	return nil
}

// CountPending returns the number of records awaiting manual completion.
func (db *DB) CountPending() (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM pending_records`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPending(row rowScanner) (*models.PendingRecord, error) {
	var p models.PendingRecord
	var ts string
	if err := row.Scan(&p.VehicleNo, &p.Mobile, &p.Rate, &p.ValidDate, &p.UptoDate, &ts); err != nil {
		return nil, err
	}
	parsed, err := parseTimestamp(ts)
	if err != nil {
		return nil, err
	}
	p.CapturedAt = parsed
	return &p, nil
}
