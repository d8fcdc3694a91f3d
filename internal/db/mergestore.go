package db

import (
	"database/sql"
	"fmt"

	"github.com/example/pucsync/internal/models"
)

// MergeFragment applies a fragment's present fields onto the stored merge
// entry for its vehicle, field-level last-write-wins, and returns the merged
// result. The upsert is a single statement, so interleaved merges for the
// same key cannot corrupt per-field state.
func (db *DB) MergeFragment(f models.Fragment) (models.MergedRecord, error) {
	var m models.MergedRecord
	if f.VehicleNo == "" {
		return m, fmt.Errorf("merge fragment: empty vehicle number")
	}

	_, err := db.conn.Exec(`
		INSERT INTO merge_store (vehicle_no, mobile, rate, valid_date, upto_date, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(vehicle_no) DO UPDATE SET
			mobile     = COALESCE(excluded.mobile, merge_store.mobile),
			rate       = COALESCE(excluded.rate, merge_store.rate),
			valid_date = COALESCE(excluded.valid_date, merge_store.valid_date),
			upto_date  = COALESCE(excluded.upto_date, merge_store.upto_date),
			updated_at = CURRENT_TIMESTAMP`,
		f.VehicleNo, f.Mobile, f.Rate, f.ValidDate, f.UptoDate,
	)
	if err != nil {
		return m, fmt.Errorf("merge fragment %s: %w", f.VehicleNo, err)
	}

	merged, err := db.GetMerged(f.VehicleNo)
	if err != nil {
		return m, err
	}
	if merged == nil {
		return m, fmt.Errorf("merge fragment %s: row vanished after upsert", f.VehicleNo)
	}
	return *merged, nil
}

// GetMerged returns the merge store entry for a vehicle, or nil if absent.
func (db *DB) GetMerged(vehicleNo string) (*models.MergedRecord, error) {
	var m models.MergedRecord
	var mobile, rate, validDate, uptoDate sql.NullString

	err := db.conn.QueryRow(`
		SELECT vehicle_no, mobile, rate, valid_date, upto_date
		FROM merge_store WHERE vehicle_no = ?`, vehicleNo,
	).Scan(&m.VehicleNo, &mobile, &rate, &validDate, &uptoDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get merged %s: %w", vehicleNo, err)
	}

	m.Mobile = mobile.String
	m.Rate = rate.String
	m.ValidDate = validDate.String
	m.UptoDate = uptoDate.String
	return &m, nil
}

// DeleteMerged removes a vehicle's merge store entry. Deleting a missing
// entry is not an error.
func (db *DB) DeleteMerged(vehicleNo string) error {
	_, err := db.conn.Exec(`DELETE FROM merge_store WHERE vehicle_no = ?`, vehicleNo)
	if err != nil {
		return fmt.Errorf("delete merged %s: %w", vehicleNo, err)
	}
	return nil
}

// CountMerged returns the number of records still accumulating fragments.
func (db *DB) CountMerged() (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM merge_store`).Scan(&count)
	return count, err
}
