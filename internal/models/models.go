package models

import (
	"time"
)

// Source identifies which capture source produced a fragment.
type Source string

const (
	SourceCertificatePage Source = "certificate_page"
	SourceOwnerPage       Source = "owner_page"
	SourceManual          Source = "manual"
)

// Fragment is a partial observation of one vehicle's record, delivered by a
// capture source. Nil pointer fields were not observed; empty strings were
// observed as empty on the page.
type Fragment struct {
	VehicleNo string  `json:"vehicleNo"`
	Mobile    *string `json:"mobile,omitempty"`
	Rate      *string `json:"rate,omitempty"`
	ValidDate *string `json:"validDate,omitempty"`
	UptoDate  *string `json:"uptoDate,omitempty"`
	Source    Source  `json:"source,omitempty"`
}

// MergedRecord is the field-level union of all fragments seen for one vehicle.
// All fields are raw page text; empty string means still unobserved.
type MergedRecord struct {
	VehicleNo string `json:"vehicleNo"`
	Mobile    string `json:"mobile,omitempty"`
	Rate      string `json:"rate,omitempty"`
	ValidDate string `json:"validDate,omitempty"`
	UptoDate  string `json:"uptoDate,omitempty"`
}

// PendingRecord is a merged snapshot held because it cannot be submitted yet,
// stamped with its capture time for ordering in the operator view.
type PendingRecord struct {
	MergedRecord
	CapturedAt time.Time `json:"capturedAt"`
}

// SubmissionRecord is the canonical backend-ready shape. Dates and mobile
// marshal as null when absent; Rate defaults to 0.
type SubmissionRecord struct {
	VehicleNo string     `json:"vehicleNo"`
	Mobile    *string    `json:"mobile"`
	ValidDate *time.Time `json:"validDate"`
	UptoDate  *time.Time `json:"uptoDate"`
	Rate      int64      `json:"rate"`
	Verified  bool       `json:"verified"`
}

// HasMobile reports whether the record carries a usable contact number.
// Whitespace-only counts as empty.
func (r SubmissionRecord) HasMobile() bool {
	if r.Mobile == nil {
		return false
	}
	for _, c := range *r.Mobile {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return true
		}
	}
	return false
}

// RetryEntry is a formatted record that failed delivery and is queued for the
// next drain-and-retry pass. At most one entry exists per vehicle number.
type RetryEntry struct {
	ID       int64            `json:"id"`
	Record   SubmissionRecord `json:"record"`
	QueuedAt time.Time        `json:"queuedAt"`
}

// Status is the process-wide sync status snapshot shown to the operator.
// The counter is display-only; correctness never depends on it.
type Status struct {
	TotalSynced  int64 `json:"totalSynced"`
	RetryQueued  int64 `json:"retryQueued"`
	PendingCount int64 `json:"pendingCount"`
	MergeCount   int64 `json:"mergeCount"`
}
