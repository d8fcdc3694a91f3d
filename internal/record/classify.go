package record

import (
	"strings"

	"github.com/example/pucsync/internal/models"
)

// IsComplete reports whether a merged record has every field needed for
// automatic submission: mobile, rate, validity start, and validity end.
// A record missing any of the four is held for manual completion, no matter
// which field is the gap. Whitespace-only values count as missing.
func IsComplete(m models.MergedRecord) bool {
	return strings.TrimSpace(m.Mobile) != "" &&
		strings.TrimSpace(m.Rate) != "" &&
		strings.TrimSpace(m.ValidDate) != "" &&
		strings.TrimSpace(m.UptoDate) != ""
}

// MergeFragment applies a fragment's present fields onto a merged record,
// last write wins per field. Fields the fragment does not carry keep their
// accumulated values.
func MergeFragment(m models.MergedRecord, f models.Fragment) models.MergedRecord {
	if m.VehicleNo == "" {
		m.VehicleNo = f.VehicleNo
	}
	if f.Mobile != nil {
		m.Mobile = *f.Mobile
	}
	if f.Rate != nil {
		m.Rate = *f.Rate
	}
	if f.ValidDate != nil {
		m.ValidDate = *f.ValidDate
	}
	if f.UptoDate != nil {
		m.UptoDate = *f.UptoDate
	}
	return m
}
