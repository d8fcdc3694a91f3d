// Package record provides the pure transforms between raw merged page text
// and the canonical backend submission shape: date and fee normalization,
// and the completion check that gates automatic submission.
package record

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/pucsync/internal/models"
)

// certDateLayout is the wire layout sent to the backend after reassembling
// the page's DD/MM/YYYY text.
const certDateLayout = "2006-01-02"

// ParseCertDate parses a DD/MM/YYYY page string into a calendar date.
// Empty input and anything that does not parse as a real date return nil;
// malformed page text degrades to null rather than failing the record.
func ParseCertDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil
	}
	t, err := time.Parse(certDateLayout, parts[2]+"-"+parts[1]+"-"+parts[0])
	if err != nil {
		return nil
	}
	return &t
}

// ParseRate coerces the fee text to a whole rupee amount, flooring toward
// negative infinity. Empty or non-numeric text degrades to 0. A leading
// "Rs." prefix from the fee cell is tolerated.
func ParseRate(s string) int64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "Rs."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Floor(f))
}

// Format normalizes a merged record into the canonical submission shape.
// Pure transform: it never fails, and formatting the same input twice yields
// identical output. Verified always starts false; verification is an
// external review process.
func Format(m models.MergedRecord) models.SubmissionRecord {
	out := models.SubmissionRecord{
		VehicleNo: m.VehicleNo,
		ValidDate: ParseCertDate(m.ValidDate),
		UptoDate:  ParseCertDate(m.UptoDate),
		Rate:      ParseRate(m.Rate),
		Verified:  false,
	}
	if mobile := strings.TrimSpace(m.Mobile); mobile != "" {
		out.Mobile = &mobile
	}
	return out
}
