package record

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/example/pucsync/internal/models"
)

func TestParseCertDate_Valid(t *testing.T) {
	got := ParseCertDate("01/01/2024")
	if got == nil {
		t.Fatal("expected date, got nil")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseCertDate_Empty(t *testing.T) {
	if got := ParseCertDate(""); got != nil {
		t.Fatalf("empty input: got %v, want nil", got)
	}
	if got := ParseCertDate("   "); got != nil {
		t.Fatalf("whitespace input: got %v, want nil", got)
	}
}

func TestParseCertDate_Malformed(t *testing.T) {
	cases := []string{
		"2024-01-01", // wrong separator
		"1/1",        // too few parts
		"31/02/2024", // impossible day
		"aa/bb/cccc",
		"01/13/2024", // month out of range
	}
	for _, in := range cases {
		if got := ParseCertDate(in); got != nil {
			t.Errorf("ParseCertDate(%q): got %v, want nil", in, got)
		}
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"450.9", 450},
		{"450", 450},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-10.5", -11}, // floor toward negative infinity
		{"Rs. 125.50", 125},
		{"Rs.60", 60},
	}
	for _, c := range cases {
		if got := ParseRate(c.in); got != c.want {
			t.Errorf("ParseRate(%q): got %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormat_CompleteRecord(t *testing.T) {
	m := models.MergedRecord{
		VehicleNo: "MH12AB1234",
		Mobile:    "9876543210",
		Rate:      "450.9",
		ValidDate: "01/01/2024",
		UptoDate:  "01/01/2025",
	}

	got := Format(m)

	if got.VehicleNo != "MH12AB1234" {
		t.Errorf("vehicleNo: got %q", got.VehicleNo)
	}
	if got.Mobile == nil || *got.Mobile != "9876543210" {
		t.Errorf("mobile: got %v, want 9876543210", got.Mobile)
	}
	if got.Rate != 450 {
		t.Errorf("rate: got %d, want 450", got.Rate)
	}
	wantValid := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got.ValidDate == nil || !got.ValidDate.Equal(wantValid) {
		t.Errorf("validDate: got %v, want %v", got.ValidDate, wantValid)
	}
	wantUpto := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got.UptoDate == nil || !got.UptoDate.Equal(wantUpto) {
		t.Errorf("uptoDate: got %v, want %v", got.UptoDate, wantUpto)
	}
	if got.Verified {
		t.Error("verified must start false")
	}
}

func TestFormat_DegradesNeverFails(t *testing.T) {
	m := models.MergedRecord{
		VehicleNo: "KA01XX0001",
		Mobile:    "   ",
		Rate:      "not-a-number",
		ValidDate: "99/99/9999",
	}

	got := Format(m)

	if got.Mobile != nil {
		t.Errorf("whitespace mobile should format as nil, got %v", got.Mobile)
	}
	if got.Rate != 0 {
		t.Errorf("rate: got %d, want 0", got.Rate)
	}
	if got.ValidDate != nil {
		t.Errorf("malformed validDate should be nil, got %v", got.ValidDate)
	}
	if got.UptoDate != nil {
		t.Errorf("missing uptoDate should be nil, got %v", got.UptoDate)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	m := models.MergedRecord{
		VehicleNo: "MH12AB1234",
		Mobile:    "9876543210",
		Rate:      "125.50",
		ValidDate: "15/06/2024",
		UptoDate:  "15/06/2025",
	}

	a := Format(m)
	b := Format(m)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("formatting not idempotent:\n a=%+v\n b=%+v", a, b)
	}
}

func TestSubmissionRecord_JSONNulls(t *testing.T) {
	rec := Format(models.MergedRecord{VehicleNo: "DL8CAF5030"})

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"mobile", "validDate", "uptoDate"} {
		v, ok := raw[key]
		if !ok {
			t.Errorf("key %q missing from payload", key)
			continue
		}
		if v != nil {
			t.Errorf("key %q: got %v, want null", key, v)
		}
	}
	if raw["rate"] != float64(0) {
		t.Errorf("rate: got %v, want 0", raw["rate"])
	}
	if raw["verified"] != false {
		t.Errorf("verified: got %v, want false", raw["verified"])
	}
}
