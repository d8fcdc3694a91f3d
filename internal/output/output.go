// Package output provides styled terminal output helpers (success, error,
// warning, record formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/pucsync/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	vehicleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// FormatPendingRecord formats one held record for the pending list.
func FormatPendingRecord(p models.PendingRecord) string {
	var parts []string
	parts = append(parts, vehicleStyle.Render(p.VehicleNo))
	if p.Rate != "" {
		parts = append(parts, p.Rate)
	}
	if p.ValidDate != "" || p.UptoDate != "" {
		parts = append(parts, fmt.Sprintf("%s → %s", orDash(p.ValidDate), orDash(p.UptoDate)))
	}
	if p.Mobile == "" {
		parts = append(parts, warningStyle.Render("[no mobile]"))
	}
	parts = append(parts, subtleStyle.Render(FormatTimeAgo(p.CapturedAt)))
	return strings.Join(parts, "  ")
}

// FormatSubmission formats a backend-ready record for display.
func FormatSubmission(r models.SubmissionRecord) string {
	var parts []string
	parts = append(parts, vehicleStyle.Render(r.VehicleNo))
	if r.Mobile != nil {
		parts = append(parts, *r.Mobile)
	}
	parts = append(parts, fmt.Sprintf("Rs.%d", r.Rate))
	if r.ValidDate != nil {
		parts = append(parts, "valid "+r.ValidDate.Format("02/01/2006"))
	}
	if r.UptoDate != nil {
		parts = append(parts, "upto "+r.UptoDate.Format("02/01/2006"))
	}
	return strings.Join(parts, "  ")
}

// FormatStatus renders the status snapshot as aligned lines.
func FormatStatus(s models.Status) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sync Status") + "\n")
	fmt.Fprintf(&b, "  Total synced:  %d\n", s.TotalSynced)
	fmt.Fprintf(&b, "  Retry queued:  %d\n", s.RetryQueued)
	fmt.Fprintf(&b, "  Pending:       %d\n", s.PendingCount)
	fmt.Fprintf(&b, "  Merging:       %d", s.MergeCount)
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatTimeAgo renders a time as a relative age for list views.
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
