package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/example/pucsync/internal/ingest"
	"github.com/example/pucsync/internal/models"
	syncengine "github.com/example/pucsync/internal/sync"
)

// mobilePattern is the shape a contact number must have when one is
// supplied. Absent numbers are handled by the pending workflow, not here.
var mobilePattern = regexp.MustCompile(`^\d{10}$`)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngestFragment accepts one partial observation from a capture
// source and merges it. Accepted means merged, not delivered.
func (s *Server) handleIngestFragment(w http.ResponseWriter, r *http.Request) {
	var f models.Fragment
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if f.Mobile != nil && strings.TrimSpace(*f.Mobile) != "" && !mobilePattern.MatchString(strings.TrimSpace(*f.Mobile)) {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "mobile must be 10 digits")
		return
	}
	if err := s.coordinator.Ingest(f); err != nil {
		logFor(r.Context()).Error("ingest fragment", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to ingest fragment")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleSaveRecord submits a caller-assembled record immediately.
func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	var m models.MergedRecord
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(m.VehicleNo) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "vehicleNo is required")
		return
	}
	if !mobilePattern.MatchString(strings.TrimSpace(m.Mobile)) {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "mobile must be 10 digits")
		return
	}
	if err := s.coordinator.SaveDirect(m); err != nil {
		if errors.Is(err, syncengine.ErrMissingMobile) {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "mobile is required")
			return
		}
		logFor(r.Context()).Error("save record", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to save record")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleSavePending holds a record without submitting it.
func (s *Server) handleSavePending(w http.ResponseWriter, r *http.Request) {
	var m models.MergedRecord
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(m.VehicleNo) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "vehicleNo is required")
		return
	}
	if err := s.coordinator.SavePending(m); err != nil {
		logFor(r.Context()).Error("save pending", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to save pending record")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := s.coordinator.GetPending()
	if err != nil {
		logFor(r.Context()).Error("list pending", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to list pending records")
		return
	}
	if pending == nil {
		pending = []models.PendingRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": pending})
}

// handleCompletePending supplies the missing contact number for a held
// record and hands it to the sync engine.
func (s *Server) handleCompletePending(w http.ResponseWriter, r *http.Request) {
	vehicle := r.PathValue("vehicle")

	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.Mobile = strings.TrimSpace(req.Mobile)
	if !mobilePattern.MatchString(req.Mobile) {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "mobile must be 10 digits")
		return
	}

	if err := s.coordinator.CompletePending(vehicle, req.Mobile); err != nil {
		if errors.Is(err, ingest.ErrNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "no pending record for vehicle")
			return
		}
		logFor(r.Context()).Error("complete pending", "vehicle", vehicle, "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to complete pending record")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleLatest returns the most recent merged and delivered snapshots.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	scraped, err := s.coordinator.LatestScraped()
	if err != nil {
		logFor(r.Context()).Error("latest scraped", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load snapshots")
		return
	}
	saved, err := s.coordinator.LatestSaved()
	if err != nil {
		logFor(r.Context()).Error("latest saved", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to load snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scraped": scraped,
		"saved":   saved,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.coordinator.Status()
	if err != nil {
		logFor(r.Context()).Error("status", "err", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to assemble status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
