package app

import (
	"net/http"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
)

// Edit-mode endpoints. Changes land in tmp files next to the month files
// and only become permanent on commit; revert discards them.

// handleAddActivity adds a vendor activity to a date (edit mode only)
func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Company     string `json:"company"`
		Description string `json:"description"`
		Periodicity string `json:"periodicity"`
		Group       string `json:"company_group"`
		ServiceType string `json:"service_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}
	if req.Company == "" || req.Description == "" {
		http.Error(w, "company and description are required", http.StatusBadRequest)
		return
	}

	vendor := activity.RawVendor{
		Company:     req.Company,
		Description: req.Description,
		Periodicity: req.Periodicity,
		Group:       req.Group,
		ServiceType: req.ServiceType,
	}
	if err := s.store.AddVendor(r.Context(), date.Month(), req.Date, vendor); err != nil {
		logger.Warnw("error saving tmp calendar", "error", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// handleDeleteActivity removes a vendor activity (edit mode only)
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Company     string `json:"company"`
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteVendor(r.Context(), date.Month(), req.Date, req.Company, req.Description); err != nil {
		logger.Warnw("error saving tmp calendar", "error", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// handleCommit commits temporary changes
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Commit(r.Context()); err != nil {
		logger.Warnw("error committing calendar", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleRevert reverts temporary changes
func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Revert(r.Context()); err != nil {
		logger.Warnw("error reverting calendar", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleStatus returns whether there are unsaved changes
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"has_changes": s.store.HasTmpChanges()})
}
