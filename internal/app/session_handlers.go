package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/session"
	"github.com/nocfacilities/plantao-calendar/internal/sharelink"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// The session endpoints drive the single kiosk session: one displayed
// month, one filter, one drill-down. The frontend polls the version and
// repaints from /api/session.

// modalLevel mirrors the two-level drill-down for clients: 0 closed,
// 1 list, 2 detail.
func modalPayload(m session.ModalState) map[string]interface{} {
	switch v := m.(type) {
	case session.ListView:
		return map[string]interface{}{"level": 1, "list": v}
	case session.DetailView:
		return map[string]interface{}{"level": 2, "detail": v}
	default:
		return map[string]interface{}{"level": 0}
	}
}

func (s *Server) sessionView() map[string]interface{} {
	year, month := s.session.Current()
	return map[string]interface{}{
		"year":          year,
		"month":         int(month),
		"monthName":     source.MonthNames[month],
		"filter":        s.session.Filter(),
		"restricted":    s.session.LockedCompany() != "",
		"lockedCompany": s.session.LockedCompany(),
		"version":       s.session.Version(),
		"calendar":      s.session.MonthView(),
		"modal":         modalPayload(s.session.Modal()),
	}
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sessionView())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleSessionNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	delta := 1
	if req.Direction == "prev" {
		delta = -1
	}
	if _, _, err := s.session.Navigate(r.Context(), delta); err != nil {
		logger.Warnw("month navigation failed", "error", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Company string `json:"empresa"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.session.SetCompany(req.Company); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionDescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"descricao"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.session.SetDescription(req.Description)
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	err := s.session.ClearFilters()
	if errors.Is(err, session.ErrRestricted) {
		// Restricted mode keeps the company filter; tell the client so it
		// can show the notice.
		writeJSON(w, map[string]interface{}{
			"status":     "restricted",
			"restricted": true,
			"session":    s.sessionView(),
		})
		return
	}
	writeJSON(w, s.sessionView())
}

// handleSessionLink seeds the session's locked company from a sealed link
// token. An invalid token leaves the session unrestricted.
func (s *Server) handleSessionLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"empresa"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	company, err := sharelink.Open(s.cfg.LinkSecret, req.Token, time.Now())
	if err != nil {
		logger.Warnw("share link rejected", "error", err)
		writeJSON(w, map[string]interface{}{"company": nil})
		return
	}

	s.session.LockCompany(company)
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionOpenDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date       string `json:"date"`
		Unfiltered bool   `json:"unfiltered"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	s.session.OpenDay(req.Date, req.Unfiltered)
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := s.session.Select(req.Index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionBack(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Back(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.sessionView())
}

func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	s.session.CloseModal()
	writeJSON(w, s.sessionView())
}
