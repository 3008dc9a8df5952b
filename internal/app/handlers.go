package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/roster"
	"github.com/nocfacilities/plantao-calendar/internal/session"
	"github.com/nocfacilities/plantao-calendar/internal/sharelink"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// Server wires the HTTP surface over the store and the kiosk session.
type Server struct {
	cfg     Config
	store   *source.Store
	session *session.Session
}

// NewServer creates the server.
func NewServer(cfg Config, store *source.Store, sess *session.Session) *Server {
	return &Server{cfg: cfg, store: store, session: sess}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/api/config", s.handleConfig)
	r.Get("/api/calendar", s.handleCalendar)
	r.Get("/api/day/{date}", s.handleDay)
	r.Get("/api/download", s.handleDownload)
	r.Get("/api/export/day/{date}", s.handleExportDay)
	r.Get("/api/subscribe/{equipe}", s.handleSubscribe)
	r.Get("/api/sharelink/resolve", s.handleShareLinkResolve)

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", s.handleSessionView)
		r.Post("/navigate", s.handleSessionNavigate)
		r.Post("/filters/empresa", s.handleSessionCompany)
		r.Post("/filters/descricao", s.handleSessionDescription)
		r.Post("/filters/clear", s.handleSessionClear)
		r.Post("/link", s.handleSessionLink)
		r.Post("/day/open", s.handleSessionOpenDay)
		r.Post("/day/select", s.handleSessionSelect)
		r.Post("/day/back", s.handleSessionBack)
		r.Post("/day/close", s.handleSessionClose)
	})

	if s.cfg.EditMode {
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/edit", s.handleEdit)
			r.Post("/api/activities/add", s.handleAddActivity)
			r.Post("/api/activities/delete", s.handleDeleteActivity)
			r.Post("/api/calendar/commit", s.handleCommit)
			r.Post("/api/calendar/revert", s.handleRevert)
			r.Get("/api/calendar/status", s.handleStatus)
		})
	} else {
		r.Get("/edit", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrEditModeDisabled, http.StatusForbidden)
		})
	}

	return r
}

// handleIndex serves the calendar frontend
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(IndexHTML); err != nil {
		logger.Warnw("error writing index HTML", "error", err)
	}
}

// handleEdit serves the editor frontend (edit mode only)
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(EditHTML); err != nil {
		logger.Warnw("error writing edit HTML", "error", err)
	}
}

// handleConfig returns the application configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	year, month := s.session.Current()
	now := time.Now()

	writeJSON(w, map[string]interface{}{
		"months":        source.MonthNames[1:],
		"companies":     activity.Companies,
		"teams":         roster.Teams,
		"year":          year,
		"month":         int(month),
		"today":         todayString(now),
		"currentShift":  roster.CurrentShift(now),
		"editMode":      s.cfg.EditMode,
		"restricted":    s.session.LockedCompany() != "",
		"lockedCompany": s.session.LockedCompany(),
	})
}

// filterFromQuery builds the filter for stateless endpoints. A sealed link
// token in the query overrides the plain company parameter; a bad token
// degrades to no company filter.
func (s *Server) filterFromQuery(r *http.Request) activity.Filter {
	q := r.URL.Query()
	filter := activity.Filter{
		Company:     q.Get("filtro_empresa"),
		Description: q.Get("descricao"),
	}

	if token := q.Get(sharelink.ParamName); token != "" {
		company, err := sharelink.Open(s.cfg.LinkSecret, token, time.Now())
		if err != nil {
			logger.Warnw("ignoring invalid share link", "error", err)
		} else {
			filter.Company = company
		}
	}
	return filter
}

// monthData returns the activity set for a month: the loaded set when it is
// the current one, a side read otherwise.
func (s *Server) monthData(r *http.Request, year int, month time.Month) ([]activity.Activity, map[string]roster.Assignment) {
	curYear, curMonth := s.store.Current()
	if year == curYear && month == curMonth {
		return s.store.Snapshot()
	}
	return s.store.Peek(r.Context(), month)
}

// handleCalendar returns the day tiles for a month.
// Query params: ano, mes (default: loaded month), filtro_empresa, descricao,
// empresa (sealed link token).
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	defYear, defMonth := s.store.Current()
	if defYear == 0 {
		now := time.Now()
		defYear, defMonth = now.Year(), now.Month()
	}

	year, month, ok := yearMonthParams(w, r, defYear, defMonth)
	if !ok {
		return
	}

	activities, assignments := s.monthData(r, year, month)
	view := activity.BuildMonth(year, month, activities, s.filterFromQuery(r), assignments)
	writeJSON(w, view)
}

// handleDay returns a day's grouped activity list and on-call info.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	activities, assignments := s.monthData(r, t.Year(), t.Month())
	daily := activity.ForDate(activities, date)
	filtered := s.filterFromQuery(r).Apply(daily)
	summary := activity.Classify(filtered)

	onCall, ok := assignments[date]
	if !ok {
		onCall = roster.OnCallFor(t)
	}

	now := time.Now()
	writeJSON(w, map[string]interface{}{
		"date":          date,
		"displayDate":   displayDate(date),
		"onCall":        onCall,
		"isToday":       date == todayString(now),
		"currentShift":  roster.CurrentShift(now),
		"groups":        activity.GroupByCompany(filtered),
		"activities":    filtered,
		"annotations":   s.store.AnnotationsForDate(date),
		"periodicCount": summary.PeriodicCount,
	})
}

// handleShareLinkResolve resolves a sealed link token to its company. Any
// failure yields a null company, never an error status.
func (s *Server) handleShareLinkResolve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(sharelink.ParamName)
	if token == "" {
		writeJSON(w, map[string]interface{}{"company": nil})
		return
	}

	company, err := sharelink.Open(s.cfg.LinkSecret, token, time.Now())
	if err != nil {
		logger.Warnw("share link rejected", "error", err)
		writeJSON(w, map[string]interface{}{"company": nil})
		return
	}
	writeJSON(w, map[string]interface{}{"company": company})
}

// handleDownload exports a month in ICS, CSV or JSON format.
// Query params: ano, mes, formato, plus the filter params.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	defYear, defMonth := s.store.Current()
	if defYear == 0 {
		now := time.Now()
		defYear, defMonth = now.Year(), now.Month()
	}
	year, month, ok := yearMonthParams(w, r, defYear, defMonth)
	if !ok {
		return
	}

	activities, _ := s.monthData(r, year, month)
	monthActivities := s.filterFromQuery(r).Apply(forMonth(activities, year, month))

	switch r.URL.Query().Get("formato") {
	case "ics":
		GenerateICS(w, r, year, month, monthActivities)
	case "csv":
		GenerateCSV(w, year, month, monthActivities)
	case "json":
		GenerateJSON(w, year, month, monthActivities)
	case "pdf":
		if err := WriteMonthPDF(w, year, month, monthActivities); err != nil {
			logger.Warnw("PDF export failed", "year", year, "month", int(month), "error", err)
			http.Error(w, ErrExportFailed, http.StatusInternalServerError)
		}
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

func forMonth(activities []activity.Activity, year int, month time.Month) []activity.Activity {
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-")
	var out []activity.Activity
	for _, a := range activities {
		if strings.HasPrefix(a.Date, prefix) {
			out = append(out, a)
		}
	}
	return out
}

// handleExportDay produces the day report PDF. At the detail level (an
// activity selected in the session) the report covers that activity and its
// annotations; otherwise it covers the day's list.
func (s *Server) handleExportDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	report := DayReport{
		Date:         date,
		OnCall:       s.store.Assignment(date),
		IsToday:      date == todayString(time.Now()),
		CurrentShift: roster.CurrentShift(time.Now()),
	}

	switch modal := s.session.Modal().(type) {
	case session.DetailView:
		if modal.Date == date {
			report.Activities = []activity.Activity{modal.Activity}
			report.Annotations = modal.Annotations
			break
		}
		report.Activities = s.session.Filter().Apply(s.store.ForDate(date))
	case session.ListView:
		if modal.Date == date {
			report.Activities = modal.Activities
			break
		}
		report.Activities = s.session.Filter().Apply(s.store.ForDate(date))
	default:
		report.Activities = s.session.Filter().Apply(s.store.ForDate(date))
	}

	if err := WriteDayPDF(w, report); err != nil {
		logger.Warnw("PDF export failed", "date", date, "error", err)
		http.Error(w, ErrExportFailed, http.StatusInternalServerError)
	}
}
