// Package source loads the calendar's data files: one JSON file per month,
// a holidays file and an annotations file. Failures never surface as errors;
// an unreachable or malformed file contributes an empty set.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/roster"
)

const (
	HolidaysFile    = "feriados.json"
	AnnotationsFile = "observacoes.json"
	TmpSuffix       = ".tmp.json"
	BackupDir       = "backup"
	BackupSuffix    = ".backup"
	FilePermissions = 0644
)

// MonthNames indexed by time.Month (1-12).
var MonthNames = [13]string{"",
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"ç", "c", "é", "e", "ê", "e", "í", "i",
	"ó", "o", "ô", "o", "õ", "o", "ú", "u",
)

// FileNameFor returns the data file name of a month ("março" → "marco.json").
func FileNameFor(month time.Month) string {
	name := strings.ToLower(MonthNames[month])
	return accentReplacer.Replace(name) + ".json"
}

// Annotation is an externally authored note ("observação") matched to an
// activity by exact (date, company, description) equality.
type Annotation struct {
	Date        string `json:"data"`
	Company     string `json:"empresa"`
	Description string `json:"descricao_atividade"`
	Note        string `json:"observacao"`
	SentAt      string `json:"data_envio"`
}

type annotationsPayload struct {
	Observacoes []Annotation `json:"observacoes"`
}

// Store holds the in-memory activity set for one loaded month. The set is
// replaced wholesale on every load, never mutated in place; readers always
// see either the previous complete set or the new one.
type Store struct {
	dir    string
	log    *zap.SugaredLogger
	editMo bool // prefer tmp files when loading (edit mode)

	mu          sync.RWMutex
	latestGen   uint64
	year        int
	month       time.Month
	activities  []activity.Activity
	assignments map[string]roster.Assignment
	annotations []Annotation
}

// New creates a store over the given data directory.
func New(dir string, editMode bool, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		dir:         dir,
		log:         log,
		editMo:      editMode,
		assignments: map[string]roster.Assignment{},
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// LoadMonth reads the month file and the holidays file concurrently, builds
// the unified activity set and swaps it in atomically. Either source failing
// degrades to an empty contribution. A load that finishes after a newer one
// has been requested is discarded.
func (s *Store) LoadMonth(ctx context.Context, year int, month time.Month) error {
	s.mu.Lock()
	s.latestGen++
	gen := s.latestGen
	s.mu.Unlock()

	activities, assignments := s.Peek(ctx, month)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.latestGen {
		s.log.Debugw("discarding stale month load", "year", year, "month", int(month))
		return nil
	}
	s.year = year
	s.month = month
	s.activities = activities
	s.assignments = assignments
	return nil
}

// Peek reads and normalizes a month without touching the loaded set. Month
// file and holidays file are read concurrently; either failing contributes
// an empty set.
func (s *Store) Peek(ctx context.Context, month time.Month) ([]activity.Activity, map[string]roster.Assignment) {
	var (
		days     []activity.RawDay
		holidays []activity.Holiday
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		days = s.readMonth(month)
		return nil
	})
	g.Go(func() error {
		holidays = s.readHolidays()
		return nil
	})
	// Readers never return errors; failures were already degraded to empty.
	_ = g.Wait()

	return activity.Normalize(days, holidays)
}

// Reload re-reads the currently loaded month.
func (s *Store) Reload(ctx context.Context) error {
	year, month := s.Current()
	if year == 0 {
		return nil
	}
	return s.LoadMonth(ctx, year, month)
}

// LoadAnnotations reads the annotations file. Missing or malformed files
// leave the list empty.
func (s *Store) LoadAnnotations() {
	var payload annotationsPayload
	if !s.readJSON(filepath.Join(s.dir, AnnotationsFile), &payload) {
		payload.Observacoes = nil
	}

	s.mu.Lock()
	s.annotations = payload.Observacoes
	s.mu.Unlock()
}

// Current returns the loaded year and month (zero before the first load).
func (s *Store) Current() (int, time.Month) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.year, s.month
}

// Snapshot returns the unified activity set and the payload roster of the
// loaded month. Both are replaced wholesale on reload and never mutated, so
// callers may read them without further locking.
func (s *Store) Snapshot() ([]activity.Activity, map[string]roster.Assignment) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities, s.assignments
}

// Activities returns the full unified activity set of the loaded month.
func (s *Store) Activities() []activity.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities
}

// ForDate returns the activities of one date in source order.
func (s *Store) ForDate(date string) []activity.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activity.ForDate(s.activities, date)
}

// Assignment returns the on-call assignment for a date from the month
// payload, falling back to the computed rotation for dates the payload
// does not cover.
func (s *Store) Assignment(date string) roster.Assignment {
	s.mu.RLock()
	a, ok := s.assignments[date]
	s.mu.RUnlock()
	if ok {
		return a
	}
	if t, err := time.ParseInLocation("2006-01-02", date, time.Local); err == nil {
		return roster.OnCallFor(t)
	}
	return roster.Assignment{}
}

// AnnotationsForDate returns every annotation of one date.
func (s *Store) AnnotationsForDate(date string) []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Annotation
	for _, n := range s.annotations {
		if n.Date == date {
			out = append(out, n)
		}
	}
	return out
}

// AnnotationsFor returns the annotations attached to one activity.
func (s *Store) AnnotationsFor(date, company, description string) []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Annotation
	for _, n := range s.annotations {
		if n.Date == date && n.Company == company && n.Description == description {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) monthPath(month time.Month) string {
	return filepath.Join(s.dir, FileNameFor(month))
}

// readMonth loads the raw day records of one month. In edit mode a tmp file
// with unsaved changes takes precedence.
func (s *Store) readMonth(month time.Month) []activity.RawDay {
	path := s.monthPath(month)
	if s.editMo {
		tmp := path + TmpSuffix
		if _, err := os.Stat(tmp); err == nil {
			path = tmp
		}
	}

	var days []activity.RawDay
	if !s.readJSON(path, &days) {
		return nil
	}
	return days
}

func (s *Store) readHolidays() []activity.Holiday {
	var holidays []activity.Holiday
	if !s.readJSON(filepath.Join(s.dir, HolidaysFile), &holidays) {
		return nil
	}
	return holidays
}

// readJSON decodes a file into v. It returns false on any failure, logging
// missing files at debug level and everything else as a warning.
func (s *Store) readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debugw("data file not found", "file", path)
		} else {
			s.log.Warnw("failed to read data file", "file", path, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warnw("malformed data file", "file", path, "error", err)
		return false
	}
	return true
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, FilePermissions)
}
