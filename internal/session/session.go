// Package session owns the interactive calendar state: the displayed month,
// the active filter, the day drill-down, and the link-locked company. All
// state lives in one controller instead of package-level variables, and the
// activity set behind it is only ever replaced wholesale.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// FilterDebounce is the quiet window applied to description-filter input.
const FilterDebounce = 300 * time.Millisecond

// ErrRestricted is returned when a link-locked session tries to change or
// clear its company filter.
var ErrRestricted = errors.New("restricted view: company filter is locked")

// Session is the single-user calendar session.
type Session struct {
	store    *source.Store
	log      *zap.SugaredLogger
	debounce *Debouncer

	mu      sync.Mutex
	year    int
	month   time.Month
	filter  activity.Filter
	locked  string // company locked by a share link, empty when unlocked
	modal   ModalState
	version uint64
}

// New creates a session over the store.
func New(store *source.Store, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		store:    store,
		log:      log,
		debounce: NewDebouncer(FilterDebounce),
		modal:    Closed{},
	}
}

// Start loads the initial month.
func (s *Session) Start(ctx context.Context, year int, month time.Month) error {
	if err := s.store.LoadMonth(ctx, year, month); err != nil {
		return err
	}
	s.mu.Lock()
	s.year, s.month = year, month
	s.version++
	s.mu.Unlock()
	return nil
}

// Navigate moves the displayed month by delta months (usually ±1), replaces
// the activity set and closes any open drill-down. Filters persist across
// navigation.
func (s *Session) Navigate(ctx context.Context, delta int) (int, time.Month, error) {
	s.mu.Lock()
	target := time.Date(s.year, s.month, 1, 0, 0, 0, 0, time.Local).AddDate(0, delta, 0)
	s.mu.Unlock()

	year, month := target.Year(), target.Month()
	if err := s.store.LoadMonth(ctx, year, month); err != nil {
		return year, month, err
	}

	s.mu.Lock()
	s.year, s.month = year, month
	s.modal = Closed{}
	s.version++
	s.mu.Unlock()
	return year, month, nil
}

// Current returns the displayed year and month.
func (s *Session) Current() (int, time.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month
}

// Filter returns the active filter.
func (s *Session) Filter() activity.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetCompany sets the exact-match company filter. It fails on a link-locked
// session.
func (s *Session) SetCompany(company string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked != "" {
		return ErrRestricted
	}
	s.filter.Company = company
	s.version++
	return nil
}

// SetDescription sets the substring description filter. The value applies
// immediately; the change notification is debounced so only the last
// keystroke within the quiet window bumps the version.
func (s *Session) SetDescription(description string) {
	s.mu.Lock()
	s.filter.Description = description
	s.mu.Unlock()

	s.debounce.Trigger(func() {
		s.mu.Lock()
		s.version++
		s.mu.Unlock()
	})
}

// ClearFilters resets the filters. On a link-locked session only the
// description is cleared and ErrRestricted reports the kept company filter.
func (s *Session) ClearFilters() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Description = ""
	s.version++
	if s.locked != "" {
		s.filter.Company = s.locked
		return ErrRestricted
	}
	s.filter.Company = ""
	return nil
}

// LockCompany pins the company filter for the rest of the session, as a
// resolved share link does.
func (s *Session) LockCompany(company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = company
	s.filter.Company = company
	s.version++
}

// LockedCompany returns the pinned company, empty when the session is free.
func (s *Session) LockedCompany() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// MonthView builds the day tiles of the displayed month under the active
// filter.
func (s *Session) MonthView() activity.MonthView {
	s.mu.Lock()
	year, month, filter := s.year, s.month, s.filter
	s.mu.Unlock()

	activities, assignments := s.store.Snapshot()
	return activity.BuildMonth(year, month, activities, filter, assignments)
}

// OpenDay enters the drill-down list for a date. With unfiltered set the
// full day list is shown regardless of the active filter (used by exports
// and team info).
func (s *Session) OpenDay(date string, unfiltered bool) ListView {
	acts := s.store.ForDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !unfiltered {
		acts = s.filter.Apply(acts)
	}
	list := openDay(date, s.store.Assignment(date), acts)
	s.modal = list
	s.version++
	return list
}

// Select drills into one activity of the open list.
func (s *Session) Select(index int) (DetailView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.modal.(ListView)
	if !ok {
		return DetailView{}, ErrNoSelection
	}
	if index < 0 || index >= len(list.Activities) {
		return DetailView{}, ErrBadIndex
	}
	act := list.Activities[index]
	detail, err := selectActivity(list, index, s.store.AnnotationsFor(act.Date, act.Company, act.Description))
	if err != nil {
		return DetailView{}, err
	}
	s.modal = detail
	s.version++
	return detail, nil
}

// Back returns from the detail to the exact list it was opened from.
func (s *Session) Back() (ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail, ok := s.modal.(DetailView)
	if !ok {
		return ListView{}, ErrNoSelection
	}
	list := back(detail)
	s.modal = list
	s.version++
	return list, nil
}

// CloseModal resets the drill-down regardless of its level.
func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Closed{}
	s.version++
}

// Modal returns the current drill-down state.
func (s *Session) Modal() ModalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// Version increases on every visible state change; clients poll it to know
// when to repaint.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Stop releases the session's pending timers.
func (s *Session) Stop() {
	s.debounce.Stop()
}
