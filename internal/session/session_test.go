package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

const monthFixture = `[
  {
    "data": "2025-03-10",
    "on_call_dia": "Equipe B",
    "on_call_noite": "Equipe D",
    "freezing": [
      {"group": "TBRA_RELEASE", "description": "Janela TBRA"}
    ],
    "vendors": [
      {"company": "VERTIV", "description": "Preventiva UPS", "periodicity": "MENSAL"},
      {"company": "LG", "description": "Troca de compressor"}
    ]
  }
]`

const annotationsFixture = `{
  "observacoes": [
    {
      "data": "2025-03-10",
      "empresa": "VERTIV",
      "descricao_atividade": "Preventiva UPS",
      "observacao": "Janela das 22h",
      "data_envio": "2025-03-05"
    }
  ]
}`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marco.json"), []byte(monthFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, source.AnnotationsFile), []byte(annotationsFixture), 0644))

	store := source.New(dir, false, nil)
	store.LoadAnnotations()

	s := New(store, nil)
	t.Cleanup(s.Stop)
	require.NoError(t, s.Start(context.Background(), 2025, time.March))
	return s
}

func TestNavigatePersistsFiltersAndClosesModal(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetCompany("VERTIV"))
	s.OpenDay("2025-03-10", false)

	year, month, err := s.Navigate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.April, month)

	// Filters survive the month change; the drill-down does not.
	assert.Equal(t, "VERTIV", s.Filter().Company)
	_, ok := s.Modal().(Closed)
	assert.True(t, ok)
}

func TestNavigateAcrossYearBoundary(t *testing.T) {
	s := newTestSession(t)
	_, _, err := s.Navigate(context.Background(), -3)
	require.NoError(t, err)

	year, month := s.Current()
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)
}

func TestOpenDayAppliesFilter(t *testing.T) {
	s := newTestSession(t)

	list := s.OpenDay("2025-03-10", false)
	assert.Len(t, list.Activities, 3)
	assert.Equal(t, "Equipe B", list.OnCall.Day)

	require.NoError(t, s.SetCompany("LG"))
	list = s.OpenDay("2025-03-10", false)
	require.Len(t, list.Activities, 1)
	assert.Equal(t, "LG", list.Activities[0].Company)

	// The unfiltered view ignores the active filter.
	list = s.OpenDay("2025-03-10", true)
	assert.Len(t, list.Activities, 3)
}

func TestSelectAndBackRestoresList(t *testing.T) {
	s := newTestSession(t)
	opened := s.OpenDay("2025-03-10", false)

	var vertivIdx int
	for i, a := range opened.Activities {
		if a.Company == "VERTIV" {
			vertivIdx = i
		}
	}

	detail, err := s.Select(vertivIdx)
	require.NoError(t, err)
	assert.Equal(t, "VERTIV", detail.Activity.Company)
	require.Len(t, detail.Annotations, 1)
	assert.Equal(t, "Janela das 22h", detail.Annotations[0].Note)

	list, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, opened, list)
	_, ok := s.Modal().(ListView)
	assert.True(t, ok)
}

func TestSelectErrors(t *testing.T) {
	s := newTestSession(t)

	// No list open yet.
	_, err := s.Select(0)
	assert.ErrorIs(t, err, ErrNoSelection)

	s.OpenDay("2025-03-10", false)
	_, err = s.Select(99)
	assert.ErrorIs(t, err, ErrBadIndex)
	_, err = s.Select(-1)
	assert.ErrorIs(t, err, ErrBadIndex)

	_, err = s.Back()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestCloseModalFromAnyLevel(t *testing.T) {
	s := newTestSession(t)
	s.OpenDay("2025-03-10", false)
	_, err := s.Select(0)
	require.NoError(t, err)

	s.CloseModal()
	_, ok := s.Modal().(Closed)
	assert.True(t, ok)

	// Back after close starts from scratch.
	_, err = s.Back()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestLockedSessionRestrictsCompany(t *testing.T) {
	s := newTestSession(t)
	s.LockCompany("VERTIV")

	assert.Equal(t, "VERTIV", s.LockedCompany())
	assert.Equal(t, "VERTIV", s.Filter().Company)

	assert.ErrorIs(t, s.SetCompany("LG"), ErrRestricted)
	assert.Equal(t, "VERTIV", s.Filter().Company)

	// Clearing keeps the locked company and drops only the description.
	s.SetDescription("ups")
	assert.ErrorIs(t, s.ClearFilters(), ErrRestricted)
	f := s.Filter()
	assert.Equal(t, "VERTIV", f.Company)
	assert.Empty(t, f.Description)
}

func TestClearFiltersUnlocked(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SetCompany("LG"))
	s.SetDescription("compressor")

	require.NoError(t, s.ClearFilters())
	assert.True(t, s.Filter().IsZero())
}

func TestDescriptionAppliesImmediatelyVersionLater(t *testing.T) {
	s := newTestSession(t)
	before := s.Version()

	s.SetDescription("preventiva")
	assert.Equal(t, "preventiva", s.Filter().Description)
	assert.Equal(t, before, s.Version())

	assert.Eventually(t, func() bool { return s.Version() > before },
		2*FilterDebounce, 10*time.Millisecond)
}

func TestMonthViewUsesFilter(t *testing.T) {
	s := newTestSession(t)

	view := s.MonthView()
	require.Len(t, view.Days, 31)
	day := view.Days[9]
	assert.True(t, day.HasActivity)
	assert.Equal(t, activity.ColorFreezingTBRA, day.ColorClass)
	assert.Equal(t, 1, day.PeriodicCount)

	require.NoError(t, s.SetCompany("LG"))
	view = s.MonthView()
	day = view.Days[9]
	assert.True(t, day.HasActivity)
	assert.Equal(t, activity.ColorGeneralActivity, day.ColorClass)
	assert.Zero(t, day.PeriodicCount)
}
