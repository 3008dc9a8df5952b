package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocfacilities/plantao-calendar/internal/roster"
)

func TestBuildMonthShape(t *testing.T) {
	view := BuildMonth(2025, time.March, nil, Filter{}, nil)

	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, 3, view.Month)
	// 2025-03-01 is a Saturday.
	assert.Equal(t, 6, view.StartDayOfWeek)
	require.Len(t, view.Days, 31)
	assert.Equal(t, "2025-03-01", view.Days[0].Date)
	assert.Equal(t, "2025-03-31", view.Days[30].Date)
}

func TestBuildMonthClassifiesFilteredDays(t *testing.T) {
	activities := []Activity{
		{Date: "2025-03-10", Company: "VERTIV", Description: "Preventiva", Periodicity: "MENSAL"},
		{Date: "2025-03-10", Company: "LG", Description: "Corretiva"},
		{Date: "2025-03-15", Company: CompanyFeriado, Group: GroupFeriado, IsHoliday: true},
	}

	view := BuildMonth(2025, time.March, activities, Filter{}, nil)
	day10 := view.Days[9]
	assert.True(t, day10.HasActivity)
	assert.Equal(t, ColorGeneralActivity, day10.ColorClass)
	assert.Equal(t, 1, day10.PeriodicCount)

	day15 := view.Days[14]
	assert.Equal(t, ColorHoliday, day15.ColorClass)
	assert.True(t, day15.IsRealHoliday)

	// With a company filter the non-matching day goes blank.
	view = BuildMonth(2025, time.March, activities, Filter{Company: "LG"}, nil)
	day10 = view.Days[9]
	assert.True(t, day10.HasActivity)
	assert.Zero(t, day10.PeriodicCount)
	assert.False(t, view.Days[14].HasActivity)
	assert.Equal(t, ColorNone, view.Days[14].ColorClass)
}

func TestBuildMonthRosterFallback(t *testing.T) {
	assignments := map[string]roster.Assignment{
		"2025-01-02": {Day: "Equipe X", Night: "Equipe Y"},
	}
	view := BuildMonth(2025, time.January, nil, Filter{}, assignments)

	// Payload roster wins where present.
	assert.Equal(t, "Equipe X", view.Days[1].OnCall.Day)
	// Missing dates fall back to the computed rotation.
	assert.Equal(t, roster.OnCallFor(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)), view.Days[0].OnCall)
}

func TestGroupByCompany(t *testing.T) {
	day := []Activity{
		{Company: "VERTIV", Description: "primeira"},
		{Company: "Engemon", Description: "troca"},
		{Company: "VERTIV", Description: "segunda"},
		{Company: "COTEPE", Description: "limpeza"},
	}

	groups := GroupByCompany(day)
	require.Len(t, groups, 3)
	assert.Equal(t, "COTEPE", groups[0].Company)
	assert.Equal(t, "Engemon", groups[1].Company)
	assert.Equal(t, "VERTIV", groups[2].Company)

	// Source order survives within a group.
	require.Len(t, groups[2].Activities, 2)
	assert.Equal(t, "primeira", groups[2].Activities[0].Description)
	assert.Equal(t, "segunda", groups[2].Activities[1].Description)
}

func TestGroupByCompanyEmpty(t *testing.T) {
	assert.Empty(t, GroupByCompany(nil))
}
