package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestOnCallForReferenceDate(t *testing.T) {
	got := OnCallFor(ReferenceDate)
	assert.Equal(t, "Equipe A", got.Day)
	assert.Equal(t, "Equipe C", got.Night)
}

func TestOnCallForFirstCycle(t *testing.T) {
	want := []Assignment{
		{Day: "Equipe A", Night: "Equipe C"},
		{Day: "Equipe B", Night: "Equipe D"},
		{Day: "Equipe C", Night: "Equipe A"},
		{Day: "Equipe D", Night: "Equipe B"},
	}
	for i, w := range want {
		got := OnCallFor(date(2025, time.January, 1+i))
		assert.Equal(t, w, got, "2025-01-%02d", 1+i)
	}
}

func TestOnCallForPeriodFour(t *testing.T) {
	start := date(2025, time.March, 10)
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i)
		assert.Equal(t, OnCallFor(d), OnCallFor(d.AddDate(0, 0, 4)),
			"assignment must repeat every 4 days from %s", d.Format("2006-01-02"))
	}
}

func TestOnCallForBeforeReference(t *testing.T) {
	// 2024-12-31 is offset -1, which wraps to index 3.
	got := OnCallFor(date(2024, time.December, 31))
	assert.Equal(t, Assignment{Day: "Equipe D", Night: "Equipe B"}, got)

	// A full cycle earlier still lands on index 0.
	got = OnCallFor(date(2024, time.December, 28))
	assert.Equal(t, Assignment{Day: "Equipe A", Night: "Equipe C"}, got)
}

func TestOnCallForIgnoresTimeOfDay(t *testing.T) {
	d := time.Date(2025, time.June, 7, 23, 59, 59, 0, time.Local)
	assert.Equal(t, OnCallFor(date(2025, time.June, 7)), OnCallFor(d))
}

func TestCurrentShift(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, ShiftNight},
		{5, ShiftNight},
		{6, ShiftDay},
		{12, ShiftDay},
		{17, ShiftDay},
		{18, ShiftNight},
		{23, ShiftNight},
	}
	for _, tt := range tests {
		now := time.Date(2025, time.April, 3, tt.hour, 30, 0, 0, time.Local)
		assert.Equal(t, tt.want, CurrentShift(now), "hour %d", tt.hour)
	}
}

func TestNightShiftFollowsDayShiftByTwo(t *testing.T) {
	// Each team's night shift lands exactly two days after its day shift,
	// never on the adjacent days.
	for i := 0; i < rotationPeriod; i++ {
		team := daySequence[i]
		assert.Equal(t, team, nightSequence[(i+2)%rotationPeriod])
		assert.NotEqual(t, team, nightSequence[(i+1)%rotationPeriod])
		assert.NotEqual(t, team, nightSequence[(i+3)%rotationPeriod])
	}
}
