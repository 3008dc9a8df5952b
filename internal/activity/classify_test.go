package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyDay(t *testing.T) {
	got := Classify(nil)
	assert.Equal(t, ColorNone, got.Color)
	assert.Zero(t, got.PeriodicCount)
	assert.False(t, got.RealHoliday)
}

func TestClassifyGeneralActivity(t *testing.T) {
	got := Classify([]Activity{
		{Company: "VERTIV", Description: "Preventiva", Periodicity: "MENSAL"},
	})
	assert.Equal(t, ColorGeneralActivity, got.Color)
	assert.Equal(t, 1, got.PeriodicCount)
	assert.False(t, got.RealHoliday)
}

func TestClassifyHolidayWins(t *testing.T) {
	day := []Activity{
		{Company: "TBRA", Group: GroupTBRA, IsFreezing: true},
		{Company: CompanyFeriado, Group: GroupFeriado, IsHoliday: true},
		{Company: "B2B TBRA", Group: GroupB2BTBRA, IsFreezing: true},
	}
	got := Classify(day)
	assert.Equal(t, ColorHoliday, got.Color)
	assert.True(t, got.RealHoliday)
}

func TestClassifyFreezingComerciaisNotRealHoliday(t *testing.T) {
	// FREEZING_COMERCIAIS paints the holiday class but must not trigger
	// the real-holiday marker.
	got := Classify([]Activity{
		{Company: "FREEZING COMERCIAL", Group: GroupFreezingComerciais, IsFreezing: true},
	})
	assert.Equal(t, ColorHoliday, got.Color)
	assert.False(t, got.RealHoliday)
}

func TestClassifyPriorityOrderIndependent(t *testing.T) {
	tbra := Activity{Company: "TBRA", Group: GroupTBRA, IsFreezing: true}
	b2b := Activity{Company: "B2B TBRA", Group: GroupB2BTBRA, IsFreezing: true}
	comercial := Activity{Company: "FREEZING COMERCIAL", Group: GroupFreezingComerciais, IsFreezing: true}

	// B2B_TBRA beats TBRA in both input orders.
	assert.Equal(t, ColorFreezingB2BTBRA, Classify([]Activity{tbra, b2b}).Color)
	assert.Equal(t, ColorFreezingB2BTBRA, Classify([]Activity{b2b, tbra}).Color)

	// FREEZING_COMERCIAIS beats everything.
	perms := [][]Activity{
		{tbra, b2b, comercial},
		{b2b, comercial, tbra},
		{comercial, tbra, b2b},
	}
	for _, day := range perms {
		assert.Equal(t, ColorHoliday, Classify(day).Color)
	}

	assert.Equal(t, ColorFreezingTBRA, Classify([]Activity{tbra}).Color)
}

func TestClassifyHolidayWithVendorKeepsCount(t *testing.T) {
	// A holiday shared with a countable vendor entry keeps the badge even
	// though the color resolution short-circuits on the holiday.
	day := []Activity{
		{Company: CompanyFeriado, Group: GroupFeriado, IsHoliday: true},
		{Company: "SOTREQ", Description: "Preventiva gerador", Periodicity: "MENSAL"},
	}
	got := Classify(day)
	assert.Equal(t, ColorHoliday, got.Color)
	assert.True(t, got.RealHoliday)
	assert.Equal(t, 1, got.PeriodicCount)
}

func TestClassifyUnknownValuesFallThrough(t *testing.T) {
	got := Classify([]Activity{
		{Company: "ACME", Description: "Algo", Periodicity: "EVENTUAL", Group: Group("ACME_WINDOW")},
	})
	assert.Equal(t, ColorGeneralActivity, got.Color)
	assert.Zero(t, got.PeriodicCount)
}

func TestClassifyCountsOnlyCountable(t *testing.T) {
	day := []Activity{
		{Periodicity: "MENSAL"},
		{Periodicity: "anual"},
		{Periodicity: PeriodicityFreezing},
		{Periodicity: ""},
		{Periodicity: "SEMANAL"},
	}
	assert.Equal(t, 2, Classify(day).PeriodicCount)
}
