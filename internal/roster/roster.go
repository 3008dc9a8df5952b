// Package roster computes the 12×36 on-call rotation: four teams cycling
// with a period of four days, one team on the day shift and one on the
// night shift for any given date.
package roster

import "time"

// Teams in rotation order
var Teams = []string{"Equipe A", "Equipe B", "Equipe C", "Equipe D"}

// Fixed shift sequences. Both are permutations of Teams; the night sequence
// is offset so a team rests two full days between its day and night blocks.
var (
	daySequence   = []string{"Equipe A", "Equipe B", "Equipe C", "Equipe D"}
	nightSequence = []string{"Equipe C", "Equipe D", "Equipe A", "Equipe B"}
)

// ReferenceDate is day offset 0 of the rotation.
var ReferenceDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)

const (
	rotationPeriod = 4

	// Shift boundaries (local hours)
	dayShiftStart = 6
	dayShiftEnd   = 18

	ShiftDay   = "day"
	ShiftNight = "night"
)

// Assignment holds the day and night teams for one date.
type Assignment struct {
	Day   string `json:"day"`
	Night string `json:"night"`
}

// OnCallFor returns the on-call assignment for the given date. The offset is
// the whole number of days between local midnights; fractional-day artifacts
// around daylight-saving transitions are accepted as-is.
func OnCallFor(date time.Time) Assignment {
	idx := rotationIndex(date)
	return Assignment{
		Day:   daySequence[idx],
		Night: nightSequence[idx],
	}
}

func rotationIndex(date time.Time) int {
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	offset := int(target.Sub(ReferenceDate).Hours() / 24)
	idx := offset % rotationPeriod
	if idx < 0 {
		idx += rotationPeriod
	}
	return idx
}

// CurrentShift reports which shift is on duty at the given instant.
// Day shift spans [06:00, 18:00); night shift covers the rest, including
// the hours after midnight.
func CurrentShift(now time.Time) string {
	hour := now.Hour()
	if hour >= dayShiftStart && hour < dayShiftEnd {
		return ShiftDay
	}
	return ShiftNight
}
