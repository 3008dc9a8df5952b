package activity

// colorPriority is the fixed resolution order when multiple freezing groups
// share a day. A day with both TBRA and B2B_TBRA entries must always take
// B2B_TBRA's class, regardless of input order.
var colorPriority = []Group{GroupFreezingComerciais, GroupB2BTBRA, GroupTBRA}

// groupColors maps canonical groups to their display class.
var groupColors = map[Group]ColorClass{
	GroupFreezingComerciais: ColorHoliday,
	GroupTBRA:               ColorFreezingTBRA,
	GroupB2BTBRA:            ColorFreezingB2BTBRA,
	GroupFeriado:            ColorHoliday,
}

// DaySummary is the classification result for one day's (already filtered)
// activity subset.
type DaySummary struct {
	PeriodicCount int
	Color         ColorClass
	// RealHoliday marks a true holiday entry; only those get the red
	// border, even though FREEZING_COMERCIAIS shares the holiday class.
	RealHoliday bool
}

// Classify resolves the single display class and the countable-activity
// badge for a day. Resolution order: real holiday, then the group priority
// walk, then generic activity, then none. Unknown periodicities and groups
// fall through without matching anything.
func Classify(day []Activity) DaySummary {
	summary := DaySummary{Color: ColorNone}

	for _, a := range day {
		if a.Periodicity != "" && IsCountable(a.Periodicity) {
			summary.PeriodicCount++
		}
	}

	for _, a := range day {
		if a.IsHoliday {
			summary.Color = groupColors[GroupFeriado]
			summary.RealHoliday = true
			return summary
		}
	}

	present := make(map[Group]bool, len(day))
	for _, a := range day {
		if a.Group != "" {
			present[a.Group] = true
		}
	}
	for _, g := range colorPriority {
		if present[g] {
			summary.Color = groupColors[g]
			return summary
		}
	}

	if len(day) > 0 {
		summary.Color = ColorGeneralActivity
	}
	return summary
}
