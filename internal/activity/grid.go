package activity

import (
	"fmt"
	"sort"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/roster"
)

// DayTile is the per-day tuple handed to the rendering layer.
type DayTile struct {
	Day           int               `json:"day"`
	Date          string            `json:"date"`
	ColorClass    ColorClass        `json:"colorClass"`
	PeriodicCount int               `json:"periodicCount"`
	HasActivity   bool              `json:"hasActivity"`
	IsRealHoliday bool              `json:"isRealHoliday"`
	OnCall        roster.Assignment `json:"onCall"`
}

// MonthView is a full month ready for painting.
type MonthView struct {
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	StartDayOfWeek int       `json:"startDayOfWeek"`
	Days           []DayTile `json:"days"`
}

// BuildMonth computes the day tiles for a month from the unified activity
// set, the active filter and the roster. Dates missing from the payload
// roster fall back to the computed rotation.
func BuildMonth(year int, month time.Month, activities []Activity, filter Filter, assignments map[string]roster.Assignment) MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	view := MonthView{
		Year:           year,
		Month:          int(month),
		StartDayOfWeek: int(first.Weekday()),
		Days:           make([]DayTile, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)

		filtered := filter.Apply(ForDate(activities, date))
		summary := Classify(filtered)

		onCall, ok := assignments[date]
		if !ok {
			onCall = roster.OnCallFor(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
		}

		view.Days = append(view.Days, DayTile{
			Day:           day,
			Date:          date,
			ColorClass:    summary.Color,
			PeriodicCount: summary.PeriodicCount,
			HasActivity:   len(filtered) > 0,
			IsRealHoliday: summary.RealHoliday,
			OnCall:        onCall,
		})
	}

	return view
}

// CompanyGroup is one company's activities in the day drill-down list.
type CompanyGroup struct {
	Company    string     `json:"company"`
	Activities []Activity `json:"activities"`
}

// GroupByCompany groups a day's activities by company for the list view.
// Groups come out sorted lexicographically by company name; activities keep
// their source order within a group.
func GroupByCompany(activities []Activity) []CompanyGroup {
	index := make(map[string]int)
	var groups []CompanyGroup

	for _, a := range activities {
		i, ok := index[a.Company]
		if !ok {
			i = len(groups)
			index[a.Company] = i
			groups = append(groups, CompanyGroup{Company: a.Company})
		}
		groups[i].Activities = append(groups[i].Activities, a)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Company < groups[j].Company
	})
	return groups
}
