package activity

import "github.com/nocfacilities/plantao-calendar/internal/roster"

// RawDay is one calendar day of the month payload.
type RawDay struct {
	Date        string        `json:"data"`
	OnCallDay   string        `json:"on_call_dia"`
	OnCallNight string        `json:"on_call_noite"`
	Freezing    []RawFreezing `json:"freezing"`
	Vendors     []RawVendor   `json:"vendors"`
}

// RawFreezing is a raw freezing-window entry.
type RawFreezing struct {
	Group       string `json:"group"`
	Description string `json:"description"`
}

// RawVendor is a raw vendor maintenance entry.
type RawVendor struct {
	Company     string `json:"company"`
	Description string `json:"description"`
	Periodicity string `json:"periodicity,omitempty"`
	Group       string `json:"company_group,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
}

// Holiday is one entry of the holidays file.
type Holiday struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Normalize merges the month payload and the holiday list into the unified
// activity set and the per-date on-call roster. Either input may be nil or
// empty; normalization never fails.
func Normalize(days []RawDay, holidays []Holiday) ([]Activity, map[string]roster.Assignment) {
	activities := make([]Activity, 0, len(holidays)+len(days))
	assignments := make(map[string]roster.Assignment, len(days))

	for _, h := range holidays {
		activities = append(activities, Activity{
			Date:        h.Date,
			Company:     CompanyFeriado,
			Description: h.Description,
			Group:       GroupFeriado,
			IsHoliday:   true,
		})
	}

	for _, day := range days {
		assignments[day.Date] = roster.Assignment{
			Day:   day.OnCallDay,
			Night: day.OnCallNight,
		}

		for _, f := range day.Freezing {
			group, title := CanonicalGroup(f.Group)
			activities = append(activities, Activity{
				Date:        day.Date,
				Company:     title,
				Description: f.Description,
				Group:       group,
				Periodicity: PeriodicityFreezing,
				IsFreezing:  true,
			})
		}

		for _, v := range day.Vendors {
			activities = append(activities, Activity{
				Date:        day.Date,
				Company:     v.Company,
				Description: v.Description,
				Group:       Group(v.Group),
				Periodicity: v.Periodicity,
				ServiceType: v.ServiceType,
			})
		}
	}

	return activities, assignments
}

// ForDate returns the activities of a single date, preserving source order.
func ForDate(activities []Activity, date string) []Activity {
	var out []Activity
	for _, a := range activities {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}
