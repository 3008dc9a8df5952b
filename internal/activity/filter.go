package activity

import "strings"

// Filter is the active company/description filter. Empty fields match
// everything.
type Filter struct {
	Company     string `json:"company"`
	Description string `json:"description"`
}

// IsZero reports whether no filter is active.
func (f Filter) IsZero() bool {
	return f.Company == "" && f.Description == ""
}

// Apply returns the activities matching the filter, in input order. The
// company filter is a case-insensitive exact match, the description filter a
// case-insensitive substring match, and both must hold. An activity with an
// empty field never matches a non-empty filter on that field.
func (f Filter) Apply(activities []Activity) []Activity {
	if f.IsZero() {
		return activities
	}

	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether a single activity passes the filter.
func (f Filter) Matches(a Activity) bool {
	if f.Company != "" {
		if a.Company == "" || !strings.EqualFold(a.Company, f.Company) {
			return false
		}
	}
	if f.Description != "" {
		if a.Description == "" ||
			!strings.Contains(strings.ToLower(a.Description), strings.ToLower(f.Description)) {
			return false
		}
	}
	return true
}
