// Package activity holds the unified maintenance-activity model and the
// rules that classify and filter it: normalization of the raw month payload,
// company/description filtering, and per-day color resolution.
package activity

import "strings"

// Group is the canonical category tag used for display-color priority.
// Unrecognized raw tags pass through as their own Group value and fall
// through every classification rule.
type Group string

const (
	GroupFreezingComerciais Group = "FREEZING_COMERCIAIS"
	GroupTBRA               Group = "TBRA"
	GroupB2BTBRA            Group = "B2B_TBRA"
	GroupFeriado            Group = "FERIADO"
)

// ColorClass is the single display class applied to a day cell.
type ColorClass string

const (
	ColorHoliday         ColorClass = "holiday"
	ColorFreezingTBRA    ColorClass = "freezing-tbra"
	ColorFreezingB2BTBRA ColorClass = "freezing-b2b-tbra"
	ColorGeneralActivity ColorClass = "general-activity"
	ColorNone            ColorClass = "none"
)

// CompanyFeriado is the display company assigned to holiday entries.
const CompanyFeriado = "FERIADO"

// PeriodicityFreezing marks freezing-window entries.
const PeriodicityFreezing = "FREEZING"

// Companies selectable in the filter UI.
var Companies = []string{
	"VERTIV", "Engemon", "COTEPE", "CARRIER", "LG",
	"SOTREQ", "ENERG", "FERIADO", "TBRA", "B2B TBRA",
}

// countablePeriodicities are the cadences counted in the day badge.
var countablePeriodicities = map[string]bool{
	"MENSAL":        true,
	"BIMESTRAL":     true,
	"TRIMESTRAL":    true,
	"QUADRIMESTRAL": true,
	"SEMESTRAL":     true,
	"ANUAL":         true,
}

// Activity is the unified per-day record built from holidays, freezing
// windows and vendor entries. Date is always a YYYY-MM-DD string; at most
// one of IsHoliday/IsFreezing is true.
type Activity struct {
	Date        string `json:"date"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Group       Group  `json:"company_group,omitempty"`
	Periodicity string `json:"periodicity,omitempty"`
	IsHoliday   bool   `json:"isHoliday,omitempty"`
	IsFreezing  bool   `json:"isFreezing,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
}

// NormalizePeriodicity uppercases and canonicalizes a raw periodicity value
// (hyphens become underscores). Empty input normalizes to "N_A".
func NormalizePeriodicity(raw string) string {
	if raw == "" {
		return "N_A"
	}
	return strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(raw), "-", "_"))
}

// IsCountable reports whether a raw periodicity belongs to the countable set.
func IsCountable(raw string) bool {
	return countablePeriodicities[NormalizePeriodicity(raw)]
}

// CanonicalGroup maps a raw freezing-window group tag to its canonical Group
// and display title. Unknown tags keep their raw value with underscores
// shown as spaces.
func CanonicalGroup(raw string) (Group, string) {
	switch raw {
	case "TBRA_FREEZING":
		return GroupFreezingComerciais, "FREEZING COMERCIAL"
	case "TBRA_RELEASE", "TBRA_NGIN":
		return GroupTBRA, "TBRA"
	case "B2B_HUAWEI_FREEZING", "B2B_TBRA":
		return GroupB2BTBRA, "B2B TBRA"
	default:
		return Group(raw), strings.ReplaceAll(raw, "_", " ")
	}
}
