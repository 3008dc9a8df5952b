package app

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
	"github.com/nocfacilities/plantao-calendar/internal/roster"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

// GenerateICS generates an iCalendar (ICS) file with the month's activities
// as all-day events. An optional lembrete=HH:MM query parameter adds a
// same-day display alarm to every event.
func GenerateICS(w http.ResponseWriter, r *http.Request, year int, month time.Month, activities []activity.Activity) {
	reminder := r.URL.Query().Get("lembrete")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=manutencoes_%04d-%02d.ics", year, int(month)))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Manutenções %s\n", monthLabel(source.MonthNames[month], year))
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ICSTimezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	for _, a := range activities {
		date, err := time.Parse("2006-01-02", a.Date)
		if err != nil {
			continue
		}

		// UID must be stable across downloads of the same data.
		uid := fmt.Sprintf("%s-%s@plantao-calendar", a.Date, sanitizeUID(a.Company+"-"+a.Description))

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s\n", uid)
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", icsEscape(a.Company+" - "+a.Description))
		fmt.Fprintf(w, "DESCRIPTION:%s\n", icsEscape(a.Description))
		if a.Group != "" {
			fmt.Fprintf(w, "CATEGORIES:%s\n", a.Group)
		}
		if reminder != "" {
			addAlarm(w, reminder, a.Description)
		}
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// addAlarm writes a display alarm at HH:MM on the event day. The event is
// all-day (starts at midnight), so the trigger is a positive offset.
func addAlarm(w http.ResponseWriter, alarmTime, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Lembrete: %s\n", icsEscape(description))
	fmt.Fprintf(w, "TRIGGER:PT%dH%dM\n", hour, minute)
	fmt.Fprintln(w, "END:VALARM")
}

func icsEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	return strings.ReplaceAll(s, "\n", "\\n")
}

func sanitizeUID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// GenerateCSV generates a CSV file with the month's activities.
func GenerateCSV(w http.ResponseWriter, year int, month time.Month, activities []activity.Activity) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=manutencoes_%04d-%02d.csv", year, int(month)))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Data", "Empresa", "Descrição", "Periodicidade", "Grupo"})
	for _, a := range activities {
		_ = cw.Write([]string{a.Date, a.Company, a.Description, a.Periodicity, string(a.Group)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Warnw("error writing CSV export", "error", err)
	}
}

// GenerateJSON generates a JSON file with the month's activities.
func GenerateJSON(w http.ResponseWriter, year int, month time.Month, activities []activity.Activity) {
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=manutencoes_%04d-%02d.json", year, int(month)))

	writeJSON(w, map[string]interface{}{
		"year":       year,
		"month":      int(month),
		"activities": activities,
	})
}

// subscriptionWindow is how far the on-call feed reaches around today.
const (
	subscribePastDays   = 35
	subscribeFutureDays = 180
)

// handleSubscribe returns an ICS subscription feed with one team's on-call
// shifts computed from the rotation. The team is the path segment, either
// the full label or just the letter ("A".."D").
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	team := resolveTeam(chi.URLParam(r, "equipe"))
	if team == "" {
		http.Error(w, "Unknown team", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	// No Content-Disposition header - calendar apps need inline content
	// for subscriptions.

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintln(w, "METHOD:PUBLISH")
	fmt.Fprintf(w, "X-WR-CALNAME:Plantão %s\n", team)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ICSTimezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")
	fmt.Fprintln(w, "X-PUBLISHED-TTL:PT1H")

	start := time.Now().AddDate(0, 0, -subscribePastDays)
	for i := 0; i <= subscribePastDays+subscribeFutureDays; i++ {
		day := start.AddDate(0, 0, i)
		assignment := roster.OnCallFor(day)

		if assignment.Day == team {
			writeShiftEvent(w, day, team, "Plantão Diurno", "T060000", "T180000", 0)
		}
		if assignment.Night == team {
			// Night shift runs into the next day.
			writeShiftEvent(w, day, team, "Plantão Noturno", "T180000", "T060000", 1)
		}
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

func writeShiftEvent(w http.ResponseWriter, day time.Time, team, label, startTime, endTime string, endDayOffset int) {
	date := day.Format("20060102")
	endDate := day.AddDate(0, 0, endDayOffset).Format("20060102")

	fmt.Fprintln(w, "BEGIN:VEVENT")
	fmt.Fprintf(w, "UID:%s-%s-%s@plantao-calendar\n", date, sanitizeUID(label), sanitizeUID(team))
	fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
	fmt.Fprintf(w, "DTSTART;TZID=%s:%s%s\n", ICSTimezone, date, startTime)
	fmt.Fprintf(w, "DTEND;TZID=%s:%s%s\n", ICSTimezone, endDate, endTime)
	fmt.Fprintf(w, "SUMMARY:%s - %s\n", icsEscape(label), icsEscape(team))
	fmt.Fprintln(w, "END:VEVENT")
}

// resolveTeam accepts "Equipe A", "equipe-a" or "A" and returns the
// canonical team label, empty when unknown.
func resolveTeam(raw string) string {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "EQUIPE")
	normalized = strings.Trim(normalized, " -_")

	for _, team := range roster.Teams {
		if strings.EqualFold(team, raw) || strings.HasSuffix(team, " "+normalized) {
			return team
		}
	}
	return ""
}
