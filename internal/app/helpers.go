package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnw("error encoding response", "error", err)
	}
}

// yearMonthParams reads ano/mes query parameters, defaulting to the given
// fallback values. The bool result is false when a parameter is present but
// invalid (the caller has already replied with a 400).
func yearMonthParams(w http.ResponseWriter, r *http.Request, defYear int, defMonth time.Month) (int, time.Month, bool) {
	year, month := defYear, defMonth

	if s := r.URL.Query().Get("ano"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			http.Error(w, ErrInvalidYear, http.StatusBadRequest)
			return 0, 0, false
		}
		year = y
	}
	if s := r.URL.Query().Get("mes"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}

// displayDate turns YYYY-MM-DD into DD/MM/YYYY for headers and file names.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// todayString is the current date in data-file form.
func todayString(now time.Time) string {
	return now.Format("2006-01-02")
}

// monthLabel is the display header of a month ("Janeiro 2026").
func monthLabel(name string, year int) string {
	return fmt.Sprintf("%s %d", name, year)
}
