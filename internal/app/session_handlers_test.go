package app

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/sharelink"
)

type sessionPayload struct {
	Year       int  `json:"year"`
	Month      int  `json:"month"`
	Restricted bool `json:"restricted"`
	Filter     struct {
		Company     string `json:"company"`
		Description string `json:"description"`
	} `json:"filter"`
	Modal struct {
		Level int `json:"level"`
		List  struct {
			Date       string `json:"date"`
			Activities []struct {
				Company string `json:"company"`
			} `json:"activities"`
		} `json:"list"`
		Detail struct {
			Activity struct {
				Company string `json:"company"`
			} `json:"activity"`
		} `json:"detail"`
	} `json:"modal"`
}

func TestSessionDrillDownFlow(t *testing.T) {
	srv := newTestServer(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	var view sessionPayload
	getJSON(t, ts, "/api/session", &view)
	if view.Year != 2025 || view.Month != 3 || view.Modal.Level != 0 {
		t.Fatalf("Unexpected initial session: %+v", view)
	}

	postJSON(t, ts, "/api/session/day/open", map[string]string{"date": "2025-03-10"}, &view)
	if view.Modal.Level != 1 || len(view.Modal.List.Activities) != 2 {
		t.Fatalf("Open day: expected list of 2, got %+v", view.Modal)
	}

	// Select the VERTIV entry.
	idx := -1
	for i, a := range view.Modal.List.Activities {
		if a.Company == "VERTIV" {
			idx = i
		}
	}
	postJSON(t, ts, "/api/session/day/select", map[string]int{"index": idx}, &view)
	if view.Modal.Level != 2 || view.Modal.Detail.Activity.Company != "VERTIV" {
		t.Fatalf("Select: expected VERTIV detail, got %+v", view.Modal)
	}

	postJSON(t, ts, "/api/session/day/back", map[string]string{}, &view)
	if view.Modal.Level != 1 || len(view.Modal.List.Activities) != 2 {
		t.Fatalf("Back: expected restored list, got %+v", view.Modal)
	}

	postJSON(t, ts, "/api/session/day/close", map[string]string{}, &view)
	if view.Modal.Level != 0 {
		t.Fatalf("Close: expected closed modal, got %+v", view.Modal)
	}
}

func TestSessionNavigateClosesModalKeepsFilter(t *testing.T) {
	srv := newTestServer(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	var view sessionPayload
	postJSON(t, ts, "/api/session/filters/empresa", map[string]string{"empresa": "VERTIV"}, &view)
	if view.Filter.Company != "VERTIV" {
		t.Fatalf("Company filter not applied: %+v", view.Filter)
	}

	postJSON(t, ts, "/api/session/day/open", map[string]string{"date": "2025-03-10"}, &view)
	postJSON(t, ts, "/api/session/navigate", map[string]string{"direction": "next"}, &view)

	if view.Month != 4 {
		t.Errorf("Expected April after navigate, got %d", view.Month)
	}
	if view.Modal.Level != 0 {
		t.Error("Navigation should close the drill-down")
	}
	if view.Filter.Company != "VERTIV" {
		t.Error("Filters should persist across navigation")
	}
}

func TestSessionOpenDayBadDate(t *testing.T) {
	srv := newTestServer(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp := postJSON(t, ts, "/api/session/day/open", map[string]string{"date": "10/03/2025"}, nil)
	if resp.StatusCode != 400 {
		t.Errorf("Expected 400 for bad date, got %d", resp.StatusCode)
	}
}

func TestSessionLinkLocksCompany(t *testing.T) {
	srv := newTestServer(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	token, err := sharelink.Seal(testLinkSecret, "VERTIV", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	var view sessionPayload
	postJSON(t, ts, "/api/session/link", map[string]string{"empresa": token}, &view)
	if !view.Restricted || view.Filter.Company != "VERTIV" {
		t.Fatalf("Link should lock VERTIV, got %+v", view)
	}

	// Changing the company is now forbidden.
	resp := postJSON(t, ts, "/api/session/filters/empresa", map[string]string{"empresa": "LG"}, nil)
	if resp.StatusCode != 403 {
		t.Errorf("Expected 403 on locked session, got %d", resp.StatusCode)
	}

	// Clearing keeps the locked company and reports the restriction.
	var cleared struct {
		Status  string         `json:"status"`
		Session sessionPayload `json:"session"`
	}
	postJSON(t, ts, "/api/session/filters/clear", map[string]string{}, &cleared)
	if cleared.Status != "restricted" {
		t.Errorf("Expected restricted clear status, got %q", cleared.Status)
	}
	if cleared.Session.Filter.Company != "VERTIV" {
		t.Errorf("Locked company should survive clear, got %+v", cleared.Session.Filter)
	}
}

func TestSessionLinkInvalidTokenLeavesUnrestricted(t *testing.T) {
	srv := newTestServer(t, false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	var res struct {
		Company *string `json:"company"`
	}
	postJSON(t, ts, "/api/session/link", map[string]string{"empresa": "garbage"}, &res)
	if res.Company != nil {
		t.Errorf("Invalid token should resolve to null, got %v", res.Company)
	}

	var view sessionPayload
	getJSON(t, ts, "/api/session", &view)
	if view.Restricted {
		t.Error("Invalid token must not restrict the session")
	}
}
