package plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coreplan "github.com/kochimetro/induction/core/plan"
)

func newTestHandler() http.Handler {
	return NewHandler(coreplan.New(nil, nil))
}

const planBody = `{
  "reference_date": "2025-09-16",
  "service_quota": 1,
  "standby_quota": 1,
  "roster": [
    {"train_id": "TS01", "fitness_valid_until": "2025-09-20", "branding_priority": 3, "mileage_last_week": 400},
    {"train_id": "TS02", "fitness_valid_until": "2025-09-20", "branding_priority": 0, "mileage_last_week": 600},
    {"train_id": "TS03", "fitness_valid_until": "2025-09-01"}
  ]
}`

func TestHandler_PlanJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(planBody))
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var got struct {
		RunID       string `json:"run_id"`
		Summary     struct{ Fleet, Eligible, Service, Standby, Maintenance int }
		Allocations []struct {
			TrainID    string `json:"train_id"`
			Assignment string `json:"assignment"`
		} `json:"allocations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID == "" {
		t.Error("missing run id")
	}
	if got.Summary.Fleet != 3 || got.Summary.Service != 1 || got.Summary.Standby != 1 || got.Summary.Maintenance != 1 {
		t.Fatalf("summary = %+v", got.Summary)
	}
	if got.Allocations[0].TrainID != "TS01" || got.Allocations[0].Assignment != "Service" {
		t.Fatalf("top allocation = %+v", got.Allocations[0])
	}
}

func TestHandler_PlanCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan?format=csv", strings.NewReader(planBody))
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "train_id,eligible,score,reason") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestHandler_OptionalTables(t *testing.T) {
	body := `{
	  "reference_date": "2025-09-16",
	  "service_quota": 1,
	  "roster": [{"train_id": "TS01", "fitness_valid_until": "2025-09-20", "needs_cleaning": true}],
	  "cleaning_slots": []
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body))
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Allocations []struct {
			Eligible   bool   `json:"eligible"`
			Reason     string `json:"reason"`
			Assignment string `json:"assignment"`
		} `json:"allocations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Present-but-empty slot list means zero capacity, not unconstrained.
	a := got.Allocations[0]
	if a.Eligible || !strings.Contains(a.Reason, "No cleaning slot available") {
		t.Fatalf("allocation = %+v", a)
	}
}

func TestHandler_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"roster": [`},
		{"missing roster", `{"reference_date": "2025-09-16", "service_quota": 1}`},
		{"bad date", `{"reference_date": "16/09/2025", "service_quota": 1, "roster": [{"train_id": "TS01"}]}`},
		{"zero service quota", `{"reference_date": "2025-09-16", "service_quota": 0, "roster": [{"train_id": "TS01"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(tc.body))
			newTestHandler().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	newTestHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
