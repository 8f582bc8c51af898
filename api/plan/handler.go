// Package plan exposes the induction planner over HTTP.
package plan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/kochimetro/induction/core/model"
	coreplan "github.com/kochimetro/induction/core/plan"
	"github.com/kochimetro/induction/pkg/export"
)

// request is the JSON body of POST /api/plan. The roster rows are loosely
// typed so a missing column can be told apart from an empty cell, matching
// the CSV path. Job cards and cleaning slots are optional; omitting them
// disables the corresponding rule.
type request struct {
	ReferenceDate string              `json:"reference_date"`
	ServiceQuota  int                 `json:"service_quota"`
	StandbyQuota  int                 `json:"standby_quota"`
	Roster        []map[string]any    `json:"roster"`
	JobCards      *[]jobCardBody      `json:"job_cards"`
	CleaningSlots *[]cleaningSlotBody `json:"cleaning_slots"`
}

type jobCardBody struct {
	TrainID   string `json:"train_id"`
	JobCardID string `json:"job_card_id"`
	Severity  string `json:"severity"`
}

type cleaningSlotBody struct {
	SlotID    string `json:"slot_id"`
	Available bool   `json:"available"`
	Shift     string `json:"shift"`
}

// NewHandler returns an HTTP handler running the planner via POST /api/plan.
// The response is the plan as JSON, or the allocation table as CSV when the
// format=csv query parameter is set.
func NewHandler(planner *coreplan.Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
			return
		}

		req, err := buildRequest(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, err := planner.Run(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteCSV(w, result.Allocations); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(w, result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func buildRequest(body request) (coreplan.Request, error) {
	var req coreplan.Request
	if len(body.Roster) == 0 {
		return req, fmt.Errorf("roster is required")
	}
	ref, err := time.Parse(model.DateLayout, body.ReferenceDate)
	if err != nil {
		return req, fmt.Errorf("invalid reference_date %q, use YYYY-MM-DD", body.ReferenceDate)
	}

	req.Roster = tableFromRows(body.Roster)
	req.ReferenceDate = ref
	req.ServiceQuota = body.ServiceQuota
	req.StandbyQuota = body.StandbyQuota
	if body.JobCards != nil {
		cards := make([]model.JobCard, 0, len(*body.JobCards))
		for _, c := range *body.JobCards {
			cards = append(cards, model.JobCard{TrainID: c.TrainID, JobCardID: c.JobCardID, Severity: c.Severity})
		}
		req.JobCards = cards
	}
	if body.CleaningSlots != nil {
		slots := make([]model.CleaningSlot, 0, len(*body.CleaningSlots))
		for _, s := range *body.CleaningSlots {
			slots = append(slots, model.CleaningSlot{SlotID: s.SlotID, Available: s.Available, Shift: s.Shift})
		}
		req.CleaningSlots = slots
	}
	return req, nil
}

// tableFromRows converts JSON roster rows into the generic table form used
// by the normalizer. Column presence is the union of keys across rows.
func tableFromRows(rows []map[string]any) *model.Table {
	seen := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	t := &model.Table{Columns: cols}
	for _, r := range rows {
		row := make(model.Row, len(cols))
		for k, v := range r {
			row[k] = cellString(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
