package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kochimetro/induction/core/model"
)

// rosterColumns is the fixed roster schema beyond train_id, in documentation
// order. columnDefault describes each column's default for the warning text.
var rosterColumns = []string{
	"fitness_valid_until",
	"job_card_open",
	"branding_priority",
	"mileage_last_week",
	"needs_cleaning",
	"bay_position",
}

// NormalizeRoster validates the roster table against the required schema and
// builds one Train per row. Columns missing from the table are filled with
// their documented default for every row and produce one warning each:
// fitness_valid_until defaults to the reference date, job_card_open and
// needs_cleaning to false, branding_priority and mileage_last_week to 0 and
// bay_position to absent. Unparsable date cells become a nil fitness date,
// which later fails the fitness check; unparsable numeric or boolean cells
// are silently coerced to their zero value.
func NormalizeRoster(table *model.Table, referenceDate time.Time) ([]model.Train, []string, error) {
	if table == nil || !table.Has("train_id") {
		return nil, nil, fmt.Errorf("roster table must contain a train_id column")
	}

	var warnings []string
	for _, col := range rosterColumns {
		if !table.Has(col) {
			warnings = append(warnings, fmt.Sprintf(
				"column %q missing in roster, filling with default = %s", col, columnDefault(col, referenceDate)))
		}
	}

	trains := make([]model.Train, 0, len(table.Rows))
	for i := range table.Rows {
		tr := model.Train{ID: strings.TrimSpace(table.Get(i, "train_id"))}
		if table.Has("fitness_valid_until") {
			tr.FitnessValidUntil = parseDate(table.Get(i, "fitness_valid_until"))
		} else {
			ref := referenceDate
			tr.FitnessValidUntil = &ref
		}
		if table.Has("job_card_open") {
			tr.JobCardOpen = parseBool(table.Get(i, "job_card_open"))
		}
		if table.Has("branding_priority") {
			tr.BrandingPriority = parseInt(table.Get(i, "branding_priority"))
		}
		if table.Has("mileage_last_week") {
			tr.MileageLastWeek = parseFloat(table.Get(i, "mileage_last_week"))
		}
		if table.Has("needs_cleaning") {
			tr.NeedsCleaning = parseBool(table.Get(i, "needs_cleaning"))
		}
		if table.Has("bay_position") {
			tr.BayPosition = strings.TrimSpace(table.Get(i, "bay_position"))
		}
		trains = append(trains, tr)
	}
	return trains, warnings, nil
}

func columnDefault(col string, ref time.Time) string {
	switch col {
	case "fitness_valid_until":
		return ref.Format(model.DateLayout)
	case "branding_priority", "mileage_last_week":
		return "0"
	case "bay_position":
		return "none"
	default:
		return "false"
	}
}

// parseDate accepts ISO dates with or without a time component. Anything
// unparsable is treated as an unknown date, not an error.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{model.DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(s)))
	return err == nil && b
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Roster exports sometimes carry integers as "3.0".
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
