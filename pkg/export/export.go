// Package export serializes allocation plans for download and re-import.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kochimetro/induction/core/model"
)

// Header is the column order of the exported allocation table.
var Header = []string{
	"train_id", "eligible", "score", "reason",
	"branding_priority", "mileage_last_week", "bay_position", "assignment",
}

// WriteJSON writes the full plan to w in JSON format.
func WriteJSON(w io.Writer, p *model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(planPayload(p))
}

// WriteCSV writes the allocation table to w in CSV format with a header row.
// Booleans serialize as true/false.
func WriteCSV(w io.Writer, allocs []model.Allocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, a := range allocs {
		rec := []string{
			a.TrainID,
			strconv.FormatBool(a.Eligible),
			strconv.FormatFloat(a.Score, 'f', -1, 64),
			a.Reason(),
			strconv.Itoa(a.BrandingPriority),
			strconv.FormatFloat(a.MileageLastWeek, 'f', -1, 64),
			a.BayPosition,
			string(a.Assignment),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an allocation table previously written by WriteCSV. The
// reason column round-trips as a single joined string.
func ReadCSV(r io.Reader) ([]model.Allocation, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range []string{"train_id", "eligible", "score", "assignment"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []model.Allocation
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		eligible, _ := strconv.ParseBool(get(rec, "eligible"))
		score, _ := strconv.ParseFloat(get(rec, "score"), 64)
		branding, _ := strconv.Atoi(get(rec, "branding_priority"))
		mileage, _ := strconv.ParseFloat(get(rec, "mileage_last_week"), 64)
		a := model.Allocation{
			Evaluation: model.Evaluation{
				TrainID:          get(rec, "train_id"),
				Eligible:         eligible,
				Score:            score,
				BrandingPriority: branding,
				MileageLastWeek:  mileage,
				BayPosition:      get(rec, "bay_position"),
			},
			Assignment: model.Assignment(get(rec, "assignment")),
		}
		if reason := get(rec, "reason"); reason != "" && reason != "OK" {
			a.Reasons = strings.Split(reason, "; ")
		}
		out = append(out, a)
	}
	return out, nil
}

type planJSON struct {
	RunID         string             `json:"run_id"`
	GeneratedAt   string             `json:"generated_at"`
	ReferenceDate string             `json:"reference_date"`
	Summary       model.Summary      `json:"summary"`
	Allocations   []allocationJSON   `json:"allocations"`
	Warnings      []string           `json:"warnings,omitempty"`
}

type allocationJSON struct {
	TrainID          string  `json:"train_id"`
	Eligible         bool    `json:"eligible"`
	Score            float64 `json:"score"`
	Reason           string  `json:"reason"`
	BrandingPriority int     `json:"branding_priority"`
	MileageLastWeek  float64 `json:"mileage_last_week"`
	BayPosition      string  `json:"bay_position,omitempty"`
	Assignment       string  `json:"assignment"`
}

func planPayload(p *model.Plan) planJSON {
	out := planJSON{
		RunID:         p.RunID,
		GeneratedAt:   p.GeneratedAt.Format(time.RFC3339),
		ReferenceDate: p.ReferenceDate.Format(model.DateLayout),
		Summary:       p.Summary,
		Warnings:      p.Warnings,
	}
	out.Allocations = make([]allocationJSON, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		out.Allocations = append(out.Allocations, allocationJSON{
			TrainID:          a.TrainID,
			Eligible:         a.Eligible,
			Score:            a.Score,
			Reason:           a.Reason(),
			BrandingPriority: a.BrandingPriority,
			MileageLastWeek:  a.MileageLastWeek,
			BayPosition:      a.BayPosition,
			Assignment:       string(a.Assignment),
		})
	}
	return out
}
