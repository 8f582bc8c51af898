package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kochimetro/induction/core/model"
)

func sampleAllocations() []model.Allocation {
	return []model.Allocation{
		{
			Evaluation: model.Evaluation{
				TrainID: "TS01", Eligible: true, Score: 3100,
				BrandingPriority: 3, MileageLastWeek: 812.5, BayPosition: "B1",
			},
			Assignment: model.AssignService,
		},
		{
			Evaluation: model.Evaluation{
				TrainID: "TS02", Eligible: true, Score: -100,
				Reasons: []string{"Needs cleaning"},
			},
			Assignment: model.AssignStandby,
		},
		{
			Evaluation: model.Evaluation{
				TrainID: "TS03", Eligible: false, Score: 0,
				Reasons: []string{"Expired fitness", "Open job-card (high)"},
			},
			Assignment: model.AssignMaintenance,
		},
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := strings.Join(Header, ",")
	if got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	allocs := sampleAllocations()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, allocs); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(back) != len(allocs) {
		t.Fatalf("rows = %d, want %d", len(back), len(allocs))
	}
	for i, a := range allocs {
		b := back[i]
		if b.TrainID != a.TrainID || b.Assignment != a.Assignment {
			t.Errorf("row %d: got %s/%s, want %s/%s", i, b.TrainID, b.Assignment, a.TrainID, a.Assignment)
		}
		if b.Eligible != a.Eligible || b.Score != a.Score {
			t.Errorf("row %d: eligible/score drifted: %+v", i, b)
		}
		if b.Reason() != a.Reason() {
			t.Errorf("row %d: reason = %q, want %q", i, b.Reason(), a.Reason())
		}
		if b.MileageLastWeek != a.MileageLastWeek || b.BrandingPriority != a.BrandingPriority {
			t.Errorf("row %d: numeric columns drifted: %+v", i, b)
		}
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("train_id,eligible\nTS01,true\n"))
	if err == nil {
		t.Fatal("expected error for table without score/assignment columns")
	}
}

func TestWriteJSON(t *testing.T) {
	gen := time.Date(2025, 9, 16, 4, 30, 0, 0, time.UTC)
	ref := time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC)
	p := &model.Plan{
		RunID:         "run-1",
		GeneratedAt:   gen,
		ReferenceDate: ref,
		Allocations:   sampleAllocations(),
		Summary:       model.Summary{Fleet: 3, Eligible: 2, Service: 1, Standby: 1, Maintenance: 1},
		Warnings:      []string{"column \"bay_position\" missing in roster, filling with default = \"\""},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, p); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got struct {
		RunID         string `json:"run_id"`
		ReferenceDate string `json:"reference_date"`
		Summary       struct {
			Fleet int `json:"fleet"`
		} `json:"summary"`
		Allocations []struct {
			TrainID    string `json:"train_id"`
			Reason     string `json:"reason"`
			Assignment string `json:"assignment"`
		} `json:"allocations"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "run-1" || got.ReferenceDate != "2025-09-16" {
		t.Fatalf("envelope = %+v", got)
	}
	if got.Summary.Fleet != 3 || len(got.Allocations) != 3 || len(got.Warnings) != 1 {
		t.Fatalf("payload = %+v", got)
	}
	if got.Allocations[0].Reason != "OK" {
		t.Errorf("clean train reason = %q, want OK", got.Allocations[0].Reason)
	}
	if got.Allocations[2].Reason != "Expired fitness; Open job-card (high)" {
		t.Errorf("blocked train reason = %q", got.Allocations[2].Reason)
	}
}
