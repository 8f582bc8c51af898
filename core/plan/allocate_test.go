package plan

import (
	"testing"

	"github.com/kochimetro/induction/core/model"
)

func eval(id string, eligible bool, score float64) model.Evaluation {
	return model.Evaluation{TrainID: id, Eligible: eligible, Score: score}
}

func TestAllocate_Partition(t *testing.T) {
	evals := []model.Evaluation{
		eval("A", true, 300),
		eval("B", true, 200),
		eval("C", true, 100),
		eval("D", false, 999),
		eval("E", true, 50),
	}
	allocs := Allocate(evals, 2, 1)
	if len(allocs) != len(evals) {
		t.Fatalf("allocation lost trains: %d != %d", len(allocs), len(evals))
	}
	seen := map[string]model.Assignment{}
	for _, a := range allocs {
		if _, dup := seen[a.TrainID]; dup {
			t.Fatalf("train %s appears twice", a.TrainID)
		}
		seen[a.TrainID] = a.Assignment
	}
	want := map[string]model.Assignment{
		"A": model.AssignService,
		"B": model.AssignService,
		"C": model.AssignStandby,
		"D": model.AssignMaintenance,
		"E": model.AssignMaintenance,
	}
	for id, w := range want {
		if seen[id] != w {
			t.Errorf("%s = %s, want %s", id, seen[id], w)
		}
	}
}

func TestAllocate_QuotaExceedsEligible(t *testing.T) {
	evals := []model.Evaluation{
		eval("A", true, 10),
		eval("B", false, 20),
	}
	allocs := Allocate(evals, 5, 5)
	s := Summarize(allocs)
	if s.Service != 1 || s.Standby != 0 || s.Maintenance != 1 {
		t.Fatalf("summary = %+v, want service=1 standby=0 maintenance=1", s)
	}
}

func TestAllocate_IneligibleScoreNeverWins(t *testing.T) {
	evals := []model.Evaluation{
		eval("blocked", false, 10000),
		eval("ok", true, 1),
	}
	allocs := Allocate(evals, 1, 0)
	for _, a := range allocs {
		switch a.TrainID {
		case "blocked":
			if a.Assignment != model.AssignMaintenance {
				t.Errorf("blocked train assigned %s", a.Assignment)
			}
		case "ok":
			if a.Assignment != model.AssignService {
				t.Errorf("eligible train assigned %s", a.Assignment)
			}
		}
	}
}

func TestAllocate_TiesKeepInputOrder(t *testing.T) {
	evals := []model.Evaluation{
		eval("first", true, 100),
		eval("second", true, 100),
	}
	allocs := Allocate(evals, 1, 1)
	if allocs[0].TrainID != "first" || allocs[0].Assignment != model.AssignService {
		t.Fatalf("tie broken against input order: %+v", allocs[0])
	}
	if allocs[1].TrainID != "second" || allocs[1].Assignment != model.AssignStandby {
		t.Fatalf("tie broken against input order: %+v", allocs[1])
	}
}

func TestAllocate_OutputOrder(t *testing.T) {
	evals := []model.Evaluation{
		eval("ineligible", false, 0),
		eval("low", true, 1),
		eval("high", true, 2),
	}
	allocs := Allocate(evals, 1, 0)
	gotIDs := []string{allocs[0].TrainID, allocs[1].TrainID, allocs[2].TrainID}
	wantIDs := []string{"high", "low", "ineligible"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("output order = %v, want %v", gotIDs, wantIDs)
		}
	}
}

func TestAllocate_Empty(t *testing.T) {
	if allocs := Allocate(nil, 3, 2); len(allocs) != 0 {
		t.Fatalf("expected empty allocation, got %d", len(allocs))
	}
}

func TestSummarize(t *testing.T) {
	allocs := Allocate([]model.Evaluation{
		eval("A", true, 3),
		eval("B", true, 2),
		eval("C", true, 1),
		eval("D", false, 0),
	}, 1, 1)
	s := Summarize(allocs)
	if s.Fleet != 4 || s.Eligible != 3 || s.Service != 1 || s.Standby != 1 || s.Maintenance != 2 {
		t.Fatalf("summary = %+v", s)
	}
}
