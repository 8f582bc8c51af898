package scenarios

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochimetro/induction/core/model"
	coreplan "github.com/kochimetro/induction/core/plan"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/infra/metrics"
)

// RunScenario executes one scenario through the full pipeline and checks the
// expected assignments.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	ref, err := time.Parse("2006-01-02", sc.ReferenceDate)
	if err != nil {
		t.Fatalf("scenario %s: bad reference_date: %v", sc.Name, err)
	}

	req := coreplan.Request{
		Roster:        sc.RosterTable(),
		ReferenceDate: ref,
		ServiceQuota:  sc.ServiceQuota,
		StandbyQuota:  sc.StandbyQuota,
	}
	if sc.JobCards != nil {
		req.JobCards = make([]model.JobCard, 0, len(*sc.JobCards))
		for _, j := range *sc.JobCards {
			req.JobCards = append(req.JobCards, j.ToModel())
		}
	}
	if sc.CleaningSlots != nil {
		req.CleaningSlots = make([]model.CleaningSlot, 0, len(*sc.CleaningSlots))
		for _, s := range *sc.CleaningSlots {
			req.CleaningSlots = append(req.CleaningSlots, s.ToModel())
		}
	}

	planner := coreplan.New(logger.NopLogger{}, sink)
	result, err := planner.Run(req)
	if err != nil {
		t.Fatalf("scenario %s: run: %v", sc.Name, err)
	}

	byTrain := map[string]string{}
	reasons := map[string]string{}
	eligible := 0
	for _, a := range result.Allocations {
		byTrain[a.TrainID] = string(a.Assignment)
		reasons[a.TrainID] = a.Reason()
		if a.Eligible {
			eligible++
		}
	}

	for id, want := range sc.Expected.Assignments {
		if got := byTrain[id]; got != want {
			t.Errorf("scenario %s: train %s assigned %q, want %q", sc.Name, id, got, want)
		}
	}
	for id, want := range sc.Expected.Reasons {
		if got := reasons[id]; !strings.Contains(got, want) {
			t.Errorf("scenario %s: train %s reason %q does not contain %q", sc.Name, id, got, want)
		}
	}
	if sc.Expected.Eligible != nil && eligible != *sc.Expected.Eligible {
		t.Errorf("scenario %s: eligible = %d, want %d", sc.Name, eligible, *sc.Expected.Eligible)
	}
}
