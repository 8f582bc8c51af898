package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kochimetro/induction/core/metrics"
)

func TestPromSinkRecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	ev := coremetrics.PlanEvent{
		RunID:       "run-1",
		Fleet:       25,
		Eligible:    18,
		Service:     15,
		Standby:     3,
		Maintenance: 7,
		Duration:    12 * time.Millisecond,
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}

	if got := values["induction_plans_total"]; got != 2 {
		t.Errorf("plans_total = %v, want 2", got)
	}
	if got := values["induction_eligible_trains"]; got != 18 {
		t.Errorf("eligible = %v, want 18", got)
	}
	if got := values["induction_bucket_size/service"]; got != 15 {
		t.Errorf("service bucket = %v, want 15", got)
	}
	if got := values["induction_bucket_size/maintenance"]; got != 7 {
		t.Errorf("maintenance bucket = %v, want 7", got)
	}
}

func TestNewPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("second sink on same registry should reuse collectors: %v", err)
	}
}
