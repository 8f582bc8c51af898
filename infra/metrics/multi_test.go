package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/kochimetro/induction/core/metrics"
)

type fakeSink struct {
	plans  int
	allocs int
	err    error
}

func (f *fakeSink) RecordPlan(coremetrics.PlanEvent) error {
	f.plans++
	return f.err
}

func (f *fakeSink) RecordAllocations(recs []coremetrics.AllocationRecord) error {
	f.allocs += len(recs)
	return nil
}

type planOnlySink struct{ plans int }

func (p *planOnlySink) RecordPlan(coremetrics.PlanEvent) error {
	p.plans++
	return nil
}

func TestMultiSinkFanout(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.plans != 1 || b.plans != 1 {
		t.Fatalf("fanout missed a sink: %d %d", a.plans, b.plans)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeSink{err: boom}
	b := &fakeSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestMultiSinkAllocationsSkipUnsupported(t *testing.T) {
	a := &fakeSink{}
	b := &planOnlySink{}
	m := NewMultiSink(a, b)
	recs := []coremetrics.AllocationRecord{{TrainID: "TS01"}, {TrainID: "TS02"}}
	if err := m.RecordAllocations(recs); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.allocs != 2 {
		t.Fatalf("supporting sink saw %d records, want 2", a.allocs)
	}
}
