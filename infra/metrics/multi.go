package metrics

import coremetrics "github.com/kochimetro/induction/core/metrics"

// MultiSink fans plan events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAllocations forwards per-train detail when supported by the sink.
func (m *MultiSink) RecordAllocations(recs []coremetrics.AllocationRecord) error {
	for _, s := range m.Sinks {
		if ar, ok := s.(coremetrics.AllocationRecorder); ok {
			if err := ar.RecordAllocations(recs); err != nil {
				return err
			}
		}
	}
	return nil
}
