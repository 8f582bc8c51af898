package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kochimetro/induction/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs     prometheus.Counter
	buckets  *prometheus.GaugeVec
	eligible prometheus.Gauge
	duration prometheus.Histogram
}

// NewPromSink registers planner metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "induction_plans_total",
		Help: "Total number of planning runs",
	})
	buckets := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "induction_bucket_size",
		Help: "Train count per assignment bucket in the latest plan",
	}, []string{"assignment"})
	eligible := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_eligible_trains",
		Help: "Eligible train count in the latest plan",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "induction_plan_duration_seconds",
		Help:    "Time spent computing a plan",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(buckets); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			buckets = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(eligible); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			eligible = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, buckets: buckets, eligible: eligible, duration: duration}, nil
}

// RecordPlan updates the run counter and latest-plan gauges.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.runs.Inc()
	s.buckets.WithLabelValues("service").Set(float64(ev.Service))
	s.buckets.WithLabelValues("standby").Set(float64(ev.Standby))
	s.buckets.WithLabelValues("maintenance").Set(float64(ev.Maintenance))
	s.eligible.Set(float64(ev.Eligible))
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}
