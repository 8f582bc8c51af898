package metrics

import "time"

// PlanEvent summarises one completed planning run for observability purposes.
type PlanEvent struct {
	RunID         string
	Time          time.Time
	ReferenceDate time.Time
	Fleet         int
	Eligible      int
	Service       int
	Standby       int
	Maintenance   int
	Warnings      int
	// CleaningCapacity is nil when no cleaning-slot table constrained the run.
	CleaningCapacity *int
	Duration         time.Duration
}

// MetricsSink records plan events.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// AllocationRecord is a per-train data point emitted by sinks that keep
// train-level detail.
type AllocationRecord struct {
	RunID      string
	TrainID    string
	Assignment string
	Eligible   bool
	Score      float64
	Time       time.Time
}

// AllocationRecorder is implemented by sinks able to record per-train detail.
type AllocationRecorder interface {
	RecordAllocations(recs []AllocationRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error                 { return nil }
func (NopSink) RecordAllocations([]AllocationRecord) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9465"
	}
}
