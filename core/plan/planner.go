package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kochimetro/induction/core/logger"
	"github.com/kochimetro/induction/core/metrics"
	"github.com/kochimetro/induction/core/model"
)

// Request carries the three input tables and the run parameters of one
// planning run.
type Request struct {
	// Roster is the trainset table. It must exist and carry train_id.
	Roster *model.Table
	// ReferenceDate is "today" for the fitness check.
	ReferenceDate time.Time
	// ServiceQuota is the number of trains required for revenue service.
	ServiceQuota int
	// StandbyQuota is the number of hot standby trains.
	StandbyQuota int
	// JobCards is nil when no job-card table was supplied, which disables
	// job-card blocking.
	JobCards []model.JobCard
	// CleaningSlots is nil when no cleaning-slot table was supplied, which
	// disables the capacity constraint. An empty non-nil slice means zero
	// capacity and blocks every train that needs cleaning.
	CleaningSlots []model.CleaningSlot
}

// Validate checks the fatal input conditions.
func (r Request) Validate() error {
	if r.Roster == nil {
		return fmt.Errorf("roster table is required")
	}
	if r.ReferenceDate.IsZero() {
		return fmt.Errorf("reference date is required")
	}
	if r.ServiceQuota < 1 {
		return fmt.Errorf("service quota must be at least 1")
	}
	if r.StandbyQuota < 0 {
		return fmt.Errorf("standby quota must not be negative")
	}
	return nil
}

// Planner runs the normalize, evaluate and allocate pipeline. It holds no
// per-run state, so a single Planner can serve concurrent runs.
type Planner struct {
	Weights Weights
	Log     logger.Logger
	Sink    metrics.MetricsSink
}

// New returns a Planner with default weights.
func New(log logger.Logger, sink metrics.MetricsSink) *Planner {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Planner{Weights: DefaultWeights(), Log: log, Sink: sink}
}

// Run executes one planning run over the request tables. The computation is
// pure: identical inputs yield an identical plan apart from the run ID and
// timestamp.
func (p *Planner) Run(req Request) (*model.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	roster, warnings, err := NormalizeRoster(req.Roster, req.ReferenceDate)
	if err != nil {
		return nil, err
	}
	if p.Log != nil {
		for _, w := range warnings {
			p.Log.Warnf("%s", w)
		}
	}

	var capacity *int
	if req.CleaningSlots != nil {
		c := model.CleaningCapacity(req.CleaningSlots)
		capacity = &c
	}

	ev := Evaluator{Weights: p.Weights}
	evals := ev.Evaluate(roster, req.ReferenceDate, req.JobCards, capacity)
	allocs := Allocate(evals, req.ServiceQuota, req.StandbyQuota)

	result := &model.Plan{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		ReferenceDate: req.ReferenceDate,
		Allocations:   allocs,
		Summary:       Summarize(allocs),
		Warnings:      warnings,
	}

	if p.Log != nil {
		p.Log.Infof("plan %s: fleet=%d eligible=%d service=%d standby=%d maintenance=%d",
			result.RunID, result.Summary.Fleet, result.Summary.Eligible,
			result.Summary.Service, result.Summary.Standby, result.Summary.Maintenance)
	}
	sink := p.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if err := sink.RecordPlan(metrics.PlanEvent{
		RunID:            result.RunID,
		Time:             result.GeneratedAt,
		ReferenceDate:    req.ReferenceDate,
		Fleet:            result.Summary.Fleet,
		Eligible:         result.Summary.Eligible,
		Service:          result.Summary.Service,
		Standby:          result.Summary.Standby,
		Maintenance:      result.Summary.Maintenance,
		Warnings:         len(warnings),
		CleaningCapacity: capacity,
		Duration:         time.Since(started),
	}); err != nil && p.Log != nil {
		p.Log.Errorf("record plan metrics: %v", err)
	}
	if ar, ok := sink.(metrics.AllocationRecorder); ok {
		recs := make([]metrics.AllocationRecord, 0, len(allocs))
		for _, a := range allocs {
			recs = append(recs, metrics.AllocationRecord{
				RunID:      result.RunID,
				TrainID:    a.TrainID,
				Assignment: string(a.Assignment),
				Eligible:   a.Eligible,
				Score:      a.Score,
				Time:       result.GeneratedAt,
			})
		}
		if err := ar.RecordAllocations(recs); err != nil && p.Log != nil {
			p.Log.Errorf("record allocation metrics: %v", err)
		}
	}
	return result, nil
}
