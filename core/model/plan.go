package model

import (
	"strings"
	"time"
)

// Assignment is the bucket a train ends up in after allocation.
type Assignment string

const (
	AssignService     Assignment = "Service"
	AssignStandby     Assignment = "Standby"
	AssignMaintenance Assignment = "Maintenance/Blocked"
)

// DateLayout is the wire format for all dates.
const DateLayout = "2006-01-02"

// Evaluation is the per-train outcome of the eligibility and scoring pass.
// Score is defined for every train, eligible or not.
type Evaluation struct {
	TrainID  string
	Eligible bool
	Score    float64
	// Reasons lists the blocking and informational rules that fired, in rule
	// order. Empty means the train passed every check.
	Reasons []string

	BrandingPriority int
	MileageLastWeek  float64
	BayPosition      string
}

// Reason joins the accumulated reasons for display, "OK" when none fired.
func (e Evaluation) Reason() string {
	if len(e.Reasons) == 0 {
		return "OK"
	}
	return strings.Join(e.Reasons, "; ")
}

// Allocation is an evaluation plus its assigned bucket.
type Allocation struct {
	Evaluation
	Assignment Assignment
}

// Summary holds the bucket counts of one run.
type Summary struct {
	Fleet       int `json:"fleet"`
	Eligible    int `json:"eligible"`
	Service     int `json:"service"`
	Standby     int `json:"standby"`
	Maintenance int `json:"maintenance"`
}

// Plan is the full result of one planning run.
type Plan struct {
	RunID         string       `json:"run_id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	ReferenceDate time.Time    `json:"reference_date"`
	Allocations   []Allocation `json:"allocations"`
	Summary       Summary      `json:"summary"`
	// Warnings carries recoverable input issues (missing columns, bad cells).
	Warnings []string `json:"warnings,omitempty"`
}
