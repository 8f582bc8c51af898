package model

import "time"

// Train represents one trainset of the fleet for a single planning run.
// Records are built from one roster row each and are immutable during
// evaluation; nothing is persisted between runs.
type Train struct {
	ID string

	// FitnessValidUntil is the date beyond which the train is not certified
	// safe for revenue service. Nil means unknown and fails the fitness check.
	FitnessValidUntil *time.Time

	// JobCardOpen mirrors the roster flag. It is informational only; actual
	// blocking uses the job-card table join.
	JobCardOpen bool

	// BrandingPriority is the operator-assigned urgency, higher is more
	// urgent (e.g. marketing wrap commitments).
	BrandingPriority int

	MileageLastWeek float64
	NeedsCleaning   bool

	// BayPosition is the stabling bay identifier, empty when unknown.
	BayPosition string
}

// JobCard is an open maintenance work order. Any card for a train blocks
// that train from service.
type JobCard struct {
	TrainID   string
	JobCardID string
	// Severity is low, medium or high. Informational; empty when the source
	// table carries no severity column.
	Severity string
}

// CleaningSlot is one cleaning-bay slot for the night.
type CleaningSlot struct {
	SlotID    string
	Available bool
	// Shift is carried through from the source table but does not influence
	// capacity today.
	Shift string
}

// CleaningCapacity counts the available slots. The caller decides whether a
// capacity is known at all: a nil slot table means unconstrained cleaning,
// which is different from zero capacity.
func CleaningCapacity(slots []CleaningSlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
