package plan

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kochimetro/induction/core/model"
)

// Weights tunes the priority score. The score for a train is
// branding_priority*Branding - normalizedMileage*Mileage, where mileage is
// z-scored over the whole roster so that low-mileage trains rank higher.
type Weights struct {
	Branding float64 `json:"branding"`
	Mileage  float64 `json:"mileage"`
}

// DefaultWeights returns the operational defaults.
func DefaultWeights() Weights {
	return Weights{Branding: 1000, Mileage: 100}
}

// Evaluator runs the eligibility rules and the priority scoring over a
// normalized roster. The zero value uses DefaultWeights.
type Evaluator struct {
	Weights Weights
}

// Evaluate applies the blocking rules to every train and computes its score.
//
// Rules run in a fixed order per train: fitness validity, open job cards,
// cleaning capacity. Reasons accumulate, so a train can be blocked for more
// than one of them. Cleaning capacity, when known (capacity != nil), is
// consumed in input row order, not score order: a low-priority train early in
// the roster can take the slot a higher-priority train later in the roster
// needed. That mirrors how the depot hands out bays tonight and is a known
// tension with the score-based service ranking.
//
// The score is computed for every train, eligible or not, using the mileage
// mean and population standard deviation of the full roster.
func (ev Evaluator) Evaluate(roster []model.Train, referenceDate time.Time, jobCards []model.JobCard, capacity *int) []model.Evaluation {
	w := ev.Weights
	if w.Branding == 0 && w.Mileage == 0 {
		w = DefaultWeights()
	}

	mean, std := mileageStats(roster)

	remaining := 0
	if capacity != nil {
		remaining = *capacity
	}

	results := make([]model.Evaluation, 0, len(roster))
	for _, tr := range roster {
		res := model.Evaluation{
			TrainID:          tr.ID,
			Eligible:         true,
			BrandingPriority: tr.BrandingPriority,
			MileageLastWeek:  tr.MileageLastWeek,
			BayPosition:      tr.BayPosition,
		}

		if tr.FitnessValidUntil == nil || tr.FitnessValidUntil.Before(referenceDate) {
			res.Eligible = false
			res.Reasons = append(res.Reasons, "Expired fitness")
		}

		if jobCards != nil {
			if card, ok := firstJobCard(jobCards, tr.ID); ok {
				res.Eligible = false
				res.Reasons = append(res.Reasons, fmt.Sprintf("Open job-card (%s)", severityLabel(card)))
			}
		}

		if tr.NeedsCleaning {
			res.Reasons = append(res.Reasons, "Needs cleaning")
			if capacity != nil && res.Eligible {
				if remaining > 0 {
					remaining--
				} else {
					res.Eligible = false
					res.Reasons = append(res.Reasons, "No cleaning slot available")
				}
			}
		}

		norm := (tr.MileageLastWeek - mean) / std
		res.Score = float64(tr.BrandingPriority)*w.Branding - norm*w.Mileage

		results = append(results, res)
	}
	return results
}

// mileageStats computes the fleet-wide mileage mean and population standard
// deviation, flooring the deviation to 1 so the z-score stays defined for
// uniform fleets.
func mileageStats(roster []model.Train) (mean, std float64) {
	xs := make([]float64, len(roster))
	for i, tr := range roster {
		xs[i] = tr.MileageLastWeek
	}
	if len(xs) == 0 {
		return 0, 1
	}
	mean = stat.Mean(xs, nil)
	std = stat.PopStdDev(xs, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	return mean, std
}

// firstJobCard returns the first card matching trainID. A train may carry
// several open cards; only the first is consulted for the reason text.
func firstJobCard(cards []model.JobCard, trainID string) (model.JobCard, bool) {
	for _, c := range cards {
		if c.TrainID == trainID {
			return c, true
		}
	}
	return model.JobCard{}, false
}

func severityLabel(c model.JobCard) string {
	if c.Severity == "" {
		return "N/A"
	}
	return c.Severity
}
