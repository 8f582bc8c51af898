package plan

import (
	"sort"

	"github.com/kochimetro/induction/core/model"
)

// Allocate ranks the eligible trains by score and partitions the whole fleet
// into the three buckets. The first serviceQuota eligible trains by
// descending score go to Service, the next standbyQuota to Standby, and
// everything else, including every ineligible train, to Maintenance/Blocked.
// Ties keep their roster order (stable sort), which makes the ranking
// deterministic for identical inputs. Quotas larger than the eligible pool
// simply shrink the buckets; every input train appears in exactly one bucket.
//
// The returned slice is ordered Service first, then Standby, then the
// remaining eligible trains, then the ineligible ones.
func Allocate(evals []model.Evaluation, serviceQuota, standbyQuota int) []model.Allocation {
	var eligible, ineligible []model.Evaluation
	for _, e := range evals {
		if e.Eligible {
			eligible = append(eligible, e)
		} else {
			ineligible = append(ineligible, e)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	if serviceQuota < 0 {
		serviceQuota = 0
	}
	if standbyQuota < 0 {
		standbyQuota = 0
	}
	serviceEnd := min(serviceQuota, len(eligible))
	standbyEnd := min(serviceEnd+standbyQuota, len(eligible))

	out := make([]model.Allocation, 0, len(evals))
	for i, e := range eligible {
		a := model.Allocation{Evaluation: e}
		switch {
		case i < serviceEnd:
			a.Assignment = model.AssignService
		case i < standbyEnd:
			a.Assignment = model.AssignStandby
		default:
			a.Assignment = model.AssignMaintenance
		}
		out = append(out, a)
	}
	for _, e := range ineligible {
		out = append(out, model.Allocation{Evaluation: e, Assignment: model.AssignMaintenance})
	}
	return out
}

// Summarize counts the buckets of an allocation.
func Summarize(allocs []model.Allocation) model.Summary {
	s := model.Summary{Fleet: len(allocs)}
	for _, a := range allocs {
		if a.Eligible {
			s.Eligible++
		}
		switch a.Assignment {
		case model.AssignService:
			s.Service++
		case model.AssignStandby:
			s.Standby++
		default:
			s.Maintenance++
		}
	}
	return s
}
