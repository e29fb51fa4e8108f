// Package recommend ranks catalog plans against a customer's current policy.
package recommend

import (
	"math"
	"sort"

	"turtlemint-b2b/internal/domain"
)

// MaxResults caps how many plans are suggested.
const MaxResults = 3

// Reference is the policy the customer already holds.
type Reference struct {
	ID   string
	Type domain.PolicyType
}

// Ranked is a candidate plan with its computed value.
type Ranked struct {
	domain.CandidatePlan
	Value float64 `json:"value"`
	Best  bool    `json:"best"`
}

// Value is coverage per unit of premium. Plans without a positive premium
// score 0.
func Value(plan domain.CandidatePlan) float64 {
	if !(plan.Premium > 0) || math.IsInf(plan.Premium, 0) {
		return 0
	}
	v := plan.Coverage / plan.Premium
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Select returns up to MaxResults plans ordered by value. With a reference,
// the reference itself is excluded and same-type plans are placed ahead of
// the rest before the value sort, so they win ties.
func Select(ref *Reference, catalog []domain.CandidatePlan) []Ranked {
	if len(catalog) == 0 {
		return []Ranked{}
	}

	candidates := catalog
	if ref != nil {
		var same, other []domain.CandidatePlan
		for _, plan := range catalog {
			if plan.ID == ref.ID {
				continue
			}
			if plan.Type == ref.Type {
				same = append(same, plan)
			} else {
				other = append(other, plan)
			}
		}
		candidates = append(same, other...)
	}

	ordered := byValue(candidates)

	if len(ordered) > MaxResults {
		ordered = ordered[:MaxResults]
	}
	if len(ordered) > 0 {
		ordered[0].Best = true
	}
	return ordered
}

func byValue(plans []domain.CandidatePlan) []Ranked {
	out := make([]Ranked, 0, len(plans))
	for _, p := range plans {
		out = append(out, Ranked{CandidatePlan: p, Value: Value(p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
