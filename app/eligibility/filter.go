package eligibility

import "github.com/vibast-solutions/ms-go-autoapply/app/entity"

// Filter returns the candidates permitted to apply for a position, in pool
// order. The pool is expected in ascending account id order so the result
// is deterministic for dedup and tests. Pure function, no side effects.
func Filter(position string, required entity.Gender, pool []Candidate) []Candidate {
	eligible := make([]Candidate, 0, len(pool))
	for _, cand := range pool {
		if !cand.Account.IsActive {
			continue
		}
		if required != entity.GenderAny && cand.Profile.Gender != required {
			continue
		}
		if cand.Rules != nil && cand.Rules.Blocks(position) {
			continue
		}
		eligible = append(eligible, cand)
	}
	return eligible
}
