// Package attrition removes a configured fraction of assigned subjects
// between the baseline and endline waves. The default (and only) policy is
// uniform random selection independent of covariates, arm, and outcome, so
// treatment stays balanced and unconfounded post-attrition by construction.
package attrition

import (
	"math"

	xrand "golang.org/x/exp/rand"
)

// RetainedCount returns round(n * (1 - rate)), rounded to nearest.
func RetainedCount(n int, rate float64) int {
	return int(math.Round(float64(n) * (1 - rate)))
}

// Select picks the endline survivors from the baseline identifiers. The
// returned slice preserves baseline order and is always a subset of ids.
func Select(ids []string, rate float64, rnd *xrand.Rand) []string {
	keep := RetainedCount(len(ids), rate)
	if keep >= len(ids) {
		out := make([]string, len(ids))
		copy(out, ids)
		return out
	}

	// Uniform subset: permute indices, keep the first k, then restore
	// baseline order so downstream assembly is positionally stable.
	perm := rnd.Perm(len(ids))
	chosen := make([]bool, len(ids))
	for _, idx := range perm[:keep] {
		chosen[idx] = true
	}
	out := make([]string, 0, keep)
	for i, id := range ids {
		if chosen[i] {
			out = append(out, id)
		}
	}
	return out
}
