// Package assign performs covariate-blocked random assignment to the three
// treatment arms. Within every block the arms split into equal thirds, with
// the remainder handed out by an auxiliary random draw so no arm is
// systematically favored.
package assign

import (
	"fmt"
	"sort"
	"strings"

	xrand "golang.org/x/exp/rand"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/population"
	"github.com/mvittori/trialgen/internal/schema"
)

// PooledBlockKey is the synthetic stratum that absorbs undersized blocks
// under the "pool" policy.
const PooledBlockKey = "(pooled)"

// BlockTooSmallError reports a stratum with fewer subjects than the
// configured minimum under the "error" policy.
type BlockTooSmallError struct {
	Block string
	Size  int
	Min   int
}

func (e *BlockTooSmallError) Error() string {
	return fmt.Sprintf("assignment: block %q has %d subjects, need at least %d", e.Block, e.Size, e.Min)
}

// BlockReport summarizes one stratum after assignment.
type BlockReport struct {
	Key    string
	Size   int
	Counts map[schema.Treatment]int
}

// BlockKey builds the stratum key for a subject from the blocking covariates,
// in their configured order.
func BlockKey(s population.Subject, covariates []string) string {
	parts := make([]string, len(covariates))
	for i, cov := range covariates {
		switch cov {
		case schema.ColGender:
			parts[i] = s.Gender
		case schema.ColRace:
			parts[i] = s.Race
		case schema.ColAgeGroup:
			parts[i] = s.AgeGroup
		case schema.ColEducation:
			parts[i] = s.Education
		case schema.ColIncome:
			parts[i] = s.Income
		case schema.ColState:
			parts[i] = s.State
		}
	}
	return strings.Join(parts, "|")
}

// Assign groups subjects into exact-combination blocks and randomizes arms
// within each block. The returned map is keyed by subject identifier.
// Marginal assignment probability is 1/3 per arm; within a block the realized
// counts differ from size/3 by at most one.
func Assign(subjects []population.Subject, blocking config.BlockingConfig, rnd *xrand.Rand) (map[string]schema.Treatment, []BlockReport, error) {
	// Group identifiers by stratum, preserving sampling order within each.
	blocks := make(map[string][]string)
	for _, s := range subjects {
		key := BlockKey(s, blocking.Covariates)
		blocks[key] = append(blocks[key], s.ID)
	}

	// Apply the small-block policy before any randomness is consumed, so the
	// draw sequence depends only on the final block structure.
	keys := make([]string, 0, len(blocks))
	for key := range blocks {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pooled []string
	final := make(map[string][]string, len(blocks))
	for _, key := range keys {
		ids := blocks[key]
		if len(ids) >= blocking.MinBlockSize {
			final[key] = ids
			continue
		}
		switch blocking.SmallBlockPolicy {
		case config.SmallBlockPool:
			pooled = append(pooled, ids...)
		default:
			return nil, nil, &BlockTooSmallError{Block: key, Size: len(ids), Min: blocking.MinBlockSize}
		}
	}
	if len(pooled) > 0 {
		switch {
		case len(pooled) >= blocking.MinBlockSize:
			final[PooledBlockKey] = pooled
		case len(final) == 0:
			return nil, nil, &BlockTooSmallError{Block: PooledBlockKey, Size: len(pooled), Min: blocking.MinBlockSize}
		default:
			// Too few leftovers to balance on their own; fold them into the
			// largest block, first by sorted key on ties.
			largest := ""
			for _, key := range keys {
				ids, ok := final[key]
				if !ok {
					continue
				}
				if largest == "" || len(ids) > len(final[largest]) {
					largest = key
				}
			}
			final[largest] = append(final[largest], pooled...)
		}
	}

	finalKeys := make([]string, 0, len(final))
	for key := range final {
		finalKeys = append(finalKeys, key)
	}
	sort.Strings(finalKeys)

	assignments := make(map[string]schema.Treatment, len(subjects))
	reports := make([]BlockReport, 0, len(finalKeys))
	for _, key := range finalKeys {
		ids := final[key]
		arms := blockArms(len(ids), rnd)
		counts := make(map[schema.Treatment]int, 3)
		for i, id := range ids {
			assignments[id] = arms[i]
			counts[arms[i]]++
		}
		reports = append(reports, BlockReport{Key: key, Size: len(ids), Counts: counts})
	}
	return assignments, reports, nil
}

// blockArms builds a randomized arm sequence of length n: each arm n/3 times,
// the n%3 remainder assigned to distinct arms chosen uniformly, then a full
// permutation of the sequence.
func blockArms(n int, rnd *xrand.Rand) []schema.Treatment {
	all := schema.Treatments()
	base := n / 3
	arms := make([]schema.Treatment, 0, n)
	for _, arm := range all {
		for i := 0; i < base; i++ {
			arms = append(arms, arm)
		}
	}
	for _, idx := range rnd.Perm(3)[:n%3] {
		arms = append(arms, all[idx])
	}
	rnd.Shuffle(len(arms), func(i, j int) {
		arms[i], arms[j] = arms[j], arms[i]
	})
	return arms
}
