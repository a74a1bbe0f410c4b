// Package population samples the synthetic subject pool. Each subject's
// demographic and behavioral covariates are drawn once, before assignment;
// no later stage re-samples them.
package population

import (
	"fmt"
	"math"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/schema"
)

// Subject is the unit of analysis. Covariates are immutable after sampling;
// assignment and outcomes are kept in identifier-keyed maps by later stages.
type Subject struct {
	// ID is a de-identified 5-digit numeric string, unique within the
	// baseline table and stable across both waves.
	ID string

	Gender    string
	Race      string
	AgeGroup  string
	Education string
	Income    string
	State     string

	// FBUsage is the usage-frequency score, reported to one decimal.
	FBUsage float64

	// Latent is the continuous pre-treatment willingness score on the Likert
	// range. The reported vax_percpt column is its discretization.
	Latent float64
}

// Key returns the subject's identifier. Intermediate structures are joined on
// this key, never on row position.
func (s Subject) Key() string { return s.ID }

// Sample draws n independent subjects from the configured covariate
// distributions. It is a pure function of n, cov, and the stream state.
func Sample(n int, cov config.CovariatesConfig, rnd *xrand.Rand) []Subject {
	ids := identifiers(n, rnd)

	gender := distuv.NewCategorical(cov.Gender.Weights, rnd)
	race := distuv.NewCategorical(cov.Race.Weights, rnd)
	age := distuv.NewCategorical(cov.AgeGroup.Weights, rnd)
	edu := distuv.NewCategorical(cov.Education.Weights, rnd)
	income := distuv.NewCategorical(cov.Income.Weights, rnd)
	state := distuv.NewCategorical(cov.State.Weights, rnd)
	latent := distuv.Beta{Alpha: cov.VaxPercpt.Alpha, Beta: cov.VaxPercpt.Beta, Src: rnd}
	usage := distuv.Normal{Mu: cov.FBUsage.Mean, Sigma: cov.FBUsage.SD, Src: rnd}

	subjects := make([]Subject, n)
	for i := range subjects {
		subjects[i] = Subject{
			ID:        ids[i],
			Gender:    cov.Gender.Levels[int(gender.Rand())],
			Race:      cov.Race.Levels[int(race.Rand())],
			AgeGroup:  cov.AgeGroup.Levels[int(age.Rand())],
			Education: cov.Education.Levels[int(edu.Rand())],
			Income:    cov.Income.Levels[int(income.Rand())],
			State:     cov.State.Levels[int(state.Rand())],
			FBUsage:   roundTenth(truncated(usage, cov.FBUsage.Min, cov.FBUsage.Max)),
			Latent:    schema.ScaleMin + (schema.ScaleMax-schema.ScaleMin)*latent.Rand(),
		}
	}
	return subjects
}

// identifiers draws n unique 5-digit identifiers without replacement from
// [10000, 99999].
func identifiers(n int, rnd *xrand.Rand) []string {
	perm := rnd.Perm(90000)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("%05d", 10000+perm[i])
	}
	return ids
}

// truncated draws from d until the value lands in [min, max].
// With the configured defaults the acceptance rate is high; the loop
// terminates almost surely for any proper interval.
func truncated(d distuv.Normal, min, max float64) float64 {
	for {
		v := d.Rand()
		if v >= min && v <= max {
			return v
		}
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
