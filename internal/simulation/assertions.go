package simulation

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mvittori/trialgen/internal/attrition"
	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/schema"
)

// AssertRowCounts asserts the exact table sizes implied by the config:
// Population baseline rows and round(N * (1 - rate)) endline rows.
func AssertRowCounts(t *testing.T, run RunResult) {
	t.Helper()
	if got := len(run.Dataset.Baseline); got != run.Config.Population {
		t.Errorf("seed %d: baseline rows = %d, want %d", run.Seed, got, run.Config.Population)
	}
	want := attrition.RetainedCount(run.Config.Population, run.Config.Attrition.Rate)
	if got := len(run.Dataset.Endline); got != want {
		t.Errorf("seed %d: endline rows = %d, want %d", run.Seed, got, want)
	}
}

// AssertArmsBalanced asserts that each arm's global count stays within the
// bound per-block balance guarantees: n/3 plus at most one subject per block.
func AssertArmsBalanced(t *testing.T, run RunResult) {
	t.Helper()
	n := run.Config.Population
	slack := run.Summary.Blocks
	total := 0
	for _, arm := range []schema.Treatment{
		schema.TreatmentControl, schema.TreatmentLogos, schema.TreatmentPathos,
	} {
		c := run.Summary.ArmCounts[arm]
		total += c
		if c < n/3-slack || c > n/3+1+slack {
			t.Errorf("seed %d: arm %s count = %d, outside [%d, %d]", run.Seed, arm, c, n/3-slack, n/3+1+slack)
		}
	}
	if total != n {
		t.Errorf("seed %d: arm counts sum to %d, want %d", run.Seed, total, n)
	}
}

// AssertLinkage asserts the cross-wave contract: unique identifiers, every
// endline row backed by a baseline row, covariates and treatment unchanged.
func AssertLinkage(t *testing.T, run RunResult) {
	t.Helper()
	if err := run.Dataset.CheckIntegrity(); err != nil {
		t.Errorf("seed %d: %v", run.Seed, err)
	}
}

// AssertColumnDomains asserts every reported value stays inside its codebook
// domain: 5-digit identifiers, scale scores, usage range, categorical levels.
func AssertColumnDomains(t *testing.T, run RunResult) {
	t.Helper()
	for _, r := range run.Dataset.Baseline {
		if len(r.Identifier) != 5 {
			t.Errorf("seed %d: identifier %q is not 5 digits", run.Seed, r.Identifier)
		}
		if r.VaxPercpt < schema.ScaleMin || r.VaxPercpt > schema.ScaleMax {
			t.Errorf("seed %d: subject %s: vax_percpt %d out of scale", run.Seed, r.Identifier, r.VaxPercpt)
		}
		if r.FBUsage < schema.FBUsageMin || r.FBUsage > schema.FBUsageMax {
			t.Errorf("seed %d: subject %s: fb_usage %v out of range", run.Seed, r.Identifier, r.FBUsage)
		}
		if !schema.Treatment(r.Treatment).Valid() {
			t.Errorf("seed %d: subject %s: invalid treatment %q", run.Seed, r.Identifier, r.Treatment)
		}
		for col, val := range map[string]string{
			schema.ColGender:    r.Gender,
			schema.ColRace:      r.Race,
			schema.ColAgeGroup:  r.AgeGroup,
			schema.ColEducation: r.Education,
			schema.ColIncome:    r.Income,
			schema.ColState:     r.State,
		} {
			levels, _ := schema.CategoricalLevels(col)
			if schema.LevelIndex(levels, val) < 0 {
				t.Errorf("seed %d: subject %s: %s level %q not in codebook", run.Seed, r.Identifier, col, val)
			}
		}
	}
	for _, r := range run.Dataset.Endline {
		if r.NewVaxPercpt < schema.ScaleMin || r.NewVaxPercpt > schema.ScaleMax {
			t.Errorf("seed %d: subject %s: new_vax_percpt %d out of scale", run.Seed, r.Identifier, r.NewVaxPercpt)
		}
		if r.AdAwareness != string(schema.AwarenessYes) && r.AdAwareness != string(schema.AwarenessNo) {
			t.Errorf("seed %d: subject %s: invalid ad_awareness %q", run.Seed, r.Identifier, r.AdAwareness)
		}
	}
}

// AssertEffectOrdering asserts the configured causal ordering shows up in the
// ITT contrasts: logos above pathos, pathos above zero.
func AssertEffectOrdering(t *testing.T, run RunResult) {
	t.Helper()
	logos, pathos := run.Report.ITT["logos"], run.Report.ITT["pathos"]
	if pathos <= 0 {
		t.Errorf("seed %d: pathos ITT = %v, want > 0", run.Seed, pathos)
	}
	if logos <= pathos {
		t.Errorf("seed %d: ITT ordering violated: logos=%v pathos=%v", run.Seed, logos, pathos)
	}
}

// AssertDiminishingReturns asserts that within a treated arm, subjects who
// started low gain more than subjects who started high.
func AssertDiminishingReturns(t *testing.T, run RunResult, arm schema.Treatment) {
	t.Helper()
	var lowSum, highSum float64
	var lowN, highN int
	for _, r := range run.Dataset.Endline {
		if r.Treatment != string(arm) {
			continue
		}
		gain := float64(r.NewVaxPercpt - r.VaxPercpt)
		switch {
		case r.VaxPercpt <= 2:
			lowSum += gain
			lowN++
		case r.VaxPercpt >= 4:
			highSum += gain
			highN++
		}
	}
	if lowN < 30 || highN < 30 {
		t.Fatalf("seed %d: arm %s: too few subjects to compare gains (low=%d high=%d)", run.Seed, arm, lowN, highN)
	}
	low, high := lowSum/float64(lowN), highSum/float64(highN)
	if low <= high {
		t.Errorf("seed %d: arm %s: low-baseline gain %v not above high-baseline gain %v", run.Seed, arm, low, high)
	}
}

// AssertControlUnaware asserts no control subject reports seeing the ad.
func AssertControlUnaware(t *testing.T, run RunResult) {
	t.Helper()
	for _, r := range run.Dataset.Endline {
		if r.Treatment == string(schema.TreatmentControl) && r.AdAwareness != string(schema.AwarenessNo) {
			t.Errorf("seed %d: control subject %s reported awareness %q", run.Seed, r.Identifier, r.AdAwareness)
		}
	}
}

// AssertAwarenessTracksUsage asserts that among treated endline subjects,
// heavy users report awareness more often than light users.
func AssertAwarenessTracksUsage(t *testing.T, run RunResult) {
	t.Helper()
	var lowAware, lowN, highAware, highN int
	for _, r := range run.Dataset.Endline {
		if r.Treatment == string(schema.TreatmentControl) {
			continue
		}
		aware := r.AdAwareness == string(schema.AwarenessYes)
		switch {
		case r.FBUsage <= 2:
			lowN++
			if aware {
				lowAware++
			}
		case r.FBUsage >= 4:
			highN++
			if aware {
				highAware++
			}
		}
	}
	if lowN < 30 || highN < 30 {
		t.Fatalf("seed %d: too few treated subjects to compare awareness (low=%d high=%d)", run.Seed, lowN, highN)
	}
	low := float64(lowAware) / float64(lowN)
	high := float64(highAware) / float64(highN)
	if high <= low {
		t.Errorf("seed %d: awareness rate %v among heavy users not above %v among light users", run.Seed, high, low)
	}
}

// AssertWavesComparable asserts the waves stay balanced under uniform
// attrition: categorical proportions within propTol, mean usage within
// usageTol.
func AssertWavesComparable(t *testing.T, run RunResult, propTol, usageTol float64) {
	t.Helper()
	for _, e := range run.Report.Balance {
		if e.MaxDiff > propTol {
			t.Errorf("seed %d: covariate %s drifted between waves: %v > %v", run.Seed, e.Column, e.MaxDiff, propTol)
		}
	}
	if d := run.Report.FBUsageDiff; d > usageTol || d < -usageTol {
		t.Errorf("seed %d: mean fb_usage drifted between waves: %v", run.Seed, d)
	}
}

// AssertStrataCoverage asserts every blocking stratum large enough to form
// its own block contains all three arms. Per-block balance guarantees this
// for any stratum of at least min subjects.
func AssertStrataCoverage(t *testing.T, run RunResult) {
	t.Helper()
	min := run.Config.Blocking.MinBlockSize
	strata := make(map[string]map[string]bool)
	sizes := make(map[string]int)
	for _, r := range run.Dataset.Baseline {
		key := strataKey(r, run.Config.Blocking.Covariates)
		sizes[key]++
		if strata[key] == nil {
			strata[key] = make(map[string]bool, 3)
		}
		strata[key][r.Treatment] = true
	}
	for key, arms := range strata {
		if sizes[key] < min {
			continue
		}
		if len(arms) != 3 {
			t.Errorf("seed %d: stratum %s (n=%d) covers only %d arms", run.Seed, key, sizes[key], len(arms))
		}
	}
}

// AssertReproducible asserts two runs produced bit-identical tables.
func AssertReproducible(t *testing.T, a, b RunResult) {
	t.Helper()
	if !reflect.DeepEqual(a.Dataset, b.Dataset) {
		t.Errorf("seed %d: two runs with the same config produced different tables", a.Seed)
	}
}

func strataKey(r dataset.BaselineRow, covariates []string) string {
	parts := make([]string, 0, len(covariates))
	for _, col := range covariates {
		switch col {
		case schema.ColGender:
			parts = append(parts, r.Gender)
		case schema.ColRace:
			parts = append(parts, r.Race)
		case schema.ColAgeGroup:
			parts = append(parts, r.AgeGroup)
		case schema.ColEducation:
			parts = append(parts, r.Education)
		case schema.ColIncome:
			parts = append(parts, r.Income)
		case schema.ColState:
			parts = append(parts, r.State)
		default:
			parts = append(parts, fmt.Sprintf("?%s", col))
		}
	}
	return strings.Join(parts, "|")
}
