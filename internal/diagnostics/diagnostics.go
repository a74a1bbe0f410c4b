// Package diagnostics summarizes a generated dataset: arm counts, outcome
// means, awareness rates, and covariate balance between the baseline and
// endline waves. The stats command and the property harness both read these
// numbers instead of recomputing them ad hoc.
package diagnostics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/schema"
)

// ArmStats describes one treatment arm.
type ArmStats struct {
	Count         int     `json:"count"`
	EndlineCount  int     `json:"endline_count"`
	MeanBaseline  float64 `json:"mean_baseline"`
	MeanEndline   float64 `json:"mean_endline"`
	AwarenessRate float64 `json:"awareness_rate"`
}

// BalanceEntry reports, for one categorical covariate, the largest absolute
// difference in level proportions between the baseline and endline waves.
// Under uniform attrition these stay near zero.
type BalanceEntry struct {
	Column  string  `json:"column"`
	MaxDiff float64 `json:"max_diff"`
}

// Report is the full diagnostic summary of one dataset.
type Report struct {
	BaselineRows  int                 `json:"baseline_rows"`
	EndlineRows   int                 `json:"endline_rows"`
	AttritionRate float64             `json:"attrition_rate"`
	Arms          map[string]ArmStats `json:"arms"`

	// ITT holds the difference in mean endline score versus control for each
	// treated arm, the intent-to-treat contrast an analyst would estimate.
	ITT map[string]float64 `json:"itt"`

	// FBUsageDiff is the baseline-vs-endline difference in mean usage score.
	FBUsageDiff float64 `json:"fb_usage_diff"`

	Balance []BalanceEntry `json:"balance"`
}

// Summarize computes the diagnostic report for a dataset.
func Summarize(ds *dataset.Dataset) *Report {
	rep := &Report{
		BaselineRows: len(ds.Baseline),
		EndlineRows:  len(ds.Endline),
		Arms:         make(map[string]ArmStats),
		ITT:          make(map[string]float64),
	}
	if len(ds.Baseline) > 0 {
		rep.AttritionRate = 1 - float64(len(ds.Endline))/float64(len(ds.Baseline))
	}

	baseScores := make(map[string][]float64)
	endScores := make(map[string][]float64)
	aware := make(map[string]int)
	endCount := make(map[string]int)

	for _, r := range ds.Baseline {
		baseScores[r.Treatment] = append(baseScores[r.Treatment], float64(r.VaxPercpt))
	}
	for _, r := range ds.Endline {
		endScores[r.Treatment] = append(endScores[r.Treatment], float64(r.NewVaxPercpt))
		endCount[r.Treatment]++
		if r.AdAwareness == string(schema.AwarenessYes) {
			aware[r.Treatment]++
		}
	}

	for arm, scores := range baseScores {
		st := ArmStats{
			Count:        len(scores),
			EndlineCount: endCount[arm],
			MeanBaseline: stat.Mean(scores, nil),
		}
		if n := endCount[arm]; n > 0 {
			st.MeanEndline = stat.Mean(endScores[arm], nil)
			st.AwarenessRate = float64(aware[arm]) / float64(n)
		}
		rep.Arms[arm] = st
	}

	control := rep.Arms[string(schema.TreatmentControl)]
	for arm, st := range rep.Arms {
		if arm == string(schema.TreatmentControl) {
			continue
		}
		if st.EndlineCount > 0 && control.EndlineCount > 0 {
			rep.ITT[arm] = st.MeanEndline - control.MeanEndline
		}
	}

	rep.FBUsageDiff = usageDiff(ds)
	rep.Balance = balance(ds)
	return rep
}

func usageDiff(ds *dataset.Dataset) float64 {
	if len(ds.Baseline) == 0 || len(ds.Endline) == 0 {
		return 0
	}
	base := make([]float64, len(ds.Baseline))
	for i, r := range ds.Baseline {
		base[i] = r.FBUsage
	}
	end := make([]float64, len(ds.Endline))
	for i, r := range ds.Endline {
		end[i] = r.FBUsage
	}
	return stat.Mean(end, nil) - stat.Mean(base, nil)
}

func balance(ds *dataset.Dataset) []BalanceEntry {
	cols := []string{
		schema.ColGender, schema.ColRace, schema.ColAgeGroup,
		schema.ColEducation, schema.ColIncome, schema.ColState,
	}
	entries := make([]BalanceEntry, 0, len(cols))
	for _, col := range cols {
		base := make([]string, len(ds.Baseline))
		for i, r := range ds.Baseline {
			base[i] = covariateValue(col, r.Gender, r.Race, r.AgeGroup, r.Education, r.Income, r.State)
		}
		end := make([]string, len(ds.Endline))
		for i, r := range ds.Endline {
			end[i] = covariateValue(col, r.Gender, r.Race, r.AgeGroup, r.Education, r.Income, r.State)
		}
		entries = append(entries, BalanceEntry{Column: col, MaxDiff: maxPropDiff(base, end)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Column < entries[j].Column })
	return entries
}

func covariateValue(col, gender, race, ageGroup, edu, income, state string) string {
	switch col {
	case schema.ColGender:
		return gender
	case schema.ColRace:
		return race
	case schema.ColAgeGroup:
		return ageGroup
	case schema.ColEducation:
		return edu
	case schema.ColIncome:
		return income
	case schema.ColState:
		return state
	}
	return ""
}

func maxPropDiff(base, end []string) float64 {
	bp := proportions(base)
	ep := proportions(end)
	var max float64
	for level, p := range bp {
		if d := math.Abs(p - ep[level]); d > max {
			max = d
		}
	}
	for level, p := range ep {
		if _, ok := bp[level]; !ok && p > max {
			max = p
		}
	}
	return max
}

func proportions(values []string) map[string]float64 {
	props := make(map[string]float64, 8)
	if len(values) == 0 {
		return props
	}
	for _, v := range values {
		props[v]++
	}
	for k := range props {
		props[k] /= float64(len(values))
	}
	return props
}
