// Package dataset assembles the generator's two output tables and
// materializes them as CSV, Parquet, or SQLite. Both tables are built from
// one covariate snapshot, joined by subject identifier, and share the
// categorical codebook so downstream joins and comparisons are well-defined.
package dataset

import (
	"fmt"

	"github.com/mvittori/trialgen/internal/population"
	"github.com/mvittori/trialgen/internal/schema"
)

// Output file names per format.
const (
	BaselineCSV     = "baseline.csv"
	EndlineCSV      = "endline.csv"
	BaselineParquet = "baseline.parquet"
	EndlineParquet  = "endline.parquet"
	SQLiteFile      = "trial.db"
)

// BaselineRow is one row of the baseline/treatment table.
type BaselineRow struct {
	Identifier string
	Gender     string
	Race       string
	AgeGroup   string
	Education  string
	Income     string
	State      string
	FBUsage    float64
	VaxPercpt  int64
	Treatment  string
}

// EndlineRow is one row of the endline table: the baseline covariates plus
// the realized post-treatment outcome and the awareness indicator.
type EndlineRow struct {
	Identifier   string
	Gender       string
	Race         string
	AgeGroup     string
	Education    string
	Income       string
	State        string
	FBUsage      float64
	VaxPercpt    int64
	Treatment    string
	AdAwareness  string
	NewVaxPercpt int64
}

// Dataset holds both output tables.
type Dataset struct {
	Baseline []BaselineRow
	Endline  []EndlineRow
}

// AssembleBaseline joins sampled subjects with their assignments and reported
// baseline scores into the baseline table, preserving sampling order.
// Every subject must have an assignment and a score; a miss is a contract
// violation from an upstream stage.
func AssembleBaseline(subjects []population.Subject, assignments map[string]schema.Treatment, scores map[string]int) ([]BaselineRow, error) {
	rows := make([]BaselineRow, 0, len(subjects))
	for _, s := range subjects {
		arm, ok := assignments[s.ID]
		if !ok {
			return nil, fmt.Errorf("assemble baseline: subject %s has no assignment", s.ID)
		}
		score, ok := scores[s.ID]
		if !ok {
			return nil, fmt.Errorf("assemble baseline: subject %s has no baseline score", s.ID)
		}
		rows = append(rows, BaselineRow{
			Identifier: s.ID,
			Gender:     s.Gender,
			Race:       s.Race,
			AgeGroup:   s.AgeGroup,
			Education:  s.Education,
			Income:     s.Income,
			State:      s.State,
			FBUsage:    s.FBUsage,
			VaxPercpt:  int64(score),
			Treatment:  string(arm),
		})
	}
	return rows, nil
}

// AssembleEndline joins the attrition survivors with the endline outcome pass
// and the compliance draw, carrying the baseline covariates through unchanged.
func AssembleEndline(retained []string, baseline map[string]BaselineRow, newScores map[string]int, awareness map[string]schema.Awareness) ([]EndlineRow, error) {
	rows := make([]EndlineRow, 0, len(retained))
	for _, id := range retained {
		base, ok := baseline[id]
		if !ok {
			return nil, fmt.Errorf("assemble endline: retained subject %s missing from baseline", id)
		}
		score, ok := newScores[id]
		if !ok {
			return nil, fmt.Errorf("assemble endline: subject %s has no endline score", id)
		}
		aware, ok := awareness[id]
		if !ok {
			return nil, fmt.Errorf("assemble endline: subject %s has no awareness draw", id)
		}
		rows = append(rows, EndlineRow{
			Identifier:   base.Identifier,
			Gender:       base.Gender,
			Race:         base.Race,
			AgeGroup:     base.AgeGroup,
			Education:    base.Education,
			Income:       base.Income,
			State:        base.State,
			FBUsage:      base.FBUsage,
			VaxPercpt:    base.VaxPercpt,
			Treatment:    base.Treatment,
			AdAwareness:  string(aware),
			NewVaxPercpt: int64(score),
		})
	}
	return rows, nil
}

// IndexBaseline builds an identifier-keyed view of the baseline table.
func IndexBaseline(rows []BaselineRow) map[string]BaselineRow {
	idx := make(map[string]BaselineRow, len(rows))
	for _, r := range rows {
		idx[r.Identifier] = r
	}
	return idx
}

// CheckIntegrity verifies the referential guarantees both consumers rely on:
// baseline identifiers are unique, and every endline identifier exists in the
// baseline table with identical covariates.
func (d *Dataset) CheckIntegrity() error {
	seen := make(map[string]bool, len(d.Baseline))
	for _, r := range d.Baseline {
		if seen[r.Identifier] {
			return fmt.Errorf("integrity: duplicate baseline identifier %s", r.Identifier)
		}
		seen[r.Identifier] = true
	}
	idx := IndexBaseline(d.Baseline)
	for _, r := range d.Endline {
		base, ok := idx[r.Identifier]
		if !ok {
			return fmt.Errorf("integrity: endline identifier %s not in baseline", r.Identifier)
		}
		if base.Treatment != r.Treatment {
			return fmt.Errorf("integrity: subject %s treatment changed between waves", r.Identifier)
		}
		if base.VaxPercpt != r.VaxPercpt || base.FBUsage != r.FBUsage {
			return fmt.Errorf("integrity: subject %s covariates re-sampled between waves", r.Identifier)
		}
	}
	return nil
}
