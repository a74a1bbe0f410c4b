// Package pipeline runs the generator stages in their fixed order:
// covariate sampling, blocked assignment, baseline outcome pass, attrition,
// endline outcome pass, compliance, then table assembly. Each stochastic
// stage draws from its own sub-seeded stream, so the pair of output tables
// is a pure function of the configuration and the root seed.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mvittori/trialgen/internal/assign"
	"github.com/mvittori/trialgen/internal/attrition"
	"github.com/mvittori/trialgen/internal/compliance"
	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/logging"
	"github.com/mvittori/trialgen/internal/outcome"
	"github.com/mvittori/trialgen/internal/population"
	"github.com/mvittori/trialgen/internal/rng"
	"github.com/mvittori/trialgen/internal/schema"
)

// Summary reports the realized shape of one generation run.
type Summary struct {
	Seed        uint64                   `json:"seed"`
	Population  int                      `json:"population"`
	EndlineRows int                      `json:"endline_rows"`
	Blocks      int                      `json:"blocks"`
	ArmCounts   map[schema.Treatment]int `json:"arm_counts"`
	BlockReport []assign.BlockReport     `json:"-"`
}

// Result bundles the assembled tables with the run summary.
type Result struct {
	Dataset *dataset.Dataset
	Summary Summary
}

// Run executes the full generator. The config is re-validated first so a
// caller constructing Config directly still fails fast on bad parameters.
func Run(cfg *config.Config, log *slog.Logger, trace *logging.StageTracer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stream := rng.New(cfg.Seed)

	// Covariate sampling: the one snapshot every later stage reads from.
	start := time.Now()
	subjects := population.Sample(cfg.Population, cfg.Covariates, stream.Stage(rng.StageCovariates))
	record(trace, stream, rng.StageCovariates, 0, len(subjects), start)
	log.Debug("sampled population", "subjects", len(subjects))

	// Blocked assignment.
	start = time.Now()
	assignments, blocks, err := assign.Assign(subjects, cfg.Blocking, stream.Stage(rng.StageAssignment))
	if err != nil {
		return nil, fmt.Errorf("assignment: %w", err)
	}
	record(trace, stream, rng.StageAssignment, len(subjects), len(assignments), start)
	log.Debug("assigned arms", "blocks", len(blocks))

	// Baseline outcome pass: discretize the latent willingness score.
	start = time.Now()
	model := outcome.NewModel(cfg.Effects, cfg.Noise, stream.Stage(rng.StageEndline))
	baselineScores := make(map[string]int, len(subjects))
	for _, s := range subjects {
		score, err := model.Baseline(s.Latent)
		if err != nil {
			return nil, fmt.Errorf("baseline pass: subject %s: %w", s.ID, err)
		}
		baselineScores[s.ID] = score
	}
	record(trace, stream, rng.StageBaseline, len(subjects), len(baselineScores), start)

	baselineRows, err := dataset.AssembleBaseline(subjects, assignments, baselineScores)
	if err != nil {
		return nil, err
	}

	// Attrition selects the endline wave before any endline draw happens.
	start = time.Now()
	ids := make([]string, len(baselineRows))
	for i, r := range baselineRows {
		ids[i] = r.Identifier
	}
	retained := attrition.Select(ids, cfg.Attrition.Rate, stream.Stage(rng.StageAttrition))
	record(trace, stream, rng.StageAttrition, len(ids), len(retained), start)
	log.Debug("applied attrition", "retained", len(retained), "rate", cfg.Attrition.Rate)

	// Endline outcome pass over the survivors, in baseline order.
	start = time.Now()
	newScores := make(map[string]int, len(retained))
	for _, id := range retained {
		score, err := model.Endline(baselineScores[id], assignments[id])
		if err != nil {
			return nil, fmt.Errorf("endline pass: subject %s: %w", id, err)
		}
		newScores[id] = score
	}
	record(trace, stream, rng.StageEndline, len(retained), len(newScores), start)

	// Compliance draws the awareness indicator.
	start = time.Now()
	index := dataset.IndexBaseline(baselineRows)
	comp := compliance.NewModel(cfg.Awareness, stream.Stage(rng.StageCompliance))
	awareness := make(map[string]schema.Awareness, len(retained))
	for _, id := range retained {
		awareness[id] = comp.Awareness(assignments[id], index[id].FBUsage)
	}
	record(trace, stream, rng.StageCompliance, len(retained), len(awareness), start)

	endlineRows, err := dataset.AssembleEndline(retained, index, newScores, awareness)
	if err != nil {
		return nil, err
	}

	ds := &dataset.Dataset{Baseline: baselineRows, Endline: endlineRows}
	if err := ds.CheckIntegrity(); err != nil {
		return nil, err
	}

	armCounts := make(map[schema.Treatment]int, 3)
	for _, arm := range assignments {
		armCounts[arm]++
	}
	return &Result{
		Dataset: ds,
		Summary: Summary{
			Seed:        cfg.Seed,
			Population:  len(baselineRows),
			EndlineRows: len(endlineRows),
			Blocks:      len(blocks),
			ArmCounts:   armCounts,
			BlockReport: blocks,
		},
	}, nil
}

func record(trace *logging.StageTracer, stream *rng.Stream, stage string, in, out int, start time.Time) {
	trace.Record(logging.StageEvent{
		Time:      time.Now().UTC(),
		Stage:     stage,
		StageSeed: stream.StageSeed(stage),
		In:        in,
		Out:       out,
		ElapsedMS: time.Since(start).Milliseconds(),
	})
}
