package simulation

import (
	"io"
	"testing"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/diagnostics"
	"github.com/mvittori/trialgen/internal/logging"
	"github.com/mvittori/trialgen/internal/pipeline"
)

// Runner executes scenarios against the real generator pipeline.
type Runner struct {
	t *testing.T
}

// NewRunner creates a scenario runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario once per seed and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	seeds := scenario.Seeds
	if len(seeds) == 0 {
		seeds = []uint64{config.Default().Seed}
	}

	runs := make([]RunResult, 0, len(seeds))
	for _, seed := range seeds {
		cfg := config.Default()
		cfg.Seed = seed
		if scenario.Mutate != nil {
			scenario.Mutate(cfg)
		}

		res, err := pipeline.Run(cfg, logging.NewLogger("info", io.Discard), nil)
		if err != nil {
			r.t.Fatalf("scenario %s: seed %d: %v", scenario.Name, seed, err)
		}
		runs = append(runs, RunResult{
			Seed:    seed,
			Config:  cfg,
			Dataset: res.Dataset,
			Summary: res.Summary,
			Report:  diagnostics.Summarize(res.Dataset),
		})
	}
	return SimulationResult{Runs: runs}
}
