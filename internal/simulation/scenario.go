package simulation

import (
	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/diagnostics"
	"github.com/mvittori/trialgen/internal/pipeline"
)

// Scenario defines one generator experiment.
type Scenario struct {
	Name string

	// Seeds lists the root seeds to replicate the run under. Empty means
	// a single run with the default seed.
	Seeds []uint64

	// Mutate, when non-nil, adjusts the default config before the run.
	// Scenarios use this to change population size, attrition, effects,
	// or blocking without spelling out a full config.
	Mutate func(cfg *config.Config)
}

// RunResult captures one generated dataset and its derived summaries.
type RunResult struct {
	Seed    uint64
	Config  *config.Config
	Dataset *dataset.Dataset
	Summary pipeline.Summary
	Report  *diagnostics.Report
}

// SimulationResult holds one RunResult per scenario seed.
type SimulationResult struct {
	Runs []RunResult
}
