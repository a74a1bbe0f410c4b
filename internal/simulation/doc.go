// Package simulation provides a whole-pipeline test harness for validating
// statistical properties of generated datasets.
//
// Scenarios exercise the real pipeline, no mocks: each run samples a
// population, assigns arms, applies attrition, and draws outcomes exactly as
// the generate command would, then the assertions inspect the assembled
// tables and their diagnostic report. Properties that depend on sampling
// noise are checked over several seeds with bounds wide enough to hold for
// any seed.
//
// Usage:
//
//	func TestEffectOrdering(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:  "effect-ordering",
//	        Seeds: []uint64{42, 7, 2024},
//	        Mutate: func(cfg *config.Config) { cfg.Population = 6000 },
//	    })
//	    for _, run := range result.Runs {
//	        simulation.AssertEffectOrdering(t, run)
//	    }
//	}
package simulation
