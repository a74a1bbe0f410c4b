package config

import (
	"fmt"
	"math"

	"github.com/mvittori/trialgen/internal/schema"
)

// ConfigError reports a malformed or inconsistent configuration parameter.
// It is surfaced before any sampling begins and always names the offending
// field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func errf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every parameter and returns a *ConfigError describing the
// first problem found. A valid config guarantees the pipeline cannot produce
// NaN scores or degenerate distributions downstream.
func (c *Config) Validate() error {
	if c.Population <= 0 {
		return errf("population", "must be positive, got %d", c.Population)
	}
	// Identifiers are 5-digit strings drawn without replacement.
	if max := 90000; c.Population > max {
		return errf("population", "must be at most %d (5-digit identifier space), got %d", max, c.Population)
	}

	cats := []struct {
		field     string
		spec      CategoricalSpec
		canonical []string
	}{
		{"covariates.gender", c.Covariates.Gender, schema.GenderLevels},
		{"covariates.race", c.Covariates.Race, schema.RaceLevels},
		{"covariates.age_group", c.Covariates.AgeGroup, schema.AgeGroupLevels},
		{"covariates.edu", c.Covariates.Education, schema.EducationLevels},
		{"covariates.income_bracket", c.Covariates.Income, schema.IncomeLevels},
		{"covariates.state", c.Covariates.State, schema.StateLevels},
	}
	for _, cat := range cats {
		if err := validateCategorical(cat.field, cat.spec, cat.canonical); err != nil {
			return err
		}
	}

	fb := c.Covariates.FBUsage
	if fb.SD <= 0 || math.IsNaN(fb.SD) {
		return errf("covariates.fb_usage.sd", "must be positive, got %v", fb.SD)
	}
	if fb.Min >= fb.Max {
		return errf("covariates.fb_usage", "min %v must be below max %v", fb.Min, fb.Max)
	}

	vp := c.Covariates.VaxPercpt
	if vp.Alpha <= 0 || vp.Beta <= 0 {
		return errf("covariates.vax_percpt", "beta shape parameters must be positive, got alpha=%v beta=%v", vp.Alpha, vp.Beta)
	}

	if len(c.Blocking.Covariates) == 0 {
		return errf("blocking.covariates", "at least one blocking covariate is required")
	}
	blockable := schema.BlockableCovariates()
	seen := make(map[string]bool)
	for _, cov := range c.Blocking.Covariates {
		if schema.LevelIndex(blockable, cov) < 0 {
			return errf("blocking.covariates", "%q is not a blockable covariate (want one of %v)", cov, blockable)
		}
		if seen[cov] {
			return errf("blocking.covariates", "%q listed twice", cov)
		}
		seen[cov] = true
	}
	switch c.Blocking.SmallBlockPolicy {
	case SmallBlockError, SmallBlockPool:
	default:
		return errf("blocking.small_block_policy", "must be %q or %q, got %q",
			SmallBlockError, SmallBlockPool, c.Blocking.SmallBlockPolicy)
	}
	if c.Blocking.MinBlockSize < 3 {
		return errf("blocking.min_block_size", "must be at least 3 (one subject per arm), got %d", c.Blocking.MinBlockSize)
	}

	for _, arm := range []struct {
		field  string
		effect ArmEffect
	}{
		{"effects.logos", c.Effects.Logos},
		{"effects.pathos", c.Effects.Pathos},
	} {
		if math.IsNaN(arm.effect.Main) || math.IsInf(arm.effect.Main, 0) {
			return errf(arm.field+".main", "must be finite, got %v", arm.effect.Main)
		}
		if arm.effect.Main <= 0 {
			return errf(arm.field+".main", "must be positive (control is the zero reference), got %v", arm.effect.Main)
		}
		if math.IsNaN(arm.effect.Interaction) || math.IsInf(arm.effect.Interaction, 0) {
			return errf(arm.field+".interaction", "must be finite, got %v", arm.effect.Interaction)
		}
	}
	if c.Effects.Logos.Main <= c.Effects.Pathos.Main {
		return errf("effects", "logos main effect %v must exceed pathos main effect %v",
			c.Effects.Logos.Main, c.Effects.Pathos.Main)
	}

	if c.Noise.SD < 0 || math.IsNaN(c.Noise.SD) {
		return errf("noise.sd", "must be non-negative, got %v", c.Noise.SD)
	}

	if c.Attrition.Rate < 0 || c.Attrition.Rate >= 1 {
		return errf("attrition.rate", "must be in [0, 1), got %v", c.Attrition.Rate)
	}
	if c.Attrition.Policy != "uniform" {
		return errf("attrition.policy", "only \"uniform\" is implemented, got %q", c.Attrition.Policy)
	}

	aw := c.Awareness
	if aw.Base < 0 || aw.Base > 1 {
		return errf("awareness.base", "must be in [0, 1], got %v", aw.Base)
	}
	if aw.Cap <= 0 || aw.Cap >= 1 {
		return errf("awareness.cap", "must be in (0, 1) so compliance stays imperfect, got %v", aw.Cap)
	}
	if aw.UsageSlope < 0 {
		return errf("awareness.usage_slope", "must be non-negative, got %v", aw.UsageSlope)
	}

	switch c.Output.Format {
	case FormatCSV, FormatParquet, FormatSQLite:
	default:
		return errf("output.format", "must be %q, %q, or %q, got %q",
			FormatCSV, FormatParquet, FormatSQLite, c.Output.Format)
	}

	return nil
}

// validateCategorical checks a categorical spec against the shared codebook.
func validateCategorical(field string, spec CategoricalSpec, canonical []string) error {
	if len(spec.Levels) == 0 {
		return errf(field+".levels", "must not be empty")
	}
	if len(spec.Weights) != len(spec.Levels) {
		return errf(field+".weights", "got %d weights for %d levels", len(spec.Weights), len(spec.Levels))
	}
	var total float64
	for i, w := range spec.Weights {
		if w < 0 || math.IsNaN(w) {
			return errf(field+".weights", "weight for level %q is %v, want non-negative", spec.Levels[i], w)
		}
		total += w
	}
	if total <= 0 {
		return errf(field+".weights", "weights sum to %v, want a positive total", total)
	}
	if len(spec.Levels) != len(canonical) {
		return errf(field+".levels", "got %d levels, codebook defines %d", len(spec.Levels), len(canonical))
	}
	for i, l := range spec.Levels {
		if l != canonical[i] {
			return errf(field+".levels", "level %d is %q, codebook defines %q (order matters)", i, l, canonical[i])
		}
	}
	return nil
}
