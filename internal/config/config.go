// Package config provides configuration loading for trialgen.
// It supports loading from YAML files and environment variables, and
// validates every distribution and effect parameter before any sampling
// begins.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mvittori/trialgen/internal/schema"
)

// Small-block policies for the blocked assigner.
const (
	SmallBlockError = "error" // fail with BlockTooSmallError naming the stratum
	SmallBlockPool  = "pool"  // merge all undersized strata into one auxiliary block
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
)

// Config contains the full experiment-generator configuration.
type Config struct {
	// Population is the number of subjects sampled at baseline.
	Population int `yaml:"population"`

	// Seed is the root seed for every stochastic stage. The same seed and
	// config reproduce both output tables bit-for-bit.
	Seed uint64 `yaml:"seed"`

	Covariates CovariatesConfig `yaml:"covariates"`
	Blocking   BlockingConfig   `yaml:"blocking"`
	Effects    EffectsConfig    `yaml:"effects"`
	Noise      NoiseConfig      `yaml:"noise"`
	Attrition  AttritionConfig  `yaml:"attrition"`
	Awareness  AwarenessConfig  `yaml:"awareness"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CategoricalSpec defines sampling weights over a categorical covariate's
// levels. Levels must match the shared codebook for that covariate.
type CategoricalSpec struct {
	Levels  []string  `yaml:"levels"`
	Weights []float64 `yaml:"weights"`
}

// TruncNormalSpec defines a normal distribution truncated to [Min, Max].
type TruncNormalSpec struct {
	Mean float64 `yaml:"mean"`
	SD   float64 `yaml:"sd"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

// BetaSpec defines a Beta(Alpha, Beta) draw scaled onto the survey's Likert
// range. The latent score stays continuous internally; only the reported
// column is discretized.
type BetaSpec struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// CovariatesConfig enumerates per-covariate distribution specs.
type CovariatesConfig struct {
	Gender    CategoricalSpec `yaml:"gender"`
	Race      CategoricalSpec `yaml:"race"`
	AgeGroup  CategoricalSpec `yaml:"age_group"`
	Education CategoricalSpec `yaml:"edu"`
	Income    CategoricalSpec `yaml:"income_bracket"`
	State     CategoricalSpec `yaml:"state"`
	FBUsage   TruncNormalSpec `yaml:"fb_usage"`
	VaxPercpt BetaSpec        `yaml:"vax_percpt"`
}

// BlockingConfig selects the pre-registered blocking covariates and the
// policy for strata too small to split three ways.
type BlockingConfig struct {
	Covariates       []string `yaml:"covariates"`
	SmallBlockPolicy string   `yaml:"small_block_policy"`

	// MinBlockSize is the smallest stratum the assigner accepts before the
	// small-block policy applies. Never below 3 (one subject per arm).
	MinBlockSize int `yaml:"min_block_size"`
}

// ArmEffect holds the calibrated constants for one treatment arm.
type ArmEffect struct {
	// Main is the additive effect on the willingness score (control is
	// normalized to zero and not configurable).
	Main float64 `yaml:"main"`

	// Interaction is the coefficient on (baseline - scale minimum). Negative
	// values produce diminishing returns for already-willing subjects.
	Interaction float64 `yaml:"interaction"`
}

// EffectsConfig holds the ground-truth effect calibration the downstream
// analysis is expected to rediscover.
type EffectsConfig struct {
	Logos  ArmEffect `yaml:"logos"`
	Pathos ArmEffect `yaml:"pathos"`
}

// NoiseConfig configures the idiosyncratic outcome perturbation.
type NoiseConfig struct {
	SD float64 `yaml:"sd"`
}

// AttritionConfig configures loss between the baseline and endline waves.
// Retained count is round(N * (1 - Rate)), rounded to nearest.
type AttritionConfig struct {
	Rate   float64 `yaml:"rate"`
	Policy string  `yaml:"policy"` // only "uniform" (MCAR) is implemented
}

// AwarenessConfig configures the compliance signal for treated subjects:
// P(aware) = clamp(Base + UsageSlope * fb_usage, 0, Cap).
type AwarenessConfig struct {
	Base       float64 `yaml:"base"`
	UsageSlope float64 `yaml:"usage_slope"`
	Cap        float64 `yaml:"cap"`
}

// OutputConfig selects where and how the two tables are materialized.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level sets log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the per-stage trace file in the output directory.
	Level string `yaml:"level"`
}

// Default returns a Config with the documented calibration: logos the
// stronger arm, negative baseline interaction for treated arms, 10% MCAR
// attrition, and US-adult covariate weights.
func Default() *Config {
	return &Config{
		Population: 5000,
		Seed:       42,
		Covariates: CovariatesConfig{
			Gender: CategoricalSpec{
				Levels:  schema.GenderLevels,
				Weights: []float64{0.51, 0.475, 0.015},
			},
			Race: CategoricalSpec{
				Levels:  schema.RaceLevels,
				Weights: []float64{0.60, 0.13, 0.18, 0.06, 0.03},
			},
			AgeGroup: CategoricalSpec{
				Levels:  schema.AgeGroupLevels,
				Weights: []float64{0.12, 0.18, 0.17, 0.16, 0.16, 0.21},
			},
			Education: CategoricalSpec{
				Levels:  schema.EducationLevels,
				Weights: []float64{0.09, 0.28, 0.28, 0.35},
			},
			Income: CategoricalSpec{
				Levels:  schema.IncomeLevels,
				Weights: []float64{0.18, 0.20, 0.17, 0.13, 0.17, 0.15},
			},
			State: CategoricalSpec{
				Levels:  schema.StateLevels,
				Weights: schema.StatePopulationWeights,
			},
			FBUsage: TruncNormalSpec{
				Mean: 3.2,
				SD:   1.5,
				Min:  schema.FBUsageMin,
				Max:  schema.FBUsageMax,
			},
			VaxPercpt: BetaSpec{Alpha: 2.0, Beta: 1.6},
		},
		Blocking: BlockingConfig{
			Covariates:       []string{schema.ColAgeGroup, schema.ColGender},
			SmallBlockPolicy: SmallBlockError,
			MinBlockSize:     3,
		},
		Effects: EffectsConfig{
			Logos:  ArmEffect{Main: 0.65, Interaction: -0.12},
			Pathos: ArmEffect{Main: 0.40, Interaction: -0.08},
		},
		Noise:     NoiseConfig{SD: 0.35},
		Attrition: AttritionConfig{Rate: 0.10, Policy: "uniform"},
		Awareness: AwarenessConfig{Base: 0.55, UsageSlope: 0.05, Cap: 0.95},
		Output:    OutputConfig{Dir: ".", Format: FormatCSV},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load loads configuration from path (if non-empty) layered over defaults,
// then applies TRIALGEN_* environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = loaded
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads a YAML config file layered over defaults. The result is
// not yet validated; callers use Load or call Validate themselves.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies TRIALGEN_* environment variables on top of cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRIALGEN_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("TRIALGEN_POPULATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Population = n
		}
	}
	if v := os.Getenv("TRIALGEN_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TRIALGEN_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("TRIALGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
