package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero population",
			mutate:    func(c *Config) { c.Population = 0 },
			wantField: "population",
		},
		{
			name:      "population exceeds identifier space",
			mutate:    func(c *Config) { c.Population = 100000 },
			wantField: "population",
		},
		{
			name:      "negative weight",
			mutate:    func(c *Config) { c.Covariates.Gender.Weights[0] = -1 },
			wantField: "covariates.gender.weights",
		},
		{
			name: "weights sum to zero",
			mutate: func(c *Config) {
				c.Covariates.Race.Weights = []float64{0, 0, 0, 0, 0}
			},
			wantField: "covariates.race.weights",
		},
		{
			name:      "empty levels",
			mutate:    func(c *Config) { c.Covariates.AgeGroup.Levels = nil },
			wantField: "covariates.age_group.levels",
		},
		{
			name: "levels disagree with codebook",
			mutate: func(c *Config) {
				c.Covariates.Education.Levels = []string{"a", "b", "c", "d"}
			},
			wantField: "covariates.edu.levels",
		},
		{
			name:      "bad beta shape",
			mutate:    func(c *Config) { c.Covariates.VaxPercpt.Alpha = 0 },
			wantField: "covariates.vax_percpt",
		},
		{
			name:      "unknown blocking covariate",
			mutate:    func(c *Config) { c.Blocking.Covariates = []string{"fb_usage"} },
			wantField: "blocking.covariates",
		},
		{
			name:      "bad small block policy",
			mutate:    func(c *Config) { c.Blocking.SmallBlockPolicy = "ignore" },
			wantField: "blocking.small_block_policy",
		},
		{
			name: "pathos stronger than logos",
			mutate: func(c *Config) {
				c.Effects.Pathos.Main = c.Effects.Logos.Main + 0.1
			},
			wantField: "effects",
		},
		{
			name:      "negative main effect",
			mutate:    func(c *Config) { c.Effects.Pathos.Main = -0.2 },
			wantField: "effects.pathos.main",
		},
		{
			name:      "attrition rate of one",
			mutate:    func(c *Config) { c.Attrition.Rate = 1.0 },
			wantField: "attrition.rate",
		},
		{
			name:      "perfect compliance cap",
			mutate:    func(c *Config) { c.Awareness.Cap = 1.0 },
			wantField: "awareness.cap",
		},
		{
			name:      "unknown output format",
			mutate:    func(c *Config) { c.Output.Format = "xlsx" },
			wantField: "output.format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
population: 1200
seed: 7
attrition:
  rate: 0.2
effects:
  logos:
    main: 0.8
    interaction: -0.1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Population != 1200 {
		t.Errorf("Population = %d, want 1200", cfg.Population)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Attrition.Rate != 0.2 {
		t.Errorf("Attrition.Rate = %v, want 0.2", cfg.Attrition.Rate)
	}
	if cfg.Effects.Logos.Main != 0.8 {
		t.Errorf("Effects.Logos.Main = %v, want 0.8", cfg.Effects.Logos.Main)
	}
	// Untouched fields keep their defaults.
	if cfg.Effects.Pathos.Main != 0.40 {
		t.Errorf("Effects.Pathos.Main = %v, want default 0.40", cfg.Effects.Pathos.Main)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() = nil error for missing file")
	}
	if !strings.Contains(err.Error(), "loading config file") {
		t.Errorf("error = %v, want wrapped file error", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRIALGEN_SEED", "99")
	t.Setenv("TRIALGEN_POPULATION", "300")
	t.Setenv("TRIALGEN_OUTPUT_FORMAT", "sqlite")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.Population != 300 {
		t.Errorf("Population = %d, want 300", cfg.Population)
	}
	if cfg.Output.Format != FormatSQLite {
		t.Errorf("Output.Format = %q, want sqlite", cfg.Output.Format)
	}
}
