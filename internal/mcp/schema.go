// Package mcp provides an MCP (Model Context Protocol) server for trialgen.
package mcp

// TrialGenerateInput defines the input for the trial_generate tool.
// Fields without omitempty are required in the generated schema.
type TrialGenerateInput struct {
	OutputDir  string  `json:"output_dir" jsonschema:"directory to write the generated tables into"`
	Format     string  `json:"format,omitempty" jsonschema:"output format: 'csv' (default), 'parquet', or 'sqlite'"`
	Seed       *uint64 `json:"seed,omitempty" jsonschema:"root seed; the same seed reproduces the tables bit-for-bit"`
	Population int     `json:"population,omitempty" jsonschema:"number of baseline subjects (default from config)"`
	ConfigPath string  `json:"config_path,omitempty" jsonschema:"optional YAML config file layered over defaults"`
}

// TrialGenerateOutput defines the output for the trial_generate tool.
type TrialGenerateOutput struct {
	Seed         uint64         `json:"seed" jsonschema:"root seed the run used"`
	BaselineRows int            `json:"baseline_rows" jsonschema:"rows in the baseline table"`
	EndlineRows  int            `json:"endline_rows" jsonschema:"rows in the endline table"`
	Blocks       int            `json:"blocks" jsonschema:"number of randomization blocks"`
	ArmCounts    map[string]int `json:"arm_counts" jsonschema:"subjects per treatment arm"`
	Files        []string       `json:"files" jsonschema:"paths of the written files"`
}

// TrialStatsInput defines the input for the trial_stats tool.
type TrialStatsInput struct {
	Dir    string `json:"dir" jsonschema:"directory holding a generated dataset"`
	Format string `json:"format,omitempty" jsonschema:"format the dataset was written in: 'csv' (default) or 'sqlite'"`
}

// TrialStatsOutput defines the output for the trial_stats tool.
type TrialStatsOutput struct {
	BaselineRows  int                 `json:"baseline_rows" jsonschema:"rows in the baseline table"`
	EndlineRows   int                 `json:"endline_rows" jsonschema:"rows in the endline table"`
	AttritionRate float64             `json:"attrition_rate" jsonschema:"realized attrition rate"`
	Arms          map[string]ArmStats `json:"arms" jsonschema:"per-arm counts and outcome means"`
	ITT           map[string]float64  `json:"itt" jsonschema:"intent-to-treat contrasts versus control"`
	MaxImbalance  float64             `json:"max_imbalance" jsonschema:"largest covariate proportion shift between waves"`
}

// ArmStats summarizes one treatment arm for tool output.
type ArmStats struct {
	Count         int     `json:"count"`
	EndlineCount  int     `json:"endline_count"`
	MeanBaseline  float64 `json:"mean_baseline"`
	MeanEndline   float64 `json:"mean_endline"`
	AwarenessRate float64 `json:"awareness_rate"`
}

// TrialValidateInput defines the input for the trial_validate tool.
type TrialValidateInput struct {
	ConfigPath string `json:"config_path" jsonschema:"YAML config file to validate"`
}

// TrialValidateOutput defines the output for the trial_validate tool.
type TrialValidateOutput struct {
	Valid bool   `json:"valid" jsonschema:"whether the config passed validation"`
	Field string `json:"field,omitempty" jsonschema:"offending config field when invalid"`
	Error string `json:"error,omitempty" jsonschema:"validation error message when invalid"`
}
