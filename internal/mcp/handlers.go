package mcp

import (
	"context"
	"errors"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/diagnostics"
	"github.com/mvittori/trialgen/internal/pipeline"
)

// registerTools registers all trialgen MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "trial_generate",
		Description: "Generate a seeded synthetic field experiment: linked baseline and endline tables with blocked assignment, calibrated effects, attrition, and ad awareness",
	}, s.handleTrialGenerate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "trial_stats",
		Description: "Summarize a generated dataset: arm counts, outcome means, ITT contrasts, awareness rates, and wave balance",
	}, s.handleTrialStats)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "trial_validate",
		Description: "Validate a generator config file without producing any data",
	}, s.handleTrialValidate)

	return nil
}

func (s *Server) handleTrialGenerate(ctx context.Context, req *sdk.CallToolRequest, args TrialGenerateInput) (*sdk.CallToolResult, TrialGenerateOutput, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, TrialGenerateOutput{}, err
	}
	if args.Seed != nil {
		cfg.Seed = *args.Seed
	}
	if args.Population > 0 {
		cfg.Population = args.Population
	}
	if args.Format != "" {
		cfg.Output.Format = args.Format
	}
	cfg.Output.Dir = args.OutputDir

	res, err := pipeline.Run(cfg, s.log, nil)
	if err != nil {
		return nil, TrialGenerateOutput{}, err
	}

	files, err := dataset.Write(ctx, cfg.Output.Dir, cfg.Output.Format, res.Dataset)
	if err != nil {
		return nil, TrialGenerateOutput{}, err
	}

	armCounts := make(map[string]int, len(res.Summary.ArmCounts))
	for arm, n := range res.Summary.ArmCounts {
		armCounts[string(arm)] = n
	}
	s.log.Info("generated dataset",
		"seed", res.Summary.Seed,
		"baseline", res.Summary.Population,
		"endline", res.Summary.EndlineRows,
		"dir", cfg.Output.Dir)

	return nil, TrialGenerateOutput{
		Seed:         res.Summary.Seed,
		BaselineRows: res.Summary.Population,
		EndlineRows:  res.Summary.EndlineRows,
		Blocks:       res.Summary.Blocks,
		ArmCounts:    armCounts,
		Files:        files,
	}, nil
}

func (s *Server) handleTrialStats(ctx context.Context, req *sdk.CallToolRequest, args TrialStatsInput) (*sdk.CallToolResult, TrialStatsOutput, error) {
	format := args.Format
	if format == "" {
		format = config.FormatCSV
	}
	ds, err := dataset.Read(ctx, args.Dir, format)
	if err != nil {
		return nil, TrialStatsOutput{}, err
	}
	rep := diagnostics.Summarize(ds)

	arms := make(map[string]ArmStats, len(rep.Arms))
	for arm, st := range rep.Arms {
		arms[arm] = ArmStats{
			Count:         st.Count,
			EndlineCount:  st.EndlineCount,
			MeanBaseline:  st.MeanBaseline,
			MeanEndline:   st.MeanEndline,
			AwarenessRate: st.AwarenessRate,
		}
	}
	var maxImbalance float64
	for _, e := range rep.Balance {
		if e.MaxDiff > maxImbalance {
			maxImbalance = e.MaxDiff
		}
	}

	return nil, TrialStatsOutput{
		BaselineRows:  rep.BaselineRows,
		EndlineRows:   rep.EndlineRows,
		AttritionRate: rep.AttritionRate,
		Arms:          arms,
		ITT:           rep.ITT,
		MaxImbalance:  maxImbalance,
	}, nil
}

func (s *Server) handleTrialValidate(ctx context.Context, req *sdk.CallToolRequest, args TrialValidateInput) (*sdk.CallToolResult, TrialValidateOutput, error) {
	cfg, err := config.LoadFromFile(args.ConfigPath)
	if err != nil {
		return nil, TrialValidateOutput{}, err
	}
	if err := cfg.Validate(); err != nil {
		out := TrialValidateOutput{Valid: false, Error: err.Error()}
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			out.Field = cfgErr.Field
		}
		return nil, out, nil
	}
	return nil, TrialValidateOutput{Valid: true}, nil
}
