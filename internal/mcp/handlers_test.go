package mcp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v0.0.0",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trialgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestHandleTrialGenerate(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}
	dir := t.TempDir()

	seed := uint64(42)
	args := TrialGenerateInput{
		OutputDir:  dir,
		Population: 500,
		Seed:       &seed,
		ConfigPath: writeConfig(t, "blocking:\n  small_block_policy: pool\n"),
	}
	result, output, err := server.handleTrialGenerate(ctx, req, args)
	if err != nil {
		t.Fatalf("handleTrialGenerate failed: %v", err)
	}
	if result != nil {
		t.Error("expected nil result (SDK auto-populates)")
	}

	if output.Seed != 42 {
		t.Errorf("Seed = %d, want 42", output.Seed)
	}
	if output.BaselineRows != 500 {
		t.Errorf("BaselineRows = %d, want 500", output.BaselineRows)
	}
	if output.EndlineRows != 450 {
		t.Errorf("EndlineRows = %d, want 450", output.EndlineRows)
	}
	if len(output.Files) != 2 {
		t.Fatalf("Files = %v, want baseline and endline csv", output.Files)
	}
	for _, f := range output.Files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("reported file missing: %v", err)
		}
	}

	total := 0
	for _, n := range output.ArmCounts {
		total += n
	}
	if total != 500 {
		t.Errorf("arm counts sum to %d, want 500", total)
	}
}

func TestHandleTrialStats(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}
	dir := t.TempDir()

	seed := uint64(7)
	_, gen, err := server.handleTrialGenerate(ctx, req, TrialGenerateInput{
		OutputDir:  dir,
		Population: 600,
		Seed:       &seed,
		ConfigPath: writeConfig(t, "blocking:\n  small_block_policy: pool\n"),
	})
	if err != nil {
		t.Fatalf("handleTrialGenerate failed: %v", err)
	}

	_, stats, err := server.handleTrialStats(ctx, req, TrialStatsInput{Dir: dir})
	if err != nil {
		t.Fatalf("handleTrialStats failed: %v", err)
	}
	if stats.BaselineRows != gen.BaselineRows || stats.EndlineRows != gen.EndlineRows {
		t.Errorf("stats rows = %d/%d, generate reported %d/%d",
			stats.BaselineRows, stats.EndlineRows, gen.BaselineRows, gen.EndlineRows)
	}
	if len(stats.Arms) != 3 {
		t.Errorf("Arms = %v, want 3 arms", stats.Arms)
	}
	if stats.Arms["control"].AwarenessRate != 0 {
		t.Errorf("control awareness rate = %v, want 0", stats.Arms["control"].AwarenessRate)
	}
}

func TestHandleTrialValidate(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	_, out, err := server.handleTrialValidate(ctx, req, TrialValidateInput{
		ConfigPath: writeConfig(t, "population: 1000\n"),
	})
	if err != nil {
		t.Fatalf("handleTrialValidate failed: %v", err)
	}
	if !out.Valid {
		t.Errorf("valid config reported invalid: %+v", out)
	}

	_, out, err = server.handleTrialValidate(ctx, req, TrialValidateInput{
		ConfigPath: writeConfig(t, "attrition:\n  rate: 1.5\n"),
	})
	if err != nil {
		t.Fatalf("handleTrialValidate failed: %v", err)
	}
	if out.Valid {
		t.Error("invalid config reported valid")
	}
	if out.Field != "attrition.rate" {
		t.Errorf("Field = %q, want attrition.rate", out.Field)
	}

	if _, _, err := server.handleTrialValidate(ctx, req, TrialValidateInput{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
	}); err == nil {
		t.Error("missing config file: want error")
	}
}
