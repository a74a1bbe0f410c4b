package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mvittori/trialgen/internal/dataset"
)

// newTestRootCmd wires the persistent flags so subcommand tests see them.
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{Use: "trialgen"}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	return rootCmd
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trialgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestNewGenerateCmd(t *testing.T) {
	cmd := newGenerateCmd()
	if cmd.Use != "generate" {
		t.Errorf("Use = %q, want %q", cmd.Use, "generate")
	}
	for _, name := range []string{"out", "format", "seed", "population"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func TestNewStatsCmd(t *testing.T) {
	cmd := newStatsCmd()
	if cmd.Use != "stats" {
		t.Errorf("Use = %q, want %q", cmd.Use, "stats")
	}
	if cmd.Flags().Lookup("dir") == nil {
		t.Error("missing --dir flag")
	}
	if cmd.Flags().Lookup("read-format") == nil {
		t.Error("missing --read-format flag")
	}
}

func TestGenerateCmdWritesTables(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "data")
	cfgPath := writeTestConfig(t, "blocking:\n  small_block_policy: pool\n")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.SetArgs([]string{"generate",
		"--config", cfgPath,
		"--out", outDir,
		"--population", "400",
		"--seed", "42",
	})
	rootCmd.SetOut(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	bf, err := os.Open(filepath.Join(outDir, dataset.BaselineCSV))
	if err != nil {
		t.Fatalf("baseline table missing: %v", err)
	}
	defer bf.Close()
	base, err := dataset.ReadBaselineCSV(bf)
	if err != nil {
		t.Fatalf("ReadBaselineCSV() error = %v", err)
	}
	if len(base) != 400 {
		t.Errorf("baseline rows = %d, want 400", len(base))
	}
	if _, err := os.Stat(filepath.Join(outDir, dataset.EndlineCSV)); err != nil {
		t.Errorf("endline table missing: %v", err)
	}
}

func TestStatsCmdReadsGeneratedData(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "data")
	cfgPath := writeTestConfig(t, "blocking:\n  small_block_policy: pool\n")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd(), newStatsCmd())
	rootCmd.SetArgs([]string{"generate",
		"--config", cfgPath,
		"--out", outDir,
		"--population", "400",
		"--format", "sqlite",
	})
	rootCmd.SetOut(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	rootCmd.SetArgs([]string{"stats", "--dir", outDir, "--read-format", "sqlite", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
}

func TestValidateCmd(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.SetArgs([]string{"validate", writeTestConfig(t, "population: 1000\n")})
	rootCmd.SetOut(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validate failed on a valid config: %v", err)
	}

	rootCmd.SetArgs([]string{"validate", writeTestConfig(t, "population: -5\n")})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("validate accepted a negative population")
	}
}

func TestValidateCmdRequiresPath(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.SetArgs([]string{"validate"})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("validate with no path: want error")
	}
}
