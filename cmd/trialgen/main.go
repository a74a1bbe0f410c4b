package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trialgen",
		Short: "Synthetic randomized field experiment generator",
		Long: `trialgen generates linked baseline/endline survey tables for a simulated
three-arm messaging experiment: covariate sampling, blocked random
assignment, calibrated treatment effects, uniform attrition, and an
endogenous ad-awareness signal.

Runs are fully seeded: the same config and seed reproduce both tables
bit-for-bit.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "YAML config file layered over defaults")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newValidateCmd(),
		newStatsCmd(),
		newMCPServerCmd(),
	)
	return rootCmd
}
