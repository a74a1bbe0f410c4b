package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvittori/trialgen/internal/logging"
	"github.com/mvittori/trialgen/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run trialgen as an MCP server over stdio",
		Long: `Run trialgen as an MCP (Model Context Protocol) server.

The server speaks MCP over stdio and exposes three tools:
  trial_generate  generate a dataset into a directory
  trial_stats     summarize a generated dataset
  trial_validate  validate a config file

Register it with an MCP client, e.g.:
  {"command": "trialgen", "args": ["mcp-server"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "trialgen",
				Version: version,
				Logger:  logging.NewLogger(level, os.Stderr),
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("log-level", "info", "Log verbosity: info, debug, or trace")
	return cmd
}
