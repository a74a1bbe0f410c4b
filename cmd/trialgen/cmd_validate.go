package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvittori/trialgen/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config.yaml]",
		Short: "Validate a config file without generating data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			path, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no config file given (pass a path or --config)")
			}

			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				if jsonOut {
					out := map[string]string{"valid": "false", "error": err.Error()}
					var cfgErr *config.ConfigError
					if errors.As(err, &cfgErr) {
						out["field"] = cfgErr.Field
					}
					json.NewEncoder(os.Stdout).Encode(out)
				}
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{"valid": "true"})
			}
			fmt.Printf("%s is valid (population %d, seed %d)\n", path, cfg.Population, cfg.Seed)
			return nil
		},
	}
}
