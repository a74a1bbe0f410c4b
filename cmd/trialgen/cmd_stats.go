package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/dataset"
	"github.com/mvittori/trialgen/internal/diagnostics"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a generated dataset",
		Long: `Read back a generated dataset and print its diagnostic summary:
arm counts, outcome means, intent-to-treat contrasts, awareness rates,
and covariate balance between the two waves.

Examples:
  trialgen stats --dir ./data
  trialgen stats --dir ./data --read-format sqlite --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			dir, _ := cmd.Flags().GetString("dir")
			format, _ := cmd.Flags().GetString("read-format")

			ds, err := dataset.Read(context.Background(), dir, format)
			if err != nil {
				return err
			}
			if err := ds.CheckIntegrity(); err != nil {
				return err
			}
			rep := diagnostics.Summarize(ds)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(rep)
			}

			fmt.Printf("baseline %d rows, endline %d rows (attrition %.1f%%)\n",
				rep.BaselineRows, rep.EndlineRows, rep.AttritionRate*100)
			arms := make([]string, 0, len(rep.Arms))
			for arm := range rep.Arms {
				arms = append(arms, arm)
			}
			sort.Strings(arms)
			for _, arm := range arms {
				st := rep.Arms[arm]
				fmt.Printf("  %-8s n=%-5d endline=%-5d baseline mean=%.3f endline mean=%.3f aware=%.1f%%\n",
					arm, st.Count, st.EndlineCount, st.MeanBaseline, st.MeanEndline, st.AwarenessRate*100)
			}
			for _, arm := range arms {
				if itt, ok := rep.ITT[arm]; ok {
					fmt.Printf("  ITT %-8s %+.3f vs control\n", arm, itt)
				}
			}
			fmt.Printf("  wave balance: max covariate shift %.4f, mean fb_usage shift %+.4f\n",
				maxBalance(rep), rep.FBUsageDiff)
			return nil
		},
	}

	cmd.Flags().String("dir", ".", "Directory holding the dataset")
	cmd.Flags().String("read-format", config.FormatCSV, "Format the dataset was written in: csv or sqlite")
	return cmd
}

func maxBalance(rep *diagnostics.Report) float64 {
	var max float64
	for _, e := range rep.Balance {
		if e.MaxDiff > max {
			max = e.MaxDiff
		}
	}
	return max
}
