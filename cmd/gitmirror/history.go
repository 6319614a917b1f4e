package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/gitmirror/internal/history"
)

var (
	historyDB    string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "gitmirror-history.db", "Path to the SQLite run journal")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the run journal",
	Long: `History prints recent runs recorded with "run --history", newest first,
with each run's per-job outcomes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDB)
		if err != nil {
			slog.Error("failed to open run journal", "path", historyDB, "error", err)
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		for _, r := range runs {
			status := "ok"
			if r.Failed {
				status = "FAILED"
			}
			fmt.Printf("run %d  %s  (%s)  %s\n",
				r.ID,
				r.Started.Local().Format(time.RFC3339),
				r.Finished.Sub(r.Started).Round(time.Second),
				status,
			)

			results, err := store.RunResults(r.ID)
			if err != nil {
				return err
			}
			for _, jr := range results {
				if jr.Detail != "" {
					fmt.Printf("  %-20s %-14s %s\n", jr.JobName, jr.Status, jr.Detail)
					continue
				}
				fmt.Printf("  %-20s %s\n", jr.JobName, jr.Status)
			}
		}
		return nil
	},
}
