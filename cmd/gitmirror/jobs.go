package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/gitmirror/internal/config"
)

func init() {
	rootCmd.AddCommand(jobsCmd)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the configured mirror jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := config.Load(config.ResolvePath(configPath))
		if err != nil {
			slog.Error("failed to load configuration", "error", err)
			return err
		}

		for _, j := range jobs {
			fmt.Printf("%s: %s@%s -> %s@%s\n",
				j.Name, j.FromRepo, j.FromBranch, j.ToRepo, j.ToBranch)
		}
		return nil
	},
}
