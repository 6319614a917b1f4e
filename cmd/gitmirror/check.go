package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/gitmirror/internal/config"
	"github.com/mirrorhq/gitmirror/internal/gitcmd"
	"github.com/mirrorhq/gitmirror/internal/heads"
	"github.com/mirrorhq/gitmirror/internal/mirror"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which jobs would sync, without touching anything",
	Long: `Check evaluates every configured job by comparing remote branch heads
and reports whether it would sync, is already in sync, or cannot be
processed. Nothing is cloned, fetched or pushed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := config.Load(config.ResolvePath(configPath))
		if err != nil {
			slog.Error("failed to load configuration", "error", err)
			return err
		}

		git := gitcmd.NewRunner(slog.Default())
		resolver := heads.NewResolver(git, slog.Default())
		eval := mirror.NewEvaluator(resolver, slog.Default())

		for _, j := range jobs {
			verdict := eval.Evaluate(cmd.Context(), j)
			fmt.Printf("%s: %s (%s@%s -> %s@%s)\n",
				j.Name, verdict, j.FromRepo, j.FromBranch, j.ToRepo, j.ToBranch)
		}
		return nil
	},
}
