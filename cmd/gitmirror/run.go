package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/gitmirror/internal/config"
	"github.com/mirrorhq/gitmirror/internal/gitcmd"
	"github.com/mirrorhq/gitmirror/internal/heads"
	"github.com/mirrorhq/gitmirror/internal/history"
	"github.com/mirrorhq/gitmirror/internal/mirror"
	"github.com/mirrorhq/gitmirror/internal/schedule"
)

var (
	runDir      string
	runHistory  string
	runSchedule string
)

func init() {
	runCmd.Flags().StringVar(&runDir, "dir", ".", "Parent directory for per-group working directories")
	runCmd.Flags().StringVar(&runHistory, "history", "", "Path to a SQLite run journal (disabled when empty)")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "Cron expression; stay resident and run on every tick")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mirror every configured job that has diverged",
	Long: `Run compares the branch heads of every configured job and mirrors the
jobs that have diverged. Jobs sharing a target repository are processed
against a single clone of that target.

Without --schedule the command performs one run and exits 0 only when
every selected job synced or was correctly skipped. With --schedule it
stays resident and performs a run on every cron tick until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := config.Load(config.ResolvePath(configPath))
		if err != nil {
			slog.Error("failed to load configuration", "error", err)
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var recorder mirror.Recorder
		if runHistory != "" {
			store, err := history.Open(runHistory)
			if err != nil {
				slog.Error("failed to open run journal", "path", runHistory, "error", err)
				return err
			}
			defer store.Close()
			recorder = store
		}

		runOnce := func(ctx context.Context) bool {
			git := gitcmd.NewRunner(slog.Default())
			resolver := heads.NewResolver(git, slog.Default())
			eval := mirror.NewEvaluator(resolver, slog.Default())
			exec := mirror.NewExecutor(git, slog.Default())
			coord := mirror.NewCoordinator(eval, exec, git, runDir, slog.Default())
			if recorder != nil {
				coord.SetRecorder(recorder)
			}
			_, failed := coord.Run(ctx, jobs)
			return failed
		}

		if runSchedule != "" {
			return schedule.Loop(ctx, runSchedule, slog.Default(), runOnce)
		}

		if failed := runOnce(ctx); failed {
			return errors.New("one or more mirror jobs failed")
		}
		fmt.Println("all jobs synced or in sync")
		return nil
	},
}
