package mirror

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// GitRunner is the subset of git operations the sync engine needs. It is
// satisfied by *gitcmd.Runner.
type GitRunner interface {
	CloneNoCheckout(ctx context.Context, url, dir string) error
	SetPostBuffer(ctx context.Context, dir string) error
	AddRemote(ctx context.Context, dir, name, url string) error
	FetchBranch(ctx context.Context, dir, remote, branch string) error
	ForcePush(ctx context.Context, dir, srcRef, dstRef string) error
}

// Executor performs the ref-level mirror for one job against an already
// prepared target clone.
type Executor struct {
	git    GitRunner
	logger *slog.Logger
}

// NewExecutor returns an Executor driving the given git runner.
func NewExecutor(git GitRunner, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		git:    git,
		logger: logger.With("component", "executor"),
	}
}

// Sync mirrors one job into dir, which must already hold a checkout-free
// clone of the job's target repository with the push buffer configured.
// The source is added as a remote named after the job, so several jobs with
// different sources can share one clone without colliding; the final push
// updates the target branch ref unconditionally, creating it when absent.
func (e *Executor) Sync(ctx context.Context, j job.Job, dir string) error {
	if err := e.git.AddRemote(ctx, dir, j.Name, j.FromRepo); err != nil {
		return fmt.Errorf("adding remote for %s: %w", j.FromRepo, err)
	}

	e.logger.Info("downloading source branch", "job", j.Name, "from_repo", j.FromRepo, "from_branch", j.FromBranch)
	if err := e.git.FetchBranch(ctx, dir, j.Name, j.FromBranch); err != nil {
		return fmt.Errorf("fetching %s from %s: %w", j.FromBranch, j.FromRepo, err)
	}

	e.logger.Info("pushing to target branch", "job", j.Name, "to_repo", j.ToRepo, "to_branch", j.ToBranch)
	srcRef := "refs/remotes/" + j.Name + "/" + j.FromBranch
	dstRef := "refs/heads/" + j.ToBranch
	if err := e.git.ForcePush(ctx, dir, srcRef, dstRef); err != nil {
		return fmt.Errorf("pushing %s to %s: %w", j.ToBranch, j.ToRepo, err)
	}

	return nil
}
