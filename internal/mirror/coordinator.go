// Package mirror implements the branch synchronization engine: deciding
// which configured jobs diverge, grouping them so each target repository is
// cloned once, and force-pushing source branch heads onto target branches
// while isolating per-job failures.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// Status classifies one job's result within a run.
type Status int

const (
	// StatusSynced means the target branch was force-updated to the source head.
	StatusSynced Status = iota
	// StatusSkipped means the endpoints were already in sync.
	StatusSkipped
	// StatusUnprocessable means the job could not be evaluated this run.
	StatusUnprocessable
	// StatusFailed means a sync step failed; the failure is recorded, not fatal.
	StatusFailed
)

// String returns the journal form of the status.
func (s Status) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusSkipped:
		return "skipped"
	case StatusUnprocessable:
		return "unprocessable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is one job's result. Err is set only for StatusFailed.
type Outcome struct {
	Job    job.Job
	Status Status
	Err    error
}

// Recorder persists a finished run. Recording is observational: a recorder
// error never affects the run's result.
type Recorder interface {
	RecordRun(started, finished time.Time, outcomes []Outcome) error
}

// Coordinator drives one run end to end: evaluate, group, sync, aggregate.
type Coordinator struct {
	eval     *Evaluator
	exec     *Executor
	git      GitRunner
	baseDir  string
	logger   *slog.Logger
	recorder Recorder
}

// NewCoordinator returns a Coordinator that creates group working
// directories under baseDir.
func NewCoordinator(eval *Evaluator, exec *Executor, git GitRunner, baseDir string, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if baseDir == "" {
		baseDir = "."
	}
	return &Coordinator{
		eval:    eval,
		exec:    exec,
		git:     git,
		baseDir: baseDir,
		logger:  logger.With("component", "coordinator"),
	}
}

// SetRecorder attaches an optional run journal.
func (c *Coordinator) SetRecorder(r Recorder) {
	c.recorder = r
}

// Run processes the given jobs and returns every job's outcome plus a
// single run-wide failure flag. A job or group failure never aborts the
// remaining jobs or groups; only the caller decides what to do with the
// flag.
//
// Jobs that evaluate as unprocessable are logged as errors and skipped
// without flipping the failure flag: nothing was attempted against the
// target, and the job will be revisited on the next scheduled run.
func (c *Coordinator) Run(ctx context.Context, jobs []job.Job) ([]Outcome, bool) {
	started := time.Now()

	var selected []job.Job
	var outcomes []Outcome
	for _, j := range jobs {
		c.logger.Info("processing job", "job", j.Name)
		switch c.eval.Evaluate(ctx, j) {
		case VerdictSync:
			selected = append(selected, j)
		case VerdictInSync:
			outcomes = append(outcomes, Outcome{Job: j, Status: StatusSkipped})
		case VerdictUnprocessable:
			outcomes = append(outcomes, Outcome{Job: j, Status: StatusUnprocessable})
		}
	}

	groups := GroupByTarget(selected)
	names := make([]string, len(selected))
	for i, j := range selected {
		names[i] = j.Name
	}
	c.logger.Info("selected jobs", "jobs", names, "groups", len(groups))

	for _, g := range groups {
		outcomes = append(outcomes, c.runGroup(ctx, g)...)
	}

	failed := false
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			failed = true
			break
		}
	}

	if c.recorder != nil {
		if err := c.recorder.RecordRun(started, time.Now(), outcomes); err != nil {
			c.logger.Error("failed to record run history", "error", err)
		}
	}

	return outcomes, failed
}

// runGroup clones the group's target repository once and syncs every member
// job against that clone. The working directory is removed only when every
// job in the group succeeded; on any failure it is kept as postmortem
// evidence.
func (c *Coordinator) runGroup(ctx context.Context, g Group) []Outcome {
	dir := filepath.Join(c.baseDir, WorkdirName(g.ToRepo))

	c.logger.Info("cloning target repository", "to_repo", g.ToRepo, "dir", dir, "jobs", len(g.Jobs))
	if err := c.git.CloneNoCheckout(ctx, g.ToRepo, dir); err != nil {
		return c.failGroup(g, dir, fmt.Errorf("cloning %s: %w", g.ToRepo, err))
	}
	if err := c.git.SetPostBuffer(ctx, dir); err != nil {
		return c.failGroup(g, dir, fmt.Errorf("configuring clone of %s: %w", g.ToRepo, err))
	}

	outcomes := make([]Outcome, 0, len(g.Jobs))
	groupFailed := false
	for _, j := range g.Jobs {
		if err := c.exec.Sync(ctx, j, dir); err != nil {
			c.logger.Error("failed to process job", "job", j.Name, "dir", dir, "error", err)
			outcomes = append(outcomes, Outcome{Job: j, Status: StatusFailed, Err: err})
			groupFailed = true
			continue
		}
		outcomes = append(outcomes, Outcome{Job: j, Status: StatusSynced})
	}

	if groupFailed {
		c.logger.Warn("keeping working directory for postmortem", "dir", dir)
		return outcomes
	}

	if err := os.RemoveAll(dir); err != nil {
		// The mirror itself succeeded; a stuck directory is not a run failure.
		c.logger.Error("failed to remove working directory", "dir", dir, "error", err)
	}
	return outcomes
}

// failGroup marks every job in the group failed with the shared setup
// error. The directory is kept: a partial clone is still evidence.
func (c *Coordinator) failGroup(g Group, dir string, err error) []Outcome {
	c.logger.Error("failed to prepare group clone", "to_repo", g.ToRepo, "dir", dir, "error", err)
	outcomes := make([]Outcome, 0, len(g.Jobs))
	for _, j := range g.Jobs {
		outcomes = append(outcomes, Outcome{Job: j, Status: StatusFailed, Err: err})
	}
	return outcomes
}
