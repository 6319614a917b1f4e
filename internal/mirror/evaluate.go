package mirror

import (
	"context"
	"log/slog"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// HeadsSource resolves a remote repository's branch-head snapshot. The
// second return value is false when the remote could not be queried.
type HeadsSource interface {
	Resolve(ctx context.Context, url string) (map[string]string, bool)
}

// Verdict is the evaluator's decision for one job.
type Verdict int

const (
	// VerdictSync means the endpoints diverge and the job must run.
	VerdictSync Verdict = iota
	// VerdictInSync means both branch heads already point at the same commit.
	VerdictInSync
	// VerdictUnprocessable means the job cannot safely run this time:
	// an endpoint did not resolve or the source branch does not exist.
	VerdictUnprocessable
)

// String returns a short human-readable form of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictSync:
		return "needs sync"
	case VerdictInSync:
		return "in sync"
	case VerdictUnprocessable:
		return "unprocessable"
	default:
		return "unknown"
	}
}

// Evaluator decides whether a job needs to run by comparing the branch
// heads of both endpoints, without cloning either.
type Evaluator struct {
	heads  HeadsSource
	logger *slog.Logger
}

// NewEvaluator returns an Evaluator backed by the given head source.
func NewEvaluator(heads HeadsSource, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		heads:  heads,
		logger: logger.With("component", "evaluate"),
	}
}

// Evaluate compares the source and target branch heads for one job. Every
// comparison is logged with both URLs, branches and hashes so a run's
// decisions can be audited afterwards.
//
// A missing target branch is expected (the push will create it) and yields
// VerdictSync; a missing source branch or an unresolvable endpoint makes
// the job unprocessable for this run.
func (e *Evaluator) Evaluate(ctx context.Context, j job.Job) Verdict {
	fromHeads, ok := e.heads.Resolve(ctx, j.FromRepo)
	if !ok {
		e.logger.Error("could not fetch source heads, job unprocessable", "job", j.Name, "from_repo", j.FromRepo)
		return VerdictUnprocessable
	}
	toHeads, ok := e.heads.Resolve(ctx, j.ToRepo)
	if !ok {
		e.logger.Error("could not fetch target heads, job unprocessable", "job", j.Name, "to_repo", j.ToRepo)
		return VerdictUnprocessable
	}

	fromHash, fromExists := fromHeads[j.FromBranch]
	toHash := toHeads[j.ToBranch]

	e.logger.Info("comparing branch heads",
		"job", j.Name,
		"from_repo", j.FromRepo, "from_branch", j.FromBranch, "from_hash", fromHash,
		"to_repo", j.ToRepo, "to_branch", j.ToBranch, "to_hash", toHash,
	)

	if !fromExists {
		e.logger.Error("source branch does not exist, job unprocessable", "job", j.Name, "from_branch", j.FromBranch)
		return VerdictUnprocessable
	}

	// An absent target branch leaves toHash empty, which never equals a
	// commit hash; only a strict match short-circuits.
	if fromHash == toHash {
		e.logger.Info("branches are already in sync", "job", j.Name)
		return VerdictInSync
	}

	return VerdictSync
}

// NeedsSync reports whether the job must run.
func (e *Evaluator) NeedsSync(ctx context.Context, j job.Job) bool {
	return e.Evaluate(ctx, j) == VerdictSync
}
