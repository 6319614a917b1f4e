// Package gitcmd runs the git executable as a subprocess. Every invocation
// carries its own hard deadline; failures surface the captured stderr.
package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Per-invocation deadlines. Clone, fetch and push move full branch
// histories and get the long deadline; the rest are metadata operations.
const (
	LsRemoteTimeout  = 60 * time.Second
	CloneTimeout     = 1800 * time.Second
	ConfigTimeout    = 30 * time.Second
	RemoteAddTimeout = 30 * time.Second
	FetchTimeout     = 1800 * time.Second
	PushTimeout      = 1800 * time.Second
)

// PostBuffer is the http.postBuffer value applied to every target clone.
// Force-pushing a full branch history can exceed git's default transport
// buffering limits.
const PostBuffer = "157286400"

// ErrMalformedOutput indicates git produced output the caller could not parse.
var ErrMalformedOutput = errors.New("malformed git output")

// Runner invokes git with per-call deadlines.
type Runner struct {
	gitPath string
	logger  *slog.Logger
}

// NewRunner returns a Runner that invokes "git" from PATH.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		gitPath: "git",
		logger:  logger.With("component", "gitcmd"),
	}
}

// run executes git with the given arguments under a deadline, merging
// stdout and stderr. The merged output is returned so failures can carry it.
func (r *Runner) run(ctx context.Context, timeout time.Duration, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := strings.Join(args, " ")
	r.logger.Debug("running git", "args", argv)
	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("git %s: timed out after %s", argv, timeout)
		}
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("git %s: %w", argv, err)
		}
		return fmt.Errorf("git %s: %w: %s", argv, err, detail)
	}
	return nil
}

// LsRemoteHeads lists the branch heads of a remote repository without
// cloning it. The result maps branch name to commit hash; when a branch
// appears twice the last occurrence wins.
func (r *Runner) LsRemoteHeads(ctx context.Context, url string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, LsRemoteTimeout)
	defer cancel()

	r.logger.Debug("running git", "args", "ls-remote --heads "+url)
	cmd := exec.CommandContext(ctx, r.gitPath, "ls-remote", "--heads", url)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("git ls-remote %s: timed out after %s", url, LsRemoteTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git ls-remote %s: %w: %s", url, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git ls-remote %s: %w", url, err)
	}

	return parseHeads(string(output))
}

// parseHeads parses ls-remote output: one "<hash>\t<ref>" pair per line,
// with the refs/heads/ prefix stripped from each ref.
func parseHeads(output string) (map[string]string, error) {
	heads := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, ref, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOutput, line)
		}
		branch := strings.TrimPrefix(strings.TrimSpace(ref), "refs/heads/")
		heads[branch] = strings.TrimSpace(hash)
	}
	return heads, nil
}

// CloneNoCheckout clones a repository without materializing working-tree
// files. Only object and ref transfer matters for mirroring, so skipping
// the checkout avoids the working-tree I/O on large repositories.
func (r *Runner) CloneNoCheckout(ctx context.Context, url, dir string) error {
	return r.run(ctx, CloneTimeout, "clone", "--no-checkout", url, dir)
}

// SetPostBuffer raises the HTTP POST buffer on an existing clone.
func (r *Runner) SetPostBuffer(ctx context.Context, dir string) error {
	return r.run(ctx, ConfigTimeout, "-C", dir, "config", "http.postBuffer", PostBuffer)
}

// AddRemote registers a named remote in an existing clone.
func (r *Runner) AddRemote(ctx context.Context, dir, name, url string) error {
	return r.run(ctx, RemoteAddTimeout, "-C", dir, "remote", "add", name, url)
}

// FetchBranch fetches a single branch from a named remote.
func (r *Runner) FetchBranch(ctx context.Context, dir, remote, branch string) error {
	return r.run(ctx, FetchTimeout, "-C", dir, "fetch", remote, branch)
}

// ForcePush unconditionally updates dstRef on the origin remote to point at
// srcRef. The same push creates the ref when absent and rewinds it when
// present.
func (r *Runner) ForcePush(ctx context.Context, dir, srcRef, dstRef string) error {
	return r.run(ctx, PushTimeout, "-C", dir, "push", "--force", "origin", srcRef+":"+dstRef)
}
