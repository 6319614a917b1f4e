// Package heads resolves remote branch-head snapshots, memoized per URL for
// the lifetime of one run.
package heads

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// QueryRate caps remote head queries per second. Several jobs commonly share
// a hosting provider and there is no reason to burst ls-remote against it.
const QueryRate = 2.0

// Lister queries a remote repository's branch heads.
type Lister interface {
	LsRemoteHeads(ctx context.Context, url string) (map[string]string, error)
}

// Resolver memoizes branch-head lookups per URL. The cache lives for one run
// and is never invalidated: callers accept that a branch may move between
// the head check and any later fetch, because the eventual push is anchored
// to what the fetch retrieved, not to the cached hash.
//
// Failures are memoized too: an unreachable remote is queried once per run,
// not once per job.
type Resolver struct {
	lister  Lister
	limiter *rate.Limiter
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]map[string]string // url -> heads; nil value records a failed lookup
}

// NewResolver returns a Resolver with an empty cache.
func NewResolver(lister Lister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		lister:  lister,
		limiter: rate.NewLimiter(rate.Limit(QueryRate), 1),
		logger:  logger.With("component", "heads"),
		cache:   make(map[string]map[string]string),
	}
}

// Resolve returns the branch-name to commit-hash snapshot for url. The
// second return value is false when the remote could not be queried; the
// failure has already been logged and cached.
func (r *Resolver) Resolve(ctx context.Context, url string) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if heads, seen := r.cache[url]; seen {
		return heads, heads != nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Error("head query cancelled", "url", url, "error", err)
		r.cache[url] = nil
		return nil, false
	}

	heads, err := r.lister.LsRemoteHeads(ctx, url)
	if err != nil {
		r.logger.Error("failed to fetch remote heads", "url", url, "error", err)
		r.cache[url] = nil
		return nil, false
	}

	r.logger.Debug("resolved remote heads", "url", url, "branches", len(heads))
	r.cache[url] = heads
	return heads, true
}
