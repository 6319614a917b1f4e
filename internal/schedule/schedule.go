// Package schedule drives repeated mirror runs on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Validate checks a standard 5-field cron expression (descriptors like
// @hourly are accepted too).
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Loop runs fn on the given cron schedule until ctx is cancelled. Ticks
// never overlap: when a run is still in flight the tick is skipped and
// logged. fn reports whether the run failed; failures are logged and the
// loop keeps going, since a failed job is only revisited on the next tick.
func Loop(ctx context.Context, spec string, logger *slog.Logger, fn func(context.Context) bool) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "schedule")

	if err := Validate(spec); err != nil {
		return err
	}

	var mu sync.Mutex
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if !mu.TryLock() {
			logger.Warn("previous run still in progress, skipping tick")
			return
		}
		defer mu.Unlock()

		if failed := fn(ctx); failed {
			logger.Error("scheduled run finished with failures")
		} else {
			logger.Info("scheduled run finished cleanly")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling runs: %w", err)
	}

	c.Start()
	logger.Info("scheduler started", "schedule", spec)

	<-ctx.Done()
	logger.Info("scheduler stopping")
	// Stop prevents new ticks; Done blocks until an in-flight run finishes.
	<-c.Stop().Done()
	return nil
}
