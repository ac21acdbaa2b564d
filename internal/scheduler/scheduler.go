package scheduler

import (
	"context"
	"time"

	"jobmatch-engine/internal/logger"
)

type Task func(ctx context.Context) error

// Every runs task right away and then on each tick until ctx is done.
// Task errors are logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	go run(ctx, name, task)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run(ctx, name, task)
		}
	}
}

func run(ctx context.Context, name string, task Task) {
	start := time.Now()
	if err := task(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("task", name).Msg("scheduled task failed")
		return
	}
	logger.Ctx(ctx).Debug().Str("task", name).Dur("took", time.Since(start)).Msg("scheduled task done")
}
