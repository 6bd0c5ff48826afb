package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then once per interval until ctx is done.
// Runs never overlap: ticks that fire while task is busy are dropped.
// When timeout > 0 each run gets its own deadline.
func Every(ctx context.Context, interval, timeout time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for ctx.Err() == nil {
		runOnce(ctx, timeout, name, task)

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func runOnce(ctx context.Context, timeout time.Duration, name string, task Task) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	if err := task(ctx); err != nil {
		log.Printf("[%s] error after %s: %v", name, time.Since(start).Round(time.Millisecond), err)
	}
}
