package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// PageLimiter spaces successive requests at least delay apart. The first
// Wait returns immediately.
type PageLimiter struct {
	lim *rate.Limiter
}

func NewPageLimiter(delay time.Duration) *PageLimiter {
	if delay <= 0 {
		return &PageLimiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &PageLimiter{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

func (pl *PageLimiter) Wait(ctx context.Context) error {
	if pl == nil {
		return nil
	}
	return pl.lim.Wait(ctx)
}
