package types

import (
	"context"

	"wanted-mailer/internal/domain"
)

// Stop reasons reported in ScrapeResult.Stopped.
const (
	StopExhausted = "exhausted"
	StopMaxPages  = "max_pages"
	StopStatus    = "status"
)

type ScrapeResult struct {
	Source   string
	Listings []domain.Listing
	Pages    int    // pages requested, including a failed last one
	Stopped  string // one of the Stop* reasons
	Status   int    // HTTP status that ended pagination when Stopped == StopStatus
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (ScrapeResult, error)
}
