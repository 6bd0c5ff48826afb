package poll

import (
	"context"
	"fmt"
	"log"
	"time"

	"wanted-mailer/internal/config"
	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/notify"
	"wanted-mailer/internal/scrape"
	"wanted-mailer/internal/scrape/types"
)

// Outcomes of a run.
const (
	OutcomeNoMatch = "no_match"
	OutcomeNoNew   = "no_new"
	OutcomeSent    = "sent"
	OutcomeDryRun  = "dry_run"
)

type CursorStore interface {
	Read() (id string, ok bool, err error)
	Write(latestID string, sent []domain.Listing, now time.Time) error
}

type Notifier interface {
	Notify(ctx context.Context, listings []domain.Listing) (notify.Message, error)
}

type Deps struct {
	Fetcher  types.Fetcher
	Criteria config.Criteria
	Cursor   CursorStore
	Notifier Notifier

	// DryRun still composes and hands the message to Notifier but never
	// moves the cursor.
	DryRun bool
	Now    func() time.Time
}

type Result struct {
	Fetched  int
	Matched  int
	Rejected scrape.Rejects
	New      []domain.Listing
	Cursor   string // stored cursor after the run, "" if none
	Outcome  string
}

// PollOnce runs fetch → filter → diff → notify → cursor once. Any error
// leaves the cursor where it was.
func PollOnce(ctx context.Context, d Deps) (Result, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	var out Result

	log.Printf("[%s] Running...", d.Fetcher.Name())
	res, err := d.Fetcher.Fetch(ctx)
	if err != nil {
		return out, fmt.Errorf("fetch %s: %w", d.Fetcher.Name(), err)
	}
	out.Fetched = len(res.Listings)

	matched, rejected := scrape.FilterCounted(res.Listings, d.Criteria)
	out.Matched = len(matched)
	out.Rejected = rejected
	log.Printf("[poll] fetched=%d matched=%d stopped=%s", out.Fetched, out.Matched, res.Stopped)
	log.Printf("[poll] rejected location=%d job=%d years=%d", rejected["location"], rejected["job"], rejected["years"])

	if len(matched) == 0 {
		log.Printf("[poll] no listing matches the criteria")
		out.Outcome = OutcomeNoMatch
		return out, nil
	}

	cursor, hasCursor, err := d.Cursor.Read()
	if err != nil {
		return out, err
	}
	if hasCursor {
		out.Cursor = cursor
	}

	latest := matched[0].ID
	if hasCursor && latest == cursor {
		log.Printf("[poll] no new listings cursor=%q", cursor)
		out.Outcome = OutcomeNoNew
		return out, nil
	}

	fresh, found := NewSince(matched, cursor, hasCursor)
	if hasCursor && !found {
		log.Printf("[poll] warning: cursor=%q not among %d matches; treating all as new", cursor, len(matched))
	}
	out.New = fresh
	log.Printf("[poll] new=%d latest=%q prev=%q", len(fresh), latest, cursor)

	if _, err := d.Notifier.Notify(ctx, fresh); err != nil {
		return out, err
	}

	if d.DryRun {
		out.Outcome = OutcomeDryRun
		return out, nil
	}

	if err := d.Cursor.Write(latest, fresh, now()); err != nil {
		return out, err
	}
	out.Cursor = latest
	out.Outcome = OutcomeSent
	log.Printf("[poll] ok sent=%d cursor=%q", len(fresh), latest)
	return out, nil
}
