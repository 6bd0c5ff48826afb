package scrape

import (
	"strings"

	"wanted-mailer/internal/config"
	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/scrape/util"
)

// Rejects counts dropped listings by the reason Keep gave.
type Rejects map[string]int

// Filter returns the listings that pass Keep, in their original order.
func Filter(listings []domain.Listing, c config.Criteria) []domain.Listing {
	out, _ := FilterCounted(listings, c)
	return out
}

// FilterCounted is Filter plus a tally of why the rest were dropped.
func FilterCounted(listings []domain.Listing, c config.Criteria) ([]domain.Listing, Rejects) {
	var out []domain.Listing
	rejects := Rejects{}
	for _, l := range listings {
		keep, reason := Keep(c, l)
		if !keep {
			rejects[reason]++
			continue
		}
		out = append(out, l)
	}
	return out, rejects
}

// Keep reports whether l satisfies every criterion and, if not, which one
// failed first.
func Keep(c config.Criteria, l domain.Listing) (keep bool, reason string) {
	// 1) Location: case-sensitive substring
	if !passesLocation(c, l) {
		return false, "location"
	}

	// 2) Role keyword: case-insensitive substring of the title
	if !matchesAnyJob(c, l) {
		return false, "job"
	}

	// 3) Experience floor
	if l.AnnualFrom < c.Years {
		return false, "years"
	}

	return true, ""
}

func passesLocation(c config.Criteria, l domain.Listing) bool {
	text := util.NFC(l.Location)
	for _, loc := range c.Locations {
		if loc == "" {
			continue
		}
		if strings.Contains(text, util.NFC(loc)) {
			return true
		}
	}
	return false
}

func matchesAnyJob(c config.Criteria, l domain.Listing) bool {
	title := util.Lower(l.Position)
	for _, k := range c.Jobs {
		n := util.Lower(strings.TrimSpace(k))
		if n == "" {
			continue
		}
		if strings.Contains(title, n) {
			return true
		}
	}
	return false
}
