package poll

import "wanted-mailer/internal/domain"

// NewSince returns the listings ahead of cursor in a newest-first slice.
//
// Walking from the head, listings are collected until one whose ID equals
// cursor; that one and everything older are dropped. found reports whether
// the cursor was met. Without a cursor, or when it is not present, every
// listing is returned.
func NewSince(listings []domain.Listing, cursor string, hasCursor bool) (fresh []domain.Listing, found bool) {
	for _, l := range listings {
		if hasCursor && l.ID == cursor {
			return fresh, true
		}
		fresh = append(fresh, l)
	}
	return fresh, false
}
