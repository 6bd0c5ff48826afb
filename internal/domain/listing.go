package domain

// Listing is one job posting as returned by the listings API, already
// normalized at the parse boundary.
type Listing struct {
	ID         string // API ids are numeric; kept as decimal text
	Company    string
	Position   string
	Location   string // full_location
	AnnualFrom int    // 0 when the API omits it
	Reward     string // formatted total, "" when absent
}
