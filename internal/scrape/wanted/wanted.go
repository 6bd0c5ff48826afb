package wanted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/scrape/types"
	"wanted-mailer/internal/scrape/util"
)

// PageSize is the fixed limit sent with every request.
const PageSize = 100

type Config struct {
	Endpoint string // https://www.wanted.co.kr/api/v4/jobs
	Country  string
	JobSort  string
	MaxPages int
	Timeout  time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.PageLimiter
}

func New(cfg Config, limiter *util.PageLimiter) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "wanted" }

type wantedPage struct {
	Data []wantedJob `json:"data"`
}

type wantedJob struct {
	ID      flexID `json:"id"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Position string `json:"position"`
	Address  struct {
		FullLocation string `json:"full_location"`
	} `json:"address"`
	AnnualFrom *int `json:"annual_from"`
	Reward     *struct {
		FormattedTotal string `json:"formatted_total"`
	} `json:"reward"`
}

// flexID accepts both 123 and "123".
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("listing id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

func (j wantedJob) listing() domain.Listing {
	l := domain.Listing{
		ID:       string(j.ID),
		Company:  util.CleanText(j.Company.Name),
		Position: util.CleanText(j.Position),
		Location: util.CleanText(j.Address.FullLocation),
	}
	if j.AnnualFrom != nil {
		l.AnnualFrom = *j.AnnualFrom
	}
	if j.Reward != nil {
		l.Reward = util.CleanText(j.Reward.FormattedTotal)
	}
	return l
}

type page struct {
	listings []domain.Listing
	raw      int // records on the page before dropping unusable ones
	status   int
}

// Fetch pages through the endpoint newest-first. A non-200 page ends the run
// quietly with whatever was collected; transport and decode failures are
// returned together with the partial result.
func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{
		Source:  s.Name(),
		Stopped: types.StopMaxPages,
	}

	for offset := 0; offset < s.cfg.MaxPages*PageSize; offset += PageSize {
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}

		p, err := s.fetchPage(ctx, offset)
		res.Pages++
		if err != nil {
			return res, err
		}
		if p.status != http.StatusOK {
			log.Printf("[wanted] request failed offset=%d status=%d", offset, p.status)
			res.Stopped = types.StopStatus
			res.Status = p.status
			break
		}

		res.Listings = append(res.Listings, p.listings...)
		log.Printf("[wanted] page offset=%d got=%d total=%d", offset, p.raw, len(res.Listings))

		if p.raw < PageSize {
			res.Stopped = types.StopExhausted
			break
		}
	}

	log.Printf("[wanted] loaded=%d pages=%d stopped=%s", len(res.Listings), res.Pages, res.Stopped)
	return res, nil
}

func (s *Scraper) pageURL(offset int) (string, error) {
	u, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("wanted endpoint: %w", err)
	}
	q := u.Query()
	q.Set("country", s.cfg.Country)
	q.Set("limit", strconv.Itoa(PageSize))
	if s.cfg.JobSort != "" {
		q.Set("job_sort", s.cfg.JobSort)
	}
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Scraper) fetchPage(ctx context.Context, offset int) (page, error) {
	apiURL, err := s.pageURL(offset)
	if err != nil {
		return page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return page{}, err
	}
	req.Header.Set("User-Agent", "wanted-mailer/1.0 (+cron)")
	req.Header.Set("Accept", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("wanted get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		log.Printf("[wanted] upstream status=%s body=%q", res.Status, string(b))
		return page{status: res.StatusCode}, nil
	}

	var wp wantedPage
	if err := json.NewDecoder(res.Body).Decode(&wp); err != nil {
		return page{}, fmt.Errorf("wanted decode offset=%d: %w", offset, err)
	}

	p := page{
		raw:      len(wp.Data),
		status:   res.StatusCode,
		listings: make([]domain.Listing, 0, len(wp.Data)),
	}
	for _, j := range wp.Data {
		l := j.listing()
		if l.ID == "" {
			log.Printf("[wanted] skipped listing without id position=%q", l.Position)
			continue
		}
		p.listings = append(p.listings, l)
	}
	return p, nil
}
