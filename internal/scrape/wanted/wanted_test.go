package wanted

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/scrape/types"
	"wanted-mailer/internal/scrape/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves total records, newest (highest id) first.
func fakeAPI(t *testing.T, total int, hits *int32, failAtOffset int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		q := r.URL.Query()
		assert.Equal(t, "kr", q.Get("country"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "job.latest_order", q.Get("job_sort"))

		offset, err := strconv.Atoi(q.Get("offset"))
		assert.NoError(t, err)
		if failAtOffset >= 0 && offset == failAtOffset {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}

		data := []map[string]any{}
		for i := offset; i < offset+PageSize && (total < 0 || i < total); i++ {
			data = append(data, map[string]any{
				"id":          100000 - i,
				"company":     map[string]any{"name": fmt.Sprintf("Co %d", i)},
				"position":    "백엔드 개발자",
				"address":     map[string]any{"full_location": "서울 강남구"},
				"annual_from": i % 5,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func newScraper(endpoint string, maxPages int) *Scraper {
	return New(Config{
		Endpoint: endpoint,
		Country:  "kr",
		JobSort:  "job.latest_order",
		MaxPages: maxPages,
	}, util.NewPageLimiter(0))
}

func TestFetchUntilExhausted(t *testing.T) {
	var hits int32
	srv := fakeAPI(t, 250, &hits, -1)
	defer srv.Close()

	res, err := newScraper(srv.URL, 30).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.StopExhausted, res.Stopped)
	assert.Equal(t, 3, res.Pages)
	assert.EqualValues(t, 3, hits)
	require.Len(t, res.Listings, 250)
	assert.Equal(t, "100000", res.Listings[0].ID)
	assert.Equal(t, "99751", res.Listings[249].ID)
}

func TestFetchStopsAtMaxPages(t *testing.T) {
	var hits int32
	srv := fakeAPI(t, -1, &hits, -1)
	defer srv.Close()

	res, err := newScraper(srv.URL, 2).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.StopMaxPages, res.Stopped)
	assert.EqualValues(t, 2, hits)
	assert.Len(t, res.Listings, 200)
}

func TestFetchStopsOnBadStatus(t *testing.T) {
	var hits int32
	srv := fakeAPI(t, -1, &hits, 100)
	defer srv.Close()

	res, err := newScraper(srv.URL, 30).Fetch(context.Background())
	require.NoError(t, err, "a non-200 page is not an error")

	assert.Equal(t, types.StopStatus, res.Stopped)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
	assert.EqualValues(t, 2, hits)
	assert.Len(t, res.Listings, 100, "partial results are kept")
}

func TestFetchEmptyFirstPage(t *testing.T) {
	var hits int32
	srv := fakeAPI(t, 0, &hits, -1)
	defer srv.Close()

	res, err := newScraper(srv.URL, 30).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.Equal(t, types.StopExhausted, res.Stopped)
}

func TestFetchParsesOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"id": 5, "company": {"name": " 원티드랩 "}, "position": "백엔드 개발자",
			 "address": {"full_location": "서울 송파구"}, "annual_from": 3,
			 "reward": {"formatted_total": "1,000,000원"}},
			{"id": "4", "company": {"name": "B"}, "position": "Backend",
			 "address": {"full_location": "부산"}, "annual_from": null},
			{"id": 3, "company": {"name": "C"}, "position": "Server"},
			{"company": {"name": "no id"}, "position": "dropped"}
		]}`))
	}))
	defer srv.Close()

	res, err := newScraper(srv.URL, 1).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Listing{
		{ID: "5", Company: "원티드랩", Position: "백엔드 개발자", Location: "서울 송파구", AnnualFrom: 3, Reward: "1,000,000원"},
		{ID: "4", Company: "B", Position: "Backend", Location: "부산"},
		{ID: "3", Company: "C", Position: "Server"},
	}, res.Listings)
	assert.Equal(t, types.StopExhausted, res.Stopped, "the short page counts raw records")
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newScraper(srv.URL, 1).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wanted decode")
}

func TestFetchTransportError(t *testing.T) {
	srv := fakeAPI(t, 10, new(int32), -1)
	url := srv.URL
	srv.Close()

	_, err := newScraper(url, 1).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wanted get")
}
