package scrape

import (
	"testing"

	"wanted-mailer/internal/config"
	"wanted-mailer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestKeep(t *testing.T) {
	c := config.Criteria{
		Locations: []string{"서울"},
		Jobs:      []string{"백엔드", "Server"},
		Years:     3,
	}

	tests := []struct {
		name   string
		l      domain.Listing
		keep   bool
		reason string
	}{
		{
			name: "all three match",
			l:    domain.Listing{Location: "서울 강남구", Position: "백엔드 개발자", AnnualFrom: 3},
			keep: true,
		},
		{
			name:   "years below threshold",
			l:      domain.Listing{Location: "서울", Position: "백엔드", AnnualFrom: 2},
			reason: "years",
		},
		{
			name:   "absent years count as zero",
			l:      domain.Listing{Location: "서울", Position: "백엔드"},
			reason: "years",
		},
		{
			name:   "wrong location",
			l:      domain.Listing{Location: "부산 해운대구", Position: "백엔드", AnnualFrom: 5},
			reason: "location",
		},
		{
			name:   "wrong role",
			l:      domain.Listing{Location: "서울", Position: "프론트엔드 개발자", AnnualFrom: 5},
			reason: "job",
		},
		{
			name: "keyword is case-insensitive",
			l:    domain.Listing{Location: "서울", Position: "Senior SERVER Engineer", AnnualFrom: 7},
			keep: true,
		},
		{
			name:   "location is case-sensitive",
			l:      domain.Listing{Location: "seoul", Position: "server", AnnualFrom: 7},
			reason: "location",
		},
		{
			name: "decomposed hangul still matches",
			l:    domain.Listing{Location: norm.NFD.String("서울 마포구"), Position: norm.NFD.String("백엔드"), AnnualFrom: 3},
			keep: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, reason := Keep(c, tt.l)
			assert.Equal(t, tt.keep, keep)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	c := config.Criteria{Locations: []string{"서울", "경기"}, Jobs: []string{"백엔드"}, Years: 1}
	in := []domain.Listing{
		{ID: "9", Location: "경기 성남시", Position: "백엔드", AnnualFrom: 1},
		{ID: "8", Location: "부산", Position: "백엔드", AnnualFrom: 1},
		{ID: "7", Location: "서울", Position: "백엔드 리드", AnnualFrom: 8},
		{ID: "6", Location: "서울", Position: "디자이너", AnnualFrom: 8},
		{ID: "5", Location: "서울", Position: "백엔드", AnnualFrom: 1},
	}

	out := Filter(in, c)

	var ids []string
	for _, l := range out {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"9", "7", "5"}, ids)
	assert.Equal(t, "8", in[1].ID, "input untouched")
}

func TestFilterEmptyCriteriaMatchesNothing(t *testing.T) {
	in := []domain.Listing{{ID: "1", Location: "서울", Position: "백엔드"}}
	assert.Empty(t, Filter(in, config.Criteria{}))
	assert.Empty(t, Filter(nil, config.Criteria{Locations: []string{"서울"}, Jobs: []string{"백엔드"}}))
}

func TestFilterCountedTalliesReasons(t *testing.T) {
	c := config.Criteria{Locations: []string{"서울"}, Jobs: []string{"백엔드"}, Years: 2}
	in := []domain.Listing{
		{ID: "5", Location: "서울", Position: "백엔드", AnnualFrom: 3},
		{ID: "4", Location: "부산", Position: "백엔드", AnnualFrom: 3},
		{ID: "3", Location: "서울", Position: "백엔드", AnnualFrom: 1},
		{ID: "2", Location: "서울", Position: "디자이너", AnnualFrom: 5},
		{ID: "1", Location: "대구", Position: "마케터", AnnualFrom: 0},
	}

	out, rejects := FilterCounted(in, c)

	require.Len(t, out, 1)
	assert.Equal(t, "5", out[0].ID)
	assert.Equal(t, Rejects{"location": 2, "job": 1, "years": 1}, rejects)
}
