package stats

import (
	"testing"
	"time"

	"issue-stats/domain/issues"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCumulativeByDayForwardFillsGaps(t *testing.T) {
	rows := []issues.Issue{
		{ID: "1", URL: "https://example.org/1", CreatedAt: at("2023-01-01T09:00:00Z")},
		{ID: "2", URL: "https://example.org/2", CreatedAt: at("2023-01-01T18:30:00Z")},
		{ID: "3", URL: "https://example.org/3", CreatedAt: at("2023-01-03T07:00:00Z")},
	}

	got := CumulativeByDay(rows)

	assert.Equal(t, []Point{
		{Day: date(2023, 1, 1), Count: 2},
		{Day: date(2023, 1, 2), Count: 2},
		{Day: date(2023, 1, 3), Count: 3},
	}, got)
}

func TestCumulativeByDayCoversEveryDay(t *testing.T) {
	rows := []issues.Issue{
		{ID: "a", URL: "https://example.org/a", CreatedAt: at("2020-03-28T10:00:00Z")},
		{ID: "b", URL: "https://example.org/b", CreatedAt: at("2020-02-27T10:00:00Z")},
		{ID: "c", URL: "https://example.org/c", CreatedAt: at("2020-03-01T10:00:00Z")},
		{ID: "d", URL: "https://example.org/d", CreatedAt: at("2020-03-01T23:00:00Z")},
	}

	got := CumulativeByDay(rows)

	require.Len(t, got, 31)
	assert.Equal(t, date(2020, 2, 27), got[0].Day)
	assert.Equal(t, date(2020, 3, 28), got[len(got)-1].Day)
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].Day.AddDate(0, 0, 1), got[i].Day)
		assert.GreaterOrEqual(t, got[i].Count, got[i-1].Count)
	}
	assert.Equal(t, len(rows), got[len(got)-1].Count)
}

func TestCumulativeByDayUsesLocalDate(t *testing.T) {
	rome := time.FixedZone("CET", 3600)
	rows := []issues.Issue{
		{ID: "1", URL: "https://example.org/1", CreatedAt: time.Date(2023, 1, 2, 0, 30, 0, 0, rome)},
	}

	got := CumulativeByDay(rows)

	assert.Equal(t, []Point{{Day: date(2023, 1, 2), Count: 1}}, got)
}

func TestCumulativeByDayEmpty(t *testing.T) {
	assert.Empty(t, CumulativeByDay(nil))
}

func TestCategoryCounts(t *testing.T) {
	tbl, err := issues.NewTable([]issues.Issue{
		{ID: "1", Labels: []string{"Salute", "Scuola"}},
		{ID: "2", Labels: []string{"Salute"}},
		{ID: "3", Labels: []string{"Lavoro"}},
	})
	require.NoError(t, err)

	got := CategoryCounts(tbl, tbl.Categories(nil))

	assert.Equal(t, []Count{
		{Key: "Lavoro", Count: 1},
		{Key: "Scuola", Count: 1},
		{Key: "Salute", Count: 2},
	}, got)
}

func TestRegionCountsSortedAscending(t *testing.T) {
	rows := []issues.Issue{
		{ID: "1", URL: "https://example.org/1", Region: "Lazio"},
		{ID: "2", URL: "https://example.org/2", Region: "Veneto"},
		{ID: "3", URL: "https://example.org/3", Region: "Lazio"},
		{ID: "4", URL: "https://example.org/4", Region: "Abruzzo"},
		{ID: "5", URL: "https://example.org/5", Region: "Lazio"},
	}

	got := RegionCounts(rows)

	assert.Equal(t, []Count{
		{Key: "Abruzzo", Count: 1},
		{Key: "Veneto", Count: 1},
		{Key: "Lazio", Count: 3},
	}, got)
	assert.Equal(t, []string{"Abruzzo", "Veneto", "Lazio"}, Keys(got))
	assert.Equal(t, []int{1, 1, 3}, Values(got))
}

func TestRegionCountsSkipBlankRegion(t *testing.T) {
	rows := []issues.Issue{
		{ID: "1", URL: "https://example.org/1", Region: "Lazio"},
		{ID: "2", URL: "https://example.org/2", Region: ""},
		{ID: "3", URL: "https://example.org/3", Region: "  "},
	}

	got := RegionCounts(rows)

	assert.Equal(t, []Count{{Key: "Lazio", Count: 1}}, got)
}

func TestCountsSkipRowsWithoutURL(t *testing.T) {
	rows := []issues.Issue{
		{ID: "1", URL: "https://example.org/1", Region: "Lazio", CreatedAt: at("2023-01-01T09:00:00Z")},
		{ID: "2", URL: "", Region: "Lazio", CreatedAt: at("2023-01-01T10:00:00Z")},
		{ID: "3", URL: "https://example.org/3", Region: "Veneto", CreatedAt: at("2023-01-02T10:00:00Z")},
	}

	assert.Equal(t, []Point{
		{Day: date(2023, 1, 1), Count: 1},
		{Day: date(2023, 1, 2), Count: 2},
	}, CumulativeByDay(rows))
	assert.Equal(t, []Count{{Key: "Lazio", Count: 1}, {Key: "Veneto", Count: 1}}, RegionCounts(rows))
}
