// Package stats holds the aggregations behind the issue charts.
package stats

import (
	"sort"
	"strings"
	"time"

	"issue-stats/domain/issues"

	lo "github.com/samber/lo"
)

// Point is the cumulative issue count at the end of Day.
type Point struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// Count is the number of issues for one category or region.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Day truncates t to its calendar date in t's own zone and returns it as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// counted reports whether an issue takes part in the per-day and per-region counts.
// Rows without a URL are not counted.
func counted(is issues.Issue, _ int) bool {
	return strings.TrimSpace(is.URL) != ""
}

// CumulativeByDay counts issues per creation date and returns the running total
// for every calendar day between the first and the last date. Days without new
// issues repeat the previous total.
func CumulativeByDay(rows []issues.Issue) []Point {
	rows = lo.Filter(rows, counted)
	if len(rows) == 0 {
		return []Point{}
	}
	perDay := lo.CountValuesBy(rows, func(is issues.Issue) time.Time { return Day(is.CreatedAt) })
	days := lo.Keys(perDay)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	out := make([]Point, 0, int(last.Sub(first).Hours()/24)+1)
	total := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		total += perDay[d]
		out = append(out, Point{Day: d, Count: total})
	}
	return out
}

// CategoryCounts returns, per category, the number of issues carrying that label,
// sorted ascending by count. Ties keep the order of categories.
func CategoryCounts(t *issues.Table, categories []string) []Count {
	out := lo.Map(categories, func(c string, _ int) Count {
		return Count{Key: c, Count: lo.CountBy(t.Issues, func(is issues.Issue) bool { return t.Has(is.ID, c) })}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	return out
}

// RegionCounts groups issues by region, sorted ascending by count then region name.
// Issues without a region get no bar.
func RegionCounts(rows []issues.Issue) []Count {
	rows = lo.Filter(rows, func(is issues.Issue, i int) bool {
		return counted(is, i) && strings.TrimSpace(is.Region) != ""
	})
	perRegion := lo.CountValuesBy(rows, func(is issues.Issue) string { return is.Region })
	out := lo.MapToSlice(perRegion, func(k string, v int) Count { return Count{Key: k, Count: v} })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Keys returns the keys of counts in order.
func Keys(counts []Count) []string {
	return lo.Map(counts, func(c Count, _ int) string { return c.Key })
}

// Values returns the counts in order.
func Values(counts []Count) []int {
	return lo.Map(counts, func(c Count, _ int) int { return c.Count })
}
