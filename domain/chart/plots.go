package chart

import (
	"math"

	"issue-stats/domain/stats"

	lo "github.com/samber/lo"
)

// CumulativePlot draws the running issue total as a line over a datetime axis.
func CumulativePlot(b *Builder, points []stats.Point) *Figure {
	f := b.Figure("Issues cumulative sum", "save")
	f.Width, f.Height = 800, 250
	f.XAxis = Axis{
		Label:                 "Date",
		Type:                  AxisDatetime,
		Formatter:             &DatetimeFormatter{Days: "%d/%m/%y"},
		DesiredNumTicks:       10,
		MajorLabelOrientation: math.Pi / 4,
	}
	f.YAxis.Label = "Cumulative sum"
	f.Renderers = append(f.Renderers, Glyph{
		Type:      GlyphLine,
		X:         "x",
		Y:         "y",
		LineWidth: 2,
		Source: map[string]any{
			"x": lo.Map(points, func(p stats.Point, _ int) int64 { return p.Day.UnixMilli() }),
			"y": lo.Map(points, func(p stats.Point, _ int) int { return p.Count }),
		},
	})
	return f
}

// CategoryPlot draws one horizontal bar per category, in the order of counts.
func CategoryPlot(b *Builder, counts []stats.Count) *Figure {
	return countBars(b, counts, "Number of issues per category", "Categories", "labels")
}

// RegionPlot draws one horizontal bar per region, in the order of counts.
func RegionPlot(b *Builder, counts []stats.Count) *Figure {
	return countBars(b, counts, "Number of issues per Italian region", "Regions", "regioni")
}

func countBars(b *Builder, counts []stats.Count, title, yLabel, keyField string) *Figure {
	f := b.Figure(title, "save", "hover")
	keys := stats.Keys(counts)
	zero := 0.0
	f.XAxis.Label = "Number of issues"
	f.YAxis = Axis{Label: yLabel, Type: AxisCategorical}
	f.XRange = Range{Start: &zero}
	f.YRange = Range{Factors: keys}
	f.YGrid.LineColor = nil
	f.Tooltips = "@" + keyField + ": @count"
	f.Renderers = append(f.Renderers, Glyph{
		Type:   GlyphHBar,
		Y:      keyField,
		Right:  "count",
		Height: 0.9,
		Source: map[string]any{
			keyField: keys,
			"count":  stats.Values(counts),
		},
	})
	return f
}
