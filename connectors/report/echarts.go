package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"issue-stats/domain/stats"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	lo "github.com/samber/lo"
)

const ChartsFile = "plot.html"

// Charts is the data drawn on the HTML chart page.
type Charts struct {
	Title      string
	Cumulative []stats.Point
	ByCategory []stats.Count
	ByRegion   []stats.Count
}

// RenderCharts writes a standalone HTML page drawing the cumulative line and the
// category and region bar charts, top to bottom.
func RenderCharts(w io.Writer, c Charts) error {
	page := components.NewPage()
	page.PageTitle = c.Title
	page.AddCharts(
		cumulativeLine(c.Cumulative),
		countBar("Number of issues per category", "Categories", c.ByCategory),
		countBar("Number of issues per Italian region", "Regions", c.ByRegion),
	)
	return page.Render(w)
}

// WriteCharts renders c into dir/plot.html. The directory must already exist.
func WriteCharts(dir string, c Charts) (string, error) {
	var buf bytes.Buffer
	if err := RenderCharts(&buf, c); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ChartsFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func saveToolbox() opts.Toolbox {
	return opts.Toolbox{
		Show: opts.Bool(true),
		Feature: &opts.ToolBoxFeature{
			SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Title: "save"},
		},
	}
}

// cumulativeLine uses one category per day; the series has no gaps so the axis
// is evenly spaced in time.
func cumulativeLine(points []stats.Point) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "800px", Height: "250px"}),
		charts.WithTitleOpts(opts.Title{Title: "Issues cumulative sum"}),
		charts.WithToolboxOpts(saveToolbox()),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cumulative sum"}),
	)
	line.SetXAxis(lo.Map(points, func(p stats.Point, _ int) string { return p.Day.Format("02/01/06") })).
		AddSeries("Issues",
			lo.Map(points, func(p stats.Point, _ int) opts.LineData { return opts.LineData{Value: p.Count} }),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
		)
	return line
}

func countBar(title, yName string, counts []stats.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithToolboxOpts(saveToolbox()),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}: {c}"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Number of issues", Type: "value", Min: 0}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "category", SplitLine: &opts.SplitLine{Show: opts.Bool(false)}}),
	)
	bar.SetXAxis(stats.Keys(counts)).
		AddSeries("Issues",
			lo.Map(counts, func(c stats.Count, _ int) opts.BarData { return opts.BarData{Name: c.Key, Value: c.Count} }),
			charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "10%"}),
		).
		XYReversal()
	return bar
}
