package plot

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"issue-stats/connectors/config"
	ccsv "issue-stats/connectors/csv"
	"issue-stats/connectors/report"
	"issue-stats/domain/chart"
	"issue-stats/domain/issues"
	"issue-stats/domain/stats"
)

// Aggregates holds everything derived from one issue export.
type Aggregates struct {
	Table      *issues.Table
	Categories []string
	Cumulative []stats.Point
	ByCategory []stats.Count
	ByRegion   []stats.Count
}

// Run executes the plot command: load the issue CSV, aggregate, and write the
// chart bundle, the HTML chart page and the Markdown summary into the plot directory.
//
// Usage:
//
//	issue-stats plot [-data ./issues.csv] [-out ./plot/]
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataPath := fs.String("data", cfg.Data.Issues, "issue CSV export")
	outDir := fs.String("out", cfg.Data.PlotDir, "existing directory receiving plot.json, plot.html and summary.md")
	if err := fs.Parse(args); err != nil {
		return err
	}

	slog.Info("plot.start", "data", *dataPath, "out", *outDir)
	agg, err := Load(*dataPath, cfg.Plot.ExcludedLabels)
	if err != nil {
		return err
	}
	doc := Document(agg, cfg.Plot.RootID, cfg.Plot.Title)

	plotPath, err := report.WritePlot(*outDir, doc)
	if err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	chartsPath, err := report.WriteCharts(*outDir, Charts(agg, cfg.Plot.Title))
	if err != nil {
		return fmt.Errorf("write charts: %w", err)
	}
	summaryPath, err := report.WriteSummary(*outDir, Summary(agg, cfg.Plot.Title))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	slog.Info("plot.done", "issues", len(agg.Table.Issues), "categories", len(agg.Categories), "plot", plotPath, "charts", chartsPath, "summary", summaryPath)
	return nil
}

// Load reads the issue export at path and computes all three aggregates.
func Load(path string, excluded []string) (*Aggregates, error) {
	rows, err := ccsv.ReadIssues(path)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}
	t, err := issues.NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}
	return Aggregate(t, excluded), nil
}

// Aggregate derives the category list and the three aggregates from t.
func Aggregate(t *issues.Table, excluded []string) *Aggregates {
	categories := t.Categories(excluded)
	return &Aggregates{
		Table:      t,
		Categories: categories,
		Cumulative: stats.CumulativeByDay(t.Issues),
		ByCategory: stats.CategoryCounts(t, categories),
		ByRegion:   stats.RegionCounts(t.Issues),
	}
}

// Document stacks the cumulative, category and region charts into one bundle.
func Document(agg *Aggregates, rootID, title string) *chart.Document {
	b := chart.NewBuilder()
	col := b.Column(
		chart.CumulativePlot(b, agg.Cumulative),
		chart.CategoryPlot(b, agg.ByCategory),
		chart.RegionPlot(b, agg.ByRegion),
	)
	return chart.NewDocument(rootID, title, col)
}

// Charts builds the HTML chart page data for agg.
func Charts(agg *Aggregates, title string) report.Charts {
	return report.Charts{
		Title:      title,
		Cumulative: agg.Cumulative,
		ByCategory: agg.ByCategory,
		ByRegion:   agg.ByRegion,
	}
}

// Summary builds the Markdown summary data for agg.
func Summary(agg *Aggregates, title string) report.Summary {
	s := report.Summary{
		Title:      title,
		Total:      len(agg.Table.Issues),
		Labels:     agg.Table.Labels(),
		Categories: agg.ByCategory,
		Regions:    agg.ByRegion,
	}
	if n := len(agg.Cumulative); n > 0 {
		s.First = agg.Cumulative[0].Day
		s.Last = agg.Cumulative[n-1].Day
	}
	return s
}
