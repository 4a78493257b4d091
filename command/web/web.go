package web

import (
	"bytes"
	"embed"
	"errors"
	"flag"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"issue-stats/command/plot"
	"issue-stats/connectors/config"
	"issue-stats/connectors/report"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/index.html
var templateFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Run starts a small Echo web server exposing the plot bundle, the aggregates as
// JSON and a dashboard page.
//
// Usage:
//
//	issue-stats web [-addr :8080] [-data ./issues.csv] [-plot ./plot/]
//
// Endpoints:
//
//	GET /                -> dashboard (summary.md rendered to HTML + /charts embedded)
//	GET /charts          -> cumulative, category and region charts, from <data>
//	GET /api/plot        -> <plot>/plot.json
//	GET /api/cumulative  -> cumulative issues per day, from <data>
//	GET /api/categories  -> issues per category, from <data>
//	GET /api/regions     -> issues per region, from <data>
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", cfg.Web.Addr, "http listen address (host:port)")
	dataPath := fs.String("data", cfg.Data.Issues, "issue CSV export")
	plotDir := fs.String("plot", cfg.Data.PlotDir, "directory containing plot.json and summary.md")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Data.Issues = *dataPath
	cfg.Data.PlotDir = *plotDir

	e, err := NewServer(cfg)
	if err != nil {
		return err
	}
	return e.Start(*addr)
}

type page struct {
	Title   string
	RootID  string
	Summary template.HTML
}

// NewServer builds the Echo instance serving cfg's data and plot files.
// Files are re-read on every request.
func NewServer(cfg *config.Config) (*echo.Echo, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true

	e.GET("/api/plot", func(c echo.Context) error {
		path := filepath.Join(cfg.Data.PlotDir, report.PlotFile)
		b, err := os.ReadFile(path)
		if err != nil {
			return fileError(c, path, err, "failed to read plot")
		}
		return c.JSONBlob(http.StatusOK, b)
	})

	// Helper to register a GET endpoint serving one aggregate of the issue CSV
	serveAggregate := func(route string, pick func(*plot.Aggregates) any) {
		e.GET(route, func(c echo.Context) error {
			agg, err := plot.Load(cfg.Data.Issues, cfg.Plot.ExcludedLabels)
			if err != nil {
				return fileError(c, cfg.Data.Issues, err, "failed to load issues")
			}
			return c.JSON(http.StatusOK, pick(agg))
		})
	}
	serveAggregate("/api/cumulative", func(a *plot.Aggregates) any { return a.Cumulative })
	serveAggregate("/api/categories", func(a *plot.Aggregates) any { return a.ByCategory })
	serveAggregate("/api/regions", func(a *plot.Aggregates) any { return a.ByRegion })

	e.GET("/charts", func(c echo.Context) error {
		agg, err := plot.Load(cfg.Data.Issues, cfg.Plot.ExcludedLabels)
		if err != nil {
			return fileError(c, cfg.Data.Issues, err, "failed to load issues")
		}
		var out bytes.Buffer
		if err := report.RenderCharts(&out, plot.Charts(agg, cfg.Plot.Title)); err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, out.Bytes())
	})

	e.GET("/", func(c echo.Context) error {
		summary, err := loadSummary(cfg)
		if err != nil {
			return fileError(c, cfg.Data.Issues, err, "failed to build summary")
		}
		var html bytes.Buffer
		if err := md.Convert(summary, &html); err != nil {
			return err
		}
		var out bytes.Buffer
		err = tmpl.Execute(&out, page{
			Title:   cfg.Plot.Title,
			RootID:  cfg.Plot.RootID,
			Summary: template.HTML(html.String()),
		})
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, out.Bytes())
	})

	return e, nil
}

// loadSummary prefers the summary written by plot and falls back to computing it
// from the issue CSV.
func loadSummary(cfg *config.Config) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(cfg.Data.PlotDir, report.SummaryFile))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	agg, err := plot.Load(cfg.Data.Issues, cfg.Plot.ExcludedLabels)
	if err != nil {
		return nil, err
	}
	return []byte(plot.Summary(agg, cfg.Plot.Title).Markdown()), nil
}

func fileError(c echo.Context, path string, err error, message string) error {
	if errors.Is(err, os.ErrNotExist) {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   "file not found",
			"path":    path,
			"message": message,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"path":    path,
		"message": message,
	})
}
