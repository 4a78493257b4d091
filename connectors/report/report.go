package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"issue-stats/domain/chart"
	"issue-stats/domain/stats"
)

const (
	PlotFile    = "plot.json"
	SummaryFile = "summary.md"
)

// Summary is the tabular companion of the plot bundle.
type Summary struct {
	Title      string
	Total      int
	Labels     []string
	First      time.Time
	Last       time.Time
	Categories []stats.Count
	Regions    []stats.Count
}

// WritePlot encodes doc into dir/plot.json. The directory must already exist.
func WritePlot(dir string, doc *chart.Document) (string, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return "", fmt.Errorf("encode plot: %w", err)
	}
	path := filepath.Join(dir, PlotFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSummary renders s as Markdown into dir/summary.md.
func WriteSummary(dir string, s Summary) (string, error) {
	path := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(path, []byte(s.Markdown()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Markdown renders the summary. Tables list the largest counts first.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "- Issues: %d\n", s.Total)
	fmt.Fprintf(&b, "- Labels: %d (%d categories)\n", len(s.Labels), len(s.Categories))
	if !s.First.IsZero() {
		fmt.Fprintf(&b, "- First issue: %s\n", s.First.Format("2006-01-02"))
		fmt.Fprintf(&b, "- Last issue: %s\n", s.Last.Format("2006-01-02"))
	}
	writeTable(&b, "Issues per category", "Category", s.Categories)
	writeTable(&b, "Issues per region", "Region", s.Regions)
	return b.String()
}

func writeTable(b *strings.Builder, title, keyHeader string, counts []stats.Count) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if len(counts) == 0 {
		b.WriteString("No data.\n")
		return
	}
	fmt.Fprintf(b, "| %s | Issues |\n| --- | ---: |\n", keyHeader)
	for i := len(counts) - 1; i >= 0; i-- {
		fmt.Fprintf(b, "| %s | %d |\n", strings.ReplaceAll(counts[i].Key, "|", `\|`), counts[i].Count)
	}
}
