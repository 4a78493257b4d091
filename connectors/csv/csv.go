package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"issue-stats/domain/issues"

	"github.com/araddon/dateparse"
)

// Header is the column set of the issue export, in the order it is written.
var Header = []string{"id", "created_at", "updated_at", "url", "regione", "labels"}

// ReadIssues loads the issue export at path. Column order is free; every column of
// Header must be present. Any unparseable cell fails the whole read.
func ReadIssues(path string) ([]issues.Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeIssues(f, filepath.Base(path))
}

// DecodeIssues reads issues from r; name is used in error messages.
func DecodeIssues(r io.Reader, name string) ([]issues.Issue, error) {
	cr := csv.NewReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	idx := indexMap(head)
	for _, col := range Header {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s missing column %s", name, col)
		}
	}

	var res []issues.Issue
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		is, err := decodeRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		res = append(res, is)
	}
	return res, nil
}

func decodeRow(rec []string, idx map[string]int) (issues.Issue, error) {
	created, err := dateparse.ParseAny(strings.TrimSpace(rec[idx["created_at"]]))
	if err != nil {
		return issues.Issue{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := dateparse.ParseAny(strings.TrimSpace(rec[idx["updated_at"]]))
	if err != nil {
		return issues.Issue{}, fmt.Errorf("updated_at: %w", err)
	}
	labels, err := ParseLabels(rec[idx["labels"]])
	if err != nil {
		return issues.Issue{}, err
	}
	return issues.Issue{
		ID:        strings.TrimSpace(rec[idx["id"]]),
		CreatedAt: created,
		UpdatedAt: updated,
		URL:       rec[idx["url"]],
		Region:    rec[idx["regione"]],
		Labels:    labels,
	}, nil
}

// WriteIssues writes a complete CSV snapshot of rows to path.
func WriteIssues(path string, rows []issues.Issue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, is := range rows {
		row := []string{
			is.ID,
			is.CreatedAt.UTC().Format(time.RFC3339),
			is.UpdatedAt.UTC().Format(time.RFC3339),
			is.URL,
			is.Region,
			FormatLabels(is.Labels),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		m[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return m
}
