package issues

import (
	"fmt"
	"sort"
	"time"

	lo "github.com/samber/lo"
)

// Issue is one row of the issue export.
type Issue struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	URL       string
	Region    string
	Labels    []string
}

// DefaultExcludedLabels are administrative labels that never count as categories.
var DefaultExcludedLabels = []string{"tweet", "telegram-channel", "Valid/Accettato", "Services", "AA Violation"}

// LabelPair is a single (issue, label) row of the exploded label column.
type LabelPair struct {
	ID    string
	Label string
}

// Table is the loaded issue set indexed by id together with its label presence table.
type Table struct {
	Issues   []Issue
	Presence map[string]map[string]bool

	labels []string
}

// NewTable indexes rows by id and cross-tabulates their labels.
// Rows keep their input order; a repeated id is an error.
func NewTable(rows []Issue) (*Table, error) {
	t := &Table{Issues: rows}
	seen := make(map[string]struct{}, len(rows))
	for _, is := range rows {
		if _, dup := seen[is.ID]; dup {
			return nil, fmt.Errorf("duplicate issue id %q", is.ID)
		}
		seen[is.ID] = struct{}{}
	}
	pairs := Explode(rows)
	t.Presence = CrossTab(pairs)
	t.labels = lo.Uniq(lo.Map(pairs, func(p LabelPair, _ int) string { return p.Label }))
	sort.Strings(t.labels)
	return t, nil
}

// Labels returns every distinct label observed, sorted.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Has reports whether issue id carries label.
func (t *Table) Has(id, label string) bool {
	return t.Presence[id][label]
}

// Categories returns the observed labels minus the excluded ones.
func (t *Table) Categories(excluded []string) []string {
	return Categories(t.labels, excluded)
}

// Explode flattens every issue's label set into (id, label) pairs.
// Issues without labels contribute nothing.
func Explode(rows []Issue) []LabelPair {
	return lo.FlatMap(rows, func(is Issue, _ int) []LabelPair {
		return lo.Map(is.Labels, func(l string, _ int) LabelPair { return LabelPair{ID: is.ID, Label: l} })
	})
}

// CrossTab turns exploded pairs into a presence mapping id -> label -> true.
func CrossTab(pairs []LabelPair) map[string]map[string]bool {
	res := map[string]map[string]bool{}
	for _, p := range pairs {
		row := res[p.ID]
		if row == nil {
			row = map[string]bool{}
			res[p.ID] = row
		}
		row[p.Label] = true
	}
	return res
}

// Categories removes the excluded labels from labels, keeping order.
func Categories(labels []string, excluded []string) []string {
	return lo.Without(labels, excluded...)
}
