package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Issue {
	return []Issue{
		{ID: "1", Region: "Lazio", Labels: []string{"Salute", "tweet"}},
		{ID: "2", Region: "Veneto", Labels: []string{"Scuola", "Salute"}},
		{ID: "3", Region: "Lazio", Labels: []string{"Valid/Accettato"}},
		{ID: "4", Region: "Lazio"},
	}
}

func TestNewTableKeepsInputOrder(t *testing.T) {
	tbl, err := NewTable(sample())
	require.NoError(t, err)

	require.Len(t, tbl.Issues, 4)
	assert.Equal(t, "2", tbl.Issues[1].ID)
	assert.Equal(t, "Veneto", tbl.Issues[1].Region)
}

func TestNewTableRejectsDuplicateID(t *testing.T) {
	rows := append(sample(), Issue{ID: "1"})
	_, err := NewTable(rows)
	assert.ErrorContains(t, err, `duplicate issue id "1"`)
}

func TestLabelsAndPresence(t *testing.T) {
	tbl, err := NewTable(sample())
	require.NoError(t, err)

	assert.Equal(t, []string{"Salute", "Scuola", "Valid/Accettato", "tweet"}, tbl.Labels())
	assert.True(t, tbl.Has("1", "Salute"))
	assert.True(t, tbl.Has("2", "Salute"))
	assert.False(t, tbl.Has("3", "Salute"))
	assert.False(t, tbl.Has("4", "Salute"))
	assert.Nil(t, tbl.Presence["4"])
}

func TestCategoriesIgnoreLabelOrder(t *testing.T) {
	a, err := NewTable([]Issue{
		{ID: "1", Labels: []string{"b", "Services", "a"}},
		{ID: "2", Labels: []string{"c"}},
	})
	require.NoError(t, err)
	b, err := NewTable([]Issue{
		{ID: "1", Labels: []string{"c"}},
		{ID: "2", Labels: []string{"a", "b", "Services"}},
	})
	require.NoError(t, err)

	want := []string{"a", "b", "c"}
	assert.Equal(t, want, a.Categories(DefaultExcludedLabels))
	assert.Equal(t, want, b.Categories(DefaultExcludedLabels))
}

func TestCategoriesExcludeOnlyWhenPresent(t *testing.T) {
	got := Categories([]string{"AA Violation", "Lavoro"}, DefaultExcludedLabels)
	assert.Equal(t, []string{"Lavoro"}, got)

	got = Categories([]string{"Lavoro"}, DefaultExcludedLabels)
	assert.Equal(t, []string{"Lavoro"}, got)
}

func TestCrossTabCountsRepeatedLabelOnce(t *testing.T) {
	pairs := Explode([]Issue{{ID: "1", Labels: []string{"x", "x"}}, {ID: "2"}})
	require.Len(t, pairs, 2)

	p := CrossTab(pairs)
	assert.Equal(t, map[string]map[string]bool{"1": {"x": true}}, p)
}
