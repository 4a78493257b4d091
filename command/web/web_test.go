package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"issue-stats/connectors/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuesCSV = `id,created_at,updated_at,url,regione,labels
1,2023-01-01 09:00:00,2023-01-01 09:00:00,https://example.org/1,Lazio,"['Salute', 'tweet']"
2,2023-01-01 17:00:00,2023-01-02 09:00:00,https://example.org/2,Veneto,"['Scuola', 'Salute']"
3,2023-01-03 08:00:00,2023-01-03 08:00:00,https://example.org/3,Lazio,"['Services']"
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Data.Issues = filepath.Join(dir, "issues.csv")
	cfg.Data.PlotDir = filepath.Join(dir, "plot")
	require.NoError(t, os.WriteFile(cfg.Data.Issues, []byte(issuesCSV), 0o644))
	require.NoError(t, os.Mkdir(cfg.Data.PlotDir, 0o755))
	return cfg
}

func get(t *testing.T, cfg *config.Config, path string) *httptest.ResponseRecorder {
	t.Helper()
	e, err := NewServer(cfg)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPlotEndpoint(t *testing.T) {
	cfg := testConfig(t)

	rec := get(t, cfg, "/api/plot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "file not found")

	body := `{"target_id":"statplot","root_id":"p1004","doc":{"title":"x","roots":[]}}`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Data.PlotDir, "plot.json"), []byte(body), 0o644))

	rec = get(t, cfg, "/api/plot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
}

func TestAggregateEndpoints(t *testing.T) {
	cfg := testConfig(t)

	rec := get(t, cfg, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"key":"Scuola","count":1},{"key":"Salute","count":2}]`, rec.Body.String())

	rec = get(t, cfg, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"key":"Veneto","count":1},{"key":"Lazio","count":2}]`, rec.Body.String())

	rec = get(t, cfg, "/api/cumulative")
	require.Equal(t, http.StatusOK, rec.Code)
	var points []struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 3)
	assert.Equal(t, 3, points[2].Count)
}

func TestAggregateEndpointMissingData(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.Data.Issues))

	rec := get(t, cfg, "/api/regions")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexRendersSummary(t *testing.T) {
	cfg := testConfig(t)

	rec := get(t, cfg, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<iframe id="statplot" src="/charts"`)
	assert.Contains(t, body, "<h1>Issue statistics</h1>")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "<td>Salute</td>")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Data.PlotDir, "summary.md"), []byte("# Written by plot\n"), 0o644))
	rec = get(t, cfg, "/")
	assert.Contains(t, rec.Body.String(), "<h1>Written by plot</h1>")
}

func TestChartsPageDrawsCharts(t *testing.T) {
	cfg := testConfig(t)

	rec := get(t, cfg, "/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "echarts.min.js")
	assert.Contains(t, body, "echarts.init(")
	assert.Contains(t, body, "Issues cumulative sum")
	assert.Contains(t, body, "Number of issues per category")
	assert.Contains(t, body, "Number of issues per Italian region")
	assert.Contains(t, body, "Salute")
	assert.Contains(t, body, "Veneto")
}

func TestChartsPageMissingData(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.Data.Issues))

	rec := get(t, cfg, "/charts")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
