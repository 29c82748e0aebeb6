package exporter

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munipipe/internal/aggregate"
	"munipipe/internal/views"
)

func TestJSONWriterWriteViews(t *testing.T) {
	paths := tempPaths(t)
	w := NewJSONWriter(paths)

	results := []views.Result{
		{Name: "state_yield", Table: stateYieldTable(t)},
		{Name: "sector_heatmap", Grid: &aggregate.Grid{
			RowLabels: []string{"Education"},
			ColLabels: []string{"GO", "Revenue"},
			Cells:     [][]float64{{4.1, 0}},
		}},
		{Name: "yield_curve", Err: &views.Error{View: "yield_curve", Cause: errors.New("master table unavailable")}},
	}
	require.NoError(t, w.WriteViews("views.json", "tok-123", results))

	content, err := os.ReadFile(paths.GetReportPath("views.json"))
	require.NoError(t, err)

	var doc struct {
		RefreshToken string `json:"refresh_token"`
		GeneratedAt  string `json:"generated_at"`
		Views        map[string]struct {
			Columns []string                 `json:"columns"`
			Rows    []map[string]interface{} `json:"rows"`
			Grid    *struct {
				RowLabels []string    `json:"row_labels"`
				ColLabels []string    `json:"col_labels"`
				Cells     [][]float64 `json:"cells"`
			} `json:"grid"`
			Error string `json:"error"`
		} `json:"views"`
	}
	require.NoError(t, json.Unmarshal(content, &doc))

	assert.Equal(t, "tok-123", doc.RefreshToken)
	assert.NotEmpty(t, doc.GeneratedAt)
	require.Len(t, doc.Views, 3)

	table := doc.Views["state_yield"]
	assert.Equal(t, []string{"state", "mean", "std"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "CA", table.Rows[0]["state"])
	assert.Equal(t, 5.62, table.Rows[0]["mean"])
	std, present := table.Rows[1]["std"]
	require.True(t, present)
	assert.Nil(t, std, "missing cells are explicit nulls, never absent keys or zeros")

	grid := doc.Views["sector_heatmap"].Grid
	require.NotNil(t, grid)
	assert.Equal(t, [][]float64{{4.1, 0}}, grid.Cells)

	failed := doc.Views["yield_curve"]
	assert.Contains(t, failed.Error, "master table unavailable")
	assert.Empty(t, failed.Rows)
}
