package exporter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"munipipe/internal/aggregate"
	"munipipe/internal/views"
)

func TestExcelWriterWriteWorkbook(t *testing.T) {
	paths := tempPaths(t)
	w := NewExcelWriter(paths)

	results := []views.Result{
		{Name: "state_yield", Table: stateYieldTable(t)},
		{Name: "sector_heatmap", Grid: &aggregate.Grid{
			RowLabels: []string{"Education"},
			ColLabels: []string{"GO", "Revenue"},
			Cells:     [][]float64{{4.1, 0}},
		}},
		{Name: "yield_curve", Err: &views.Error{View: "yield_curve", Cause: errors.New("master table unavailable")}},
	}
	require.NoError(t, w.WriteWorkbook("views.xlsx", results))

	f, err := excelize.OpenFile(paths.GetReportPath("views.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"state_yield", "sector_heatmap", "yield_curve"}, f.GetSheetList(),
		"one sheet per view, including failed ones")

	v, err := f.GetCellValue("state_yield", "A1")
	require.NoError(t, err)
	assert.Equal(t, "state", v)
	v, err = f.GetCellValue("state_yield", "B2")
	require.NoError(t, err)
	assert.Equal(t, "5.62", v)
	v, err = f.GetCellValue("state_yield", "C3")
	require.NoError(t, err)
	assert.Equal(t, "", v, "missing cells stay blank")

	v, err = f.GetCellValue("sector_heatmap", "B1")
	require.NoError(t, err)
	assert.Equal(t, "GO", v)
	v, err = f.GetCellValue("sector_heatmap", "B2")
	require.NoError(t, err)
	assert.Equal(t, "4.1", v)

	v, err = f.GetCellValue("yield_curve", "A1")
	require.NoError(t, err)
	assert.Equal(t, "error", v)
	v, err = f.GetCellValue("yield_curve", "B1")
	require.NoError(t, err)
	assert.Contains(t, v, "master table unavailable")
}
