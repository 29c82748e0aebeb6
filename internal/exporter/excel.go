package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"munipipe/internal/aggregate"
	"munipipe/internal/config"
	"munipipe/internal/tabular"
	"munipipe/internal/views"
)

// ExcelWriter writes all derived views into a single xlsx workbook, one
// sheet per view. Failed views get a sheet carrying the failure reason so
// the workbook never shows a silently empty chart source.
type ExcelWriter struct {
	paths *config.Paths
}

// NewExcelWriter creates a new workbook writer instance.
func NewExcelWriter(paths *config.Paths) *ExcelWriter {
	return &ExcelWriter{paths: paths}
}

// WriteWorkbook writes every view result into the named workbook under the
// reports directory.
func (w *ExcelWriter) WriteWorkbook(filename string, results []views.Result) error {
	fullPath := w.paths.GetReportPath(filename)

	slog.Info("Writing views workbook",
		slog.String("full_path", fullPath),
		slog.Int("view_count", len(results)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, res := range results {
		sheet := res.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, res); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, res views.Result) error {
	switch {
	case res.Err != nil:
		return setRow(f, sheet, 1, []interface{}{"error", res.Err.Error()})
	case res.Grid != nil:
		return writeGridSheet(f, sheet, res.Grid)
	default:
		return writeTableSheet(f, sheet, res.Table)
	}
}

func writeTableSheet(f *excelize.File, sheet string, t *tabular.Table) error {
	header := make([]interface{}, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		header = append(header, col)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cellValue(cell)
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeGridSheet(f *excelize.File, sheet string, g *aggregate.Grid) error {
	header := make([]interface{}, 0, 1+len(g.ColLabels))
	header = append(header, "")
	for _, label := range g.ColLabels {
		header = append(header, label)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, label := range g.RowLabels {
		cells := make([]interface{}, 0, 1+len(g.Cells[i]))
		cells = append(cells, label)
		for _, v := range g.Cells[i] {
			cells = append(cells, v)
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of sheet %q: %w", row, sheet, err)
	}
	return nil
}
