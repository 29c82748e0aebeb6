package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"munipipe/internal/aggregate"
	"munipipe/internal/config"
	"munipipe/internal/tabular"
	"munipipe/internal/views"
)

// JSONWriter writes the full set of derived views as a single JSON document
// for the web dashboard.
type JSONWriter struct {
	paths *config.Paths
}

// NewJSONWriter creates a new JSON writer instance.
func NewJSONWriter(paths *config.Paths) *JSONWriter {
	return &JSONWriter{paths: paths}
}

type jsonView struct {
	Columns []string                 `json:"columns,omitempty"`
	Rows    []map[string]interface{} `json:"rows,omitempty"`
	Grid    *jsonGrid                `json:"grid,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

type jsonGrid struct {
	RowLabels []string    `json:"row_labels"`
	ColLabels []string    `json:"col_labels"`
	Cells     [][]float64 `json:"cells"`
}

// WriteViews writes every view result, failed views included, so the
// dashboard can render an explicit failure instead of a partially-wrong
// chart.
func (w *JSONWriter) WriteViews(filename, refreshToken string, results []views.Result) error {
	fullPath := w.paths.GetReportPath(filename)

	slog.Info("Writing views JSON",
		slog.String("full_path", fullPath),
		slog.Int("view_count", len(results)))

	doc := map[string]interface{}{
		"refresh_token": refreshToken,
		"generated_at":  time.Now().Format(time.RFC3339),
		"views":         map[string]jsonView{},
	}
	viewDocs := doc["views"].(map[string]jsonView)
	for _, res := range results {
		viewDocs[res.Name] = encodeView(res)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func encodeView(res views.Result) jsonView {
	if res.Err != nil {
		return jsonView{Error: res.Err.Error()}
	}
	if res.Grid != nil {
		return jsonView{Grid: encodeGrid(res.Grid)}
	}
	return encodeTable(res.Table)
}

func encodeTable(t *tabular.Table) jsonView {
	cols := t.Columns()
	rows := make([]map[string]interface{}, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		obj := make(map[string]interface{}, len(cols))
		for j, col := range cols {
			obj[col] = cellValue(row[j])
		}
		rows = append(rows, obj)
	}
	return jsonView{Columns: cols, Rows: rows}
}

func encodeGrid(g *aggregate.Grid) *jsonGrid {
	return &jsonGrid{RowLabels: g.RowLabels, ColLabels: g.ColLabels, Cells: g.Cells}
}

// cellValue maps a cell to its JSON representation; missing cells become
// null so consumers cannot confuse a gap with a zero.
func cellValue(v tabular.Value) interface{} {
	if v.IsMissing() {
		return nil
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.Render()
}
