package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"munipipe/internal/aggregate"
	"munipipe/internal/config"
	"munipipe/internal/tabular"
)

// CSVWriter provides CSV export functionality for derived views.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteTable writes a derived table to a CSV file under the reports
// directory. Missing cells render as empty fields so spreadsheet consumers
// see gaps, never zeros.
func (w *CSVWriter) WriteTable(filename string, t *tabular.Table) error {
	stream, err := w.CreateStreamWriter(filename, t.Columns())
	if err != nil {
		return err
	}
	defer stream.Close()

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = cell.Render()
		}
		if err := stream.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// WriteGrid writes a pivot grid to a CSV file: the first column holds the
// row labels, the header holds the column labels.
func (w *CSVWriter) WriteGrid(filename string, g *aggregate.Grid) error {
	headers := append([]string{""}, g.ColLabels...)
	stream, err := w.CreateStreamWriter(filename, headers)
	if err != nil {
		return err
	}
	defer stream.Close()

	for i, label := range g.RowLabels {
		record := make([]string, 0, 1+len(g.ColLabels))
		record = append(record, label)
		for _, cell := range g.Cells[i] {
			record = append(record, tabular.Number(cell).Render())
		}
		if err := stream.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write grid row %q: %w", label, err)
		}
	}
	return nil
}

// StreamWriter provides streaming CSV writing for large outputs.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a streaming CSV writer under the reports
// directory, with a UTF-8 BOM so Excel recognizes the encoding.
func (w *CSVWriter) CreateStreamWriter(filename string, headers []string) (*StreamWriter, error) {
	fullPath := w.paths.GetReportPath(filename)

	slog.Info("Creating CSV stream writer",
		slog.String("file_path", filename),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
