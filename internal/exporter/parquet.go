package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"munipipe/internal/config"
	"munipipe/pkg/contracts/domain"
)

// ParquetWriter writes the cross-sectional master records as a parquet file
// for downstream analytical consumers.
type ParquetWriter struct {
	paths *config.Paths
}

// NewParquetWriter creates a new parquet writer instance.
func NewParquetWriter(paths *config.Paths) *ParquetWriter {
	return &ParquetWriter{paths: paths}
}

// WriteMaster writes the master records to the named file under the reports
// directory. Missing fields are stored as parquet nulls.
func (w *ParquetWriter) WriteMaster(filename string, records []domain.MasterRecord) error {
	fullPath := w.paths.GetReportPath(filename)

	slog.Info("Writing master parquet",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := parquet.WriteFile(fullPath, records); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}
