// Package exporter writes the derived views to their output formats: CSV
// with a UTF-8 BOM for spreadsheet compatibility, JSON for the web
// dashboard, a single xlsx workbook with one sheet per view, and parquet
// for the cross-sectional master records. Exporters only serialize; every
// column name they emit comes from the view contracts unchanged.
package exporter
