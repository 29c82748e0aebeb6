// Package loader reads the six raw input tables from CSV files. It is the
// thin input collaborator of the pipeline: it only gets bytes into memory;
// all typing, validation and cleaning happens at the schema boundary in
// internal/tabular.
package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"munipipe/internal/config"
)

// Input table names, matching the contract names in internal/tabular.
const (
	TableIssuers  = "issuers"
	TablePurposes = "purposes"
	TableBonds    = "bonds"
	TableRatings  = "ratings"
	TableTrades   = "trades"
	TableMacro    = "macro"
)

// files maps table names to their source CSV file names.
var files = map[string]string{
	TableIssuers:  "issuers.csv",
	TablePurposes: "bond_purposes.csv",
	TableBonds:    "bonds.csv",
	TableRatings:  "credit_ratings.csv",
	TableTrades:   "trades.csv",
	TableMacro:    "economic_indicators.csv",
}

// TableNames returns the input table names in load order.
func TableNames() []string {
	return []string{TableIssuers, TablePurposes, TableBonds, TableRatings, TableTrades, TableMacro}
}

// RawSet carries the raw records of every table that loaded, plus the load
// error of every table that did not. A missing table fails only the views
// that require it, never the whole run.
type RawSet struct {
	Records map[string][][]string
	Errors  map[string]error
}

// Loader reads raw CSV inputs from the configured data directory.
type Loader struct {
	paths  *config.Paths
	logger *slog.Logger
}

// New creates a loader.
func New(paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{paths: paths, logger: logger}
}

// LoadAll reads every input table, reporting per-table failures without
// aborting the rest.
func (l *Loader) LoadAll() *RawSet {
	set := &RawSet{
		Records: make(map[string][][]string),
		Errors:  make(map[string]error),
	}
	for _, name := range TableNames() {
		records, err := l.loadTable(name)
		if err != nil {
			l.logger.Warn("failed to load input table",
				slog.String("table", name),
				slog.String("error", err.Error()))
			set.Errors[name] = err
			continue
		}
		l.logger.Info("loaded input table",
			slog.String("table", name),
			slog.Int("rows", len(records)-1))
		set.Records[name] = records
	}
	return set
}

func (l *Loader) loadTable(name string) ([][]string, error) {
	path := l.paths.GetDataPath(files[name])
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Strip the UTF-8 BOM some spreadsheet exports prepend.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1 // ragged rows are handled at the schema boundary
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return records, nil
}
