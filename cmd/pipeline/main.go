package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"munipipe/internal/config"
	"munipipe/internal/exporter"
	"munipipe/internal/infrastructure"
	"munipipe/internal/loader"
	"munipipe/internal/pipeline"
	"munipipe/internal/tabular"
	"munipipe/internal/views"
)

func main() {
	configFile := flag.String("config", "munipipe.yaml", "optional yaml config file")
	dataDir := flag.String("data", "", "directory containing the input csv files (overrides config)")
	outDir := flag.String("out", "", "directory for derived view outputs (overrides config)")
	asOf := flag.String("asof", "", "reference date for time-to-maturity, YYYY-MM-DD (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}
	if *asOf != "" {
		cfg.Pipeline.AsOf = *asOf
	}

	asOfDate, err := cfg.AsOfDate()
	if err != nil {
		slog.Error("Invalid as-of date", "error", err)
		os.Exit(1)
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting pipeline refresh",
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.String("reports_dir", cfg.Paths.ReportsDir),
		slog.String("as_of", asOfDate.Format(tabular.DateLayout)))

	ctx := context.Background()
	raw := loader.New(paths, logger).LoadAll()

	cache := pipeline.NewCache()
	snap, err := pipeline.NewRefresher(logger).Refresh(ctx, raw, asOfDate)
	if err != nil {
		logger.Error("Refresh failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cache.Store(snap)
	snap.Quality.LogSummary(logger)
	for name, cause := range snap.Errors {
		logger.Warn("input unavailable",
			slog.String("table", name),
			slog.String("error", cause.Error()))
	}

	results := views.NewBuilder(logger).BuildAll(ctx, snap)

	failed := exportAll(logger, paths, snap, results)
	built := 0
	for _, res := range results {
		if res.Err == nil {
			built++
		}
	}
	logger.Info("Pipeline run complete",
		slog.String("refresh_token", snap.Token),
		slog.Int("views_built", built),
		slog.Int("views_failed", len(results)-built))
	fmt.Printf("Built %d of %d views\n", built, len(results))

	if built == 0 || failed {
		os.Exit(1)
	}
}

// exportAll writes every built view as CSV plus the combined JSON document,
// the xlsx workbook, and the master parquet. Returns true when any export
// failed.
func exportAll(logger *slog.Logger, paths *config.Paths, snap *pipeline.Snapshot, results []views.Result) bool {
	failed := false
	csvWriter := exporter.NewCSVWriter(paths)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		var err error
		if res.Grid != nil {
			err = csvWriter.WriteGrid(res.Name+".csv", res.Grid)
		} else {
			err = csvWriter.WriteTable(res.Name+".csv", res.Table)
		}
		if err != nil {
			logger.Error("CSV export failed",
				slog.String("view", res.Name),
				slog.String("error", err.Error()))
			failed = true
		}
	}

	if err := exporter.NewJSONWriter(paths).WriteViews("views.json", snap.Token, results); err != nil {
		logger.Error("JSON export failed", slog.String("error", err.Error()))
		failed = true
	}
	if err := exporter.NewExcelWriter(paths).WriteWorkbook("views.xlsx", results); err != nil {
		logger.Error("Workbook export failed", slog.String("error", err.Error()))
		failed = true
	}

	if records, err := snap.MasterRecords(); err == nil {
		if err := exporter.NewParquetWriter(paths).WriteMaster("master.parquet", records); err != nil {
			logger.Error("Parquet export failed", slog.String("error", err.Error()))
			failed = true
		}
	} else {
		logger.Warn("Skipping parquet export", slog.String("error", err.Error()))
	}
	return failed
}
