package tabular

import (
	"log/slog"
	"sort"
	"sync"
)

// QualityReport accumulates the non-fatal degradations of a pipeline run:
// cells that failed coercion, duplicate rows removed, rows excluded from
// snapshot resolution, and input columns dropped at the schema boundary.
// The report is advisory; it lets a consumer judge data quality without
// changing what the pipeline produces.
type QualityReport struct {
	mu     sync.Mutex
	tables map[string]*TableQuality
}

// TableQuality holds the degradation counters for a single input table.
type TableQuality struct {
	DroppedColumns []string       `json:"dropped_columns,omitempty"`
	DuplicateRows  int            `json:"duplicate_rows,omitempty"`
	ShortRows      int            `json:"short_rows,omitempty"`
	BadCells       map[string]int `json:"bad_cells,omitempty"`
	ExcludedRows   int            `json:"excluded_rows,omitempty"`
}

// NewQualityReport creates an empty report.
func NewQualityReport() *QualityReport {
	return &QualityReport{tables: make(map[string]*TableQuality)}
}

func (r *QualityReport) table(name string) *TableQuality {
	q, ok := r.tables[name]
	if !ok {
		q = &TableQuality{BadCells: make(map[string]int)}
		r.tables[name] = q
	}
	return q
}

// AddDroppedColumn records an input column absent from the table's contract.
func (r *QualityReport) AddDroppedColumn(table, column string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table(table).DroppedColumns = append(r.table(table).DroppedColumns, column)
}

// AddBadCell records a cell that failed type coercion and became missing.
func (r *QualityReport) AddBadCell(table, column string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table(table).BadCells[column]++
}

// AddDuplicateRow records an exact-duplicate row removed by the normalizer.
func (r *QualityReport) AddDuplicateRow(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table(table).DuplicateRows++
}

// AddShortRow records a raw row skipped because it had fewer fields than the
// header.
func (r *QualityReport) AddShortRow(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table(table).ShortRows++
}

// AddExcludedRow records a row excluded from snapshot resolution because its
// date could not be parsed.
func (r *QualityReport) AddExcludedRow(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table(table).ExcludedRows++
}

// Tables returns a copy of the per-table counters keyed by table name.
func (r *QualityReport) Tables() map[string]TableQuality {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]TableQuality, len(r.tables))
	for name, q := range r.tables {
		cp := TableQuality{
			DroppedColumns: append([]string(nil), q.DroppedColumns...),
			DuplicateRows:  q.DuplicateRows,
			ShortRows:      q.ShortRows,
			ExcludedRows:   q.ExcludedRows,
			BadCells:       make(map[string]int, len(q.BadCells)),
		}
		for col, n := range q.BadCells {
			cp.BadCells[col] = n
		}
		out[name] = cp
	}
	return out
}

// LogSummary emits one structured log line per degraded table.
func (r *QualityReport) LogSummary(logger *slog.Logger) {
	for _, name := range r.tableNames() {
		q := r.Tables()[name]
		badCells := 0
		for _, n := range q.BadCells {
			badCells += n
		}
		if len(q.DroppedColumns) == 0 && q.DuplicateRows == 0 && q.ShortRows == 0 &&
			q.ExcludedRows == 0 && badCells == 0 {
			continue
		}
		logger.Info("data quality summary",
			slog.String("table", name),
			slog.Int("bad_cells", badCells),
			slog.Int("duplicate_rows", q.DuplicateRows),
			slog.Int("short_rows", q.ShortRows),
			slog.Int("excluded_rows", q.ExcludedRows),
			slog.Any("dropped_columns", q.DroppedColumns))
	}
}

func (r *QualityReport) tableNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
