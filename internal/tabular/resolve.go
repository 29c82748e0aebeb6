package tabular

import (
	"sort"
)

// ResolveLatest collapses a time-versioned fact table to one row per key:
// the row with the maximum date, ties broken by input order with the last
// occurrence winning. Rows whose date cell is missing are excluded from
// consideration and counted in the report, not fatal. All original columns
// are preserved, and the output carries at most one row per distinct key.
//
// The key and date columns are parameters so the same resolver serves both
// rating snapshots and trade snapshots.
func ResolveLatest(t *Table, keyCol, dateCol string, report *QualityReport) (*Table, error) {
	keyIdx, ok := t.index[keyCol]
	if !ok {
		return nil, NewSchemaError(t.name, keyCol, "key column not present")
	}
	dateIdx, ok := t.index[dateCol]
	if !ok {
		return nil, NewSchemaError(t.name, dateCol, "date column not present")
	}

	// Collect rows with a usable date, preserving input order for the tie
	// break.
	type dated struct {
		order int
		row   []Value
	}
	var candidates []dated
	for i, row := range t.rows {
		if _, ok := row[dateIdx].Time(); !ok {
			if report != nil {
				report.AddExcludedRow(t.name)
			}
			continue
		}
		candidates = append(candidates, dated{order: i, row: t.rows[i]})
	}

	// Stable sort by date ascending keeps input order within equal dates,
	// so the last row encountered per key is the latest date, last input
	// occurrence on ties.
	sort.SliceStable(candidates, func(a, b int) bool {
		ta, _ := candidates[a].row[dateIdx].Time()
		tb, _ := candidates[b].row[dateIdx].Time()
		return ta.Before(tb)
	})

	last := make(map[string]int)
	for i, c := range candidates {
		key, ok := c.row[keyIdx].key()
		if !ok {
			if report != nil {
				report.AddExcludedRow(t.name)
			}
			continue
		}
		last[key] = i
	}

	out := &Table{name: t.name, cols: t.cols, index: t.index}
	for i, c := range candidates {
		key, ok := c.row[keyIdx].key()
		if !ok {
			continue
		}
		if last[key] == i {
			out.rows = append(out.rows, c.row)
		}
	}
	return out, nil
}
