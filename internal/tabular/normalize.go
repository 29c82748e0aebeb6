package tabular

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the input date formats accepted during coercion, tried in
// order. Output always uses DateLayout.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Normalizer validates and types raw tabular input against a declared
// contract: canonical column renaming, numeric and date coercion with
// per-cell degradation, and exact-duplicate row removal when the contract
// names a natural key. It is a pure transform over the raw records.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer logging through the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize turns raw records (header row first) into a typed table obeying
// the contract. A missing or empty header, or a required contract column the
// header does not carry, is a SchemaError. Input columns absent from the
// contract are dropped, logged, and counted in the report.
func (n *Normalizer) Normalize(records [][]string, contract Contract, report *QualityReport) (*Table, error) {
	if len(records) == 0 {
		return nil, NewSchemaError(contract.Table, "", "input has no header row")
	}
	header := records[0]

	// Map each contract column to its position in the raw header.
	srcIdx := make([]int, len(contract.Columns))
	claimed := make(map[int]bool, len(header))
	for i, spec := range contract.Columns {
		srcIdx[i] = -1
		for j, h := range header {
			if claimed[j] {
				continue
			}
			if spec.matches(h) {
				srcIdx[i] = j
				claimed[j] = true
				break
			}
		}
		if srcIdx[i] == -1 && spec.Required {
			return nil, NewSchemaError(contract.Table, spec.Name, "required column not found in header")
		}
	}

	// Report columns the contract does not know about rather than dropping
	// them silently.
	for j, h := range header {
		if !claimed[j] {
			name := canonicalHeader(h)
			n.logger.Warn("dropping column not in contract",
				slog.String("table", contract.Table),
				slog.String("column", name))
			if report != nil {
				report.AddDroppedColumn(contract.Table, name)
			}
		}
	}

	cols := make([]string, len(contract.Columns))
	for i, spec := range contract.Columns {
		cols[i] = spec.Name
	}
	out, err := New(contract.Table, cols)
	if err != nil {
		return nil, err
	}

	keyIdx := naturalKeyIndices(contract)
	seen := make(map[string]bool)

	for _, raw := range records[1:] {
		cells := make([]Value, len(contract.Columns))
		short := false
		for i, spec := range contract.Columns {
			j := srcIdx[i]
			if j == -1 {
				cells[i] = Missing()
				continue
			}
			if j >= len(raw) {
				short = true
				break
			}
			cells[i] = n.coerce(contract.Table, spec, raw[j], report)
		}
		if short {
			if report != nil {
				report.AddShortRow(contract.Table)
			}
			continue
		}
		if len(keyIdx) > 0 {
			sig := rowSignature(cells)
			if seen[sig] {
				if report != nil {
					report.AddDuplicateRow(contract.Table)
				}
				continue
			}
			seen[sig] = true
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// coerce converts one raw cell to its contract kind. Values that do not
// parse degrade to missing and are counted, never raised.
func (n *Normalizer) coerce(table string, spec ColumnSpec, raw string, report *QualityReport) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Missing()
	}
	switch spec.Kind {
	case ColumnNumber:
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			n.badCell(table, spec.Name, raw, report)
			return Missing()
		}
		return Number(f)
	case ColumnDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}
		n.badCell(table, spec.Name, raw, report)
		return Missing()
	default:
		return String(raw)
	}
}

func (n *Normalizer) badCell(table, column, raw string, report *QualityReport) {
	n.logger.Debug("cell failed coercion",
		slog.String("table", table),
		slog.String("column", column),
		slog.String("raw", raw))
	if report != nil {
		report.AddBadCell(table, column)
	}
}

func naturalKeyIndices(contract Contract) []int {
	var idx []int
	for _, key := range contract.NaturalKey {
		for i, spec := range contract.Columns {
			if spec.Name == key {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

// rowSignature keys a whole row for exact-duplicate detection. Only rows
// that are identical in every cell are treated as duplicates; rows sharing a
// key with different payloads are left for the snapshot resolver or the join
// policy to arbitrate.
func rowSignature(cells []Value) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if c.IsMissing() {
			parts[i] = "\x00"
			continue
		}
		parts[i] = c.Render()
	}
	return strings.Join(parts, "\x1f")
}
