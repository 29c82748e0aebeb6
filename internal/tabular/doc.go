// Package tabular implements the generic table layer of the munipipe
// pipeline: a rectangular, immutable table of typed cells with an explicit
// missing marker, plus the three table operations every view is built from.
//
// # Components
//
//   - value.go: typed cell values (string, number, date) with missing state
//   - table.go: the Table container; every operation returns a new Table
//   - schema.go: declarative per-input column contracts loaded from YAML
//   - normalize.go: the schema normalizer (rename, coerce, deduplicate)
//   - resolve.go: latest-as-of snapshot resolution for time-versioned facts
//   - join.go: left join with explicit duplicate-key policy
//   - quality.go: accumulator for non-fatal per-cell degradations
//   - errors.go: SchemaError and CardinalityError taxonomy
//
// # Failure semantics
//
// A required column or table that is absent or of the wrong fundamental type
// is a SchemaError and fatal for the operation. A single cell that cannot be
// parsed as its expected type degrades to a missing value, is counted in the
// QualityReport, and the row survives. A join that would duplicate base rows
// is either rejected with a CardinalityError or resolved deterministically by
// first match, depending on the policy the caller names.
package tabular
