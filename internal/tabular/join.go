package tabular

import (
	"sort"
)

// DuplicatePolicy names the behavior of LeftJoin when the joined-in side
// carries duplicate keys. Both policies are deterministic; silent
// many-to-many duplication is never an outcome.
type DuplicatePolicy int

const (
	// RejectDuplicates fails the join with a CardinalityError naming the
	// offending keys. Use for dimension tables, where a duplicate key means
	// corrupt input.
	RejectDuplicates DuplicatePolicy = iota
	// FirstMatch attaches the first matching row per key and ignores the
	// rest. Use for fact snapshots that are expected to be unique but must
	// not take the whole view down if they are not.
	FirstMatch
)

// LeftJoin attaches the columns of other to every row of base, matching on
// the named key column. Every base row appears exactly once in the output:
// unmatched rows get missing cells for the attached columns, and duplicate
// keys in other are resolved by the policy. The key column itself is not
// duplicated; any other column name collision is a SchemaError, forcing
// callers to Select the columns they mean to attach.
func LeftJoin(base, other *Table, on string, policy DuplicatePolicy) (*Table, error) {
	baseKey, ok := base.index[on]
	if !ok {
		return nil, NewSchemaError(base.name, on, "join column not present")
	}
	otherKey, ok := other.index[on]
	if !ok {
		return nil, NewSchemaError(other.name, on, "join column not present")
	}

	var attached []string
	var attachedIdx []int
	for j, c := range other.cols {
		if j == otherKey {
			continue
		}
		if base.HasColumn(c) {
			return nil, NewSchemaError(other.name, c, "column collides with base table")
		}
		attached = append(attached, c)
		attachedIdx = append(attachedIdx, j)
	}

	match := make(map[string]int, other.Len())
	var dupKeys []string
	dupSeen := make(map[string]bool)
	for i, row := range other.rows {
		key, ok := row[otherKey].key()
		if !ok {
			continue
		}
		if _, exists := match[key]; exists {
			if !dupSeen[key] {
				dupSeen[key] = true
				dupKeys = append(dupKeys, key)
			}
			continue // first match wins
		}
		match[key] = i
	}
	if policy == RejectDuplicates && len(dupKeys) > 0 {
		sort.Strings(dupKeys)
		return nil, NewCardinalityError(other.name, on, dupKeys)
	}

	out, err := New(base.name, append(base.Columns(), attached...))
	if err != nil {
		return nil, err
	}
	for _, row := range base.rows {
		cells := append([]Value(nil), row...)
		key, hasKey := row[baseKey].key()
		otherRow := -1
		if hasKey {
			if i, ok := match[key]; ok {
				otherRow = i
			}
		}
		for _, j := range attachedIdx {
			if otherRow == -1 {
				cells = append(cells, Missing())
				continue
			}
			cells = append(cells, other.rows[otherRow][j])
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}
