package aggregate

import (
	"sort"

	"munipipe/internal/tabular"
)

// groupRows buckets row indices by the rendered value of the group column.
// Rows whose group cell is missing are skipped. Keys come back sorted for
// deterministic output.
func groupRows(t *tabular.Table, groupCol string) (map[string][]int, []string, error) {
	cells, err := t.Column(groupCol)
	if err != nil {
		return nil, nil, err
	}
	groups := make(map[string][]int)
	for i, c := range cells {
		if c.IsMissing() {
			continue
		}
		key := c.Render()
		groups[key] = append(groups[key], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys, nil
}

// GroupDispersion groups by one categorical key and computes the mean and
// sample standard deviation of a numeric column per group. Output columns
// are the group column, "mean" and "std"; groups are sorted by key. The std
// of a single-observation group is missing.
func GroupDispersion(t *tabular.Table, groupCol, numCol string) (*tabular.Table, error) {
	nums, err := t.Column(numCol)
	if err != nil {
		return nil, err
	}
	groups, keys, err := groupRows(t, groupCol)
	if err != nil {
		return nil, err
	}
	out, err := tabular.New(t.Name(), []string{groupCol, "mean", "std"})
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		var vals []float64
		for _, i := range groups[key] {
			if f, ok := nums[i].Float(); ok {
				vals = append(vals, f)
			}
		}
		if err := out.AppendRow(tabular.String(key), mean(vals), sampleStd(vals)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GroupMean groups by one key and computes the mean of each numeric column
// per group. The group column keeps its original kind when it is a date so
// callers can keep time-aligning downstream.
func GroupMean(t *tabular.Table, groupCol string, numCols []string) (*tabular.Table, error) {
	groupCells, err := t.Column(groupCol)
	if err != nil {
		return nil, err
	}
	numCells := make([][]tabular.Value, len(numCols))
	for j, col := range numCols {
		numCells[j], err = t.Column(col)
		if err != nil {
			return nil, err
		}
	}
	groups, keys, err := groupRows(t, groupCol)
	if err != nil {
		return nil, err
	}
	out, err := tabular.New(t.Name(), append([]string{groupCol}, numCols...))
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		rows := groups[key]
		cells := make([]tabular.Value, 0, 1+len(numCols))
		cells = append(cells, groupCells[rows[0]])
		for j := range numCols {
			var vals []float64
			for _, i := range rows {
				if f, ok := numCells[j][i].Float(); ok {
					vals = append(vals, f)
				}
			}
			cells = append(cells, mean(vals))
		}
		if err := out.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GroupSum groups by one key and totals a numeric column per group. Output
// columns are the group column and "total".
func GroupSum(t *tabular.Table, groupCol, numCol string) (*tabular.Table, error) {
	groupCells, err := t.Column(groupCol)
	if err != nil {
		return nil, err
	}
	nums, err := t.Column(numCol)
	if err != nil {
		return nil, err
	}
	groups, keys, err := groupRows(t, groupCol)
	if err != nil {
		return nil, err
	}
	out, err := tabular.New(t.Name(), []string{groupCol, "total"})
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		rows := groups[key]
		var vals []float64
		for _, i := range rows {
			if f, ok := nums[i].Float(); ok {
				vals = append(vals, f)
			}
		}
		if err := out.AppendRow(groupCells[rows[0]], sum(vals)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CountByCategory counts the occurrences of each present value of a
// categorical column. Output columns are the category column and "count".
// When rank is non-nil, ranked labels come first in rank order and unranked
// labels follow alphabetically; otherwise labels sort alphabetically.
func CountByCategory(t *tabular.Table, col string, rank func(string) (int, bool)) (*tabular.Table, error) {
	groups, keys, err := groupRows(t, col)
	if err != nil {
		return nil, err
	}
	if rank != nil {
		sort.SliceStable(keys, func(a, b int) bool {
			ra, okA := rank(keys[a])
			rb, okB := rank(keys[b])
			switch {
			case okA && okB:
				return ra < rb
			case okA:
				return true
			case okB:
				return false
			default:
				return keys[a] < keys[b]
			}
		})
	}
	out, err := tabular.New(t.Name(), []string{col, "count"})
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := out.AppendRow(tabular.String(key), tabular.Number(float64(len(groups[key])))); err != nil {
			return nil, err
		}
	}
	return out, nil
}
