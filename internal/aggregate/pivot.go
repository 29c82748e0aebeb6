package aggregate

import (
	"sort"

	"munipipe/internal/tabular"
)

// Grid is a fully rectangular two-dimensional pivot result. Cells is indexed
// [row][col] and every cell is defined: either a computed mean or the fill
// sentinel the caller named. Heatmap consumers rely on the rectangle having
// no holes.
type Grid struct {
	Name      string
	RowLabels []string
	ColLabels []string
	Cells     [][]float64
}

// Pivot cross-tabulates two categorical keys against the mean of a numeric
// column. Row and column labels are the sorted distinct present values of
// their keys; combinations with no observations take the fill value. Rows
// missing either key or the numeric value contribute nothing.
func Pivot(t *tabular.Table, rowKey, colKey, numCol string, fill float64) (*Grid, error) {
	rowCells, err := t.Column(rowKey)
	if err != nil {
		return nil, err
	}
	colCells, err := t.Column(colKey)
	if err != nil {
		return nil, err
	}
	nums, err := t.Column(numCol)
	if err != nil {
		return nil, err
	}

	type cellKey struct{ row, col string }
	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for i := range rowCells {
		if rowCells[i].IsMissing() || colCells[i].IsMissing() {
			continue
		}
		r, c := rowCells[i].Render(), colCells[i].Render()
		rowSet[r] = true
		colSet[c] = true
		if f, ok := nums[i].Float(); ok {
			k := cellKey{r, c}
			sums[k] += f
			counts[k]++
		}
	}

	rows := sortedKeys(rowSet)
	cols := sortedKeys(colSet)
	cells := make([][]float64, len(rows))
	for i, r := range rows {
		cells[i] = make([]float64, len(cols))
		for j, c := range cols {
			k := cellKey{r, c}
			if n := counts[k]; n > 0 {
				cells[i][j] = sums[k] / float64(n)
				continue
			}
			cells[i][j] = fill
		}
	}
	return &Grid{Name: t.Name(), RowLabels: rows, ColLabels: cols, Cells: cells}, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
