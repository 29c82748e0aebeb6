package aggregate

import (
	"sort"
	"time"

	"munipipe/internal/tabular"
)

// ResampleMonthly buckets a fact table by calendar month of the named date
// column and computes the mean of each numeric column per bucket. The output
// carries a "month" date column holding the first day of each month, sorted
// ascending, followed by the numeric columns.
//
// Months with no underlying rows produce no bucket: gaps are dropped, not
// zero-filled, so a downstream dense series must tolerate missing buckets.
// Rows whose date is missing are skipped.
func ResampleMonthly(t *tabular.Table, dateCol string, numCols []string) (*tabular.Table, error) {
	dates, err := t.Column(dateCol)
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

	buckets := make(map[time.Time][]int)
	for i, d := range dates {
		day, ok := d.Time()
		if !ok {
			continue
		}
		month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		buckets[month] = append(buckets[month], i)
	}
	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(a, b int) bool { return months[a].Before(months[b]) })

	out, err := tabular.New(t.Name(), append([]string{"month"}, numCols...))
	if err != nil {
		return nil, err
	}
	for _, month := range months {
		cells := make([]tabular.Value, 0, 1+len(numCols))
		cells = append(cells, tabular.Date(month))
		for j := range numCols {
			var vals []float64
			for _, i := range buckets[month] {
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
