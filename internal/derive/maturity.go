package derive

import (
	"time"

	"munipipe/internal/tabular"
)

// daysPerYear converts day counts to fractional years, averaging leap years.
const daysPerYear = 365.25

// TimeToMaturity returns the time from asOf to maturity in fractional
// years. The as-of date is supplied by the caller, never the wall clock, so
// the derivation is reproducible across runs. Negative values mean the bond
// has already matured and are valid output; callers decide whether to
// filter them.
func TimeToMaturity(maturity, asOf time.Time) float64 {
	return maturity.Sub(asOf).Hours() / 24 / daysPerYear
}

// AddTimeToMaturity appends a fractional-years column derived from the
// named maturity-date column. Rows without a parseable maturity date get a
// missing value.
func AddTimeToMaturity(t *tabular.Table, maturityCol, outCol string, asOf time.Time) (*tabular.Table, error) {
	dates, err := t.Column(maturityCol)
	if err != nil {
		return nil, err
	}
	years := make([]tabular.Value, len(dates))
	for i, v := range dates {
		m, ok := v.Time()
		if !ok {
			years[i] = tabular.Missing()
			continue
		}
		years[i] = tabular.Number(TimeToMaturity(m, asOf))
	}
	return t.WithColumn(outCol, years)
}
