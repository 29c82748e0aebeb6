package derive

import (
	"github.com/shopspring/decimal"

	"munipipe/internal/tabular"
)

// YieldSpread returns yield − reference in the shared unit of both inputs.
// The subtraction runs in decimal so fixed-point inputs subtract exactly:
// 6.41 − 0.79 is 5.62, not a float neighborhood of it. If either input is
// missing the spread is missing.
func YieldSpread(yield, reference tabular.Value) tabular.Value {
	y, ok := yield.Float()
	if !ok {
		return tabular.Missing()
	}
	r, ok := reference.Float()
	if !ok {
		return tabular.Missing()
	}
	spread, _ := decimal.NewFromFloat(y).Sub(decimal.NewFromFloat(r)).Float64()
	return tabular.Number(spread)
}

// AddYieldSpread appends a spread column computed from the named yield
// column against a single reference rate, typically the latest benchmark
// observation. A missing reference leaves the whole column missing.
func AddYieldSpread(t *tabular.Table, yieldCol, outCol string, reference tabular.Value) (*tabular.Table, error) {
	yields, err := t.Column(yieldCol)
	if err != nil {
		return nil, err
	}
	spreads := make([]tabular.Value, len(yields))
	for i, y := range yields {
		spreads[i] = YieldSpread(y, reference)
	}
	return t.WithColumn(outCol, spreads)
}
