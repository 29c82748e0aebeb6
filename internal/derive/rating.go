// Package derive computes the fields that exist in no input table: the
// ordinal rank of a credit rating, time to maturity against a fixed as-of
// date, and the yield spread over a reference rate. Each derivation is a
// pure function over already-joined columns and is testable against a table
// of representative rows without the rest of the pipeline.
package derive

import (
	"munipipe/internal/tabular"
)

// ratingScale is the fixed credit-quality enumeration, best to worst. Rank 1
// is AAA, rank 20 is D. Labels outside the scale have no rank.
var ratingScale = []string{
	"AAA", "AA+", "AA", "AA-",
	"A+", "A", "A-",
	"BBB+", "BBB", "BBB-",
	"BB+", "BB", "BB-",
	"B+", "B", "B-",
	"CCC", "CC", "C", "D",
}

var ratingRank = func() map[string]int {
	m := make(map[string]int, len(ratingScale))
	for i, label := range ratingScale {
		m[label] = i + 1
	}
	return m
}()

// RatingRank returns the ordinal rank of a rating label on the fixed scale,
// and false for labels outside the enumeration. An unmapped label is
// missing data, never rank zero and never a clamped value.
func RatingRank(label string) (int, bool) {
	rank, ok := ratingRank[label]
	return rank, ok
}

// RatingScale returns the enumeration in credit-quality order, best first.
// Aggregations use it to order categorical output by quality rather than
// alphabetically.
func RatingScale() []string {
	return append([]string(nil), ratingScale...)
}

// AddRatingRank appends a numeric rank column derived from the named rating
// column. Missing or unmapped labels produce a missing rank.
func AddRatingRank(t *tabular.Table, ratingCol, rankCol string) (*tabular.Table, error) {
	labels, err := t.Column(ratingCol)
	if err != nil {
		return nil, err
	}
	ranks := make([]tabular.Value, len(labels))
	for i, v := range labels {
		rank, ok := RatingRank(v.Str())
		if !ok {
			ranks[i] = tabular.Missing()
			continue
		}
		ranks[i] = tabular.Number(float64(rank))
	}
	return t.WithColumn(rankCol, ranks)
}
