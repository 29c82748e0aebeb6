// Package views derives the named analytical tables the rendering layer
// consumes. Each view has a fixed column contract and declares which inputs
// it requires; a view whose required input failed upstream reports its own
// error and leaves the other views untouched.
package views

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"munipipe/internal/aggregate"
	"munipipe/internal/derive"
	"munipipe/internal/pipeline"
	"munipipe/internal/tabular"
)

// View names. Renaming one is a breaking change at the rendering boundary.
const (
	ViewYieldCurve         = "yield_curve"
	ViewRatingDistribution = "rating_distribution"
	ViewStateYield         = "state_yield"
	ViewTimeSeries         = "time_series"
	ViewSectorHeatmap      = "sector_heatmap"
	ViewDailyVolume        = "daily_volume"
	ViewBuyerDistribution  = "buyer_distribution"
)

// Names returns the view names in canonical rendering order.
func Names() []string {
	return []string{
		ViewYieldCurve,
		ViewRatingDistribution,
		ViewStateYield,
		ViewTimeSeries,
		ViewSectorHeatmap,
		ViewDailyVolume,
		ViewBuyerDistribution,
	}
}

// Error reports that one named view could not be built. It wraps the cause
// so callers can distinguish schema failures from upstream load failures.
type Error struct {
	View  string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[VIEW] %s: %v", e.View, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Result is one built view: a table for most views, a grid for the heatmap.
// Err is set instead when the view's required inputs were unavailable or
// its derivation failed.
type Result struct {
	Name  string
	Table *tabular.Table
	Grid  *aggregate.Grid
	Err   error
}

// Builder derives views from a pipeline snapshot.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a view builder.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// BuildAll derives every view from the snapshot. Views run concurrently;
// each one only reads the immutable snapshot, and a failure in one is
// isolated to its own Result. Results come back in canonical order.
func (b *Builder) BuildAll(ctx context.Context, snap *pipeline.Snapshot) []Result {
	type build struct {
		name string
		fn   func(*pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error)
	}
	builds := []build{
		{ViewYieldCurve, b.yieldCurve},
		{ViewRatingDistribution, b.ratingDistribution},
		{ViewStateYield, b.stateYield},
		{ViewTimeSeries, b.timeSeries},
		{ViewSectorHeatmap, b.sectorHeatmap},
		{ViewDailyVolume, b.dailyVolume},
		{ViewBuyerDistribution, b.buyerDistribution},
	}

	results := make([]Result, len(builds))
	g, _ := errgroup.WithContext(ctx)
	for i, bd := range builds {
		g.Go(func() error {
			table, grid, err := bd.fn(snap)
			if err != nil {
				b.logger.Warn("view failed",
					slog.String("view", bd.name),
					slog.String("error", err.Error()))
				results[i] = Result{Name: bd.name, Err: &Error{View: bd.name, Cause: err}}
				return nil
			}
			results[i] = Result{Name: bd.name, Table: table, Grid: grid}
			return nil
		})
	}
	_ = g.Wait() // builders never return errors; failures land in Results

	return results
}

// requireTable names the snapshot table a view depends on, surfacing the
// recorded upstream cause when it is unavailable.
func requireTable(snap *pipeline.Snapshot, t *tabular.Table, name string) (*tabular.Table, error) {
	if t != nil {
		return t, nil
	}
	if cause, ok := snap.Errors[name]; ok {
		return nil, cause
	}
	return nil, tabular.NewSchemaError(name, "", "table unavailable")
}

// yieldCurve exposes the cross-sectional master rows that have all three of
// time_to_maturity, yield and rating, the columns the scatter consumer
// plots. Requires the master table.
//
// Columns: time_to_maturity, yield, rating, rating_rank, issuer_name,
// bond_type, coupon_rate.
func (b *Builder) yieldCurve(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	master, err := requireTable(snap, snap.Master, "master")
	if err != nil {
		return nil, nil, err
	}
	sel, err := master.Select(
		pipeline.ColTimeToMaturity, "yield", "rating", pipeline.ColRatingRank,
		"issuer_name", "bond_type", "coupon_rate",
	)
	if err != nil {
		return nil, nil, err
	}
	keep := func(i int) bool {
		for _, col := range []string{pipeline.ColTimeToMaturity, "yield", "rating"} {
			v, err := sel.Value(i, col)
			if err != nil || v.IsMissing() {
				return false
			}
		}
		return true
	}
	return sel.Filter(keep).Rename(ViewYieldCurve), nil, nil
}

// ratingDistribution counts bonds per latest rating label, ordered by
// credit quality, best first. Requires the resolved ratings snapshot.
//
// Columns: rating, count.
func (b *Builder) ratingDistribution(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	ratings, err := requireTable(snap, snap.LatestRatings, "ratings")
	if err != nil {
		return nil, nil, err
	}
	out, err := aggregate.CountByCategory(ratings, "rating", derive.RatingRank)
	if err != nil {
		return nil, nil, err
	}
	return out.Rename(ViewRatingDistribution), nil, nil
}

// stateYield compares mean and dispersion of latest yields across states.
// Requires the master table.
//
// Columns: state, mean, std. The std of a single-bond state is missing.
func (b *Builder) stateYield(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	master, err := requireTable(snap, snap.Master, "master")
	if err != nil {
		return nil, nil, err
	}
	out, err := aggregate.GroupDispersion(master, "state", "yield")
	if err != nil {
		return nil, nil, err
	}
	return out.Rename(ViewStateYield), nil, nil
}

// timeSeries aligns monthly mean trade yields and prices with monthly mean
// macro indicators averaged across regions. Months lacking any macro
// observation are dropped, matching the inner-join semantics the chart
// expects. Requires both the trades and macro tables.
//
// Columns: month, yield, trade_price, treasury_10yr, vix_index.
func (b *Builder) timeSeries(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	trades, err := requireTable(snap, snap.Trades, "trades")
	if err != nil {
		return nil, nil, err
	}
	macro, err := requireTable(snap, snap.Macro, "macro")
	if err != nil {
		return nil, nil, err
	}
	monthly, err := aggregate.ResampleMonthly(trades, "trade_date", []string{"yield", "trade_price"})
	if err != nil {
		return nil, nil, err
	}
	macroMonthly, err := aggregate.ResampleMonthly(macro, "date", []string{"treasury_10yr", "vix_index"})
	if err != nil {
		return nil, nil, err
	}
	joined, err := tabular.LeftJoin(monthly, macroMonthly, "month", tabular.FirstMatch)
	if err != nil {
		return nil, nil, err
	}
	keep := func(i int) bool {
		for _, col := range []string{"treasury_10yr", "vix_index"} {
			if v, err := joined.Value(i, col); err == nil && !v.IsMissing() {
				return true
			}
		}
		return false
	}
	return joined.Filter(keep).Rename(ViewTimeSeries), nil, nil
}

// sectorHeatmap pivots mean yield by purpose category and bond type into a
// fully rectangular grid. Cells with no observations hold 0, the documented
// fill sentinel the heatmap consumer requires. Requires the master table.
func (b *Builder) sectorHeatmap(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	master, err := requireTable(snap, snap.Master, "master")
	if err != nil {
		return nil, nil, err
	}
	grid, err := aggregate.Pivot(master, "purpose_category", "bond_type", "yield", 0)
	if err != nil {
		return nil, nil, err
	}
	grid.Name = ViewSectorHeatmap
	return nil, grid, nil
}

// dailyVolume totals traded quantity per trade date. Requires the trades
// table.
//
// Columns: trade_date, total.
func (b *Builder) dailyVolume(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	trades, err := requireTable(snap, snap.Trades, "trades")
	if err != nil {
		return nil, nil, err
	}
	out, err := aggregate.GroupSum(trades, "trade_date", "quantity")
	if err != nil {
		return nil, nil, err
	}
	return out.Rename(ViewDailyVolume), nil, nil
}

// buyerDistribution counts trades per buyer type. Requires the trades
// table.
//
// Columns: buyer_type, count.
func (b *Builder) buyerDistribution(snap *pipeline.Snapshot) (*tabular.Table, *aggregate.Grid, error) {
	trades, err := requireTable(snap, snap.Trades, "trades")
	if err != nil {
		return nil, nil, err
	}
	out, err := aggregate.CountByCategory(trades, "buyer_type", nil)
	if err != nil {
		return nil, nil, err
	}
	return out.Rename(ViewBuyerDistribution), nil, nil
}
