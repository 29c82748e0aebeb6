package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"munipipe/internal/derive"
	"munipipe/internal/loader"
	"munipipe/internal/tabular"
)

// Derived column names added to the master table. Renaming one is a
// breaking change for the rendering layer.
const (
	ColRatingRank     = "rating_rank"
	ColTimeToMaturity = "time_to_maturity"
	ColYieldSpread    = "yield_spread"
)

// Snapshot is the immutable result of one refresh. Tables a failed input
// prevented from building are nil, with the cause recorded in Errors under
// the table name ("master" for the join stage itself); views requiring a
// nil table fail individually without affecting their siblings.
type Snapshot struct {
	Token         string
	AsOf          time.Time
	Master        *tabular.Table
	Trades        *tabular.Table
	LatestRatings *tabular.Table
	Macro         *tabular.Table
	Quality       *tabular.QualityReport
	Errors        map[string]error
}

// Refresher runs the normalize, resolve, join and derive stages.
type Refresher struct {
	logger     *slog.Logger
	normalizer *tabular.Normalizer
}

// NewRefresher creates a refresher logging through the given logger.
func NewRefresher(logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		logger:     logger,
		normalizer: tabular.NewNormalizer(logger),
	}
}

// Refresh transforms one raw input set into a Snapshot. Per-table failures
// degrade the snapshot instead of failing it; the returned error is non-nil
// only when not a single table survived normalization.
func (r *Refresher) Refresh(ctx context.Context, raw *loader.RawSet, asOf time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Token:   uuid.NewString(),
		AsOf:    asOf,
		Quality: tabular.NewQualityReport(),
		Errors:  make(map[string]error),
	}
	for name, err := range raw.Errors {
		snap.Errors[name] = err
	}

	normalized := make(map[string]*tabular.Table)
	for _, name := range loader.TableNames() {
		records, ok := raw.Records[name]
		if !ok {
			continue
		}
		contract, err := tabular.ContractFor(name)
		if err != nil {
			snap.Errors[name] = err
			continue
		}
		table, err := r.normalizer.Normalize(records, contract, snap.Quality)
		if err != nil {
			r.logger.Warn("normalization failed",
				slog.String("table", name),
				slog.String("error", err.Error()))
			snap.Errors[name] = err
			continue
		}
		normalized[name] = table
	}
	if len(normalized) == 0 {
		return snap, tabular.NewSchemaError("inputs", "", "no input table survived normalization")
	}

	snap.Trades = normalized[loader.TableTrades]
	snap.Macro = normalized[loader.TableMacro]

	// The two snapshot resolutions are independent; run them in parallel
	// and join before the relational stage, which needs both.
	var latestTrades *tabular.Table
	g, _ := errgroup.WithContext(ctx)
	if snap.Trades != nil {
		g.Go(func() error {
			var err error
			latestTrades, err = tabular.ResolveLatest(snap.Trades, "bond_id", "trade_date", snap.Quality)
			return err
		})
	}
	if ratings := normalized[loader.TableRatings]; ratings != nil {
		g.Go(func() error {
			var err error
			snap.LatestRatings, err = tabular.ResolveLatest(ratings, "bond_id", "rating_date", snap.Quality)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		snap.Errors["resolve"] = err
		return snap, nil
	}

	master, err := r.buildMaster(normalized, latestTrades, snap.LatestRatings, snap.Macro, asOf)
	if err != nil {
		r.logger.Warn("master table build failed", slog.String("error", err.Error()))
		snap.Errors["master"] = err
		return snap, nil
	}
	snap.Master = master

	r.logger.Info("refresh complete",
		slog.String("token", snap.Token),
		slog.String("as_of", asOf.Format(tabular.DateLayout)),
		slog.Int("master_rows", master.Len()))
	return snap, nil
}

// buildMaster joins dimensions and fact snapshots onto the bond table and
// derives the computed columns. Dimension joins reject duplicate keys
// outright; fact-snapshot joins use deterministic first-match.
func (r *Refresher) buildMaster(
	normalized map[string]*tabular.Table,
	latestTrades, latestRatings, macro *tabular.Table,
	asOf time.Time,
) (*tabular.Table, error) {
	bonds := normalized[loader.TableBonds]
	issuers := normalized[loader.TableIssuers]
	purposes := normalized[loader.TablePurposes]
	if bonds == nil {
		return nil, tabular.NewSchemaError(loader.TableBonds, "", "required table unavailable")
	}
	if issuers == nil {
		return nil, tabular.NewSchemaError(loader.TableIssuers, "", "required table unavailable")
	}
	if purposes == nil {
		return nil, tabular.NewSchemaError(loader.TablePurposes, "", "required table unavailable")
	}

	master, err := tabular.LeftJoin(bonds, issuers, "issuer_id", tabular.RejectDuplicates)
	if err != nil {
		return nil, err
	}
	master, err = tabular.LeftJoin(master, purposes, "purpose_id", tabular.RejectDuplicates)
	if err != nil {
		return nil, err
	}

	if latestTrades != nil {
		tradeCols, err := latestTrades.Select("bond_id", "yield", "trade_date", "trade_price")
		if err != nil {
			return nil, err
		}
		master, err = tabular.LeftJoin(master, tradeCols, "bond_id", tabular.FirstMatch)
		if err != nil {
			return nil, err
		}
	} else {
		if master, err = withMissingColumns(master, "yield", "trade_date", "trade_price"); err != nil {
			return nil, err
		}
	}

	if latestRatings != nil {
		ratingCols, err := latestRatings.Select("bond_id", "rating")
		if err != nil {
			return nil, err
		}
		master, err = tabular.LeftJoin(master, ratingCols, "bond_id", tabular.FirstMatch)
		if err != nil {
			return nil, err
		}
	} else {
		if master, err = withMissingColumns(master, "rating"); err != nil {
			return nil, err
		}
	}

	if master, err = derive.AddRatingRank(master, "rating", ColRatingRank); err != nil {
		return nil, err
	}
	if master, err = derive.AddTimeToMaturity(master, "maturity_date", ColTimeToMaturity, asOf); err != nil {
		return nil, err
	}
	reference := latestReferenceRate(macro)
	if master, err = derive.AddYieldSpread(master, "yield", ColYieldSpread, reference); err != nil {
		return nil, err
	}
	return master.Rename("master"), nil
}

// withMissingColumns pads the master with all-missing fact columns when the
// fact table itself was unavailable, so the master contract stays stable.
func withMissingColumns(t *tabular.Table, cols ...string) (*tabular.Table, error) {
	var err error
	for _, col := range cols {
		cells := make([]tabular.Value, t.Len())
		for i := range cells {
			cells[i] = tabular.Missing()
		}
		if t, err = t.WithColumn(col, cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// latestReferenceRate returns the mean 10-year treasury rate over the most
// recent macro date, averaged across regions. Missing when the macro table
// is unavailable or carries no usable observation, which leaves the spread
// column missing rather than zero.
func latestReferenceRate(macro *tabular.Table) tabular.Value {
	if macro == nil {
		return tabular.Missing()
	}
	dates, err := macro.Column("date")
	if err != nil {
		return tabular.Missing()
	}
	rates, err := macro.Column("treasury_10yr")
	if err != nil {
		return tabular.Missing()
	}
	var latest time.Time
	for _, d := range dates {
		if t, ok := d.Time(); ok && t.After(latest) {
			latest = t
		}
	}
	if latest.IsZero() {
		return tabular.Missing()
	}
	sum, n := 0.0, 0
	for i, d := range dates {
		t, ok := d.Time()
		if !ok || !t.Equal(latest) {
			continue
		}
		if f, ok := rates[i].Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return tabular.Missing()
	}
	return tabular.Number(sum / float64(n))
}
