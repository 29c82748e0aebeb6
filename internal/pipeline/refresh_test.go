package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munipipe/internal/loader"
	"munipipe/internal/shared/testutil"
	"munipipe/internal/tabular"
)

func sampleRawSet() *loader.RawSet {
	return &loader.RawSet{
		Records: map[string][][]string{
			loader.TableIssuers:  testutil.SampleIssuers(),
			loader.TablePurposes: testutil.SamplePurposes(),
			loader.TableBonds:    testutil.SampleBonds(),
			loader.TableRatings:  testutil.SampleRatings(),
			loader.TableTrades:   testutil.SampleTrades(),
			loader.TableMacro:    testutil.SampleMacro(),
		},
		Errors: make(map[string]error),
	}
}

func asOf(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse(tabular.DateLayout, "2024-06-01")
	require.NoError(t, err)
	return d
}

func refreshSample(t *testing.T) *Snapshot {
	t.Helper()
	logger, _ := testutil.NewBufferedLogger(t)
	snap, err := NewRefresher(logger).Refresh(context.Background(), sampleRawSet(), asOf(t))
	require.NoError(t, err)
	return snap
}

func masterRow(t *testing.T, snap *Snapshot, bondID string) map[string]tabular.Value {
	t.Helper()
	require.NotNil(t, snap.Master)
	for i := 0; i < snap.Master.Len(); i++ {
		id, err := snap.Master.Value(i, "bond_id")
		require.NoError(t, err)
		if id.Str() != bondID {
			continue
		}
		row := make(map[string]tabular.Value)
		for _, col := range snap.Master.Columns() {
			v, err := snap.Master.Value(i, col)
			require.NoError(t, err)
			row[col] = v
		}
		return row
	}
	t.Fatalf("bond %s not in master", bondID)
	return nil
}

func TestRefreshBuildsMaster(t *testing.T) {
	snap := refreshSample(t)

	assert.NotEmpty(t, snap.Token)
	assert.Empty(t, snap.Errors)
	require.NotNil(t, snap.Master)
	assert.Equal(t, 5, snap.Master.Len(), "one master row per bond, joins never duplicate")

	row := masterRow(t, snap, "BND-1")

	assert.Equal(t, "AA+", row["rating"].Str(), "only the latest rating action survives")
	rank, ok := row[ColRatingRank].Float()
	require.True(t, ok)
	assert.Equal(t, 2.0, rank)

	y, ok := row["yield"].Float()
	require.True(t, ok)
	assert.Equal(t, 6.41, y, "latest trade wins")
	assert.Equal(t, "2024-03-12", row["trade_date"].Render())

	spread, ok := row[ColYieldSpread].Float()
	require.True(t, ok)
	assert.Equal(t, 5.62, spread)

	ttm, ok := row[ColTimeToMaturity].Float()
	require.True(t, ok)
	assert.InDelta(t, 10.0, ttm, 0.02)

	assert.Equal(t, "CA", row["state"].Str())
	assert.Equal(t, "Water & Sewer", row["purpose_category"].Str())
}

func TestRefreshDerivedEdgeCases(t *testing.T) {
	snap := refreshSample(t)

	t.Run("matured bond has negative time to maturity", func(t *testing.T) {
		row := masterRow(t, snap, "BND-5")
		ttm, ok := row[ColTimeToMaturity].Float()
		require.True(t, ok)
		assert.Less(t, ttm, 0.0)
	})

	t.Run("unmapped rating label has missing rank", func(t *testing.T) {
		row := masterRow(t, snap, "BND-5")
		assert.Equal(t, "NR", row["rating"].Str())
		assert.True(t, row[ColRatingRank].IsMissing())
	})

	t.Run("bond without trades has missing yield and spread", func(t *testing.T) {
		row := masterRow(t, snap, "BND-5")
		assert.True(t, row["yield"].IsMissing())
		assert.True(t, row[ColYieldSpread].IsMissing())
	})
}

func TestRefreshSnapshotTables(t *testing.T) {
	snap := refreshSample(t)

	require.NotNil(t, snap.LatestRatings)
	assert.Equal(t, 5, snap.LatestRatings.Len(), "one row per rated bond")
	assert.Equal(t, 6, snap.Trades.Len(), "the trade history itself is not collapsed")
	require.NotNil(t, snap.Macro)
	assert.Equal(t, 4, snap.Macro.Len())
}

func TestRefreshWithoutTrades(t *testing.T) {
	raw := sampleRawSet()
	delete(raw.Records, loader.TableTrades)
	raw.Errors[loader.TableTrades] = errors.New("read trades.csv: no such file")

	logger, _ := testutil.NewBufferedLogger(t)
	snap, err := NewRefresher(logger).Refresh(context.Background(), raw, asOf(t))
	require.NoError(t, err, "a missing fact table degrades, never aborts")

	assert.Contains(t, snap.Errors, loader.TableTrades)
	assert.Nil(t, snap.Trades)
	require.NotNil(t, snap.Master)
	assert.Equal(t, 5, snap.Master.Len())

	row := masterRow(t, snap, "BND-1")
	assert.True(t, row["yield"].IsMissing())
	assert.True(t, row[ColYieldSpread].IsMissing())
	assert.Equal(t, "AA+", row["rating"].Str(), "rating columns still join")
}

func TestRefreshWithoutBonds(t *testing.T) {
	raw := sampleRawSet()
	delete(raw.Records, loader.TableBonds)

	logger, _ := testutil.NewBufferedLogger(t)
	snap, err := NewRefresher(logger).Refresh(context.Background(), raw, asOf(t))
	require.NoError(t, err)

	assert.Nil(t, snap.Master)
	require.Contains(t, snap.Errors, "master")
	var schemaErr *tabular.SchemaError
	assert.ErrorAs(t, snap.Errors["master"], &schemaErr)

	assert.NotNil(t, snap.LatestRatings, "independent tables still resolve")
}

func TestRefreshDuplicateDimensionKeys(t *testing.T) {
	raw := sampleRawSet()
	raw.Records[loader.TableIssuers] = append(testutil.SampleIssuers(),
		[]string{"ISS-1", "NV", "Shadow Issuer"})

	logger, _ := testutil.NewBufferedLogger(t)
	snap, err := NewRefresher(logger).Refresh(context.Background(), raw, asOf(t))
	require.NoError(t, err)

	assert.Nil(t, snap.Master)
	require.Contains(t, snap.Errors, "master")
	var cardErr *tabular.CardinalityError
	require.ErrorAs(t, snap.Errors["master"], &cardErr)
	assert.Equal(t, []string{"ISS-1"}, cardErr.Keys)
}

func TestRefreshNothingSurvives(t *testing.T) {
	raw := &loader.RawSet{
		Records: make(map[string][][]string),
		Errors:  map[string]error{loader.TableBonds: os.ErrNotExist},
	}
	logger, _ := testutil.NewBufferedLogger(t)
	snap, err := NewRefresher(logger).Refresh(context.Background(), raw, asOf(t))
	require.Error(t, err)
	assert.NotNil(t, snap, "the degraded snapshot still carries the causes")
	assert.Contains(t, snap.Errors, loader.TableBonds)
}

func TestMasterRecords(t *testing.T) {
	snap := refreshSample(t)
	records, err := snap.MasterRecords()
	require.NoError(t, err)
	require.Len(t, records, 5)

	byID := make(map[string]int)
	for i, rec := range records {
		byID[rec.BondID] = i
	}

	rec := records[byID["BND-1"]]
	assert.Equal(t, "Golden State Water Authority", rec.IssuerName)
	require.NotNil(t, rec.Yield)
	assert.Equal(t, 6.41, *rec.Yield)
	require.NotNil(t, rec.YieldSpread)
	assert.Equal(t, 5.62, *rec.YieldSpread)
	require.NotNil(t, rec.RatingRank)
	assert.Equal(t, int64(2), *rec.RatingRank)
	assert.Equal(t, "2034-06-01", rec.MaturityDate)

	rec = records[byID["BND-5"]]
	assert.Nil(t, rec.Yield, "missing cells become nil, never zero")
	assert.Nil(t, rec.RatingRank)
	assert.Equal(t, "NR", rec.Rating)

	t.Run("nil master", func(t *testing.T) {
		_, err := (&Snapshot{}).MasterRecords()
		assert.Error(t, err)
	})
}

func TestCache(t *testing.T) {
	cache := NewCache()

	_, ok := cache.Current()
	assert.False(t, ok)

	first := &Snapshot{Token: "tok-1"}
	second := &Snapshot{Token: "tok-2"}
	cache.Store(first)
	cache.Store(second)

	got, ok := cache.Get("tok-1")
	require.True(t, ok)
	assert.Same(t, first, got)

	got, ok = cache.Current()
	require.True(t, ok)
	assert.Same(t, second, got, "latest store is current")

	cache.Invalidate("tok-2")
	_, ok = cache.Get("tok-2")
	assert.False(t, ok)
	_, ok = cache.Current()
	assert.False(t, ok, "invalidating the current snapshot leaves none current")

	got, ok = cache.Get("tok-1")
	require.True(t, ok)
	assert.Same(t, first, got, "other snapshots survive a targeted invalidation")

	cache.InvalidateAll()
	_, ok = cache.Get("tok-1")
	assert.False(t, ok)
}
