package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munipipe/internal/shared/testutil"
)

func mustContract(t *testing.T, table string) Contract {
	t.Helper()
	c, err := ContractFor(table)
	require.NoError(t, err)
	return c
}

func TestContractFor(t *testing.T) {
	for _, table := range []string{"issuers", "purposes", "bonds", "ratings", "trades", "macro"} {
		t.Run(table, func(t *testing.T) {
			c, err := ContractFor(table)
			require.NoError(t, err)
			assert.Equal(t, table, c.Table)
			assert.NotEmpty(t, c.Columns)
		})
	}

	t.Run("unknown table", func(t *testing.T) {
		_, err := ContractFor("nonsense")
		var schemaErr *SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})
}

func TestNormalizeAliasesAndBOM(t *testing.T) {
	logger, _ := testutil.NewBufferedLogger(t)
	n := NewNormalizer(logger)
	report := NewQualityReport()

	records := [][]string{
		{"\ufeffdate", "STATE", " treasury_10yr ", "vix_index", "unemployment_rate"},
		{"2024-03-31", "CA", "0.79", "13.1", "4.7"},
	}
	tbl, err := n.Normalize(records, mustContract(t, "macro"), report)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "state_code", "treasury_10yr", "vix_index", "unemployment_rate_pct"}, tbl.Columns())
	require.Equal(t, 1, tbl.Len())

	v, err := tbl.Value(0, "state_code")
	require.NoError(t, err)
	assert.Equal(t, "CA", v.Str())

	v, err = tbl.Value(0, "treasury_10yr")
	require.NoError(t, err)
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 0.79, f)
}

func TestNormalizeRequiredColumnMissing(t *testing.T) {
	n := NewNormalizer(nil)
	records := [][]string{
		{"bond_id", "rating"}, // rating_date absent
		{"BND-1", "AA"},
	}
	_, err := n.Normalize(records, mustContract(t, "ratings"), nil)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "ratings", schemaErr.Table)
	assert.Equal(t, "rating_date", schemaErr.Column)
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := n.Normalize(nil, mustContract(t, "bonds"), nil)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestNormalizeDropsUnknownColumns(t *testing.T) {
	logger, handler := testutil.NewBufferedLogger(t)
	n := NewNormalizer(logger)
	report := NewQualityReport()

	records := [][]string{
		{"issuer_id", "state", "issuer_name", "internal_notes"},
		{"ISS-1", "CA", "Golden State Water Authority", "ignore me"},
	}
	tbl, err := n.Normalize(records, mustContract(t, "issuers"), report)
	require.NoError(t, err)

	assert.False(t, tbl.HasColumn("internal_notes"))
	assert.True(t, handler.HasMessage("dropping column not in contract"))
	assert.Equal(t, []string{"internal_notes"}, report.Tables()["issuers"].DroppedColumns)
}

func TestNormalizeCoercion(t *testing.T) {
	n := NewNormalizer(nil)
	report := NewQualityReport()

	records := [][]string{
		{"trade_id", "bond_id", "trade_date", "yield", "trade_price", "quantity", "buyer_type"},
		{"TRD-1", "BND-1", "2024/01/05", "3.0", "1,250.25", "50", "Retail"},
		{"TRD-2", "BND-1", "not-a-date", "oops", "100.10", "25", "Institutional"},
		{"TRD-3", "BND-2", "2024-02-14", "", "102.00", "40", "Dealer"},
	}
	tbl, err := n.Normalize(records, mustContract(t, "trades"), report)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len(), "bad cells degrade, rows survive")

	v, _ := tbl.Value(0, "trade_date")
	assert.Equal(t, "2024-01-05", v.Render(), "slash dates normalize")
	v, _ = tbl.Value(0, "trade_price")
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 1250.25, f, "thousands separators strip")

	v, _ = tbl.Value(1, "trade_date")
	assert.True(t, v.IsMissing())
	v, _ = tbl.Value(1, "yield")
	assert.True(t, v.IsMissing())
	v, _ = tbl.Value(2, "yield")
	assert.True(t, v.IsMissing(), "empty cell is missing, not a bad cell")

	q := report.Tables()["trades"]
	assert.Equal(t, 1, q.BadCells["trade_date"])
	assert.Equal(t, 1, q.BadCells["yield"])
}

func TestNormalizeShortRows(t *testing.T) {
	n := NewNormalizer(nil)
	report := NewQualityReport()

	records := [][]string{
		{"issuer_id", "state", "issuer_name"},
		{"ISS-1", "CA", "Golden State Water Authority"},
		{"ISS-2"},
	}
	tbl, err := n.Normalize(records, mustContract(t, "issuers"), report)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1, report.Tables()["issuers"].ShortRows)
}

func TestNormalizeExactDuplicateRemoval(t *testing.T) {
	n := NewNormalizer(nil)
	report := NewQualityReport()

	records := testutil.SampleBonds()
	records = append(records, records[1]) // exact copy of BND-1
	tbl, err := n.Normalize(records, mustContract(t, "bonds"), report)
	require.NoError(t, err)

	assert.Equal(t, 5, tbl.Len())
	assert.Equal(t, 1, report.Tables()["bonds"].DuplicateRows)
}

func TestNormalizeKeepsKeyCollisionsWithDifferentPayloads(t *testing.T) {
	n := NewNormalizer(nil)

	records := [][]string{
		{"bond_id", "issuer_id", "purpose_id", "coupon_rate", "bond_type", "maturity_date"},
		{"BND-1", "ISS-1", "PUR-1", "4.25", "GO", "2034-06-01"},
		{"BND-1", "ISS-1", "PUR-1", "4.50", "GO", "2034-06-01"},
	}
	tbl, err := n.Normalize(records, mustContract(t, "bonds"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len(), "same key, different payload is not an exact duplicate")
}
