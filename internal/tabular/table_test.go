package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects duplicate column", func(t *testing.T) {
		_, err := New("bonds", []string{"bond_id", "bond_id"})
		require.Error(t, err)
		var schemaErr *SchemaError
		assert.ErrorAs(t, err, &schemaErr)
	})

	t.Run("rejects empty column name", func(t *testing.T) {
		_, err := New("bonds", []string{"bond_id", ""})
		assert.Error(t, err)
	})
}

func TestTableAppendRow(t *testing.T) {
	tbl, err := New("trades", []string{"trade_id", "yield"})
	require.NoError(t, err)

	require.NoError(t, tbl.AppendRow(String("TRD-1"), Number(3.0)))
	assert.Error(t, tbl.AppendRow(String("TRD-2")), "arity mismatch must fail")
	assert.Equal(t, 1, tbl.Len())
}

func TestTableSelect(t *testing.T) {
	tbl, err := New("trades", []string{"trade_id", "bond_id", "yield"})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(String("TRD-1"), String("BND-1"), Number(3.0)))
	require.NoError(t, tbl.AppendRow(String("TRD-2"), String("BND-2"), Number(4.0)))

	sel, err := tbl.Select("yield", "bond_id")
	require.NoError(t, err)
	assert.Equal(t, []string{"yield", "bond_id"}, sel.Columns())
	assert.Equal(t, tbl.Len(), sel.Len())

	v, err := sel.Value(0, "yield")
	require.NoError(t, err)
	f, ok := v.Float()
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, err = tbl.Select("no_such_column")
	assert.Error(t, err)
}

func TestTableWithColumn(t *testing.T) {
	tbl, err := New("bonds", []string{"bond_id"})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(String("BND-1")))
	require.NoError(t, tbl.AppendRow(String("BND-2")))

	out, err := tbl.WithColumn("rank", []Value{Number(1), Missing()})
	require.NoError(t, err)
	assert.Equal(t, []string{"bond_id", "rank"}, out.Columns())

	v, err := out.Value(1, "rank")
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	// the source table is untouched
	assert.False(t, tbl.HasColumn("rank"))

	_, err = out.WithColumn("rank", []Value{Number(1), Number(2)})
	assert.Error(t, err, "existing column must be rejected")

	_, err = tbl.WithColumn("short", []Value{Number(1)})
	assert.Error(t, err, "cell count mismatch must be rejected")
}

func TestTableFilter(t *testing.T) {
	tbl, err := New("trades", []string{"yield"})
	require.NoError(t, err)
	for _, y := range []float64{1, 2, 3, 4} {
		require.NoError(t, tbl.AppendRow(Number(y)))
	}

	kept := tbl.Filter(func(i int) bool {
		v, _ := tbl.Value(i, "yield")
		f, _ := v.Float()
		return f > 2
	})
	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 4, tbl.Len())
}

func TestTableRename(t *testing.T) {
	tbl, err := New("stage", []string{"a"})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(Number(1)))

	out := tbl.Rename("published")
	assert.Equal(t, "published", out.Name())
	assert.Equal(t, "stage", tbl.Name())
	assert.Equal(t, 1, out.Len())
}
