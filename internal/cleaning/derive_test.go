package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibox/internal/tabular"
)

func derivedRow(qty, price, lineTotal, taxRate tabular.Value) tabular.Row {
	return tabular.Row{
		"invoice_id": tabular.String("INV-1"),
		"quantity":   qty,
		"unit_price": price,
		"line_total": lineTotal,
		"tax_rate":   taxRate,
	}
}

func TestRecomputeLineTotals(t *testing.T) {
	table := tabular.New("invoice_id", "quantity", "unit_price", "line_total", "tax_rate")
	// fresh inputs override a stale line_total
	table.Append(derivedRow(tabular.Number(2), tabular.Number(50), tabular.Number(999), tabular.Null()))
	// missing unit_price falls back to the existing value
	table.Append(derivedRow(tabular.Number(3), tabular.Null(), tabular.Number(75), tabular.Null()))
	// nothing available stays null
	table.Append(derivedRow(tabular.Null(), tabular.Null(), tabular.Null(), tabular.Null()))

	recomputeLineTotals(table)

	lt0, _ := table.Row(0).Get("line_total").Float()
	lt1, _ := table.Row(1).Get("line_total").Float()
	assert.Equal(t, 100.0, lt0)
	assert.Equal(t, 75.0, lt1)
	assert.True(t, table.Row(2).Get("line_total").IsNull())
}

func TestDerivedTotalConsistency(t *testing.T) {
	// For a single invoice with known inputs:
	// total_amount == round(sum(line_total),2) + round(sum*tax_rate,2)
	table := tabular.New("invoice_id", "quantity", "unit_price", "line_total", "tax_rate")
	table.Append(derivedRow(tabular.Number(2), tabular.Number(49.99), tabular.Null(), tabular.Number(0.2)))
	table.Append(derivedRow(tabular.Number(1), tabular.Number(10.01), tabular.Null(), tabular.Number(0.2)))

	deriveInvoiceFields(table)

	sum := 2*49.99 + 1*10.01 // 109.99
	wantTax := round2(sum * 0.2)
	wantTotal := round2(sum + wantTax)

	for i := 0; i < table.Len(); i++ {
		r := table.Row(i)
		tbt, ok := r.Get("total_before_tax").Float()
		require.True(t, ok, "row %d total_before_tax", i)
		assert.InDelta(t, round2(sum), tbt, 1e-9)

		tax, ok := r.Get("tax_amount").Float()
		require.True(t, ok, "row %d tax_amount", i)
		assert.InDelta(t, wantTax, tax, 1e-9)

		total, ok := r.Get("total_amount").Float()
		require.True(t, ok, "row %d total_amount", i)
		assert.InDelta(t, wantTotal, total, 1e-9)
	}
}

func TestDeriveExistingValuesWin(t *testing.T) {
	table := tabular.New("invoice_id", "quantity", "unit_price", "line_total", "tax_rate", "total_before_tax", "tax_amount", "total_amount")
	r := derivedRow(tabular.Number(2), tabular.Number(50), tabular.Null(), tabular.Number(0.2))
	r["total_before_tax"] = tabular.Number(500)
	r["tax_amount"] = tabular.Number(77)
	r["total_amount"] = tabular.Number(600)
	table.Append(r)

	deriveInvoiceFields(table)

	tbt, _ := table.Row(0).Get("total_before_tax").Float()
	tax, _ := table.Row(0).Get("tax_amount").Float()
	total, _ := table.Row(0).Get("total_amount").Float()
	assert.Equal(t, 500.0, tbt, "existing total_before_tax is never overwritten")
	assert.Equal(t, 77.0, tax, "existing tax_amount is never overwritten")
	assert.Equal(t, 600.0, total, "existing total_amount is never overwritten")
}

func TestDeriveNullInvoiceIDGroup(t *testing.T) {
	table := tabular.New("invoice_id", "quantity", "unit_price", "line_total")
	table.Append(tabular.Row{
		"invoice_id": tabular.Null(),
		"quantity":   tabular.Number(1),
		"unit_price": tabular.Number(10),
	})
	table.Append(tabular.Row{
		"invoice_id": tabular.Null(),
		"quantity":   tabular.Number(2),
		"unit_price": tabular.Number(10),
	})

	deriveInvoiceFields(table)

	// null ids form their own group and still aggregate
	for i := 0; i < table.Len(); i++ {
		tbt, ok := table.Row(i).Get("total_before_tax").Float()
		require.True(t, ok)
		assert.Equal(t, 30.0, tbt)
	}
}

func TestDeriveSkipsWithoutInvoiceID(t *testing.T) {
	table := tabular.New("quantity", "unit_price")
	table.Append(tabular.Row{
		"quantity":   tabular.Number(2),
		"unit_price": tabular.Number(50),
	})

	deriveInvoiceFields(table)

	// line_total is still computed, aggregation is skipped entirely
	lt, ok := table.Row(0).Get("line_total").Float()
	require.True(t, ok)
	assert.Equal(t, 100.0, lt)
	assert.False(t, table.HasColumn("total_before_tax"))
	assert.False(t, table.HasColumn("total_amount"))
}
