package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aibox/internal/tabular"
)

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"Acme Inc", "Acme Inc", 100},
		{"", "", 100},
		{"Acme Inc", "Acme Inc.", 94},
		{"abc", "xyz", 50},
		{"Delta", "", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinRatio(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func invoiceRow(id, item string, lineTotal float64) tabular.Row {
	return tabular.Row{
		"invoice_id":       tabular.String(id),
		"item_description": tabular.String(item),
		"line_total":       tabular.Number(lineTotal),
	}
}

func TestDedupeExact(t *testing.T) {
	table := tabular.New("invoice_id", "item_description", "line_total")
	table.Append(invoiceRow("INV-1", "Widget", 100))
	table.Append(invoiceRow("INV-1", "Widget", 100))
	table.Append(invoiceRow("INV-1", "Gadget", 100))
	table.Append(invoiceRow("INV-2", "Widget", 100))

	removed := dedupeExact(table)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, table.Len())
	// first occurrence survives in original order
	assert.Equal(t, "Widget", table.Row(0).Get("item_description").Display())
	assert.Equal(t, "Gadget", table.Row(1).Get("item_description").Display())
}

func TestDedupeExactWithoutInvoiceID(t *testing.T) {
	table := tabular.New("item_description")
	table.Append(tabular.Row{"item_description": tabular.String("Widget")})
	table.Append(tabular.Row{"item_description": tabular.String("Widget")})

	assert.Equal(t, 0, dedupeExact(table))
	assert.Equal(t, 2, table.Len())
}

func fuzzyRow(name, date string, total float64) tabular.Row {
	return tabular.Row{
		"customer_name": tabular.String(name),
		"issue_date":    ParseDate(tabular.String(date)),
		"total_amount":  tabular.Number(total),
	}
}

func TestDedupeFuzzy(t *testing.T) {
	table := tabular.New("customer_name", "issue_date", "total_amount")
	table.Append(fuzzyRow("Acme Inc", "2025-09-01", 120.00))
	table.Append(fuzzyRow("Acme Inc.", "2025-09-01", 120.00))
	table.Append(fuzzyRow("Delta LLC", "2025-09-01", 120.00))

	removed := dedupeFuzzy(table, 90, nil)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, table.Len())
}

func TestDedupeFuzzyAmountTolerance(t *testing.T) {
	table := tabular.New("customer_name", "issue_date", "total_amount")
	table.Append(fuzzyRow("Acme Inc", "2025-09-01", 120.00))
	table.Append(fuzzyRow("Acme Inc.", "2025-09-01", 120.01))
	table.Append(fuzzyRow("Acme Incorp", "2025-09-02", 250.00))

	removed := dedupeFuzzy(table, 90, nil)

	// 0.01 difference is within tolerance, 130.00 difference is not
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, table.Len())
}

func TestDedupeFuzzyAdjacentPairsOnly(t *testing.T) {
	// Pairwise adjacency, not transitive clustering: B is dropped
	// against A, then C is compared against the *frame* row B it
	// matches too, so all three collapse to one survivor. But when the
	// middle row differs, the outer two are never compared.
	table := tabular.New("customer_name", "issue_date", "total_amount")
	table.Append(fuzzyRow("Acme Inc", "2025-09-01", 120.00))
	table.Append(fuzzyRow("Bravo Co", "2025-09-01", 120.00))
	table.Append(fuzzyRow("Acme Inc.", "2025-09-01", 120.00))

	removed := dedupeFuzzy(table, 90, nil)

	// sorted order keeps "Acme Inc" and "Acme Inc." adjacent, "Bravo
	// Co" sorts after both, so the near-duplicate pair is found
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, table.Len())
}

func TestDedupeFuzzyCustomSimilarity(t *testing.T) {
	table := tabular.New("customer_name", "issue_date", "total_amount")
	table.Append(fuzzyRow("Acme", "2025-09-01", 10))
	table.Append(fuzzyRow("Zeta", "2025-09-01", 10))

	everythingMatches := func(a, b string) int { return 100 }
	removed := dedupeFuzzy(table, 90, everythingMatches)

	assert.Equal(t, 1, removed)
}

func TestDedupeFuzzyMissingColumns(t *testing.T) {
	table := tabular.New("customer_name", "total_amount")
	table.Append(tabular.Row{
		"customer_name": tabular.String("Acme"),
		"total_amount":  tabular.Number(10),
	})
	assert.Equal(t, 0, dedupeFuzzy(table, 90, nil))
}
