package cleaning

import (
	"log/slog"
	"time"

	"aibox/internal/tabular"
)

// CleanStock runs the stock cleaning pipeline: header mapping, numeric
// and expiry-date normalization, anomaly tagging against today's date,
// the optional negative-quantity filter, and summary building. Same
// tolerance guarantees as CleanInvoices; stock files have no duplicate
// passes.
func CleanStock(t *tabular.Table, opts StockOptions) *StockResult {
	if opts.DaysExpiring <= 0 {
		opts.DaysExpiring = DefaultStockOptions().DaysExpiring
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	rowsIn := t.Len()
	before := t.Head(previewRows)

	t.Rename(MapHeaders(t, StockSynonyms))

	t.Apply("qty_on_hand", ParseNumber)
	t.Apply("reorder_point", ParseNumber)
	t.Apply("expiry_date", ParseDate)

	tagStockRows(t, today, opts.DaysExpiring)

	negDropped := 0
	if opts.DropNegativeQty {
		negDropped = dropNegative(t, "qty_on_hand")
	}

	summary := issuesSummary(t)
	canonicalOrder(t, StockColumnOrder)

	result := &StockResult{
		Profile: StockProfile{
			RowsIn:             rowsIn,
			RowsOut:            t.Len(),
			LowStock:           summary[TagLowStock],
			ExpiringSoon:       summary[TagExpiringSoon],
			Expired:            summary[TagExpired],
			NegativeQtyDropped: negDropped,
		},
		IssuesSummary: summary,
		AIFeedback:    stockTips(summary, negDropped),
		Preview: Preview{
			Before: before,
			After:  t.Head(previewRows),
		},
		Clean: t,
	}

	slog.Debug("stock cleaning finished",
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", t.Len()),
		slog.Int("negative_qty_dropped", negDropped))

	return result
}
