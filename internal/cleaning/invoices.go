package cleaning

import (
	"log/slog"

	"aibox/internal/tabular"
)

var invoiceDateColumns = []string{"issue_date", "due_date"}

var invoiceNumberColumns = []string{
	"quantity", "unit_price", "line_total", "tax_rate",
	"tax_amount", "total_before_tax", "total_amount",
}

// CleanInvoices runs the invoice cleaning pipeline over the table:
// header mapping, type normalization, derived-field computation,
// anomaly tagging, the optional negative-quantity filter, duplicate
// elimination, and summary building. The table is mutated in place and
// referenced by the result. The pipeline never fails on messy cell
// content; absent columns simply skip the phases that need them.
func CleanInvoices(t *tabular.Table, cfg Config) *Result {
	cfg = cfg.normalized()

	rowsIn := t.Len()
	before := t.Head(previewRows)

	headerMap := MapHeaders(t, InvoiceSynonyms)
	t.Rename(headerMap)

	for _, col := range invoiceDateColumns {
		t.Apply(col, ParseDate)
	}
	for _, col := range invoiceNumberColumns {
		t.Apply(col, ParseNumber)
	}
	t.Apply("currency", ParseCurrency)

	deriveInvoiceFields(t)
	tagInvoiceRows(t, cfg.FlagDueBeforeIssue)

	negDropped := 0
	if cfg.DropNegativeQty {
		negDropped = dropNegative(t, "quantity")
	}

	dupRemoved := 0
	if cfg.DropDuplicates {
		dupRemoved += dedupeExact(t)
		dupRemoved += dedupeFuzzy(t, cfg.FuzzyThreshold, cfg.Similarity)
	}

	currency := firstCurrency(t)
	canonicalOrder(t, InvoiceColumnOrder)

	summary := issuesSummary(t)
	result := &Result{
		Profile: Profile{
			RowsIn:             rowsIn,
			RowsOut:            t.Len(),
			DuplicatesRemoved:  dupRemoved,
			NegativeQtyDropped: negDropped,
			ErrorsFixed:        countFlaggedRows(t),
			CurrencyDetected:   currency,
		},
		IssuesSummary: summary,
		AIFeedback:    invoiceTips(dupRemoved, negDropped, summary, currency, t.HasColumn("currency")),
		HeaderMap:     headerMap,
		Preview: Preview{
			Before: before,
			After:  t.Head(previewRows),
		},
		Clean: t,
		AppliedRules: AppliedRules{
			FuzzyThreshold:     cfg.FuzzyThreshold,
			DropDuplicates:     cfg.DropDuplicates,
			DropNegativeQty:    cfg.DropNegativeQty,
			FlagDueBeforeIssue: cfg.FlagDueBeforeIssue,
		},
	}

	slog.Debug("invoice cleaning finished",
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", t.Len()),
		slog.Int("duplicates_removed", dupRemoved),
		slog.Int("negative_qty_dropped", negDropped))

	return result
}
