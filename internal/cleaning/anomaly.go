package cleaning

import (
	"strings"
	"time"

	"aibox/internal/tabular"
)

// Anomaly tags. Tags are informational: they never remove rows by
// themselves, the optional row filter and the deduplicator do that.
const (
	TagNegativeQty       = "NEGATIVE_QTY"
	TagNegativePrice     = "NEGATIVE_PRICE"
	TagDueBeforeIssue    = "DUE_BEFORE_ISSUE"
	TagTaxRateOutOfRange = "TAX_RATE_OUT_OF_RANGE"
	TagLowStock          = "LOW_STOCK"
	TagExpired           = "EXPIRED"
	TagExpiringSoon      = "EXPIRING_SOON"
)

// tagInvoiceRows evaluates the invoice anomaly rules on every row and
// writes the joined tags into the issues column. Rules run on the fully
// derived row so computed totals are available.
func tagInvoiceRows(t *tabular.Table, flagDueBeforeIssue bool) {
	t.EnsureColumn(IssuesColumn)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		var tags []string
		if q, ok := r.Get("quantity").Float(); ok && q < 0 {
			tags = append(tags, TagNegativeQty)
		}
		if p, ok := r.Get("unit_price").Float(); ok && p < 0 {
			tags = append(tags, TagNegativePrice)
		}
		if flagDueBeforeIssue {
			issue, iok := r.Get("issue_date").Time()
			due, dok := r.Get("due_date").Time()
			if iok && dok && due.Before(issue) {
				tags = append(tags, TagDueBeforeIssue)
			}
		}
		if rate, ok := r.Get("tax_rate").Float(); ok && (rate < 0 || rate > 0.5) {
			tags = append(tags, TagTaxRateOutOfRange)
		}
		r[IssuesColumn] = tabular.String(strings.Join(tags, "|"))
	}
}

// tagStockRows evaluates the stock anomaly rules. today bounds the
// EXPIRED / EXPIRING_SOON window; an expired item is never also tagged
// as expiring soon.
func tagStockRows(t *tabular.Table, today time.Time, daysExpiring int) {
	t.EnsureColumn(IssuesColumn)
	soonCutoff := today.AddDate(0, 0, daysExpiring)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		var tags []string
		q, qok := r.Get("qty_on_hand").Float()
		rop, ropOK := r.Get("reorder_point").Float()
		if qok && ropOK && q <= rop {
			tags = append(tags, TagLowStock)
		}
		if exp, ok := r.Get("expiry_date").Time(); ok {
			if exp.Before(today) {
				tags = append(tags, TagExpired)
			} else if !exp.After(soonCutoff) {
				tags = append(tags, TagExpiringSoon)
			}
		}
		if qok && q < 0 {
			tags = append(tags, TagNegativeQty)
		}
		r[IssuesColumn] = tabular.String(strings.Join(tags, "|"))
	}
}

// dropNegative removes rows whose value in col is negative; null
// passes. Removed rows carry their tags out of the table, so they do
// not appear in the issues summary. Returns the number of rows removed.
func dropNegative(t *tabular.Table, col string) int {
	if !t.HasColumn(col) {
		return 0
	}
	return t.Filter(func(r tabular.Row) bool {
		v, ok := r.Get(col).Float()
		return !ok || v >= 0
	})
}
