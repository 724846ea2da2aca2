package cleaning

import (
	"fmt"
	"strings"

	"aibox/internal/tabular"
)

// previewRows is the number of rows shown in before/after previews.
const previewRows = 10

// canonicalOrder rearranges the table columns: known canonical columns
// in fixed order, then surviving unknown columns in their current
// order, then the issues column last.
func canonicalOrder(t *tabular.Table, canonical []string) {
	known := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		known[c] = true
	}
	var ordered []string
	for _, c := range canonical {
		if t.HasColumn(c) {
			ordered = append(ordered, c)
		}
	}
	for _, c := range t.Columns() {
		if !known[c] && c != IssuesColumn {
			ordered = append(ordered, c)
		}
	}
	ordered = append(ordered, IssuesColumn)
	t.Reorder(ordered)
}

// issuesSummary counts rows per distinct tag. A row with two tags
// contributes to two counts.
func issuesSummary(t *tabular.Table) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		issues := t.Row(i).Get(IssuesColumn).Display()
		if issues == "" {
			continue
		}
		for _, tag := range strings.Split(issues, "|") {
			if tag != "" {
				counts[tag]++
			}
		}
	}
	return counts
}

// countFlaggedRows counts rows carrying at least one tag.
func countFlaggedRows(t *tabular.Table) int {
	n := 0
	for i := 0; i < t.Len(); i++ {
		if t.Row(i).Get(IssuesColumn).Display() != "" {
			n++
		}
	}
	return n
}

// firstCurrency returns the first non-null currency code in row order,
// or nil when the column is absent or entirely null.
func firstCurrency(t *tabular.Table) *string {
	if !t.HasColumn("currency") {
		return nil
	}
	for i := 0; i < t.Len(); i++ {
		if v := t.Row(i).Get("currency"); !v.IsNull() {
			code := v.Display()
			return &code
		}
	}
	return nil
}

// invoiceTips derives advisory messages from the run counts via fixed
// rule-to-message bindings.
func invoiceTips(dupRemoved, negDropped int, summary map[string]int, currency *string, hasCurrencyCol bool) []string {
	var tips []string
	if dupRemoved > 0 {
		tips = append(tips, fmt.Sprintf("Removed %d duplicate rows. Consider adding unique invoice IDs upstream.", dupRemoved))
	}
	if negDropped > 0 {
		tips = append(tips, fmt.Sprintf("Dropped %d rows with negative quantities.", negDropped))
	}
	if summary[TagDueBeforeIssue] > 0 {
		tips = append(tips, "Some invoices have due_date before issue_date; enforce date validation.")
	}
	if summary[TagTaxRateOutOfRange] > 0 {
		tips = append(tips, "Tax rate out of expected range (0-50%); verify tax tables.")
	}
	if currency == nil && hasCurrencyCol {
		tips = append(tips, "Missing currency codes; standardize to ISO-4217 (e.g., USD, EUR, GBP).")
	}
	if len(tips) == 0 {
		tips = append(tips, "No critical anomalies detected under current settings.")
	}
	return tips
}

func stockTips(summary map[string]int, negDropped int) []string {
	var tips []string
	if summary[TagLowStock] > 0 {
		tips = append(tips, "Some items are below or equal to reorder point; reorder suggested.")
	}
	if summary[TagExpiringSoon] > 0 {
		tips = append(tips, "Items expiring soon; consider promotions or returns.")
	}
	if summary[TagExpired] > 0 {
		tips = append(tips, "Expired items found; remove from sellable stock.")
	}
	if negDropped > 0 {
		tips = append(tips, fmt.Sprintf("Dropped %d rows with negative quantities.", negDropped))
	}
	if len(tips) == 0 {
		tips = append(tips, "No critical stock anomalies detected under current settings.")
	}
	return tips
}
