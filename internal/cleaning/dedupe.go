package cleaning

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	"aibox/internal/tabular"
)

// SimilarityFunc scores two strings on a 0-100 scale, 100 meaning equal.
type SimilarityFunc func(a, b string) int

// LevenshteinRatio is the default similarity: the edit distance
// normalized against the summed string lengths, scaled to 0-100.
// Two empty strings score 100.
func LevenshteinRatio(a, b string) int {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

// dedupeExact drops rows that duplicate an earlier row on
// (invoice_id, item_description, line_total), keeping the first
// occurrence in original order. Requires an invoice_id column; the
// other two key parts read as null when absent.
func dedupeExact(t *tabular.Table) int {
	if !t.HasColumn("invoice_id") {
		return 0
	}
	seen := make(map[string]bool, t.Len())
	return t.Filter(func(r tabular.Row) bool {
		key := strings.Join([]string{
			r.Get("invoice_id").Display(),
			r.Get("item_description").Display(),
			r.Get("line_total").Display(),
		}, "\x1f")
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// dedupeFuzzy removes near-duplicate rows: after a stable sort by
// (customer_name, issue_date) each row is compared with the immediately
// preceding row of the sorted frame, and marked for removal when the
// total_amount difference is within 0.01 and the customer names score at
// or above the threshold. Marks are collected against the pre-deletion
// frame and applied after the full scan, so a row is compared with its
// predecessor whether or not that predecessor is itself marked. Rows
// are never re-compared against earlier survivors: a near-duplicate of
// the first row that sorts two positions later can survive.
func dedupeFuzzy(t *tabular.Table, threshold int, similarity SimilarityFunc) int {
	if !t.HasColumn("customer_name") || !t.HasColumn("total_amount") || !t.HasColumn("issue_date") {
		return 0
	}
	if similarity == nil {
		similarity = LevenshteinRatio
	}

	t.SortStable(func(a, b tabular.Row) bool {
		if c := compareValues(a.Get("customer_name"), b.Get("customer_name")); c != 0 {
			return c < 0
		}
		return compareValues(a.Get("issue_date"), b.Get("issue_date")) < 0
	})

	var toDrop []int
	for i := 1; i < t.Len(); i++ {
		prev, cur := t.Row(i-1), t.Row(i)
		pa, _ := prev.Get("total_amount").Float()
		ca, _ := cur.Get("total_amount").Float()
		if math.Abs(ca-pa) > 0.01 {
			continue
		}
		if similarity(prev.Get("customer_name").Display(), cur.Get("customer_name").Display()) >= threshold {
			toDrop = append(toDrop, i)
		}
	}
	t.DeleteRows(toDrop)
	return len(toDrop)
}

// compareValues orders two cells for the dedup sort. Nulls sort last;
// otherwise dates compare as dates and everything else as its display
// string.
func compareValues(a, b tabular.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return 1
	case b.IsNull():
		return -1
	}
	if at, aok := a.Time(); aok {
		if bt, bok := b.Time(); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.Display(), b.Display())
}
