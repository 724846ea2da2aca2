package cleaning

import "aibox/internal/tabular"

// The derivation chain is an explicit ordered sequence of steps so the
// fill policy per field stays auditable: line_total is always recomputed
// when its inputs allow, every later field fills only when null.
//
// Order matters: line totals feed the per-invoice sums, the sums feed
// tax, tax feeds the final total.
type deriveStep struct {
	name  string
	apply func(t *tabular.Table)
}

var invoiceDerivation = []deriveStep{
	{"line_total", recomputeLineTotals},
	{"total_before_tax", fillTotalBeforeTax},
	{"tax_amount", fillTaxAmount},
	{"total_amount", fillTotalAmount},
}

func deriveInvoiceFields(t *tabular.Table) {
	for _, step := range invoiceDerivation {
		step.apply(t)
	}
}

// recomputeLineTotals overrides line_total with quantity*unit_price
// whenever both inputs are present, favoring freshly computed accuracy
// over stale input. Otherwise the parsed existing value stands.
func recomputeLineTotals(t *tabular.Table) {
	t.EnsureColumn("line_total")
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		q, qok := r.Get("quantity").Float()
		p, pok := r.Get("unit_price").Float()
		if qok && pok {
			r["line_total"] = tabular.Number(round2(q * p))
		}
	}
}

// fillTotalBeforeTax sums line_total per invoice_id (rows with a null id
// form their own group) and fills total_before_tax where null. Without
// an invoice_id column the whole aggregation is skipped; the remaining
// fill steps then see whatever total_before_tax already holds.
func fillTotalBeforeTax(t *tabular.Table) {
	if !t.HasColumn("invoice_id") {
		return
	}
	sums := make(map[string]float64)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if lt, ok := r.Get("line_total").Float(); ok {
			sums[groupKey(r)] += lt
		} else {
			sums[groupKey(r)] += 0
		}
	}
	t.EnsureColumn("total_before_tax")
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if !r.Get("total_before_tax").IsNull() {
			continue
		}
		r["total_before_tax"] = tabular.Number(round2(sums[groupKey(r)]))
	}
}

// groupKey distinguishes the null-id group from an id that happens to
// render empty.
func groupKey(r tabular.Row) string {
	v := r.Get("invoice_id")
	if v.IsNull() {
		return "\x00null"
	}
	return v.Display()
}

func fillTaxAmount(t *tabular.Table) {
	if !t.HasColumn("invoice_id") || !t.HasColumn("tax_rate") {
		return
	}
	t.EnsureColumn("tax_amount")
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if !r.Get("tax_amount").IsNull() {
			continue
		}
		tbt, tok := r.Get("total_before_tax").Float()
		rate, rok := r.Get("tax_rate").Float()
		if tok && rok {
			r["tax_amount"] = tabular.Number(round2(tbt * rate))
		}
	}
}

func fillTotalAmount(t *tabular.Table) {
	if !t.HasColumn("invoice_id") {
		return
	}
	t.EnsureColumn("total_amount")
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if !r.Get("total_amount").IsNull() {
			continue
		}
		tbt, ok := r.Get("total_before_tax").Float()
		if !ok {
			continue
		}
		tax, _ := r.Get("tax_amount").Float()
		r["total_amount"] = tabular.Number(round2(tbt + tax))
	}
}
