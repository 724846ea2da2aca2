package cleaning

// IssuesColumn is the reserved column carrying the "|"-joined anomaly
// tags for each row. It is always the last output column.
const IssuesColumn = "__issues"

// InvoiceSynonyms maps normalized messy headers to canonical invoice
// columns. All keys are lowercase with collapsed whitespace.
var InvoiceSynonyms = map[string]string{
	// invoice id
	"invoice no":     "invoice_id",
	"invoice number": "invoice_id",
	"invoice":        "invoice_id",
	"invoice#":       "invoice_id",
	"invoice_num":    "invoice_id",
	"invid":          "invoice_id",
	"inv_id":         "invoice_id",
	"id facture":     "invoice_id",

	// dates
	"date":         "issue_date",
	"invoice date": "issue_date",
	"due":          "due_date",
	"due date":     "due_date",

	// customer
	"client":        "customer_name",
	"client name":   "customer_name",
	"customer":      "customer_name",
	"customer name": "customer_name",
	"customername":  "customer_name",
	"company":       "customer_name",
	"customer id":   "customer_id",

	// line description
	"item":        "item_description",
	"description": "item_description",

	// qty / price / totals
	"qty":        "quantity",
	"quantity":   "quantity",
	"price":      "unit_price",
	"unit price": "unit_price",
	"line total": "line_total",

	"subtotal":  "total_before_tax",
	"sub total": "total_before_tax",
	"ht":        "total_before_tax",

	"grand total": "total_amount",
	"ttc":         "total_amount",
	"amount":      "total_amount",
	"total":       "total_amount",

	"tax":      "tax_amount",
	"tva":      "tax_amount",
	"tax rate": "tax_rate",

	// misc
	"currency": "currency",
	"status":   "status",
}

// InvoiceColumnOrder is the canonical column order for cleaned invoice
// files. Unknown passthrough columns follow, then IssuesColumn.
var InvoiceColumnOrder = []string{
	"invoice_id", "issue_date", "due_date",
	"customer_name", "customer_id",
	"item_description", "quantity", "unit_price", "line_total",
	"currency", "tax_rate", "tax_amount",
	"total_before_tax", "total_amount",
	"status",
}

// StockSynonyms maps normalized messy headers to canonical stock columns.
var StockSynonyms = map[string]string{
	"sku":          "sku",
	"product":      "name",
	"product name": "name",
	"name":         "name",
	"item":         "name",

	"qty":         "qty_on_hand",
	"quantity":    "qty_on_hand",
	"qty_on_hand": "qty_on_hand",
	"on hand":     "qty_on_hand",
	"onhand":      "qty_on_hand",

	"reorder_point": "reorder_point",
	"reorder point": "reorder_point",
	"min qty":       "reorder_point",
	"minimum qty":   "reorder_point",

	"expiry":          "expiry_date",
	"expiry date":     "expiry_date",
	"expiration":      "expiry_date",
	"expiration date": "expiry_date",
	"expire date":     "expiry_date",
	"best before":     "expiry_date",
	"bbd":             "expiry_date",

	"supplier": "supplier",
	"vendor":   "supplier",
}

// StockColumnOrder is the canonical column order for cleaned stock files.
var StockColumnOrder = []string{
	"sku", "name", "supplier",
	"qty_on_hand", "reorder_point",
	"expiry_date",
}
