// Package cleaning implements the tabular cleaning pipelines for messy
// invoice and stock exports. Both pipelines share the same phases:
// header mapping, type normalization, derived-field computation
// (invoices only), anomaly tagging, the optional negative-quantity
// filter, duplicate elimination (invoices only), and summary building.
//
// The pipelines are total over messy content: cell-level parse failures
// degrade to null and missing columns skip the phases that need them,
// so any non-empty table cleans to completion.
//
// Basic invoice cleaning:
//
//	table, err := tabular.ReadCSV(data)
//	if err != nil {
//	    return err
//	}
//	result := cleaning.CleanInvoices(table, cleaning.DefaultConfig())
//
// Stock cleaning with a custom expiry window:
//
//	opts := cleaning.DefaultStockOptions()
//	opts.DaysExpiring = 14
//	result := cleaning.CleanStock(table, opts)
package cleaning
