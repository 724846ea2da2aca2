// Package exporter persists cleaned tables as CSV or cosmetically
// formatted XLSX files. Formatting is driven purely by canonical column
// names; unknown passthrough columns are written as-is.
package exporter
