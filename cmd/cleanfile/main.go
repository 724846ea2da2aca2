// Command cleanfile runs the cleaning pipelines over local CSV/XLSX
// files without the HTTP boundary. Files are cleaned concurrently and
// each writes a *_cleaned.csv or *_cleaned.xlsx sibling.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"aibox/internal/cleaning"
	"aibox/internal/exporter"
	"aibox/internal/tabular"
)

func main() {
	var (
		kind         = flag.String("kind", "invoices", "schema to clean: invoices or stock")
		format       = flag.String("fmt", "csv", "output format: csv or xlsx")
		fuzzy        = flag.Int("fuzzy", 90, "fuzzy duplicate similarity threshold (0-100)")
		keepDupes    = flag.Bool("keep-dupes", false, "skip the duplicate removal passes")
		dropNegQty   = flag.Bool("drop-negative-qty", false, "drop rows with negative quantities")
		daysExpiring = flag.Int("days-expiring", 30, "EXPIRING_SOON window in days (stock)")
		workers      = flag.Int("workers", 4, "number of files cleaned concurrently")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: cleanfile [flags] file.csv [file.xlsx ...]")
		os.Exit(2)
	}
	if *kind != "invoices" && *kind != "stock" {
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return cleanOne(path, *kind, *format, *fuzzy, !*keepDupes, *dropNegQty, *daysExpiring)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func cleanOne(path, kind, format string, fuzzy int, dropDupes, dropNegQty bool, daysExpiring int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, err := tabular.ReadFile(path, data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var profile any
	switch kind {
	case "stock":
		result := cleaning.CleanStock(table, cleaning.StockOptions{
			DaysExpiring:    daysExpiring,
			DropNegativeQty: dropNegQty,
		})
		table, profile = result.Clean, result.Profile
	default:
		result := cleaning.CleanInvoices(table, cleaning.Config{
			FuzzyThreshold:     fuzzy,
			DropDuplicates:     dropDupes,
			DropNegativeQty:    dropNegQty,
			FlagDueBeforeIssue: true,
		})
		table, profile = result.Clean, result.Profile
	}

	out := outputPath(path, format)
	if format == "xlsx" {
		err = exporter.WriteXLSX(out, table)
	} else {
		err = exporter.WriteCSV(out, table, exporter.CSVOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	summary, _ := json.Marshal(profile)
	fmt.Printf("%s -> %s %s\n", path, out, summary)
	return nil
}

func outputPath(path, format string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "_cleaned." + format
}
