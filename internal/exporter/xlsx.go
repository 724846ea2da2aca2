package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"aibox/internal/tabular"
)

// DefaultSheetName is the sheet cleaned tables are written to.
const DefaultSheetName = "Cleaned"

// Column-name driven number formats, matched case-insensitively.
var (
	moneyColumns = map[string]bool{
		"unit_price": true, "line_total": true, "total_before_tax": true,
		"tax_amount": true, "total_amount": true,
	}
	quantityColumns = map[string]bool{
		"quantity": true, "qty_on_hand": true, "reorder_point": true,
	}
	percentColumns = map[string]bool{
		"tax_rate": true,
	}
)

const (
	moneyFormat    = "#,##0.00"
	quantityFormat = "#,##0"
	percentFormat  = "0.00%"
)

// WriteXLSX writes a cleaned table to a styled XLSX file: bold header
// row with a light fill, frozen top row, column widths measured from
// the data, and money/quantity/percent number formats chosen by
// canonical column name.
func WriteXLSX(path string, t *tabular.Table) error {
	slog.Info("Writing XLSX file",
		slog.String("path", path),
		slog.Int("record_count", t.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", DefaultSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	cols := t.Columns()
	for i, name := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(DefaultSheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	for rowIdx := 0; rowIdx < t.Len(); rowIdx++ {
		row := t.Row(rowIdx)
		for colIdx, name := range cols {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			v := row.Get(name)
			if n, ok := v.Float(); ok {
				err = f.SetCellValue(DefaultSheetName, cell, n)
			} else if v.IsNull() {
				continue
			} else {
				err = f.SetCellValue(DefaultSheetName, cell, v.Display())
			}
			if err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := applyColumnFormats(f, t); err != nil {
		return err
	}
	if err := applyHeaderStyle(f, len(cols)); err != nil {
		return err
	}

	// Freeze the header row
	if err := f.SetPanes(DefaultSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func applyHeaderStyle(f *excelize.File, numCols int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F5F5F5"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(numCols, 1)
	if err != nil {
		return fmt.Errorf("failed to compute header range: %w", err)
	}
	if err := f.SetCellStyle(DefaultSheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

func applyColumnFormats(f *excelize.File, t *tabular.Table) error {
	for i, name := range t.Columns() {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}

		if err := f.SetColWidth(DefaultSheetName, colName, colName, measureWidth(t, name)); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", colName, err)
		}

		format := ""
		switch low := strings.ToLower(name); {
		case moneyColumns[low]:
			format = moneyFormat
		case quantityColumns[low]:
			format = quantityFormat
		case percentColumns[low]:
			format = percentFormat
		}
		if format == "" {
			continue
		}
		fmtCopy := format
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCopy})
		if err != nil {
			return fmt.Errorf("failed to create number format style: %w", err)
		}
		if err := f.SetColStyle(DefaultSheetName, colName, style); err != nil {
			return fmt.Errorf("failed to style column %s: %w", colName, err)
		}
	}
	return nil
}

// measureWidth sizes a column from its header and a sample of its
// values, capped at 60 characters.
func measureWidth(t *tabular.Table, name string) float64 {
	const sample = 200
	max := len(name)
	for i := 0; i < t.Len() && i < sample; i++ {
		if l := len(t.Row(i).Get(name).Display()); l > max {
			max = l
		}
	}
	if max+2 > 60 {
		return 60
	}
	return float64(max + 2)
}
