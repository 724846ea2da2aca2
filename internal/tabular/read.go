package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV parses CSV bytes into a table. The first record is the header
// row; short records are padded with nulls, long records truncated.
// Empty cells become null so downstream phases see a uniform "missing"
// representation.
func ReadCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	t := newFromHeader(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		t.appendRecord(header, record)
	}
	return t, nil
}

// ReadXLSX parses XLSX bytes into a table using the first sheet.
// Row one is the header row.
func ReadXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	t := newFromHeader(header)
	for _, record := range rows[1:] {
		t.appendRecord(header, record)
	}
	return t, nil
}

// ReadFile dispatches on the file extension. Only .csv and .xlsx are
// supported; the HTTP boundary enforces the same restriction up front.
func ReadFile(name string, data []byte) (*Table, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".csv"):
		return ReadCSV(data)
	case strings.HasSuffix(strings.ToLower(name), ".xlsx"):
		return ReadXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

func newFromHeader(header []string) *Table {
	t := &Table{}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if !seen[h] {
			t.cols = append(t.cols, h)
			seen[h] = true
		}
	}
	return t
}

func (t *Table) appendRecord(header, record []string) {
	row := make(Row, len(header))
	for i, h := range header {
		if i >= len(record) {
			row[h] = Null()
			continue
		}
		cell := record[i]
		if strings.TrimSpace(cell) == "" {
			row[h] = Null()
		} else {
			row[h] = String(cell)
		}
	}
	t.Append(row)
}
