package tabular

import "sort"

// Row maps column names to cell values. Missing keys read as null.
type Row map[string]Value

// Get returns the cell under name, or null when the column is absent.
func (r Row) Get(name string) Value {
	if v, ok := r[name]; ok {
		return v
	}
	return Null()
}

// Table is an ordered set of columns over an ordered sequence of rows.
// The schema is open: rows may carry columns the caller never declared,
// but only declared columns are materialized on output.
type Table struct {
	cols []string
	rows []Row
}

// New creates an empty table with the given column order.
func New(cols ...string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Columns returns the column order. The slice must not be mutated.
func (t *Table) Columns() []string { return t.cols }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Append adds a row at the end.
func (t *Table) Append(r Row) { t.rows = append(t.rows, r) }

// HasColumn reports whether name is part of the declared column order.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// EnsureColumn declares name as the last column if not already present.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.cols = append(t.cols, name)
	}
}

// Apply replaces every cell of the named column with fn(cell).
// A no-op when the column is not declared.
func (t *Table) Apply(name string, fn func(Value) Value) {
	if !t.HasColumn(name) {
		return
	}
	for _, r := range t.rows {
		r[name] = fn(r.Get(name))
	}
}

// Rename applies an original→target column renaming in declaration order.
// When two originals map to the same target the later column wins: its
// values overwrite the earlier one's, while the target keeps the position
// of the first occurrence.
func (t *Table) Rename(mapping map[string]string) {
	var newCols []string
	seen := make(map[string]bool, len(t.cols))
	for _, c := range t.cols {
		target, ok := mapping[c]
		if !ok {
			target = c
		}
		if !seen[target] {
			newCols = append(newCols, target)
			seen[target] = true
		}
		if target == c {
			continue
		}
		for _, r := range t.rows {
			if v, ok := r[c]; ok {
				r[target] = v
				delete(r, c)
			}
		}
	}
	t.cols = newCols
}

// Reorder sets a new column order. Columns absent from order are dropped
// from materialized output; row data is untouched.
func (t *Table) Reorder(order []string) {
	t.cols = append([]string(nil), order...)
}

// Filter keeps only rows for which keep returns true, preserving order.
// Returns the number of rows removed.
func (t *Table) Filter(keep func(Row) bool) int {
	kept := t.rows[:0]
	for _, r := range t.rows {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	removed := len(t.rows) - len(kept)
	t.rows = kept
	return removed
}

// DeleteRows removes the rows at the given indices, computed against the
// current frame. Indices may arrive in any order.
func (t *Table) DeleteRows(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	kept := t.rows[:0]
	for i, r := range t.rows {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	t.rows = kept
}

// SortStable stably sorts rows by the given comparison.
func (t *Table) SortStable(less func(a, b Row) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool { return less(t.rows[i], t.rows[j]) })
}

// Records materializes every row against the declared column order,
// nulls rendered as empty strings.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		rec := make([]string, len(t.cols))
		for i, c := range t.cols {
			rec[i] = r.Get(c).Display()
		}
		out = append(out, rec)
	}
	return out
}

// Head materializes at most n leading rows, same shape as Records.
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([][]string, 0, n)
	for _, r := range t.rows[:n] {
		rec := make([]string, len(t.cols))
		for i, c := range t.cols {
			rec[i] = r.Get(c).Display()
		}
		out = append(out, rec)
	}
	return out
}
