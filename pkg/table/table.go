package table

import (
	"encoding/csv"
	"io"
	"strings"
)

// Table is an in-memory tabular file: one header row plus data rows. Rows are
// always padded to the header width.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// Normalize is the column-name comparison key used everywhere: trimmed and
// lowercased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ColumnIndex finds a column by normalized name, or -1.
func (t *Table) ColumnIndex(name string) int {
	want := Normalize(name)
	for i, h := range t.Header {
		if Normalize(h) == want {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column exists.
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return false
		}
	}
	return true
}

// SetColumn writes a column by name: an existing column with that name is
// overwritten in place, otherwise the column is appended. Values running
// short are padded with Empty.
func (t *Table) SetColumn(name string, values []Cell) {
	if idx := t.ColumnIndex(name); idx >= 0 {
		for i := range t.Rows {
			if i < len(values) {
				t.Rows[i][idx] = values[i]
			} else {
				t.Rows[i][idx] = Empty()
			}
		}
		return
	}

	t.Header = append(t.Header, name)
	for i := range t.Rows {
		if i < len(values) {
			t.Rows[i] = append(t.Rows[i], values[i])
		} else {
			t.Rows[i] = append(t.Rows[i], Empty())
		}
	}
}

// DropColumns removes the named columns when present.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[int]struct{})
	for _, n := range names {
		if idx := t.ColumnIndex(n); idx >= 0 {
			drop[idx] = struct{}{}
		}
	}
	t.dropIndexes(drop)
}

// DropEmptyColumns removes every column whose cells are all empty. Columns
// are tracked by index so duplicate header names cannot confuse the drop.
func (t *Table) DropEmptyColumns() {
	drop := make(map[int]struct{})
	for i := range t.Header {
		allEmpty := true
		for _, row := range t.Rows {
			if !row[i].IsEmpty() {
				allEmpty = false
				break
			}
		}
		if allEmpty {
			drop[i] = struct{}{}
		}
	}
	t.dropIndexes(drop)
}

func (t *Table) dropIndexes(drop map[int]struct{}) {
	if len(drop) == 0 {
		return
	}

	keepHeader := t.Header[:0:0]
	for i, h := range t.Header {
		if _, gone := drop[i]; !gone {
			keepHeader = append(keepHeader, h)
		}
	}
	for r, row := range t.Rows {
		keepRow := row[:0:0]
		for i, cell := range row {
			if _, gone := drop[i]; !gone {
				keepRow = append(keepRow, cell)
			}
		}
		t.Rows[r] = keepRow
	}
	t.Header = keepHeader
}

// FilterRows keeps only the rows for which keep returns true.
func (t *Table) FilterRows(keep func(row []Cell) bool) {
	kept := t.Rows[:0:0]
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// Truncate drops the row at index and everything after it.
func (t *Table) Truncate(index int) {
	if index >= 0 && index < len(t.Rows) {
		t.Rows = t.Rows[:index]
	}
}

// WriteCSV serializes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i := range record {
			if i < len(row) {
				record[i] = row[i].String()
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
