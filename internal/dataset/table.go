// Package dataset holds the tabular listing dataset and the normalizer that
// turns raw scraped text into typed columns.
package dataset

import (
	"fmt"
	"strconv"
)

// Kind is the type of a cell value
type Kind uint8

const (
	// Missing marks an absent or unparseable value
	Missing Kind = iota
	// Text is a string value
	Text
	// Number is a numeric value
	Number
)

// Cell is one value in a Table
type Cell struct {
	kind Kind
	text string
	num  float64
}

// TextCell returns a text cell
func TextCell(s string) Cell {
	return Cell{kind: Text, text: s}
}

// NumberCell returns a numeric cell
func NumberCell(f float64) Cell {
	return Cell{kind: Number, num: f}
}

// MissingCell returns a missing-value cell
func MissingCell() Cell {
	return Cell{}
}

// Kind returns the cell kind
func (c Cell) Kind() Kind { return c.kind }

// IsMissing reports whether the cell holds no value
func (c Cell) IsMissing() bool { return c.kind == Missing }

// Number returns the numeric value, if the cell holds one
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == Number
}

// String renders the cell for output; missing values render empty
func (c Cell) String() string {
	switch c.kind {
	case Text:
		return c.text
	case Number:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Table is an ordered set of named columns over rows of cells
type Table struct {
	columns []string
	rows    [][]Cell
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the cells of row i
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// AppendRow appends one row; it must have one cell per column
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Cell(nil), cells...))
	return nil
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell at row i in the named column; missing if absent
func (t *Table) Value(i int, column string) Cell {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return MissingCell()
	}
	return t.rows[i][idx]
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		columns: t.Columns(),
		rows:    make([][]Cell, len(t.rows)),
	}
	for i, row := range t.rows {
		out.rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// MapColumn replaces every cell of a column with fn(cell).
// It reports false when the column does not exist.
func (t *Table) MapColumn(name string, fn func(Cell) Cell) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}
	for _, row := range t.rows {
		row[idx] = fn(row[idx])
	}
	return true
}

// SplitColumn replaces a column with len(into) derived columns at the same
// position. fn must return exactly len(into) cells; short results are padded
// with missing values.
func (t *Table) SplitColumn(name string, into []string, fn func(Cell) []Cell) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}

	t.columns = splice(t.columns, idx, 1, into)
	for i, row := range t.rows {
		parts := fn(row[idx])
		derived := make([]Cell, len(into))
		copy(derived, parts)
		t.rows[i] = splice(row, idx, 1, derived)
	}
	return true
}

// InsertAfter adds a column derived from an existing one right after it
func (t *Table) InsertAfter(name, column string, fn func(Cell) Cell) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}

	t.columns = splice(t.columns, idx+1, 0, []string{column})
	for i, row := range t.rows {
		t.rows[i] = splice(row, idx+1, 0, []Cell{fn(row[idx])})
	}
	return true
}

// DropColumn removes a column
func (t *Table) DropColumn(name string) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}

	t.columns = splice(t.columns, idx, 1, nil)
	for i, row := range t.rows {
		t.rows[i] = splice(row, idx, 1, nil)
	}
	return true
}

// RenameColumns renames every column through fn
func (t *Table) RenameColumns(fn func(string) string) {
	for i, c := range t.columns {
		t.columns[i] = fn(c)
	}
}

// splice returns a new slice with n elements at idx replaced by insert
func splice[T any](s []T, idx, n int, insert []T) []T {
	out := make([]T, 0, len(s)-n+len(insert))
	out = append(out, s[:idx]...)
	out = append(out, insert...)
	return append(out, s[idx+n:]...)
}
