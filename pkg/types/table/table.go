// Package table defines the in-memory tabular data set shared by the dataset
// loaders and the chart builders.
package table

import (
	"strings"
)

// Table is a header row plus string cells.  Every row has len(Columns) cells;
// loaders pad or reject ragged input before building a Table.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New builds a Table, trimming a UTF-8 byte order mark and surrounding
// whitespace from header names.
func New(columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		cols[i] = strings.TrimSpace(c)
	}
	return &Table{Columns: cols, Rows: rows}
}

// ColumnIndex returns the position of the named column, or -1.  Matching is
// exact first, then case-insensitive.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column and whether it exists.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
