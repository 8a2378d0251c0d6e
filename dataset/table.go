package dataset

import (
	"strings"
	"time"
)

// Table is a header plus rows of raw string cells. Every row has exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string

	// Set by ParseDates.
	dateField string
	dates     []time.Time
	valid     []bool
}

// NewTable builds a table, normalizing header names and padding or
// truncating rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	h := make([]string, len(header))
	for i, name := range header {
		h[i] = cleanCell(name)
	}
	if len(h) > 0 {
		h[0] = strings.TrimPrefix(h[0], "\ufeff")
	}

	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		r := make([]string, len(h))
		copy(r, row)
		normalized = append(normalized, r)
	}

	return &Table{Header: h, Rows: normalized}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the column of field, matching exactly first and then
// case-insensitively. Returns -1 when absent.
func (t *Table) Index(field string) int {
	for i, h := range t.Header {
		if h == field {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, field) {
			return i
		}
	}
	return -1
}

// Column returns the cells of field, or a SchemaError when absent.
func (t *Table) Column(field string) ([]string, error) {
	idx := t.Index(field)
	if idx < 0 {
		return nil, &SchemaError{Missing: []string{field}, Available: t.Header}
	}
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col, nil
}

// DateField returns the field parsed by ParseDates, or "" if dates have not
// been parsed.
func (t *Table) DateField() string {
	return t.dateField
}

// Date returns the parsed calendar day of row i and whether it parsed.
func (t *Table) Date(i int) (time.Time, bool) {
	if t.valid == nil || i < 0 || i >= len(t.valid) {
		return time.Time{}, false
	}
	return t.dates[i], t.valid[i]
}

// InvalidDates counts rows whose date failed to parse.
func (t *Table) InvalidDates() int {
	n := 0
	for _, ok := range t.valid {
		if !ok {
			n++
		}
	}
	return n
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\""))
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
