// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	rows [][]textCell
	cols int

	// headerRows is the number of leading rows that FormatGrid
	// separates from the body with a double rule.
	headerRows int
}

type textCell struct {
	value     string
	alignment align
}

// A CellOption modifies a single cell.
type CellOption func(c *textCell)

var (
	Left   CellOption = func(c *textCell) { c.alignment = alignLeft }
	Center CellOption = func(c *textCell) { c.alignment = alignCenter }
	Right  CellOption = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// pad pads s with spaces to width w according to a.
func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		l := n / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
	case alignRight:
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Col skips to column "col" in the current row, filling skipped
// columns with empty cells. Columns are numbered starting at 0.
func (t *Table) Col(col int) *Table {
	row := t.cur()
	if col < len(*row) {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", len(*row), col))
	}
	for len(*row) < col {
		*row = append(*row, textCell{})
	}
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	row := t.cur()
	c := textCell{value: value}
	for _, o := range opts {
		o(&c)
	}
	*row = append(*row, c)
	if len(*row) > t.cols {
		t.cols = len(*row)
	}
	return t
}

// SetHeader marks the first n rows of t as header rows.
func (t *Table) SetHeader(n int) {
	t.headerRows = n
}

func (t *Table) cur() *[]textCell {
	if len(t.rows) == 0 {
		t.Row()
	}
	return &t.rows[len(t.rows)-1]
}

// widths returns the width of each column.
func (t *Table) widths() []int {
	ws := make([]int, t.cols)
	for _, row := range t.rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}
	return ws
}

// Format lays out table t with one space between columns and writes it
// to w. Trailing empty cells are not printed.
func (t *Table) Format(w io.Writer) error {
	ws := t.widths()
	var buf strings.Builder
	for _, row := range t.rows {
		// Trim trailing empty cells.
		n := len(row)
		for n > 0 && row[n-1].value == "" {
			n--
		}
		buf.Reset()
		for i, c := range row[:n] {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if i == n-1 && c.alignment == alignLeft {
				// No trailing spaces at the end of a line.
				buf.WriteString(c.value)
				continue
			}
			buf.WriteString(c.alignment.pad(c.value, ws[i]))
		}
		buf.WriteByte('\n')
		if _, err := io.WriteString(w, buf.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatGrid lays out table t with ruled borders around every cell and
// writes it to w:
//
//	+------+-----+
//	| name | val |
//	+======+=====+
//	| a    |   1 |
//	+------+-----+
func (t *Table) FormatGrid(w io.Writer) error {
	if len(t.rows) == 0 {
		return nil
	}
	ws := t.widths()
	rule := func(ch string) string {
		var b strings.Builder
		b.WriteByte('+')
		for _, cw := range ws {
			b.WriteString(strings.Repeat(ch, cw+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
		return b.String()
	}
	thin, thick := rule("-"), rule("=")

	var buf strings.Builder
	buf.WriteString(thin)
	for r, row := range t.rows {
		buf.WriteByte('|')
		for i := 0; i < t.cols; i++ {
			var c textCell
			if i < len(row) {
				c = row[i]
			}
			buf.WriteByte(' ')
			buf.WriteString(c.alignment.pad(c.value, ws[i]))
			buf.WriteString(" |")
		}
		buf.WriteByte('\n')
		if r+1 == t.headerRows && r+1 < len(t.rows) {
			buf.WriteString(thick)
		} else {
			buf.WriteString(thin)
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
