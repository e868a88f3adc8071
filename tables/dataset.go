// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tables turns a combined benchmark dataset into one table per
// matrix size.
//
// The input is the whitespace-delimited output of merge, one run per
// line:
//
//	<name> <size> <time,sec> <cpu,%> <mem>[GB] [unit]
//
// A sixth field, if present, is a unit and is ignored. A trailing "GB"
// on the memory field is removed. Memory values that still do not
// parse are treated as missing rather than as errors; every other
// malformed line makes the whole dataset unreadable.
package tables

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"

	"github.com/linalgbench/benchreduce/internal/lineread"
)

// Column names, as they appear in table headers and CSV output.
const (
	ColName = "Name"
	ColSize = "size"
	ColTime = "time,sec"
	ColCPU  = "cpu,%"
	ColMem  = "Mem,GB"
)

// A Row is one run in a Dataset. Missing values are NaN.
type Row struct {
	Name string
	Size int
	Time float64
	CPU  float64
	Mem  float64
}

// A Dataset is a parsed combined dataset.
type Dataset struct {
	// File is the name the dataset was read from.
	File string

	t *table.Table
}

// A SyntaxError reports a malformed dataset line.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
	Text     string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// maxLineLen is the longest line Read accepts.
const maxLineLen = 64 << 10

// Read reads a whole dataset from r. fileName is used in errors. Any
// malformed line is fatal: Read returns a *SyntaxError and no Dataset.
func Read(r io.Reader, fileName string) (*Dataset, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	var rows []Row
	s := lineread.NewReader(r, maxLineLen)
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		if s.TooLong() {
			return nil, &SyntaxError{fileName, line, fmt.Sprintf("line too long (%d bytes, limit %d)", s.Len(), maxLineLen), text[:80] + "...", nil}
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		row, msg, err := parseRow(fields)
		if msg != "" {
			return nil, &SyntaxError{fileName, line, msg, text, err}
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, line+1, err)
	}
	return NewDataset(fileName, rows), nil
}

// parseRow parses the fields of one line. On failure it returns a
// non-empty message and, if there was one, the underlying error.
func parseRow(fields []string) (row Row, msg string, err error) {
	if len(fields) != 5 && len(fields) != 6 {
		return row, fmt.Sprintf("want 5 or 6 fields, got %d", len(fields)), nil
	}
	row.Name = fields[0]
	row.Size, err = strconv.Atoi(fields[1])
	if err != nil {
		return row, fmt.Sprintf("parsing size: %v", err), err
	}
	if row.Size <= 0 {
		return row, fmt.Sprintf("size %d is not positive", row.Size), nil
	}
	row.Time, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return row, fmt.Sprintf("parsing time: %v", err), err
	}
	if math.IsNaN(row.Time) || math.IsInf(row.Time, 0) {
		return row, fmt.Sprintf("time %v is not finite", row.Time), nil
	}
	if row.Time < 0 {
		return row, fmt.Sprintf("time %v is negative", row.Time), nil
	}
	row.CPU, err = strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return row, fmt.Sprintf("parsing cpu: %v", err), err
	}
	if math.IsNaN(row.CPU) || math.IsInf(row.CPU, 0) {
		return row, fmt.Sprintf("cpu %v is not finite", row.CPU), nil
	}
	if row.CPU < 0 {
		return row, fmt.Sprintf("cpu %v is negative", row.CPU), nil
	}
	row.Mem = parseMem(fields[4])
	return row, "", nil
}

// parseMem parses a memory field, with or without a "GB" suffix. It
// returns NaN if the value is not a finite number.
func parseMem(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "GB"), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// NewDataset returns a Dataset holding rows.
func NewDataset(fileName string, rows []Row) *Dataset {
	names := make([]string, len(rows))
	sizes := make([]int, len(rows))
	times := make([]float64, len(rows))
	cpus := make([]float64, len(rows))
	mems := make([]float64, len(rows))
	for i, r := range rows {
		names[i], sizes[i], times[i], cpus[i], mems[i] = r.Name, r.Size, r.Time, r.CPU, r.Mem
	}
	t := new(table.Builder).
		Add(ColName, names).
		Add(ColSize, sizes).
		Add(ColTime, times).
		Add(ColCPU, cpus).
		Add(ColMem, mems).
		Done()
	return &Dataset{File: fileName, t: t}
}

// Len returns the number of rows in d.
func (d *Dataset) Len() int {
	return d.t.Len()
}

// Table returns d as a go-gg table with columns ColName, ColSize,
// ColTime, ColCPU and ColMem.
func (d *Dataset) Table() *table.Table {
	return d.t
}

// Rows returns all rows of d in input order.
func (d *Dataset) Rows() []Row {
	return rowsOf(d.t)
}

// A Group is the set of rows of a Dataset that share a matrix size.
type Group struct {
	Size int
	t    *table.Table
}

// Groups partitions d by size. Groups are in increasing size order;
// rows within a group keep their input order.
func (d *Dataset) Groups() []*Group {
	g := table.GroupBy(d.t, ColSize)
	var out []*Group
	for _, gid := range g.Tables() {
		out = append(out, &Group{Size: gid.Label().(int), t: g.Table(gid)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out
}

// Sizes returns the distinct sizes in d in increasing order.
func (d *Dataset) Sizes() []int {
	var sizes []int
	for _, g := range d.Groups() {
		sizes = append(sizes, g.Size)
	}
	return sizes
}

// Rows returns the rows of g in input order.
func (g *Group) Rows() []Row {
	return rowsOf(g.t)
}

// SortedRows returns the rows of g ordered by name.
func (g *Group) SortedRows() []Row {
	return rowsOf(table.Flatten(table.SortBy(g.t, ColName)))
}

func rowsOf(t *table.Table) []Row {
	if t.Len() == 0 {
		return nil
	}
	names := t.MustColumn(ColName).([]string)
	sizes := t.MustColumn(ColSize).([]int)
	times := t.MustColumn(ColTime).([]float64)
	cpus := t.MustColumn(ColCPU).([]float64)
	mems := t.MustColumn(ColMem).([]float64)
	rows := make([]Row, len(names))
	for i := range rows {
		rows[i] = Row{names[i], sizes[i], times[i], cpus[i], mems[i]}
	}
	return rows
}
