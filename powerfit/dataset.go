// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package powerfit

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/linalgbench/benchreduce/internal/texttab"
	"github.com/linalgbench/benchreduce/tables"
)

// MinSizes is the number of distinct matrix sizes a run needs before
// FitDataset fits it.
const MinSizes = 3

const colMedian = "median " + tables.ColTime

// A Fit is the result of fitting one run name across sizes.
type Fit struct {
	Name string

	// Sizes and Times are the distinct sizes in increasing order
	// and the median time at each.
	Sizes []int
	Times []float64

	Cubic, General Model

	// Err is set if the run could not be fitted.
	Err error
}

// FitDataset fits every run name in d that was measured at MinSizes
// or more distinct sizes. Repeated measurements at one size are
// reduced to their median first. Fits are in order of first
// appearance of each name.
func FitDataset(d *tables.Dataset) []*Fit {
	if d.Len() == 0 {
		return nil
	}
	g := table.GroupBy(d.Table(), tables.ColName)
	g = ggstat.Agg(tables.ColSize)(ggstat.AggQuantile("median", 0.5, tables.ColTime)).F(g)
	g = table.SortBy(g, tables.ColSize)

	var fits []*Fit
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		f := &Fit{
			Name:  gid.Label().(string),
			Sizes: t.MustColumn(tables.ColSize).([]int),
			Times: t.MustColumn(colMedian).([]float64),
		}
		fits = append(fits, f)
		if len(f.Sizes) < MinSizes {
			f.Err = fmt.Errorf("%d sizes, need %d", len(f.Sizes), MinSizes)
			continue
		}
		ns := make([]float64, len(f.Sizes))
		for i, n := range f.Sizes {
			ns[i] = float64(n)
		}
		if f.Cubic, f.Err = Cubic(ns, f.Times); f.Err != nil {
			continue
		}
		f.General, f.Err = General(ns, f.Times)
	}
	return fits
}

// Write writes fits to w as a text table.
func Write(w io.Writer, fits []*Fit) error {
	var tab texttab.Table
	tab.Row().Cell("name").Cell("sizes", texttab.Right).Cell("cubic").Cell("general")
	for _, f := range fits {
		tab.Row().Cell(f.Name).Cell(strconv.Itoa(len(f.Sizes)), texttab.Right)
		if f.Err != nil {
			tab.Cell("~ (" + f.Err.Error() + ")")
			continue
		}
		tab.Cell(f.Cubic.String()).Cell(f.General.String())
	}
	return tab.Format(w)
}
