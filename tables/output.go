// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/safehtml/template"
	"github.com/linalgbench/benchreduce/internal/texttab"
)

// formatValue formats x for display with six decimal places. Missing
// values format as the empty string.
func formatValue(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// formatCSV formats x with the smallest number of digits that
// round-trips, for consumption by other programs.
func formatCSV(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// WriteText writes g to w as a ruled text table, preceded by a blank
// line and a "Size: N" heading. Rows are ordered by name.
func WriteText(w io.Writer, g *Group) error {
	if _, err := fmt.Fprintf(w, "\nSize: %d\n", g.Size); err != nil {
		return err
	}
	var tab texttab.Table
	tab.Row().Cell(ColName).Cell(ColTime).Cell(ColCPU).Cell(ColMem)
	tab.SetHeader(1)
	for _, r := range g.SortedRows() {
		tab.Row().Cell(r.Name)
		tab.Cell(formatValue(r.Time), texttab.Right)
		tab.Cell(formatValue(r.CPU), texttab.Right)
		tab.Cell(formatValue(r.Mem), texttab.Right)
	}
	return tab.FormatGrid(w)
}

// WriteCSV writes the rows of g to w as CSV, in input order, with a
// header line.
func WriteCSV(w io.Writer, g *Group) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{ColName, ColSize, ColTime, ColCPU, ColMem})
	for _, r := range g.Rows() {
		cw.Write([]string{r.Name, strconv.Itoa(r.Size), formatCSV(r.Time), formatCSV(r.CPU), formatCSV(r.Mem)})
	}
	cw.Flush()
	return cw.Error()
}

// OutputPath returns the CSV path for the given size, next to input:
// the input path with its extension replaced by "_<size>_output.csv".
func OutputPath(input string, size int) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s_%d_output.csv", stem, size)
}

var htmlTemplate = template.Must(template.New("").Parse(`
{{- range .}}
<h2>Size: {{.Size}}</h2>
<table class='benchreduce'>
<tr><th>Name<th>time,sec<th>cpu,%<th>Mem,GB
{{range .Rows -}}
<tr><td>{{.Name}}<td>{{.Time}}<td>{{.CPU}}<td>{{.Mem}}
{{end -}}
</table>
{{end -}}
`))

type htmlGroup struct {
	Size int
	Rows []htmlRow
}

type htmlRow struct {
	Name, Time, CPU, Mem string
}

// WriteHTML writes one HTML table per group to w. Rows are ordered by
// name, as in WriteText.
func WriteHTML(w io.Writer, groups []*Group) error {
	data := make([]htmlGroup, 0, len(groups))
	for _, g := range groups {
		hg := htmlGroup{Size: g.Size}
		for _, r := range g.SortedRows() {
			hg.Rows = append(hg.Rows, htmlRow{r.Name, formatValue(r.Time), formatValue(r.CPU), formatValue(r.Mem)})
		}
		data = append(data, hg)
	}
	return htmlTemplate.Execute(w, data)
}
