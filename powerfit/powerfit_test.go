// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package powerfit

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/linalgbench/benchreduce/tables"
)

var sizes = []float64{2500, 5000, 7500, 10000, 12500, 15000, 17500, 20000}

func synth(a, b, c float64) []float64 {
	ts := make([]float64, len(sizes))
	for i, n := range sizes {
		ts[i] = b + a*math.Pow(n, c)
	}
	return ts
}

func near(got, want, rel float64) bool {
	return math.Abs(got-want) <= rel*math.Abs(want)
}

func TestCubic(t *testing.T) {
	m, err := Cubic(sizes, synth(4e-12, 0.05, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !near(m.A, 4e-12, 1e-6) || !near(m.B, 0.05, 1e-6) || m.C != 3 {
		t.Errorf("Cubic = %+v, want a=4e-12 b=0.05 c=3", m)
	}
	if got := m.Eval(10000); !near(got, 4.05, 1e-6) {
		t.Errorf("Eval(10000) = %v, want 4.05", got)
	}
}

func TestGeneral(t *testing.T) {
	for _, c := range []float64{1.5, 2.8, 3} {
		a := 1 / math.Pow(20000, c)
		m, err := General(sizes, synth(a, 0.1, c))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(m.C-c) > 1e-3 {
			t.Errorf("c=%v: General = %+v, exponent off", c, m)
		}
		if !near(m.Eval(20000), 1.1, 1e-3) {
			t.Errorf("c=%v: Eval(20000) = %v, want 1.1", c, m.Eval(20000))
		}
	}
}

func TestTooFewPoints(t *testing.T) {
	if _, err := Cubic([]float64{1}, []float64{1}); err == nil {
		t.Errorf("Cubic with 1 point: want error")
	}
	if _, err := General([]float64{1, 2}, []float64{1, 8}); err == nil {
		t.Errorf("General with 2 points: want error")
	}
	if _, err := Cubic([]float64{1, 2}, []float64{1}); err != errMismatch {
		t.Errorf("Cubic with mismatched input: got %v, want %v", err, errMismatch)
	}
}

func TestFitDataset(t *testing.T) {
	var buf strings.Builder
	ts := synth(1e-12, 0.01, 3)
	for i, n := range sizes {
		fmt.Fprintf(&buf, "cho_mkl %d %g 50 1.0 GB\n", int(n), ts[i])
		// A slow outlier that the median discards.
		fmt.Fprintf(&buf, "cho_mkl %d %g 50 1.0 GB\n", int(n), ts[i])
		fmt.Fprintf(&buf, "cho_mkl %d %g 50 1.0 GB\n", int(n), 100*ts[i])
	}
	buf.WriteString("lu_numpy 100 0.5 10 1 GB\nlu_numpy 200 4 10 1 GB\n")
	d, err := tables.Read(strings.NewReader(buf.String()), "test")
	if err != nil {
		t.Fatal(err)
	}

	fits := FitDataset(d)
	if len(fits) != 2 {
		t.Fatalf("got %d fits, want 2", len(fits))
	}
	cho, lu := fits[0], fits[1]
	if cho.Name != "cho_mkl" || lu.Name != "lu_numpy" {
		t.Fatalf("fit names = %q, %q", cho.Name, lu.Name)
	}
	if cho.Err != nil {
		t.Fatalf("cho_mkl: %v", cho.Err)
	}
	if len(cho.Sizes) != len(sizes) || cho.Sizes[0] != 2500 {
		t.Errorf("cho_mkl sizes = %v", cho.Sizes)
	}
	if !near(cho.Cubic.A, 1e-12, 1e-4) || math.Abs(cho.General.C-3) > 1e-3 {
		t.Errorf("cho_mkl: cubic %v, general %v", cho.Cubic, cho.General)
	}
	if lu.Err == nil {
		t.Errorf("lu_numpy with 2 sizes: want error")
	}

	var out bytes.Buffer
	if err := Write(&out, fits); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "name") {
		t.Fatalf("unexpected table:\n%s", out.String())
	}
	if !strings.Contains(lines[1], "n^3.00") || !strings.Contains(lines[2], "2 sizes, need 3") {
		t.Errorf("unexpected table:\n%s", out.String())
	}
}

func TestFitEmpty(t *testing.T) {
	d, err := tables.Read(strings.NewReader(""), "empty")
	if err != nil {
		t.Fatal(err)
	}
	if fits := FitDataset(d); len(fits) != 0 {
		t.Errorf("got %d fits for empty dataset", len(fits))
	}
}
