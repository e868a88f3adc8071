// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package powerfit fits power laws of the form
//
//	T(n) = b + a·nᶜ
//
// to inversion time as a function of matrix order.
package powerfit

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/fit"
)

// A Model is a fitted power law T(n) = B + A·n^C.
type Model struct {
	A, B, C float64

	// RSS is the residual sum of squares of the fit.
	RSS float64
}

// Eval returns the modeled time at order n.
func (m Model) Eval(n float64) float64 {
	return m.B + m.A*math.Pow(n, m.C)
}

func (m Model) String() string {
	return fmt.Sprintf("%.2e + %.2e·n^%.2f", m.B, m.A, m.C)
}

// Exponent search interval for General.
const (
	MinExponent = 0.5
	MaxExponent = 5
)

var errMismatch = errors.New("powerfit: len(ns) != len(ts)")

// Cubic fits T(n) = b + a·n³.
func Cubic(ns, ts []float64) (Model, error) {
	if len(ns) != len(ts) {
		return Model{}, errMismatch
	}
	if len(ns) < 2 {
		return Model{}, fmt.Errorf("powerfit: need at least 2 points, got %d", len(ns))
	}
	return fixed(ns, ts, 3), nil
}

// General fits T(n) = b + a·nᶜ with c in [MinExponent, MaxExponent].
// For each candidate c, a and b are found by linear least squares; c
// is chosen by golden-section search on the residual sum of squares.
func General(ns, ts []float64) (Model, error) {
	if len(ns) != len(ts) {
		return Model{}, errMismatch
	}
	if len(ns) < 3 {
		return Model{}, fmt.Errorf("powerfit: need at least 3 points, got %d", len(ns))
	}
	rss := func(c float64) float64 { return fixed(ns, ts, c).RSS }

	invPhi := (math.Sqrt(5) - 1) / 2
	lo, hi := float64(MinExponent), float64(MaxExponent)
	x1, x2 := hi-invPhi*(hi-lo), lo+invPhi*(hi-lo)
	f1, f2 := rss(x1), rss(x2)
	for i := 0; i < 200 && hi-lo > 1e-10; i++ {
		if f1 <= f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = rss(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = rss(x2)
		}
	}
	return fixed(ns, ts, (lo+hi)/2), nil
}

// fixed fits T(n) = b + a·nᶜ for a fixed exponent c.
func fixed(ns, ts []float64, c float64) Model {
	// Fit against n/scale so n^c stays near 1.
	scale := 0.0
	for _, n := range ns {
		scale = math.Max(scale, math.Abs(n))
	}
	if scale == 0 {
		scale = 1
	}
	xs := make([]float64, len(ns))
	for i, n := range ns {
		xs[i] = n / scale
	}
	params := fit.LinearLeastSquares(xs, ts, nil,
		func(xs, out []float64) {
			for i := range out {
				out[i] = 1
			}
		},
		func(xs, out []float64) {
			for i, x := range xs {
				out[i] = math.Pow(x, c)
			}
		})
	m := Model{A: params[1] / math.Pow(scale, c), B: params[0], C: c}
	for i, n := range ns {
		d := ts[i] - m.Eval(n)
		m.RSS += d * d
	}
	return m
}
