// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid spreads atomic multipole parameters onto the real-space
// charge-decorated grid and probes the convolved grid back into
// potential/field/force contributions per atom, the dominant hot loops of
// the reciprocal-space pipeline.
package grid

// RealGrid is a dense A x B x C real-valued grid, row-major with flat index
// (i*B+j)*C+k.
type RealGrid struct {
	A, B, C int
	Data    []float64
}

// NewRealGrid allocates a zero-filled A x B x C grid.
func NewRealGrid(a, b, c int) *RealGrid {
	return &RealGrid{A: a, B: b, C: c, Data: make([]float64, a*b*c)}
}

func (g *RealGrid) index(i, j, k int) int { return (i*g.B+j)*g.C + k }

// At returns the value at (i, j, k), treating each axis periodically.
func (g *RealGrid) At(i, j, k int) float64 {
	return g.Data[g.index(wrap(i, g.A), wrap(j, g.B), wrap(k, g.C))]
}

// AddAt accumulates v into (i, j, k), treating each axis periodically, the
// operation the spread kernel hammers.
func (g *RealGrid) AddAt(i, j, k int, v float64) {
	g.Data[g.index(wrap(i, g.A), wrap(j, g.B), wrap(k, g.C))] += v
}

// Zero clears the grid in place.
func (g *RealGrid) Zero() {
	for i := range g.Data {
		g.Data[i] = 0
	}
}

// Add accumulates other into g in place; both must have identical shape.
func (g *RealGrid) Add(other *RealGrid) {
	for i := range g.Data {
		g.Data[i] += other.Data[i]
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// AtomSpline holds the precomputed spline value/derivative tensor for one
// atom at one axis: i0 is the lowest grid index the atom's spline support
// touches (possibly negative or >= dim; callers wrap), and weights[d][idx]
// is the d-th derivative of the order-p cardinal B-spline at grid offset
// idx = 0..p-1 from i0, in grid-index order (already reversed from
// spline.Weights' w-increasing convention -- see NewAtom3D).
type AtomSpline struct {
	I0      int
	Weights [][]float64 // Weights[0] = values, Weights[d] = d-th derivative, each length p
}

// Atom3D is the per-atom spline tensor along all three grid axes, plus the
// atom's fractional-to-grid scale factors (grid dimension per axis, needed
// to convert a derivative with respect to the spline argument into a
// derivative with respect to the fractional coordinate).
type Atom3D struct {
	X, Y, Z          AtomSpline
	DimA, DimB, DimC int
}
