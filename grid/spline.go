// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"

	"github.com/particlemesh/pme/spline"
)

// NewAtom3D builds the per-axis spline tensors for one atom given its
// fractional coordinates frac (each in [0,1), see lattice.Wrap), the spline
// order p, the grid dimensions (dimA, dimB, dimC), and the highest
// derivative order needed (0 for potential only, 1 for forces, same value
// suffices for the virial since it reuses the force derivatives).
//
// For fractional coordinate u along one axis of grid dimension dim, the
// grid coordinate is s = u*dim; the spline's support
// runs over indices i0 = floor(s)-p+1 .. floor(s). spline.Weights(p, w, d)
// returns M_p(w+idx) for idx = 0..p-1 where w = s - floor(s); the value
// landing on grid index i0+idx is M_p(s - (i0+idx)) = M_p(w + (p-1-idx)), so
// the grid-index-ordered weight at idx is the w-increasing-ordered value at
// p-1-idx: the array is reversed end for end.
func NewAtom3D(frac [3]float64, p, dimA, dimB, dimC, maxDeriv int) (Atom3D, error) {
	x, err := newAtomSpline(frac[0], p, dimA, maxDeriv)
	if err != nil {
		return Atom3D{}, err
	}
	y, err := newAtomSpline(frac[1], p, dimB, maxDeriv)
	if err != nil {
		return Atom3D{}, err
	}
	z, err := newAtomSpline(frac[2], p, dimC, maxDeriv)
	if err != nil {
		return Atom3D{}, err
	}
	return Atom3D{X: x, Y: y, Z: z, DimA: dimA, DimB: dimB, DimC: dimC}, nil
}

func newAtomSpline(frac float64, p, dim, maxDeriv int) (AtomSpline, error) {
	s := frac * float64(dim)
	m := int(math.Floor(s))
	w := s - float64(m)
	values, derivs, err := spline.Weights(p, w, maxDeriv)
	if err != nil {
		return AtomSpline{}, err
	}
	weights := make([][]float64, maxDeriv+1)
	weights[0] = reverse(values)
	for d := 1; d <= maxDeriv; d++ {
		weights[d] = reverse(derivs[d-1])
	}
	return AtomSpline{I0: m - p + 1, Weights: weights}, nil
}

func reverse(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
