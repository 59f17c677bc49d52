// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spline

import "github.com/particlemesh/pme/matrix"

// exponent is a (x,y,z) exponent tuple identifying one canonical Cartesian
// multipole component of a given total order.
type exponent [3]int

// cartesianIndex lists, for total angular momentum order angMom, every
// (x,y,z) exponent tuple of every degree 0..angMom in the canonical
// ordering x,y,z,xx,xy,xz,yy,yz,zz,... Each degree's tuples are generated
// with i (x-exponent) descending, then j (y-exponent) descending,
// k = degree-i-j.
func cartesianIndex(angMom int) []exponent {
	var out []exponent
	for d := 0; d <= angMom; d++ {
		for i := d; i >= 0; i-- {
			for j := d - i; j >= 0; j-- {
				k := d - i - j
				out = append(out, exponent{i, j, k})
			}
		}
	}
	return out
}

// Exponents returns, for every canonical Cartesian multipole component at
// angular momentum order angMom (in the same order TransformMatrix and
// NCartesian use), the (ex, ey, ez) derivative order to take along each grid
// axis when contracting that component against the spline derivative
// tensor during spreading and probing.
func Exponents(angMom int) [][3]int {
	idx := cartesianIndex(angMom)
	out := make([][3]int, len(idx))
	for i, e := range idx {
		out[i] = [3]int(e)
	}
	return out
}

// polynomial represents a homogeneous multivariate polynomial in 3
// variables as a map from exponent tuple to coefficient.
type polynomial map[exponent]float64

func (p polynomial) add(e exponent, c float64) {
	if c == 0 {
		return
	}
	p[e] += c
}

func multiply(a, b polynomial) polynomial {
	out := make(polynomial)
	for ea, ca := range a {
		for eb, cb := range b {
			e := exponent{ea[0] + eb[0], ea[1] + eb[1], ea[2] + eb[2]}
			out.add(e, ca*cb)
		}
	}
	return out
}

// linearForm returns the polynomial coeff[0]*u + coeff[1]*v + coeff[2]*w.
func linearForm(coeff [3]float64) polynomial {
	p := make(polynomial)
	p.add(exponent{1, 0, 0}, coeff[0])
	p.add(exponent{0, 1, 0}, coeff[1])
	p.add(exponent{0, 0, 1}, coeff[2])
	return p
}

func power(p polynomial, n int) polynomial {
	out := polynomial{{0, 0, 0}: 1}
	for i := 0; i < n; i++ {
		out = multiply(out, p)
	}
	return out
}

// TransformMatrix builds the nCart(angMom) x nCart(angMom) matrix mapping a
// Cartesian multipole parameter vector (canonical ordering) to its
// fractional-basis equivalent, given the Cartesian-to-fractional 3x3
// transform g = L^-1. A component of total order k transforms as the
// symmetric k-th power of g: contracting a parameter against the Cartesian
// derivative monomial d^e/dx^ex dy^ey dz^ez and rewriting each factor via
// the chain rule d/dx_c = sum_a g[a][c] * d/du_a expands, by the
// multinomial theorem, into fractional derivative monomials of the same
// total order. The charge block is 1, the dipole block is g itself, and
// higher blocks are the symmetric powers; the matrix is block-diagonal by
// total order since a degree-d monomial only ever expands into degree-d
// fractional monomials.
func TransformMatrix(g *matrix.Dense[float64], angMom int) *matrix.Dense[float64] {
	index := cartesianIndex(angMom)
	n := len(index)
	out := matrix.New[float64](n, n)

	// linear[c] is d/dx_c in the fractional derivative basis: column c of
	// g read as coefficients of (d/du, d/dv, d/dw).
	var linear [3]polynomial
	for c := 0; c < 3; c++ {
		linear[c] = linearForm([3]float64{g.At(0, c), g.At(1, c), g.At(2, c)})
	}

	for cIdx, e := range index {
		poly := polynomial{{0, 0, 0}: 1}
		for axis := 0; axis < 3; axis++ {
			if e[axis] > 0 {
				poly = multiply(poly, power(linear[axis], e[axis]))
			}
		}
		for rIdx, target := range index {
			out.Set(rIdx, cIdx, poly[target])
		}
	}
	return out
}
