// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spline evaluates cardinal B-spline weights and their derivatives
// at arbitrary fractional coordinates, the interpolation kernel the
// spreading and probing stages contract charges (and higher multipoles)
// against.
package spline

// Error represents spline package errors.
type Error string

func (err Error) Error() string { return string(err) }

const ErrOrder = Error("spline: order must be >= 2")

// Weights returns the p cardinal B-spline values M_p(w+i) for i=0..p-1 and,
// for each derivative order 1..maxDeriv, the corresponding derivative
// values, at fractional offset w in [0, 1). deriv[d-1][i] holds the d-th
// derivative of M_p at w+i.
//
// The recurrence is seeded at order 2 (the hat function) and built up via
// M_k(x) = (x/(k-1))*M_{k-1}(x) + ((k-x)/(k-1))*M_{k-1}(x-1); derivatives
// follow from dM_p/dx = M_{p-1}(x) - M_{p-1}(x-1), applied repeatedly for
// higher orders.
func Weights(p int, w float64, maxDeriv int) (values []float64, deriv [][]float64, err error) {
	if p < 2 {
		return nil, nil, ErrOrder
	}

	// history[k] holds the length-k M_k values over the window of k-1
	// consecutive unit intervals, indexed the same way as the final p-wide
	// output (zero-padded on both sides as orders grow).
	history := make([][]float64, p+1)
	history[2] = []float64{w, 1 - w}

	for k := 3; k <= p; k++ {
		prev := history[k-1]
		cur := make([]float64, k)
		for i := 0; i < k; i++ {
			x := w + float64(i)
			var left, right float64
			if i < len(prev) {
				left = (x / float64(k-1)) * prev[i]
			}
			if i >= 1 && i-1 < len(prev) {
				right = ((float64(k) - x) / float64(k-1)) * prev[i-1]
			}
			cur[i] = left + right
		}
		history[k] = cur
	}
	values = history[p]

	if maxDeriv <= 0 {
		return values, nil, nil
	}
	if maxDeriv >= p {
		return nil, nil, Error("spline: derivative order must be < spline order")
	}

	deriv = make([][]float64, maxDeriv)
	// Repeated application of dM_k/dx = M_{k-1}(x) - M_{k-1}(x-1) unrolls
	// into the binomial finite difference
	//   D^d M_p(w+i) = sum_{j=0}^{d} (-1)^j C(d,j) M_{p-d}(w+i-j),
	// evaluated against the order p-d values already computed above.
	for d := 1; d <= maxDeriv; d++ {
		lower := history[p-d]
		cur := make([]float64, p)
		for i := 0; i < p; i++ {
			var sum float64
			sign := 1.0
			coeff := 1.0
			for j := 0; j <= d; j++ {
				if k := i - j; k >= 0 && k < len(lower) {
					sum += sign * coeff * lower[k]
				}
				// update binomial coefficient C(d, j) -> C(d, j+1) and sign for next j.
				coeff = coeff * float64(d-j) / float64(j+1)
				sign = -sign
			}
			cur[i] = sum
		}
		deriv[d-1] = cur
	}
	return values, deriv, nil
}

// NCartesian returns the number of canonical Cartesian multipole components
// at total angular momentum order L: (L+1)(L+2)(L+3)/6, e.g. 1 for a point
// charge (L=0), 4 for charge+dipole (L=1).
func NCartesian(angMom int) int {
	return (angMom + 1) * (angMom + 2) * (angMom + 3) / 6
}
