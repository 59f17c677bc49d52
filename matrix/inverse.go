// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

// Inverse returns the inverse of m. If m is 3x3 it uses the direct
// closed-form cofactor/determinant formula (the common case: lattice
// matrices and Cartesian<->fractional transforms are always 3x3). Otherwise
// m must be symmetric; Inverse diagonalizes it, inverts each eigenvalue
// (failing with ErrSingular if any |eigenvalue| falls below guard) and
// recomposes V * diag(1/lambda) * V^T.
func Inverse[T Real](m *Dense[T]) (*Dense[T], error) {
	r, c := m.Dims()
	if r != c {
		return nil, ErrSquare
	}
	if r == 3 {
		return inverse3x3(m)
	}

	guard := T(1e-12)
	values, vectors, err := Diagonalize(m, Ascending)
	if err != nil {
		return nil, err
	}
	inv := make([]T, len(values))
	for i, lambda := range values {
		abs := lambda
		if abs < 0 {
			abs = -abs
		}
		if abs < guard {
			return nil, ErrSingular
		}
		inv[i] = 1 / lambda
	}
	// V * diag(inv) * V^T
	scaled := New[T](r, r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			scaled.Set(i, j, vectors.At(i, j)*inv[j])
		}
	}
	vt := Transpose(vectors)
	return Multiply(scaled, vt)
}

func inverse3x3[T Real](m *Dense[T]) (*Dense[T], error) {
	a, b, cc := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	d, e, f := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	g, h, i := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	det := a*A + b*B + cc*C
	var zero T
	if det == zero {
		return nil, ErrSingular
	}

	D := -(b*i - cc*h)
	E := a*i - cc*g
	F := -(a*h - b*g)
	G := b*f - cc*e
	H := -(a*f - cc*d)
	I := a*e - b*d

	out := New[T](3, 3)
	invDet := 1 / det
	out.Set(0, 0, A*invDet)
	out.Set(0, 1, D*invDet)
	out.Set(0, 2, G*invDet)
	out.Set(1, 0, B*invDet)
	out.Set(1, 1, E*invDet)
	out.Set(1, 2, H*invDet)
	out.Set(2, 0, C*invDet)
	out.Set(2, 1, F*invDet)
	out.Set(2, 2, I*invDet)
	return out, nil
}
