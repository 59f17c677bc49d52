// Copyright ©2019 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "math/cmplx"

// CDense is a row-major, complex128-backed counterpart of Dense. Go generics
// have no clean way to derive "the complex sibling of T" from a Real type
// parameter, so the complex grid (the Fourier-transformed charge grid Ĝ) is
// a distinct concrete type rather than Dense[complex128] (complex128 does
// not satisfy constraints.Float). It either owns its storage or borrows it,
// exactly as Dense does.
type CDense struct {
	rows, cols int
	stride     int
	data       []complex128
	borrowed   bool
}

// NewC allocates a zero-filled Rows x Cols complex matrix.
func NewC(rows, cols int) *CDense {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}
	return &CDense{rows: rows, cols: cols, stride: cols, data: make([]complex128, rows*cols)}
}

// BorrowC wraps a caller-owned slice as a Rows x Cols complex matrix without
// copying it.
func BorrowC(rows, cols int, data []complex128) *CDense {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}
	if len(data) != rows*cols {
		panic(ErrShape)
	}
	return &CDense{rows: rows, cols: cols, stride: cols, data: data, borrowed: true}
}

// Dims returns the matrix's row and column count.
func (m *CDense) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the element at (r, c).
func (m *CDense) At(r, c int) complex128 {
	if uint(r) >= uint(m.rows) || uint(c) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	return m.data[r*m.stride+c]
}

// Set stores v at (r, c).
func (m *CDense) Set(r, c int, v complex128) {
	if uint(r) >= uint(m.rows) || uint(c) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	m.data[r*m.stride+c] = v
}

// RawData returns the matrix's backing slice in row-major order and its
// row stride.
func (m *CDense) RawData() (data []complex128, stride int) { return m.data, m.stride }

// AlmostEqual reports whether m and other have the same shape and every
// pair of corresponding elements differs by no more than tol in modulus,
// the complex counterpart of Dense.AlmostEqual.
func (m *CDense) AlmostEqual(other *CDense, tol float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if cmplx.Abs(m.At(r, c)-other.At(r, c)) > tol {
				return false
			}
		}
	}
	return true
}
