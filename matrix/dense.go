// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "golang.org/x/exp/constraints"

// Real is the set of scalar types Dense can hold. It resolves the
// template-over-scalar-precision requirement through Go generics rather
// than two hand-duplicated single/double implementations.
type Real interface {
	constraints.Float
}

// Dense is a row-major, two-dimensional matrix of Rows x Cols elements of
// type T. It either owns its backing storage (allocated by New or Clone) or
// borrows it from the caller (Borrow). A borrowed Dense never reallocates;
// TransposeInPlace, the only in-place operation, accepts square matrices
// only and returns ErrSquare otherwise.
type Dense[T Real] struct {
	rows, cols int
	stride     int
	data       []T
	borrowed   bool
}

// New allocates a new Rows x Cols matrix of zero elements.
func New[T Real](rows, cols int) *Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}
	return &Dense[T]{
		rows: rows, cols: cols, stride: cols,
		data: make([]T, rows*cols),
	}
}

// NewFromData allocates a new Rows x Cols matrix and takes ownership of
// data, which must have exactly Rows*Cols elements, in row-major order.
func NewFromData[T Real](rows, cols int, data []T) *Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}
	if len(data) != rows*cols {
		panic(ErrShape)
	}
	return &Dense[T]{rows: rows, cols: cols, stride: cols, data: data}
}

// Borrow wraps a caller-owned slice as a Rows x Cols matrix without copying
// it. The caller must keep data alive and not mutate it concurrently with
// any operation on the returned Dense; the Dense itself never frees or
// reallocates data.
func Borrow[T Real](rows, cols int, data []T) *Dense[T] {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}
	if len(data) != rows*cols {
		panic(ErrShape)
	}
	return &Dense[T]{rows: rows, cols: cols, stride: cols, data: data, borrowed: true}
}

// Dims returns the matrix's row and column count.
func (m *Dense[T]) Dims() (rows, cols int) { return m.rows, m.cols }

// IsBorrowed reports whether m's storage is caller-owned.
func (m *Dense[T]) IsBorrowed() bool { return m.borrowed }

// At returns the element at (r, c). It panics if r or c are out of range;
// this is a programmer-error precondition, not a data-dependent failure.
func (m *Dense[T]) At(r, c int) T {
	if uint(r) >= uint(m.rows) || uint(c) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	return m.data[r*m.stride+c]
}

// Set stores v at (r, c). It panics if r or c are out of range.
func (m *Dense[T]) Set(r, c int, v T) {
	if uint(r) >= uint(m.rows) || uint(c) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	m.data[r*m.stride+c] = v
}

// RawData returns the matrix's backing slice in row-major order, with the
// stride of each row. Mutating it mutates m.
func (m *Dense[T]) RawData() (data []T, stride int) { return m.data, m.stride }

// Row returns a SliceView over row r. It is contiguous (stride 1).
func (m *Dense[T]) Row(r int) SliceView[T] {
	if uint(r) >= uint(m.rows) {
		panic("matrix: index out of range")
	}
	return SliceView[T]{data: m.data[r*m.stride : r*m.stride+m.cols], stride: 1}
}

// Col returns a SliceView over column c. Its stride equals m's row stride.
func (m *Dense[T]) Col(c int) SliceView[T] {
	if uint(c) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	n := m.rows
	return SliceView[T]{data: m.data[c : c+(n-1)*m.stride+1], stride: m.stride}
}

// Clone returns a newly allocated, owning copy of m.
func (m *Dense[T]) Clone() *Dense[T] {
	out := New[T](m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		copy(out.data[r*out.stride:r*out.stride+m.cols], m.data[r*m.stride:r*m.stride+m.cols])
	}
	return out
}

// Fill sets every element of m to v.
func (m *Dense[T]) Fill(v T) {
	for r := 0; r < m.rows; r++ {
		row := m.data[r*m.stride : r*m.stride+m.cols]
		for i := range row {
			row[i] = v
		}
	}
}

// AlmostEqual reports whether m and other have the same shape and every
// pair of corresponding elements differs by no more than tol in absolute
// value.
func (m *Dense[T]) AlmostEqual(other *Dense[T], tol T) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			d := m.At(r, c) - other.At(r, c)
			if d < 0 {
				d = -d
			}
			if d > tol {
				return false
			}
		}
	}
	return true
}
