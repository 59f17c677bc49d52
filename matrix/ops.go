// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

// Multiply returns m * other. It requires m.cols == other.rows. PME never
// multiplies matrices larger than a handful of rows/cols (3x3 lattice
// matrices, nCart(L)xnCart(L) multipole transforms), so the naive triple
// loop is the right tradeoff: linear algebra throughput does not dominate
// the reciprocal-space pipeline.
func Multiply[T Real](m, other *Dense[T]) (*Dense[T], error) {
	if m.cols != other.rows {
		return nil, ErrShape
	}
	out := New[T](m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.At(i, k)
			if a == 0 {
				continue
			}
			for j := 0; j < other.cols; j++ {
				out.Set(i, j, out.At(i, j)+a*other.At(k, j))
			}
		}
	}
	return out, nil
}

// Transpose returns a newly allocated transpose of m. Unlike TransposeInPlace
// it never aliases m's storage, so it works regardless of whether m is
// square and regardless of whether m owns or borrows its data.
func Transpose[T Real](m *Dense[T]) *Dense[T] {
	out := New[T](m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}

// TransposeInPlace transposes a square matrix in place by following the
// permutation cycles of the linearized index i <-> (i%cols)*rows + i/cols,
// the classical cycle-following algorithm (no auxiliary buffer beyond a
// visited bitset). It returns ErrSquare for a non-square matrix; use
// Transpose for that case.
func TransposeInPlace[T Real](m *Dense[T]) error {
	if m.rows != m.cols {
		return ErrSquare
	}
	n := m.rows
	visited := make([]bool, n*n)
	for start := 0; start < n*n; start++ {
		if visited[start] {
			continue
		}
		next := start
		tmp := m.data[idx(start, n, m.stride)]
		for {
			visited[next] = true
			// position next maps to its transpose position.
			r, c := next/n, next%n
			dest := c*n + r
			destVal := m.data[idx(dest, n, m.stride)]
			m.data[idx(dest, n, m.stride)] = tmp
			tmp = destVal
			next = dest
			if next == start {
				break
			}
		}
	}
	m.stride = n
	return nil
}

// idx maps a logical row-major index (over an n x n matrix) to its offset in
// the (possibly wider-strided) backing slice.
func idx(linear, n, stride int) int {
	r, c := linear/n, linear%n
	return r*stride + c
}
