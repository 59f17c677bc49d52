// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "math"

// SortOrder controls the ordering Diagonalize sorts eigenpairs into.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// jacobiMaxSweeps bounds the cyclic Jacobi rotation sweep count. PME only
// ever diagonalizes small symmetric matrices (the 3x3 metric tensor of the
// ShapeMatrix lattice construction), for which Jacobi
// converges quadratically and a handful of sweeps is always enough; the
// bound exists so a non-symmetric-in-spirit input fails with ErrEigenFailed
// instead of spinning.
const jacobiMaxSweeps = 100

// Diagonalize computes the eigendecomposition of the symmetric matrix m:
// m = V * diag(values) * V^T. It requires m to be square; it returns
// ErrSquare if not, ErrSymmetric if m is not symmetric within tolerance, and
// ErrEigenFailed if the rotation sweep fails to converge. Eigenpairs are
// sorted by eigenvalue according to order; the columns of V are permuted to
// match.
func Diagonalize[T Real](m *Dense[T], order SortOrder) (values []T, vectors *Dense[T], err error) {
	if order != Ascending && order != Descending {
		return nil, nil, ErrIllegalOrder
	}
	n, c := m.Dims()
	if n != c {
		return nil, nil, ErrSquare
	}
	const symTol = 1e-9
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := float64(m.At(i, j) - m.At(j, i))
			if d < 0 {
				d = -d
			}
			if d > symTol*(1+math.Abs(float64(m.At(i, j)))) {
				return nil, nil, ErrSymmetric
			}
		}
	}

	a := make([][]float64, n)
	v := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		v[i] = make([]float64, n)
		v[i][i] = 1
		for j := 0; j < n; j++ {
			a[i][j] = float64(m.At(i, j))
		}
	}

	converged := false
sweep:
	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += a[p][q] * a[p][q]
			}
		}
		if off < 1e-30 {
			converged = true
			break sweep
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := a[p][q]
				if apq == 0 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * apq)
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(1+theta*theta))
				if theta == 0 {
					t = 1
				}
				cos := 1 / math.Sqrt(1+t*t)
				sin := t * cos
				app, aqq := a[p][p], a[q][q]
				a[p][p] = app - t*apq
				a[q][q] = aqq + t*apq
				a[p][q], a[q][p] = 0, 0
				for i := 0; i < n; i++ {
					if i != p && i != q {
						aip, aiq := a[i][p], a[i][q]
						a[i][p] = cos*aip - sin*aiq
						a[p][i] = a[i][p]
						a[i][q] = sin*aip + cos*aiq
						a[q][i] = a[i][q]
					}
					vip, viq := v[i][p], v[i][q]
					v[i][p] = cos*vip - sin*viq
					v[i][q] = sin*vip + cos*viq
				}
			}
		}
	}
	if !converged {
		return nil, nil, ErrEigenFailed
	}

	type pair struct {
		val T
		col int
	}
	pairs := make([]pair, n)
	for i := range pairs {
		pairs[i] = pair{T(a[i][i]), i}
	}
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			swap := false
			if order == Ascending {
				swap = pairs[j].val < pairs[j-1].val
			} else {
				swap = pairs[j].val > pairs[j-1].val
			}
			if !swap {
				break
			}
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}

	values = make([]T, n)
	vectors = New[T](n, n)
	for newCol, p := range pairs {
		values[newCol] = p.val
		for i := 0; i < n; i++ {
			vectors.Set(i, newCol, T(v[i][p.col]))
		}
	}
	return values, vectors, nil
}
