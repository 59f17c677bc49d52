// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix provides a dense, row-major numeric matrix with optional
// borrowed storage, the linear algebra the PME reciprocal-space pipeline
// needs (transpose, inverse, symmetric diagonalization) and nothing more.
package matrix

// Error represents matrix package errors. Unlike the bounds-check panics on
// At/Set (programmer error), an Error return indicates a condition that
// depends on the caller's data rather than the caller's code: singular
// matrices, asymmetric input where symmetry was required, and the like.
type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrShape         = Error("matrix: dimension mismatch")
	ErrSquare        = Error("matrix: expect square matrix")
	ErrSymmetric     = Error("matrix: expect symmetric matrix")
	ErrSingular      = Error("matrix: matrix is singular")
	ErrIllegalStride = Error("matrix: illegal stride")
	ErrEigenFailed   = Error("matrix: eigendecomposition did not converge")
	ErrIllegalOrder  = Error("matrix: illegal sort order")
)
