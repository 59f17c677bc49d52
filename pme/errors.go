// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pme is the orchestrator of the reciprocal-space pipeline: it
// holds a PME instance's configured parameters, owned scratch grids, FFT
// plan, and thread count, and exposes the setup/lattice/compute state
// machine.
package pme

// Error represents pme package errors: invalid setup parameters, a compute
// call made before the required setup/lattice step, or a shape mismatch
// between the caller's flat arrays and the configured atom/parameter count.
type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrNotConfigured  = Error("pme: instance not configured; call Setup first")
	ErrNotLatticeSet  = Error("pme: lattice not set; call SetLatticeVectors first")
	ErrBadRPower      = Error("pme: rPower must be >= 1")
	ErrBadKappa       = Error("pme: kappa must be > 0")
	ErrBadSplineOrder = Error("pme: spline order must be >= 2")
	ErrBadGridDim     = Error("pme: grid dimension must be >= spline order")
	ErrBadThreadCount = Error("pme: thread count must be >= 1")
	ErrShapeMismatch  = Error("pme: parameter/coordinate/force array length mismatch")
	ErrDerivTooHigh   = Error("pme: spline order too low for the requested angular momentum")
)
