// Copyright ©2015 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package capi is the thin stable boundary over the pme package: flat entry
// points marshaling plain parameter arrays into the typed API, one opaque
// handle per configured engine and one handle type per precision (Instance
// for float64, Instance32 for float32).
//
// The default failure policy is deliberately blunt: a failing call writes a
// diagnostic to the standard error stream and terminates the process with a
// nonzero code, the conventional contract for a flat boundary whose callers
// cannot unwind a half-configured engine. SetPanicOnError(false) switches
// to a softer mode in which a failing call returns false and the diagnostic
// is retrievable via LastError.
package capi

import (
	"fmt"
	"log"
	"sync"

	"github.com/particlemesh/pme/lattice"
	"github.com/particlemesh/pme/matrix"
	"github.com/particlemesh/pme/pme"
)

var (
	mu           sync.Mutex
	panicOnError = true
)

// SetPanicOnError controls whether a failing capi call logs and exits the
// process (the default) or returns false leaving the failure retrievable
// via LastError.
func SetPanicOnError(v bool) {
	mu.Lock()
	defer mu.Unlock()
	panicOnError = v
}

// handle wraps one precision's engine together with its last diagnostic.
type handle[T matrix.Real] struct {
	inst    *pme.Instance[T]
	lastErr string
}

// Instance is the opaque double-precision handle flat callers hold.
type Instance struct {
	handle[float64]
}

// Instance32 is the opaque single-precision handle flat callers hold.
type Instance32 struct {
	handle[float32]
}

// Create allocates a new, unconfigured double-precision Instance.
func Create() *Instance {
	return &Instance{handle[float64]{inst: pme.NewInstance64()}}
}

// Create32 allocates a new, unconfigured single-precision Instance32.
func Create32() *Instance32 {
	return &Instance32{handle[float32]{inst: pme.NewInstance32()}}
}

// Destroy releases h's resources. The scratch grids and FFT plan are
// ordinary Go-heap allocations with no external handles to close, so this
// only drops h's reference to them.
func (h *handle[T]) Destroy() {
	h.inst = nil
}

// LastError returns the diagnostic message of the most recent failing call
// on h, when SetPanicOnError(false) is in effect.
func (h *handle[T]) LastError() string { return h.lastErr }

func (h *handle[T]) fail(err error) {
	h.lastErr = err.Error()
	mu.Lock()
	fatal := panicOnError
	mu.Unlock()
	if fatal {
		log.Fatalf("pme: %v", err)
	}
}

// Setup configures h: the r^-n power, Ewald splitting parameter, spline
// order, grid dimensions, overall scale factor, and worker thread count.
func (h *handle[T]) Setup(rPower int, kappa float64, splineOrder, aDim, bDim, cDim int, scaleFactor float64, nThreads int) bool {
	err := h.inst.Setup(pme.Config{
		RPower:      rPower,
		Kappa:       kappa,
		SplineOrder: splineOrder,
		DimA:        aDim,
		DimB:        bDim,
		DimC:        cDim,
		Scale:       scaleFactor,
		NThreads:    nThreads,
	})
	if err != nil {
		h.fail(err)
		return false
	}
	return true
}

// LatticeType selects the construction convention SetLatticeVectors uses:
// 0 places the first lattice vector along +x, 1 builds the symmetric shape
// matrix form.
type LatticeType int

const (
	XAligned    LatticeType = 0
	ShapeMatrix LatticeType = 1
)

// SetLatticeVectors configures h's lattice from cell lengths (in the
// caller's length unit) and angles (degrees).
func (h *handle[T]) SetLatticeVectors(lenA, lenB, lenC, alphaDeg, betaDeg, gammaDeg float64, kind LatticeType) bool {
	var k lattice.Kind
	switch kind {
	case XAligned:
		k = lattice.XAligned
	case ShapeMatrix:
		k = lattice.ShapeMatrix
	default:
		h.fail(fmt.Errorf("capi: unknown lattice type %d", kind))
		return false
	}
	if err := h.inst.SetLatticeVectors(lenA, lenB, lenC, alphaDeg, betaDeg, gammaDeg, k); err != nil {
		h.fail(err)
		return false
	}
	return true
}

// ComputeERec computes the reciprocal-space energy. parameters is row-major
// (nAtoms x nCartesian(parameterAngMom)) in the canonical Cartesian
// multipole ordering; coordinates is row-major (nAtoms x 3).
func (h *handle[T]) ComputeERec(nAtoms, parameterAngMom int, parameters, coordinates []T) (float64, bool) {
	e, err := h.inst.ComputeERec(nAtoms, parameterAngMom, parameters, coordinates)
	if err != nil {
		h.fail(err)
		return 0, false
	}
	return e, true
}

// ComputeEFRec computes the reciprocal-space energy and accumulates each
// atom's force into forces (row-major nAtoms x 3, added to, not
// overwritten).
func (h *handle[T]) ComputeEFRec(nAtoms, parameterAngMom int, parameters, coordinates, forces []T) (float64, bool) {
	e, err := h.inst.ComputeEFRec(nAtoms, parameterAngMom, parameters, coordinates, forces)
	if err != nil {
		h.fail(err)
		return 0, false
	}
	return e, true
}

// ComputeEFVRec computes the reciprocal-space energy and accumulates forces
// and the length-6 symmetric virial (xx,xy,xz,yy,yz,zz).
func (h *handle[T]) ComputeEFVRec(nAtoms, parameterAngMom int, parameters, coordinates, forces []T, virial []float64) (float64, bool) {
	if len(virial) != 6 {
		h.fail(fmt.Errorf("capi: virial must have length 6, got %d", len(virial)))
		return 0, false
	}
	var v [6]float64
	e, err := h.inst.ComputeEFVRec(nAtoms, parameterAngMom, parameters, coordinates, forces, &v)
	if err != nil {
		h.fail(err)
		return 0, false
	}
	for i := range virial {
		virial[i] += v[i]
	}
	return e, true
}
