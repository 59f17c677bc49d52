// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pme

import (
	"github.com/particlemesh/pme/fft"
	"github.com/particlemesh/pme/grid"
	"github.com/particlemesh/pme/lattice"
	"github.com/particlemesh/pme/matrix"
)

// State is the orchestrator's configuration state: Unconfigured ->
// Configured -> LatticeSet. Every compute path requires LatticeSet, and any
// setup-parameter change drops back through Configured, invalidating all
// lattice-dependent caches.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateLatticeSet
)

// Config holds the setup-time parameters of a PME instance: the r^-n power,
// the Ewald splitting parameter, the spline order, the grid dimensions, the
// overall scale factor, and the worker thread count.
type Config struct {
	RPower           int
	Kappa            float64
	SplineOrder      int
	DimA, DimB, DimC int
	Scale            float64
	NThreads         int
}

// Instance is a configured PME reciprocal-space engine parameterized by
// scalar precision T. NewInstance64 and NewInstance32 are the two concrete
// precision instantiations. The numerical core (FFT, influence function,
// spline convolution) always accumulates in float64 regardless of T; only
// the flat parameter/coordinate/force arrays are typed by T.
type Instance[T matrix.Real] struct {
	state State
	cfg   Config

	lat  *lattice.Lattice
	plan *fft.Plan3D

	axisA, axisB, axisC []float64 // per-axis inverted spline structure-factor modulus
	theta               []float64 // cached convolution weight, shape DimA x DimB x HalfC

	transforms map[int]*matrix.Dense[float64] // angMom -> Cartesian-to-fractional multipole transform

	scratch *grid.RealGrid
}

// New returns an Instance[T] in the Unconfigured state.
func New[T matrix.Real]() *Instance[T] {
	return &Instance[T]{transforms: make(map[int]*matrix.Dense[float64])}
}

// NewInstance64 returns a double-precision Instance, mirroring capi.Create's
// default precision.
func NewInstance64() *Instance[float64] { return New[float64]() }

// NewInstance32 returns a single-precision Instance.
func NewInstance32() *Instance[float32] { return New[float32]() }

// State reports the instance's current configuration state.
func (inst *Instance[T]) State() State { return inst.state }

// Setup validates cfg and transitions the instance to Configured,
// allocating the real scratch grid and the FFT plan. Any previously
// computed lattice-dependent state (the influence-function cache, the
// multipole transform cache) is dropped: setup changes invalidate
// everything downstream.
func (inst *Instance[T]) Setup(cfg Config) error {
	if cfg.RPower < 1 {
		return ErrBadRPower
	}
	if cfg.Kappa <= 0 {
		return ErrBadKappa
	}
	if cfg.SplineOrder < 2 {
		return ErrBadSplineOrder
	}
	if cfg.DimA < cfg.SplineOrder || cfg.DimB < cfg.SplineOrder || cfg.DimC < cfg.SplineOrder {
		return ErrBadGridDim
	}
	if cfg.NThreads < 1 {
		return ErrBadThreadCount
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}

	axisA, err := axisModulus(cfg.SplineOrder, cfg.DimA)
	if err != nil {
		return err
	}
	axisB, err := axisModulus(cfg.SplineOrder, cfg.DimB)
	if err != nil {
		return err
	}
	axisC, err := axisModulus(cfg.SplineOrder, cfg.DimC)
	if err != nil {
		return err
	}

	inst.cfg = cfg
	inst.axisA, inst.axisB, inst.axisC = axisA, axisB, axisC
	inst.plan = fft.NewPlan3D(cfg.DimA, cfg.DimB, cfg.DimC)
	inst.scratch = grid.NewRealGrid(cfg.DimA, cfg.DimB, cfg.DimC)
	inst.lat = nil
	inst.theta = nil
	inst.transforms = make(map[int]*matrix.Dense[float64])
	inst.state = StateConfigured
	return nil
}

// SetLatticeVectors builds the lattice from cell lengths/angles and the
// requested construction convention, transitioning the instance to
// LatticeSet. It invalidates the influence-function cache and the multipole
// fractional-transform cache, both of which depend on the lattice.
func (inst *Instance[T]) SetLatticeVectors(lenA, lenB, lenC, alphaDeg, betaDeg, gammaDeg float64, kind lattice.Kind) error {
	if inst.state == StateUnconfigured {
		return ErrNotConfigured
	}
	lat, err := lattice.Build(lenA, lenB, lenC, alphaDeg, betaDeg, gammaDeg, kind)
	if err != nil {
		return err
	}
	inst.lat = lat
	inst.transforms = make(map[int]*matrix.Dense[float64])
	inst.theta = computeThetaCache(inst.cfg, lat, inst.axisA, inst.axisB, inst.axisC)
	inst.state = StateLatticeSet
	return nil
}

func (inst *Instance[T]) transformFor(angMom int) *matrix.Dense[float64] {
	if m, ok := inst.transforms[angMom]; ok {
		return m
	}
	m := transformMatrix(inst.lat, angMom)
	inst.transforms[angMom] = m
	return m
}
