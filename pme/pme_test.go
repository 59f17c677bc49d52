// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pme

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/particlemesh/pme/lattice"
)

func configured(t *testing.T, cfg Config) *Instance[float64] {
	t.Helper()
	inst := NewInstance64()
	if err := inst.Setup(cfg); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return inst
}

func cubicInstance(t *testing.T, kappa float64, p, dim, nThreads int) *Instance[float64] {
	t.Helper()
	inst := configured(t, Config{
		RPower: 1, Kappa: kappa, SplineOrder: p,
		DimA: dim, DimB: dim, DimC: dim,
		Scale: 1, NThreads: nThreads,
	})
	if err := inst.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != nil {
		t.Fatalf("SetLatticeVectors: %v", err)
	}
	return inst
}

// A unit charge at the origin of a 10-unit cube, kappa=0.3, p=6, 32^3 grid:
// the reciprocal-space energy of the standard Ewald decomposition. The
// reference value is the converged analytic reciprocal-space lattice sum
// (1/(2 pi V)) * sum_{m != 0} exp(-pi^2 m^2 / kappa^2) / m^2, which the
// grid pipeline reproduces below interpolation error at these settings.
func TestSingleChargeCubicReference(t *testing.T) {
	inst := cubicInstance(t, 0.3, 6, 32, 1)
	energy, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	const want = 0.044838665623946
	if math.Abs(energy-want) > 1e-8 {
		t.Errorf("reciprocal energy = %.15f, want %.15f", energy, want)
	}
}

// Translating every atom by the same offset leaves the reciprocal-space
// energy unchanged up to interpolation error: the structure factor only
// picks up a phase.
func TestTranslationInvariance(t *testing.T) {
	inst := cubicInstance(t, 0.3, 6, 32, 1)
	params := []float64{1, -1}
	coords := []float64{0, 0, 0, 5, 0, 0}
	e0, err := inst.ComputeERec(2, 0, params, coords)
	if err != nil {
		t.Fatal(err)
	}
	const want = 0.077923421908115
	if math.Abs(e0-want) > 1e-8 {
		t.Errorf("energy = %.15f, want %.15f", e0, want)
	}

	shift := [3]float64{3.7, 2.1, -0.4}
	shifted := make([]float64, len(coords))
	for a := 0; a < 2; a++ {
		for c := 0; c < 3; c++ {
			shifted[3*a+c] = coords[3*a+c] + shift[c]
		}
	}
	e1, err := inst.ComputeERec(2, 0, params, shifted)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e1-e0) > 1e-8 {
		t.Errorf("translated energy = %.15f, original %.15f, diff %g", e1, e0, e1-e0)
	}
}

func TestEnergyOnlyMatchesEnergyForce(t *testing.T) {
	inst := cubicInstance(t, 0.35, 6, 20, 1)
	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}

	e, err := inst.ComputeERec(2, 0, params, coords)
	if err != nil {
		t.Fatal(err)
	}
	forces := make([]float64, 6)
	ef, err := inst.ComputeEFRec(2, 0, params, coords, forces)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e-ef) > 1e-13 {
		t.Errorf("ComputeERec = %.16f, ComputeEFRec = %.16f", e, ef)
	}
}

// Central finite differences of the energy with respect to each atom
// coordinate reproduce the probed forces.
func TestForceFiniteDifference(t *testing.T) {
	inst := cubicInstance(t, 0.35, 6, 20, 1)
	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}

	forces := make([]float64, 6)
	if _, err := inst.ComputeEFRec(2, 0, params, coords, forces); err != nil {
		t.Fatal(err)
	}

	const h = 1e-5
	for a := 0; a < 2; a++ {
		for axis := 0; axis < 3; axis++ {
			plus := append([]float64(nil), coords...)
			minus := append([]float64(nil), coords...)
			plus[3*a+axis] += h
			minus[3*a+axis] -= h
			ep, err := inst.ComputeERec(2, 0, params, plus)
			if err != nil {
				t.Fatal(err)
			}
			em, err := inst.ComputeERec(2, 0, params, minus)
			if err != nil {
				t.Fatal(err)
			}
			fd := -(ep - em) / (2 * h)
			if math.Abs(fd-forces[3*a+axis]) > 1e-6 {
				t.Errorf("atom %d axis %d: finite difference %v, force %v", a, axis, fd, forces[3*a+axis])
			}
		}
	}
}

// Forces accumulate into the caller's array rather than overwriting it.
func TestForcesAccumulate(t *testing.T) {
	inst := cubicInstance(t, 0.35, 6, 16, 1)
	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}

	once := make([]float64, 6)
	if _, err := inst.ComputeEFRec(2, 0, params, coords, once); err != nil {
		t.Fatal(err)
	}
	twice := make([]float64, 6)
	for i := 0; i < 2; i++ {
		if _, err := inst.ComputeEFRec(2, 0, params, coords, twice); err != nil {
			t.Fatal(err)
		}
	}
	for i := range once {
		if math.Abs(twice[i]-2*once[i]) > 1e-13 {
			t.Errorf("force slot %d: twice = %v, want %v", i, twice[i], 2*once[i])
		}
	}
}

// The trace of the reciprocal-space virial equals the negative derivative
// of the energy with respect to an isotropic strain of the cell (with the
// atoms strained along with it).
func TestVirialTraceMatchesIsotropicStrain(t *testing.T) {
	const kappa, p, dim = 0.35, 6, 20
	inst := cubicInstance(t, kappa, p, dim, 1)
	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}

	forces := make([]float64, 6)
	var virial [6]float64
	if _, err := inst.ComputeEFVRec(2, 0, params, coords, forces, &virial); err != nil {
		t.Fatal(err)
	}
	trace := virial[0] + virial[3] + virial[5]

	const h = 1e-5
	energyAt := func(eps float64) float64 {
		strained := configured(t, Config{
			RPower: 1, Kappa: kappa, SplineOrder: p,
			DimA: dim, DimB: dim, DimC: dim,
			Scale: 1, NThreads: 1,
		})
		side := 10 * (1 + eps)
		if err := strained.SetLatticeVectors(side, side, side, 90, 90, 90, lattice.XAligned); err != nil {
			t.Fatal(err)
		}
		scaled := make([]float64, len(coords))
		for i, v := range coords {
			scaled[i] = v * (1 + eps)
		}
		e, err := strained.ComputeERec(2, 0, params, scaled)
		if err != nil {
			t.Fatal(err)
		}
		return e
	}
	fd := -(energyAt(h) - energyAt(-h)) / (2 * h)
	if math.Abs(fd-trace) > 1e-5*math.Max(1, math.Abs(trace)) {
		t.Errorf("virial trace = %v, strain finite difference = %v", trace, fd)
	}
}

// The virial accumulates into the caller's array.
func TestVirialAccumulates(t *testing.T) {
	inst := cubicInstance(t, 0.35, 6, 16, 1)
	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}

	forces := make([]float64, 6)
	var once, twice [6]float64
	if _, err := inst.ComputeEFVRec(2, 0, params, coords, forces, &once); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := inst.ComputeEFVRec(2, 0, params, coords, forces, &twice); err != nil {
			t.Fatal(err)
		}
	}
	for i := range once {
		if math.Abs(twice[i]-2*once[i]) > 1e-13 {
			t.Errorf("virial slot %d: twice = %v, want %v", i, twice[i], 2*once[i])
		}
	}
}

// One worker and four workers agree to accumulated rounding on a system of
// randomly placed charges.
func TestThreadCountInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n = 40
	params := make([]float64, n)
	coords := make([]float64, 3*n)
	var net float64
	for i := range params {
		params[i] = rng.Float64()*2 - 1
		net += params[i]
	}
	params[0] -= net // neutralize
	for i := range coords {
		coords[i] = rng.Float64() * 10
	}

	serial := cubicInstance(t, 0.35, 6, 24, 1)
	threaded := cubicInstance(t, 0.35, 6, 24, 4)

	fSerial := make([]float64, 3*n)
	eSerial, err := serial.ComputeEFRec(n, 0, params, coords, fSerial)
	if err != nil {
		t.Fatal(err)
	}
	fThreaded := make([]float64, 3*n)
	eThreaded, err := threaded.ComputeEFRec(n, 0, params, coords, fThreaded)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(eSerial-eThreaded) > 1e-11 {
		t.Errorf("energy differs across thread counts: %v vs %v", eSerial, eThreaded)
	}
	for i := range fSerial {
		if math.Abs(fSerial[i]-fThreaded[i]) > 1e-11 {
			t.Errorf("force %d differs across thread counts: %v vs %v", i, fSerial[i], fThreaded[i])
		}
	}
}

// A point dipole is the limit of two opposite charges drawn together; the
// angMom=1 path reproduces a finite-difference dipole through the charge
// path.
func TestDipoleMatchesFiniteChargePair(t *testing.T) {
	inst := cubicInstance(t, 0.4, 6, 24, 1)
	mu := [3]float64{0.5, -0.3, 0.2}
	center := [3]float64{5.1, 0.4, 3.3}

	params := []float64{
		1, 0, 0, 0, // unit charge
		0, mu[0], mu[1], mu[2], // point dipole
	}
	coords := []float64{1.3, 2.2, 7.9, center[0], center[1], center[2]}
	eDipole, err := inst.ComputeERec(2, 1, params, coords)
	if err != nil {
		t.Fatal(err)
	}

	const d = 1e-3
	chargeParams := []float64{1, 1 / d, -1 / d}
	chargeCoords := []float64{
		1.3, 2.2, 7.9,
		center[0] + mu[0]*d/2, center[1] + mu[1]*d/2, center[2] + mu[2]*d/2,
		center[0] - mu[0]*d/2, center[1] - mu[1]*d/2, center[2] - mu[2]*d/2,
	}
	ePair, err := inst.ComputeERec(3, 0, chargeParams, chargeCoords)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(eDipole-ePair) > 1e-6 {
		t.Errorf("dipole energy = %.12f, finite charge pair = %.12f", eDipole, ePair)
	}
}

func TestScaleFactorScalesOutputs(t *testing.T) {
	plain := cubicInstance(t, 0.35, 6, 16, 1)
	scaled := configured(t, Config{
		RPower: 1, Kappa: 0.35, SplineOrder: 6,
		DimA: 16, DimB: 16, DimC: 16,
		Scale: 2.5, NThreads: 1,
	})
	if err := scaled.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != nil {
		t.Fatal(err)
	}

	params := []float64{1, -1}
	coords := []float64{1.3, 2.2, 7.9, 5.1, 0.4, 3.3}
	e1, err := plain.ComputeERec(2, 0, params, coords)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := scaled.ComputeERec(2, 0, params, coords)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e2-2.5*e1) > 1e-12 {
		t.Errorf("scaled energy = %v, want %v", e2, 2.5*e1)
	}
}

func TestSetupValidation(t *testing.T) {
	base := Config{
		RPower: 1, Kappa: 0.3, SplineOrder: 6,
		DimA: 16, DimB: 16, DimC: 16,
		Scale: 1, NThreads: 1,
	}
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero rPower", func(c *Config) { c.RPower = 0 }, ErrBadRPower},
		{"negative kappa", func(c *Config) { c.Kappa = -0.5 }, ErrBadKappa},
		{"spline order 1", func(c *Config) { c.SplineOrder = 1 }, ErrBadSplineOrder},
		{"grid below order", func(c *Config) { c.DimB = 4 }, ErrBadGridDim},
		{"zero threads", func(c *Config) { c.NThreads = 0 }, ErrBadThreadCount},
	} {
		cfg := base
		tc.mutate(&cfg)
		inst := NewInstance64()
		if err := inst.Setup(cfg); err != tc.want {
			t.Errorf("%s: Setup err = %v, want %v", tc.name, err, tc.want)
		}
		if inst.State() != StateUnconfigured {
			t.Errorf("%s: state = %v after failed Setup, want Unconfigured", tc.name, inst.State())
		}
	}
}

func TestStateMachine(t *testing.T) {
	inst := NewInstance64()
	if _, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0, 0}); err != ErrNotConfigured {
		t.Errorf("compute before setup: err = %v, want ErrNotConfigured", err)
	}
	if err := inst.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != ErrNotConfigured {
		t.Errorf("lattice before setup: err = %v, want ErrNotConfigured", err)
	}

	cfg := Config{RPower: 1, Kappa: 0.3, SplineOrder: 4, DimA: 8, DimB: 8, DimC: 8, Scale: 1, NThreads: 1}
	if err := inst.Setup(cfg); err != nil {
		t.Fatal(err)
	}
	if inst.State() != StateConfigured {
		t.Fatalf("state after Setup = %v, want Configured", inst.State())
	}
	if _, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0, 0}); err != ErrNotLatticeSet {
		t.Errorf("compute before lattice: err = %v, want ErrNotLatticeSet", err)
	}

	if err := inst.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != nil {
		t.Fatal(err)
	}
	if inst.State() != StateLatticeSet {
		t.Fatalf("state after SetLatticeVectors = %v, want LatticeSet", inst.State())
	}
	if _, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0, 0}); err != nil {
		t.Errorf("compute after lattice: %v", err)
	}

	// Re-running setup drops the lattice state again.
	if err := inst.Setup(cfg); err != nil {
		t.Fatal(err)
	}
	if inst.State() != StateConfigured {
		t.Errorf("state after re-Setup = %v, want Configured", inst.State())
	}
}

func TestComputeShapeMismatchLeavesStateUnchanged(t *testing.T) {
	inst := cubicInstance(t, 0.3, 4, 8, 1)
	if _, err := inst.ComputeERec(2, 0, []float64{1}, []float64{0, 0, 0, 1, 1, 1}); err != ErrShapeMismatch {
		t.Errorf("short parameters: err = %v, want ErrShapeMismatch", err)
	}
	if _, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0}); err != ErrShapeMismatch {
		t.Errorf("short coordinates: err = %v, want ErrShapeMismatch", err)
	}
	forces := make([]float64, 2)
	if _, err := inst.ComputeEFRec(1, 0, []float64{1}, []float64{0, 0, 0}, forces); err != ErrShapeMismatch {
		t.Errorf("short forces: err = %v, want ErrShapeMismatch", err)
	}
	if inst.State() != StateLatticeSet {
		t.Errorf("state changed by failed compute: %v", inst.State())
	}
	if _, err := inst.ComputeERec(1, 0, []float64{1}, []float64{0, 0, 0}); err != nil {
		t.Errorf("compute after failed compute: %v", err)
	}
}

func TestDerivTooHighForSplineOrder(t *testing.T) {
	inst := cubicInstance(t, 0.3, 2, 8, 1)
	// Order-2 splines cannot carry the angMom=1 force path (two derivative
	// orders needed).
	forces := make([]float64, 3)
	_, err := inst.ComputeEFRec(1, 1, []float64{1, 0, 0, 0}, []float64{0, 0, 0}, forces)
	if err != ErrDerivTooHigh {
		t.Errorf("err = %v, want ErrDerivTooHigh", err)
	}
}

func TestFloat32InstanceAgreesWithFloat64(t *testing.T) {
	cfg := Config{
		RPower: 1, Kappa: 0.35, SplineOrder: 6,
		DimA: 16, DimB: 16, DimC: 16,
		Scale: 1, NThreads: 1,
	}
	d := configured(t, cfg)
	if err := d.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != nil {
		t.Fatal(err)
	}
	s := NewInstance32()
	if err := s.Setup(cfg); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLatticeVectors(10, 10, 10, 90, 90, 90, lattice.XAligned); err != nil {
		t.Fatal(err)
	}

	e64, err := d.ComputeERec(2, 0, []float64{1, -1}, []float64{1.5, 2.5, 3.5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	e32, err := s.ComputeERec(2, 0, []float32{1, -1}, []float32{1.5, 2.5, 3.5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e64-e32) > 1e-5*math.Max(1, math.Abs(e64)) {
		t.Errorf("float32 energy = %v, float64 energy = %v", e32, e64)
	}
}
