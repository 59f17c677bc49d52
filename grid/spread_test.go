// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func chargeComponents(q float64) []Component {
	return []Component{{Value: q}}
}

func randomAtoms(rng *rand.Rand, n, p, a, b, c, maxDeriv int) ([]Atom3D, [][]Component, error) {
	atoms := make([]Atom3D, n)
	comps := make([][]Component, n)
	for i := range atoms {
		frac := [3]float64{rng.Float64(), rng.Float64(), rng.Float64()}
		atom, err := NewAtom3D(frac, p, a, b, c, maxDeriv)
		if err != nil {
			return nil, nil, err
		}
		atoms[i] = atom
		comps[i] = chargeComponents(rng.Float64()*2 - 1)
	}
	return atoms, comps, nil
}

// A spread charge lands entirely on the grid: the partition-of-unity
// property of the spline weights means the grid total equals the sum of
// the spread charges.
func TestSpreadConservesCharge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const p, a, b, c = 6, 16, 18, 20
	atoms, comps, err := randomAtoms(rng, 11, p, a, b, c, 0)
	if err != nil {
		t.Fatal(err)
	}
	g := NewRealGrid(a, b, c)
	Spread(g, atoms, comps, 1)

	var total, want float64
	for _, v := range g.Data {
		total += v
	}
	for _, comp := range comps {
		want += comp[0].Value
	}
	if math.Abs(total-want) > 1e-12 {
		t.Errorf("grid total = %v, want %v", total, want)
	}
}

// Spread and probe are adjoint: for any grid h, <h, Spread(atom)> equals
// Potential(h, atom). The convolution energy identity depends on this.
func TestSpreadProbeAdjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const p, a, b, c = 4, 8, 9, 10
	atom, err := NewAtom3D([3]float64{0.37, 0.82, 0.05}, p, a, b, c, 0)
	if err != nil {
		t.Fatal(err)
	}
	comps := chargeComponents(1.25)

	g := NewRealGrid(a, b, c)
	spreadOne(g, atom, comps)

	h := NewRealGrid(a, b, c)
	for i := range h.Data {
		h.Data[i] = rng.Float64()*2 - 1
	}

	var inner float64
	for i := range g.Data {
		inner += g.Data[i] * h.Data[i]
	}
	pot := Potential(h, atom, comps)
	if math.Abs(inner-pot) > 1e-11 {
		t.Errorf("<h, spread> = %v, Potential = %v", inner, pot)
	}
}

// FractionalForce matches a central finite difference of the Potential
// contraction with respect to each fractional coordinate.
func TestFractionalForceFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const p, a, b, c = 6, 12, 12, 12
	frac := [3]float64{0.41, 0.13, 0.77}
	comps := chargeComponents(0.8)

	h := NewRealGrid(a, b, c)
	for i := range h.Data {
		h.Data[i] = rng.Float64()*2 - 1
	}

	atom, err := NewAtom3D(frac, p, a, b, c, 1)
	if err != nil {
		t.Fatal(err)
	}
	force := FractionalForce(h, atom, comps)

	const step = 1e-6
	for axis := 0; axis < 3; axis++ {
		plus, minus := frac, frac
		plus[axis] += step
		minus[axis] -= step
		ap, err := NewAtom3D(plus, p, a, b, c, 0)
		if err != nil {
			t.Fatal(err)
		}
		am, err := NewAtom3D(minus, p, a, b, c, 0)
		if err != nil {
			t.Fatal(err)
		}
		fd := -(Potential(h, ap, comps) - Potential(h, am, comps)) / (2 * step)
		if math.Abs(fd-force[axis]) > 1e-4 {
			t.Errorf("axis %d: finite difference %v, FractionalForce %v", axis, fd, force[axis])
		}
	}
}

// Spread with several workers reproduces the serial result to rounding:
// the private grids are reduced in ascending worker order, so only the
// scheduling of atoms onto workers can perturb the summation order.
func TestSpreadThreadedMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const p, a, b, c = 6, 16, 16, 16
	atoms, comps, err := randomAtoms(rng, 23, p, a, b, c, 0)
	if err != nil {
		t.Fatal(err)
	}

	serial := NewRealGrid(a, b, c)
	Spread(serial, atoms, comps, 1)

	threaded := NewRealGrid(a, b, c)
	Spread(threaded, atoms, comps, 4)

	for i := range serial.Data {
		if math.Abs(serial.Data[i]-threaded.Data[i]) > 1e-12 {
			t.Fatalf("threaded spread diverges at %d: %v vs %v", i, serial.Data[i], threaded.Data[i])
		}
	}
}

func TestProbeAllMatchesSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const p, a, b, c = 4, 10, 10, 10
	atoms, comps, err := randomAtoms(rng, 9, p, a, b, c, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := NewRealGrid(a, b, c)
	for i := range h.Data {
		h.Data[i] = rng.Float64()
	}

	pots, forces := ProbeAll(h, atoms, comps, 3, true)
	for i := range atoms {
		if want := Potential(h, atoms[i], comps[i]); pots[i] != want {
			t.Errorf("atom %d potential = %v, want %v", i, pots[i], want)
		}
		if want := FractionalForce(h, atoms[i], comps[i]); forces[i] != want {
			t.Errorf("atom %d force = %v, want %v", i, forces[i], want)
		}
	}
}

func TestGridWrapIndexing(t *testing.T) {
	g := NewRealGrid(4, 4, 4)
	g.AddAt(-1, 5, 4, 2.5)
	if got := g.At(3, 1, 0); got != 2.5 {
		t.Errorf("wrapped accumulate landed at wrong cell: %v", got)
	}
}
