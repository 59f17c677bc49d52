// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pme

import (
	"github.com/particlemesh/pme/grid"
	"github.com/particlemesh/pme/lattice"
	"github.com/particlemesh/pme/matrix"
	"github.com/particlemesh/pme/spline"
)

// ComputeERec computes the reciprocal-space energy only, spreading atoms
// onto the grid, forward-transforming, and summing the theta-weighted
// spectrum directly (Parseval's theorem). It never inverse-transforms or
// probes, making it the cheapest of the three compute paths.
func (inst *Instance[T]) ComputeERec(nAtoms, angMom int, parameters, coordinates []T) (float64, error) {
	atoms, components, err := inst.prepare(nAtoms, angMom, parameters, coordinates, false)
	if err != nil {
		return 0, err
	}
	grid.Spread(inst.scratch, atoms, components, inst.cfg.NThreads)
	spectrum := inst.plan.Forward(inst.scratch.Data)
	res := inst.convolve(spectrum, false)
	return inst.cfg.Scale * res.energy, nil
}

// ComputeEFRec computes the reciprocal-space energy and accumulates (adds
// to, never overwrites) each atom's Cartesian force into forces, a
// row-major nAtoms x 3 array.
func (inst *Instance[T]) ComputeEFRec(nAtoms, angMom int, parameters, coordinates []T, forces []T) (float64, error) {
	energy, _, err := inst.computeEFV(nAtoms, angMom, parameters, coordinates, forces, false)
	return energy, err
}

// ComputeEFVRec computes the reciprocal-space energy, accumulates forces,
// and accumulates the length-6 symmetric virial (xx,xy,xz,yy,yz,zz).
func (inst *Instance[T]) ComputeEFVRec(nAtoms, angMom int, parameters, coordinates []T, forces []T, virial *[6]float64) (float64, error) {
	energy, v, err := inst.computeEFV(nAtoms, angMom, parameters, coordinates, forces, true)
	if err == nil && virial != nil {
		for i := range virial {
			virial[i] += v[i]
		}
	}
	return energy, err
}

func (inst *Instance[T]) computeEFV(nAtoms, angMom int, parameters, coordinates, forces []T, wantVirial bool) (float64, [6]float64, error) {
	atoms, components, err := inst.prepare(nAtoms, angMom, parameters, coordinates, true)
	if err != nil {
		return 0, [6]float64{}, err
	}
	if len(forces) != nAtoms*3 {
		return 0, [6]float64{}, ErrShapeMismatch
	}

	grid.Spread(inst.scratch, atoms, components, inst.cfg.NThreads)
	spectrum := inst.plan.Forward(inst.scratch.Data)
	res := inst.convolve(spectrum, wantVirial)

	realGrid := inst.plan.Inverse(res.spectrum)
	probeGrid := &grid.RealGrid{A: inst.cfg.DimA, B: inst.cfg.DimB, C: inst.cfg.DimC, Data: realGrid}
	_, fracForces := grid.ProbeAll(probeGrid, atoms, components, inst.cfg.NThreads, true)

	// A fractional-coordinate gradient converts to the Cartesian frame
	// through L^-T, the chain rule for x = L*u.
	invT := matrix.Transpose(inst.lat.InverseVectors())
	for a := 0; a < nAtoms; a++ {
		var cart [3]float64
		for row := 0; row < 3; row++ {
			cart[row] = invT.At(row, 0)*fracForces[a][0] + invT.At(row, 1)*fracForces[a][1] + invT.At(row, 2)*fracForces[a][2]
		}
		forces[3*a+0] += T(inst.cfg.Scale * cart[0])
		forces[3*a+1] += T(inst.cfg.Scale * cart[1])
		forces[3*a+2] += T(inst.cfg.Scale * cart[2])
	}

	var v [6]float64
	for i := range v {
		v[i] = inst.cfg.Scale * res.virial[i]
	}
	return inst.cfg.Scale * res.energy, v, nil
}

// prepare validates the call and builds the per-atom spline tensors and
// fractional-basis multipole components shared by all three compute paths.
func (inst *Instance[T]) prepare(nAtoms, angMom int, parameters, coordinates []T, forces bool) ([]grid.Atom3D, [][]grid.Component, error) {
	if inst.state != StateLatticeSet {
		if inst.state == StateUnconfigured {
			return nil, nil, ErrNotConfigured
		}
		return nil, nil, ErrNotLatticeSet
	}
	if angMom < 0 || nAtoms < 0 {
		return nil, nil, ErrShapeMismatch
	}
	nCart := spline.NCartesian(angMom)
	if len(parameters) != nAtoms*nCart || len(coordinates) != nAtoms*3 {
		return nil, nil, ErrShapeMismatch
	}
	maxDeriv := angMom
	if forces {
		maxDeriv++
	}
	if maxDeriv >= inst.cfg.SplineOrder {
		return nil, nil, ErrDerivTooHigh
	}

	transform := inst.transformFor(angMom)
	exponents := spline.Exponents(angMom)

	atoms := make([]grid.Atom3D, nAtoms)
	components := make([][]grid.Component, nAtoms)
	for a := 0; a < nAtoms; a++ {
		x, y, z := float64(coordinates[3*a]), float64(coordinates[3*a+1]), float64(coordinates[3*a+2])
		frac := lattice.Wrap(inst.lat.FractionalOf([3]float64{x, y, z}))

		atom, err := grid.NewAtom3D(frac, inst.cfg.SplineOrder, inst.cfg.DimA, inst.cfg.DimB, inst.cfg.DimC, maxDeriv)
		if err != nil {
			return nil, nil, err
		}
		atoms[a] = atom

		cart := make([]float64, nCart)
		for c := range cart {
			cart[c] = float64(parameters[a*nCart+c])
		}
		fracParam := applyTransform(transform, cart)

		comps := make([]grid.Component, nCart)
		for c, e := range exponents {
			comps[c] = grid.Component{Value: fracParam[c], Ex: e[0], Ey: e[1], Ez: e[2]}
		}
		components[a] = comps
	}
	return atoms, components, nil
}

func applyTransform(m *matrix.Dense[float64], v []float64) []float64 {
	n, _ := m.Dims()
	out := make([]float64, n)
	for r := 0; r < n; r++ {
		var sum float64
		for c := 0; c < n; c++ {
			sum += m.At(r, c) * v[c]
		}
		out[r] = sum
	}
	return out
}
