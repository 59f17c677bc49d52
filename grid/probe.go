// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

// probeContract is the adjoint of spreadOne's inner loop for a single
// (ex, ey, ez) derivative tensor: it walks the same spline support box and
// contracts the (already convolved and inverse-transformed) grid g against
// the derivative weights, without the multipole-component value scaling
// (the caller applies that).
func probeContract(g *RealGrid, atom Atom3D, ex, ey, ez int) float64 {
	p := len(atom.X.Weights[0])
	if ex >= len(atom.X.Weights) || ey >= len(atom.Y.Weights) || ez >= len(atom.Z.Weights) {
		// Derivative order exceeds what was precomputed for this atom (the
		// orchestrator only requests force-boosted orders when angMom and
		// maxDeriv allow it); treat as an exact zero contribution.
		return 0
	}
	var sum float64
	for ix := 0; ix < p; ix++ {
		wx := axisWeight(atom.X, atom.DimA, ex, ix)
		if wx == 0 {
			continue
		}
		i := atom.X.I0 + ix
		for iy := 0; iy < p; iy++ {
			wy := axisWeight(atom.Y, atom.DimB, ey, iy)
			if wy == 0 {
				continue
			}
			j := atom.Y.I0 + iy
			wxy := wx * wy
			for iz := 0; iz < p; iz++ {
				wz := axisWeight(atom.Z, atom.DimC, ez, iz)
				if wz == 0 {
					continue
				}
				k := atom.Z.I0 + iz
				sum += wxy * wz * g.At(i, j, k)
			}
		}
	}
	return sum
}

// Potential returns one atom's reciprocal-space potential contraction:
// the convolved grid contracted against the atom's spline tensor, each
// multipole component against its own derivative orders. Half the sum of
// these contractions over all atoms, weighted by the fractional parameters,
// is the reciprocal-space energy.
func Potential(g *RealGrid, atom Atom3D, components []Component) float64 {
	var out float64
	for _, comp := range components {
		out += comp.Value * probeContract(g, atom, comp.Ex, comp.Ey, comp.Ez)
	}
	return out
}

// FractionalForce returns the negative gradient of one atom's potential
// contraction with respect to its fractional coordinates (u, v, w): each
// multipole component's derivative tensor is boosted by one order along the
// axis being differentiated, the chain-rule consequence of the spline
// argument depending on the atom's fractional position.
func FractionalForce(g *RealGrid, atom Atom3D, components []Component) [3]float64 {
	var f [3]float64
	for _, comp := range components {
		v := comp.Value
		if v == 0 {
			continue
		}
		f[0] -= v * probeContract(g, atom, comp.Ex+1, comp.Ey, comp.Ez)
		f[1] -= v * probeContract(g, atom, comp.Ex, comp.Ey+1, comp.Ez)
		f[2] -= v * probeContract(g, atom, comp.Ex, comp.Ey, comp.Ez+1)
	}
	return f
}
