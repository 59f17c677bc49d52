// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "golang.org/x/sync/errgroup"

// ProbeAll computes every atom's potential and fractional-coordinate force
// contraction against g, fanning out across nThreads workers via
// errgroup.Group.SetLimit. Per-atom outputs are independent, so unlike
// Spread there is no private-grid-and-reduce step, just a bounded
// parallel-for.
func ProbeAll(g *RealGrid, atoms []Atom3D, components [][]Component, nThreads int, wantForces bool) (potentials []float64, fracForces [][3]float64) {
	n := len(atoms)
	potentials = make([]float64, n)
	if wantForces {
		fracForces = make([][3]float64, n)
	}
	if nThreads <= 1 || n < 2 {
		for i := range atoms {
			potentials[i] = Potential(g, atoms[i], components[i])
			if wantForces {
				fracForces[i] = FractionalForce(g, atoms[i], components[i])
			}
		}
		return potentials, fracForces
	}

	var eg errgroup.Group
	eg.SetLimit(nThreads)
	for i := range atoms {
		i := i
		eg.Go(func() error {
			potentials[i] = Potential(g, atoms[i], components[i])
			if wantForces {
				fracForces[i] = FractionalForce(g, atoms[i], components[i])
			}
			return nil
		})
	}
	_ = eg.Wait() // probe work never returns an error.
	return potentials, fracForces
}
