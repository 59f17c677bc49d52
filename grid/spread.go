// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "sync"

// Component is one canonical Cartesian multipole component already
// converted to the fractional basis (spline.TransformMatrix's output
// applied to an atom's Cartesian parameter vector), tagged with the
// (ex, ey, ez) derivative order it is contracted against during
// spreading and probing (spline.Exponents).
type Component struct {
	Value      float64
	Ex, Ey, Ez int
}

// axisWeight returns the grid-index-ordered, dimension-scaled derivative
// weight at offset idx for derivative order d along one axis: the chain
// rule through d applications of d/du = dim * d/dw.
func axisWeight(a AtomSpline, dim, d, idx int) float64 {
	w := a.Weights[d][idx]
	scale := 1.0
	for i := 0; i < d; i++ {
		scale *= float64(dim)
	}
	return w * scale
}

// spreadOne accumulates one atom's contracted multipole components onto g.
func spreadOne(g *RealGrid, atom Atom3D, components []Component) {
	p := len(atom.X.Weights[0])
	for _, comp := range components {
		if comp.Value == 0 {
			continue
		}
		for ix := 0; ix < p; ix++ {
			wx := axisWeight(atom.X, atom.DimA, comp.Ex, ix)
			if wx == 0 {
				continue
			}
			i := atom.X.I0 + ix
			for iy := 0; iy < p; iy++ {
				wy := axisWeight(atom.Y, atom.DimB, comp.Ey, iy)
				if wy == 0 {
					continue
				}
				j := atom.Y.I0 + iy
				sxy := comp.Value * wx * wy
				for iz := 0; iz < p; iz++ {
					wz := axisWeight(atom.Z, atom.DimC, comp.Ez, iz)
					if wz == 0 {
						continue
					}
					k := atom.Z.I0 + iz
					g.AddAt(i, j, k, sxy*wz)
				}
			}
		}
	}
}

// Spread accumulates every atom's contracted multipole components onto g,
// fanning atoms out across nThreads workers with a private full-size grid
// per worker, then reducing the per-worker grids back into g plane by
// plane, the planes themselves partitioned across the workers. The
// reduction visits planes in ascending index order and, within a plane,
// worker grids in ascending worker order, so repeated runs at a fixed
// thread count reproduce bit-identical sums. Atomic writes to the shared
// grid are never used: the spread inner loop is the hottest loop in the
// pipeline and contended atomics would serialize it.
func Spread(g *RealGrid, atoms []Atom3D, components [][]Component, nThreads int) {
	g.Zero()
	if nThreads <= 1 || len(atoms) < 2 {
		for i, atom := range atoms {
			spreadOne(g, atom, components[i])
		}
		return
	}

	partials := make([]*RealGrid, nThreads)
	for t := range partials {
		partials[t] = NewRealGrid(g.A, g.B, g.C)
	}

	jobs := make(chan int, nThreads)
	var wg sync.WaitGroup
	for t := 0; t < nThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			dst := partials[t]
			for i := range jobs {
				spreadOne(dst, atoms[i], components[i])
			}
		}(t)
	}
	for i := range atoms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	reducePlanes(g, partials, nThreads)
}

// reducePlanes sums the worker-private grids into g, partitioning the A-axis
// planes across nThreads workers. Each plane's sum walks the partial grids
// in ascending worker order, so the result for a given thread count is
// deterministic regardless of how the plane ranges are scheduled.
func reducePlanes(g *RealGrid, partials []*RealGrid, nThreads int) {
	planeLen := g.B * g.C
	planes := make(chan int, nThreads)
	var wg sync.WaitGroup
	for t := 0; t < nThreads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range planes {
				lo, hi := i*planeLen, (i+1)*planeLen
				dst := g.Data[lo:hi]
				for _, part := range partials {
					src := part.Data[lo:hi]
					for n := range dst {
						dst[n] += src[n]
					}
				}
			}
		}()
	}
	for i := 0; i < g.A; i++ {
		planes <- i
	}
	close(planes)
	wg.Wait()
}
