// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pme

import (
	"github.com/particlemesh/pme/fft"
	"github.com/particlemesh/pme/influence"
	"github.com/particlemesh/pme/lattice"
	"github.com/particlemesh/pme/matrix"
	"github.com/particlemesh/pme/spline"
)

func axisModulus(p, dim int) ([]float64, error) { return influence.AxisModulus(p, dim) }

func transformMatrix(lat *lattice.Lattice, angMom int) *matrix.Dense[float64] {
	return spline.TransformMatrix(lat.InverseVectors(), angMom)
}

// computeThetaCache precomputes the influence function over the half-complex
// grid (DimA x DimB x HalfC). It depends only on grid dimensions, lattice,
// kappa, spline order and n, so it is cached once per setup/lattice
// combination and reused across every compute call.
func computeThetaCache(cfg Config, lat *lattice.Lattice, axisA, axisB, axisC []float64) []float64 {
	halfC := cfg.DimC/2 + 1
	recip := lat.ReciprocalUnscaled()
	var col [3][3]float64
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			col[a][b] = recip.At(a, b)
		}
	}
	volume := lat.Volume()
	out := make([]float64, cfg.DimA*cfg.DimB*halfC)
	for i := 0; i < cfg.DimA; i++ {
		ma := float64(fft.Freq(i, cfg.DimA))
		for j := 0; j < cfg.DimB; j++ {
			mb := float64(fft.Freq(j, cfg.DimB))
			for k := 0; k < halfC; k++ {
				mc := float64(k)
				kv := kVector(col, ma, mb, mc)
				kSq := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
				modulus := axisA[i] * axisB[j] * axisC[k]
				out[(i*cfg.DimB+j)*halfC+k] = influence.Theta(cfg.RPower, kSq, cfg.Kappa, volume, modulus)
			}
		}
	}
	return out
}

// kVector returns ma*b_a + mb*b_b + mc*b_c, where b_a, b_b, b_c are the
// unscaled reciprocal lattice columns (col[component][axis]).
func kVector(col [3][3]float64, ma, mb, mc float64) [3]float64 {
	var k [3]float64
	for comp := 0; comp < 3; comp++ {
		k[comp] = ma*col[comp][0] + mb*col[comp][1] + mc*col[comp][2]
	}
	return k
}

// dThetaDk2 approximates d(theta)/d(kSquared) by a central finite
// difference. influence.Theta has no closed-form derivative for general
// r^-n (the incomplete-gamma machinery's derivative is awkward to carry in
// closed form for every integer n), so the virial's k-space term uses this
// numerical derivative instead.
func dThetaDk2(n int, kSq, kappa, volume, modulus float64) float64 {
	h := kSq * 1e-6
	if h < 1e-12 {
		h = 1e-12
	}
	plus := influence.Theta(n, kSq+h, kappa, volume, modulus)
	minus := influence.Theta(n, kSq-h, kappa, volume, modulus)
	if kSq-h <= 0 {
		minus = influence.Theta(n, 0, kappa, volume, modulus)
	}
	return (plus - minus) / (2 * h)
}
