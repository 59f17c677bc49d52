// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pme

import (
	"sync"

	"github.com/particlemesh/pme/fft"
)

// convolveResult holds what a pass over the half-complex spectrum produces:
// the theta-weighted spectrum (for the inverse FFT feeding the probe), the
// reciprocal-space energy, and, when requested, the reciprocal-space virial
// contribution.
type convolveResult struct {
	spectrum []complex128
	energy   float64
	virial   [6]float64
}

// convolve multiplies the charge-grid spectrum by the cached influence
// function and accumulates the reciprocal-space energy
// (1/2) * sum_k theta(k) * |rho_hat(k)|^2, summed over the stored half-grid
// with the weight-2 factor accounting for the conjugate-symmetric half not
// stored (weight 1 only at k=0 and, for even DimC, the Nyquist bin).
//
// When wantVirial is set, each bin additionally accumulates
//
//	V_ab += delta_ab*E(k) + 2*(dtheta/dkSq)*(weight/2)*|rho_hat(k)|^2*k_a*k_b,
//
// the k-space strain derivative: under a symmetric strain eps the k-vectors
// contract as k -> (I-eps)k and the volume grows as V*(1+tr eps), so
// -dE/deps_ab is the diagonal energy term plus the dtheta/dkSq term above.
//
// Bins are independent, so the A-axis planes are split into contiguous
// ranges across workers; each worker owns its range of the output spectrum
// and a private energy/virial accumulator, and the partial accumulators are
// combined in ascending range order so a fixed thread count reproduces
// bit-identical sums.
func (inst *Instance[T]) convolve(qhat []complex128, wantVirial bool) convolveResult {
	cfg := inst.cfg
	res := convolveResult{spectrum: make([]complex128, len(qhat))}

	nThreads := cfg.NThreads
	if nThreads > cfg.DimA {
		nThreads = cfg.DimA
	}
	if nThreads <= 1 {
		inst.convolvePlanes(qhat, res.spectrum, 0, cfg.DimA, wantVirial, &res.energy, &res.virial)
		return res
	}

	energies := make([]float64, nThreads)
	virials := make([][6]float64, nThreads)
	var wg sync.WaitGroup
	for t := 0; t < nThreads; t++ {
		lo := t * cfg.DimA / nThreads
		hi := (t + 1) * cfg.DimA / nThreads
		wg.Add(1)
		go func(t, lo, hi int) {
			defer wg.Done()
			inst.convolvePlanes(qhat, res.spectrum, lo, hi, wantVirial, &energies[t], &virials[t])
		}(t, lo, hi)
	}
	wg.Wait()

	for t := 0; t < nThreads; t++ {
		res.energy += energies[t]
		for i := range res.virial {
			res.virial[i] += virials[t][i]
		}
	}
	return res
}

// convolvePlanes processes A-axis planes [lo, hi) of the half-complex
// spectrum, writing theta-weighted bins into out and accumulating the
// energy and (optionally) the virial for those planes.
func (inst *Instance[T]) convolvePlanes(qhat, out []complex128, lo, hi int, wantVirial bool, energy *float64, virial *[6]float64) {
	cfg := inst.cfg
	halfC := cfg.DimC/2 + 1
	nyquist := -1
	if cfg.DimC%2 == 0 {
		nyquist = cfg.DimC / 2
	}

	recip := inst.lat.ReciprocalUnscaled()
	var col [3][3]float64
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			col[a][b] = recip.At(a, b)
		}
	}
	volume := inst.lat.Volume()

	for i := lo; i < hi; i++ {
		ma := float64(fft.Freq(i, cfg.DimA))
		for j := 0; j < cfg.DimB; j++ {
			mb := float64(fft.Freq(j, cfg.DimB))
			for k := 0; k < halfC; k++ {
				idx := (i*cfg.DimB+j)*halfC + k
				th := inst.theta[idx]
				v := qhat[idx]
				out[idx] = v * complex(th, 0)

				weight := 2.0
				if k == 0 || k == nyquist {
					weight = 1.0
				}
				mag2 := real(v)*real(v) + imag(v)*imag(v)
				e := weight * 0.5 * th * mag2
				*energy += e

				if wantVirial && th != 0 {
					kv := kVector(col, ma, mb, float64(k))
					kSq := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
					modulus := inst.axisA[i] * inst.axisB[j] * inst.axisC[k]
					dtheta := dThetaDk2(cfg.RPower, kSq, cfg.Kappa, volume, modulus)
					base := weight * 0.5 * mag2
					for a := 0; a < 3; a++ {
						virial[diagIndex[a]] += e
						for b := a; b < 3; b++ {
							virial[pairIndex(a, b)] += 2 * dtheta * base * kv[a] * kv[b]
						}
					}
				}
			}
		}
	}
}

// diagIndex maps Cartesian axis a to its diagonal slot in the length-6
// (xx,xy,xz,yy,yz,zz) virial layout.
var diagIndex = [3]int{0, 3, 5}

// pairIndex maps an (a,b) axis pair, a<=b, to its slot in the length-6
// symmetric upper-triangular virial layout.
func pairIndex(a, b int) int {
	switch {
	case a == 0 && b == 0:
		return 0
	case a == 0 && b == 1:
		return 1
	case a == 0 && b == 2:
		return 2
	case a == 1 && b == 1:
		return 3
	case a == 1 && b == 2:
		return 4
	default:
		return 5
	}
}
