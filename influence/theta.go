// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package influence

import "math"

// Theta computes the reciprocal-space convolution weight theta(k) for an
// r^-n interaction under the Ewald split, for a single k-vector of squared
// magnitude kSquared (in (1/length)^2, i.e. k = sum_a m_a * b_a with b_a the
// un-scaled reciprocal vectors satisfying b_i . a_j = delta_ij -- no factor
// of 2*pi folded in), given the splitting parameter kappa, cell volume
// volume, and the combined per-axis B-spline structure-factor modulus
// splineModulus = |sum_j M_p(j) e^(2 pi i j k_axis/N_axis)|^2, already
// multiplied across the three axes and inverted.
//
// At k=0 Theta returns 0: the net-charge/self contribution for k=0 is
// handled externally by SelfEnergy and NeutralizingEnergy.
func Theta(n int, kSquared, kappa, volume, splineModulus float64) float64 {
	if kSquared == 0 {
		return 0
	}
	if n == 1 {
		return math.Exp(-math.Pi*math.Pi*kSquared/(kappa*kappa)) / (math.Pi * volume * kSquared) * splineModulus
	}
	a := float64(3 - n)
	x := math.Pi * math.Pi * kSquared / (kappa * kappa)
	prefactor := math.Pow(math.Pi, float64(n)/2) / volume
	return prefactor * math.Pow(kSquared, (float64(n)-3)/2) * upperIncompleteGamma(a, x) * splineModulus
}

// SelfEnergy returns the real-space self-interaction correction for the
// Ewald split, -kappa/sqrt(pi) * sum(charges^2) for the Coulomb case (n=1).
// It is additive alongside, not a replacement for, the reciprocal-space
// energy: comparing a total Ewald energy against a reference requires it.
func SelfEnergy(n int, kappa float64, charges []float64) float64 {
	if n != 1 {
		// Self terms for general r^-n dispersion kernels belong to the
		// direct-sum collaborator; only the Coulomb self-energy is provided.
		return 0
	}
	sumSq := 0.0
	for _, q := range charges {
		sumSq += q * q
	}
	return -kappa / math.Sqrt(math.Pi) * sumSq
}

// NeutralizingEnergy returns the uniform-background correction applied to a
// non-neutral Coulomb (n=1) system at the excluded k=0 bin:
// -pi/(2 kappa^2 volume) * (sum of charges)^2.
func NeutralizingEnergy(n int, kappa, volume float64, charges []float64) float64 {
	if n != 1 {
		return 0
	}
	total := 0.0
	for _, q := range charges {
		total += q
	}
	return -math.Pi / (2 * kappa * kappa * volume) * total * total
}
