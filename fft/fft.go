// Copyright ©2018 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fft provides forward and inverse 3D real-to-half-complex
// transforms of configured grid dimensions, composed from separable 1D
// kernels. The 1D kernels are direct discrete summation rather than a
// radix decomposition: the grid dimensions PME uses are small (tens to low
// hundreds per axis), so O(n^2) per 1D transform trades acceptable
// throughput for a kernel that is correct by construction. Callers needing
// large-grid throughput can swap the plan for a vendor FFT behind the same
// Forward/Inverse contract.
package fft

import "math"

// RealFFT computes length-n real<->half-complex transforms: Forward returns
// the n/2+1 independent Fourier coefficients of a real input (the rest are
// recoverable by conjugate symmetry); Inverse reconstructs n real samples
// from that half-spectrum. Both directions are unnormalized: Forward then
// Inverse multiplies the input by n.
type RealFFT struct {
	n int
}

// NewRealFFT returns a RealFFT initialized for sequences of length n.
func NewRealFFT(n int) *RealFFT { return &RealFFT{n: n} }

// Len returns the length of sequences RealFFT accepts.
func (t *RealFFT) Len() int { return t.n }

// HalfLen returns the length of the half-complex spectrum Forward produces,
// n/2+1.
func (t *RealFFT) HalfLen() int { return t.n/2 + 1 }

// Forward computes X_k = sum_{j=0}^{n-1} seq[j] * exp(-2*pi*i*j*k/n) for
// k = 0..n/2. It panics if len(seq) != t.Len().
func (t *RealFFT) Forward(seq []float64) []complex128 {
	if len(seq) != t.n {
		panic("fft: sequence length mismatch")
	}
	out := make([]complex128, t.HalfLen())
	for k := range out {
		var re, im float64
		for j, v := range seq {
			ang := -2 * math.Pi * float64(j*k) / float64(t.n)
			s, c := math.Sincos(ang)
			re += v * c
			im += v * s
		}
		out[k] = complex(re, im)
	}
	return out
}

// Inverse reconstructs n real samples from a half-complex spectrum of
// length t.HalfLen(), assuming the conjugate-symmetric completion of a real
// signal's full spectrum (X_{n-k} = conj(X_k)). The result is unnormalized:
// Inverse(Forward(seq)) == n*seq.
func (t *RealFFT) Inverse(half []complex128) []float64 {
	if len(half) != t.HalfLen() {
		panic("fft: half-spectrum length mismatch")
	}
	nyquist := -1
	if t.n%2 == 0 {
		nyquist = t.n / 2
	}
	out := make([]float64, t.n)
	for j := 0; j < t.n; j++ {
		sum := real(half[0])
		for k := 1; k < t.HalfLen(); k++ {
			ang := 2 * math.Pi * float64(j*k) / float64(t.n)
			s, c := math.Sincos(ang)
			term := real(half[k])*c - imag(half[k])*s
			if k == nyquist {
				sum += term
			} else {
				sum += 2 * term
			}
		}
		out[j] = sum
	}
	return out
}

// ComplexFFT computes length-n complex forward/inverse transforms.
type ComplexFFT struct {
	n int
}

// NewComplexFFT returns a ComplexFFT initialized for sequences of length n.
func NewComplexFFT(n int) *ComplexFFT { return &ComplexFFT{n: n} }

// Len returns the length of sequences ComplexFFT accepts.
func (t *ComplexFFT) Len() int { return t.n }

// Forward computes X_k = sum_j seq[j] * exp(-2*pi*i*j*k/n), unnormalized.
func (t *ComplexFFT) Forward(seq []complex128) []complex128 {
	return t.transform(seq, -1)
}

// Inverse computes x_j = sum_k seq[k] * exp(+2*pi*i*j*k/n), unnormalized
// (Inverse(Forward(seq)) == n*seq).
func (t *ComplexFFT) Inverse(seq []complex128) []complex128 {
	return t.transform(seq, +1)
}

func (t *ComplexFFT) transform(seq []complex128, sign float64) []complex128 {
	if len(seq) != t.n {
		panic("fft: sequence length mismatch")
	}
	out := make([]complex128, t.n)
	for k := 0; k < t.n; k++ {
		var re, im float64
		for j, v := range seq {
			ang := sign * 2 * math.Pi * float64(j*k) / float64(t.n)
			s, c := math.Sincos(ang)
			re += real(v)*c - imag(v)*s
			im += real(v)*s + imag(v)*c
		}
		out[k] = complex(re, im)
	}
	return out
}
