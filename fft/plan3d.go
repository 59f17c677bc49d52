// Copyright ©2018 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fft

// Plan3D composes three separable 1D transforms into the real-to-half-complex
// and half-complex-to-real transforms the PME spread/convolve/probe
// pipeline needs, over a row-major grid of shape (A, B, C) with flat index
// (i*B+j)*C+k. The half-complex spectrum has shape (A, B, C/2+1) with flat
// index (i*B+j)*halfC+k.
//
// Both directions are unnormalized, like the 1D transforms they compose:
// Inverse(Forward(g)) == A*B*C * g. The convolution pipeline depends on
// this: probing the unnormalized inverse of the theta-weighted spectrum
// yields per-atom potentials whose half-sum reproduces the spectral energy
// (1/2) * sum_k theta(k) * |rho_hat(k)|^2 exactly, with no grid-size factor
// at any call site.
type Plan3D struct {
	a, b, c int
	halfC   int
	alongC  *RealFFT
	alongB  *ComplexFFT
	alongA  *ComplexFFT
}

// NewPlan3D returns a Plan3D for a grid of shape (a, b, c).
func NewPlan3D(a, b, c int) *Plan3D {
	rc := NewRealFFT(c)
	return &Plan3D{
		a: a, b: b, c: c,
		halfC:  rc.HalfLen(),
		alongC: rc,
		alongB: NewComplexFFT(b),
		alongA: NewComplexFFT(a),
	}
}

// Dims returns the real-grid shape (a, b, c).
func (p *Plan3D) Dims() (a, b, c int) { return p.a, p.b, p.c }

// HalfC returns c/2+1, the length of the stored axis in the half-complex
// spectrum.
func (p *Plan3D) HalfC() int { return p.halfC }

// Forward transforms a real grid (length a*b*c, row-major (i*b+j)*c+k) into
// its half-complex spectrum (length a*b*halfC, row-major (i*b+j)*halfC+k):
// a real FFT along the C axis, then complex FFTs along B then A.
func (p *Plan3D) Forward(g []float64) []complex128 {
	if len(g) != p.a*p.b*p.c {
		panic("fft: grid size mismatch")
	}
	spec := make([]complex128, p.a*p.b*p.halfC)
	row := make([]float64, p.c)
	for i := 0; i < p.a; i++ {
		for j := 0; j < p.b; j++ {
			base := (i*p.b + j) * p.c
			copy(row, g[base:base+p.c])
			half := p.alongC.Forward(row)
			copy(spec[(i*p.b+j)*p.halfC:(i*p.b+j+1)*p.halfC], half)
		}
	}
	col := make([]complex128, p.b)
	for i := 0; i < p.a; i++ {
		for k := 0; k < p.halfC; k++ {
			for j := 0; j < p.b; j++ {
				col[j] = spec[(i*p.b+j)*p.halfC+k]
			}
			out := p.alongB.Forward(col)
			for j := 0; j < p.b; j++ {
				spec[(i*p.b+j)*p.halfC+k] = out[j]
			}
		}
	}
	dep := make([]complex128, p.a)
	for j := 0; j < p.b; j++ {
		for k := 0; k < p.halfC; k++ {
			for i := 0; i < p.a; i++ {
				dep[i] = spec[(i*p.b+j)*p.halfC+k]
			}
			out := p.alongA.Forward(dep)
			for i := 0; i < p.a; i++ {
				spec[(i*p.b+j)*p.halfC+k] = out[i]
			}
		}
	}
	return spec
}

// Inverse transforms a half-complex spectrum (length a*b*halfC) back to a
// real grid (length a*b*c), unnormalized (Inverse(Forward(g)) == a*b*c * g):
// complex inverse FFTs along A then B, then a real inverse FFT along C.
func (p *Plan3D) Inverse(spec []complex128) []float64 {
	if len(spec) != p.a*p.b*p.halfC {
		panic("fft: spectrum size mismatch")
	}
	work := make([]complex128, len(spec))
	copy(work, spec)

	dep := make([]complex128, p.a)
	for j := 0; j < p.b; j++ {
		for k := 0; k < p.halfC; k++ {
			for i := 0; i < p.a; i++ {
				dep[i] = work[(i*p.b+j)*p.halfC+k]
			}
			out := p.alongA.Inverse(dep)
			for i := 0; i < p.a; i++ {
				work[(i*p.b+j)*p.halfC+k] = out[i]
			}
		}
	}
	col := make([]complex128, p.b)
	for i := 0; i < p.a; i++ {
		for k := 0; k < p.halfC; k++ {
			for j := 0; j < p.b; j++ {
				col[j] = work[(i*p.b+j)*p.halfC+k]
			}
			out := p.alongB.Inverse(col)
			for j := 0; j < p.b; j++ {
				work[(i*p.b+j)*p.halfC+k] = out[j]
			}
		}
	}
	g := make([]float64, p.a*p.b*p.c)
	for i := 0; i < p.a; i++ {
		for j := 0; j < p.b; j++ {
			half := work[(i*p.b+j)*p.halfC : (i*p.b+j+1)*p.halfC]
			row := p.alongC.Inverse(half)
			copy(g[(i*p.b+j)*p.c:(i*p.b+j+1)*p.c], row)
		}
	}
	return g
}

// Freq maps a 0-based bin index i along an axis of length n to its signed
// frequency (0..n/2 for the low frequencies, then negative wrapping down to
// -(n-1)/2), the standard FFT bin-to-frequency convention used for the two
// fully-complex axes (A and B).
func Freq(i, n int) int {
	if i <= n/2 {
		return i
	}
	return i - n
}
