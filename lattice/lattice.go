// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lattice converts among lattice-vector representations, derives the
// reciprocal lattice, and provides fractional<->Cartesian coordinate
// transforms for the PME reciprocal-space pipeline.
package lattice

import (
	"math"

	"github.com/particlemesh/pme/matrix"
)

// Error represents lattice package errors: conditions that depend on the
// caller's geometric input, not on caller code (see matrix.Error for the
// analogous split in the linear algebra layer).
type Error string

func (err Error) Error() string { return string(err) }

const (
	ErrDegenerate = Error("lattice: zero or negative cell volume")
	ErrAngle      = Error("lattice: angle out of (0, 180) degrees")
)

// Kind selects the construction convention Build uses to turn
// (|a|,|b|,|c|,alpha,beta,gamma) into a 3x3 Cartesian lattice matrix. The
// choice is observable: it fixes the orientation of forces and stress in the
// caller's frame.
type Kind int

const (
	// XAligned places a parallel to +x and b in the xy half-plane with
	// positive y, the conventional crystallographic cell orientation.
	XAligned Kind = iota
	// ShapeMatrix yields a symmetric positive-definite matrix whose columns
	// reproduce the metric tensor: the unique symmetric square root of
	// G, where G_ij = length_i * length_j * cos(angle between i and j).
	ShapeMatrix
)

// Lattice holds a 3x3 matrix of Cartesian column vectors a, b, c together
// with its derived reciprocal lattice and cell volume.
type Lattice struct {
	vectors    *matrix.Dense[float64] // columns a, b, c
	inverse    *matrix.Dense[float64]
	reciprocal *matrix.Dense[float64]
	volume     float64
}

// Vectors returns the lattice's Cartesian column-vector matrix [a b c].
func (l *Lattice) Vectors() *matrix.Dense[float64] { return l.vectors }

// Reciprocal returns 2*pi*(L^-T), satisfying Reciprocal * L^T = 2*pi*I.
func (l *Lattice) Reciprocal() *matrix.Dense[float64] { return l.reciprocal }

// ReciprocalUnscaled returns L^-T, the crystallographic reciprocal lattice
// satisfying b_i . a_j = delta_ij (no factor of 2*pi folded in, unlike
// Reciprocal). This is the convention influence.Theta's k-vectors are
// expressed in.
func (l *Lattice) ReciprocalUnscaled() *matrix.Dense[float64] {
	r, c := l.reciprocal.Dims()
	out := matrix.New[float64](r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, l.reciprocal.At(i, j)/(2*math.Pi))
		}
	}
	return out
}

// Volume returns |det(L)|, always positive for a valid lattice.
func (l *Lattice) Volume() float64 { return l.volume }

// InverseVectors returns L^-1, the Cartesian-to-fractional transform. It is
// computed once at construction; the fractional-coordinate conversion and
// the multipole parameter transform both run per atom per compute call, so
// neither re-inverts the lattice.
func (l *Lattice) InverseVectors() *matrix.Dense[float64] { return l.inverse }

// Build constructs a Lattice from cell lengths lenA, lenB, lenC and angles
// alphaDeg (between b,c), betaDeg (between a,c), gammaDeg (between a,b), all
// in degrees, using the construction convention kind.
func Build(lenA, lenB, lenC, alphaDeg, betaDeg, gammaDeg float64, kind Kind) (*Lattice, error) {
	for _, deg := range [3]float64{alphaDeg, betaDeg, gammaDeg} {
		if deg <= 0 || deg >= 180 {
			return nil, ErrAngle
		}
	}
	alpha := alphaDeg * math.Pi / 180
	beta := betaDeg * math.Pi / 180
	gamma := gammaDeg * math.Pi / 180

	var vectors *matrix.Dense[float64]
	switch kind {
	case XAligned:
		vectors = buildXAligned(lenA, lenB, lenC, alpha, beta, gamma)
	case ShapeMatrix:
		var err error
		vectors, err = buildShapeMatrix(lenA, lenB, lenC, alpha, beta, gamma)
		if err != nil {
			return nil, err
		}
	default:
		return nil, Error("lattice: unknown construction kind")
	}

	return fromVectors(vectors)
}

// FromVectors wraps an already-built 3x3 Cartesian lattice matrix, deriving
// its reciprocal lattice and volume. The caller retains ownership of
// vectors; FromVectors clones it.
func FromVectors(vectors *matrix.Dense[float64]) (*Lattice, error) {
	return fromVectors(vectors.Clone())
}

func fromVectors(vectors *matrix.Dense[float64]) (*Lattice, error) {
	r, c := vectors.Dims()
	if r != 3 || c != 3 {
		return nil, matrix.ErrShape
	}
	inv, err := matrix.Inverse(vectors)
	if err != nil {
		return nil, ErrDegenerate
	}
	invT := matrix.Transpose(inv)
	recip := New2Pi(invT)
	vol := determinant3x3(vectors)
	if vol < 0 {
		vol = -vol
	}
	if vol <= 0 {
		return nil, ErrDegenerate
	}
	return &Lattice{vectors: vectors, inverse: inv, reciprocal: recip, volume: vol}, nil
}

// New2Pi scales m by 2*pi, returning a new matrix.
func New2Pi(m *matrix.Dense[float64]) *matrix.Dense[float64] {
	r, c := m.Dims()
	out := matrix.New[float64](r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, 2*math.Pi*m.At(i, j))
		}
	}
	return out
}

func determinant3x3(m *matrix.Dense[float64]) float64 {
	a, b, c := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	d, e, f := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	g, h, i := m.At(2, 0), m.At(2, 1), m.At(2, 2)
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// buildXAligned places a along +x, b in the xy half-plane with positive y,
// and chooses c so the requested angles are reproduced exactly.
func buildXAligned(lenA, lenB, lenC, alpha, beta, gamma float64) *matrix.Dense[float64] {
	cosA, cosB, cosG := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sinG := math.Sin(gamma)

	ax, ay, az := lenA, 0.0, 0.0
	bx, by, bz := lenB*cosG, lenB*sinG, 0.0

	cx := lenC * cosB
	cy := lenC * (cosA - cosB*cosG) / sinG
	cz2 := 1 - cosA*cosA - cosB*cosB - cosG*cosG + 2*cosA*cosB*cosG
	if cz2 < 0 {
		cz2 = 0
	}
	cz := lenC * math.Sqrt(cz2) / sinG

	return matrix.NewFromData(3, 3, []float64{
		ax, bx, cx,
		ay, by, cy,
		az, bz, cz,
	})
}

// buildShapeMatrix forms the metric tensor G (G_ij = length_i*length_j*cos
// of the angle between axes i,j) and returns its unique symmetric PSD square
// root, via spectral decomposition: diagonalize G = V*diag(lambda)*V^T, take
// positive roots of the eigenvalues, recompose V*diag(sqrt(lambda))*V^T.
func buildShapeMatrix(lenA, lenB, lenC, alpha, beta, gamma float64) (*matrix.Dense[float64], error) {
	cosA, cosB, cosG := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	g := matrix.NewFromData(3, 3, []float64{
		lenA * lenA, lenA * lenB * cosG, lenA * lenC * cosB,
		lenA * lenB * cosG, lenB * lenB, lenB * lenC * cosA,
		lenA * lenC * cosB, lenB * lenC * cosA, lenC * lenC,
	})
	values, vectors, err := matrix.Diagonalize(g, matrix.Ascending)
	if err != nil {
		return nil, err
	}
	sqrtLambda := matrix.New[float64](3, 3)
	for i, lambda := range values {
		if lambda < 0 {
			lambda = 0
		}
		sqrtLambda.Set(i, i, math.Sqrt(lambda))
	}
	vs, err := matrix.Multiply(vectors, sqrtLambda)
	if err != nil {
		return nil, err
	}
	vt := matrix.Transpose(vectors)
	return matrix.Multiply(vs, vt)
}

// FractionalOf returns L^-1 * x, the fractional coordinates of the Cartesian
// point x.
func (l *Lattice) FractionalOf(x [3]float64) [3]float64 {
	return mulVec(l.inverse, x)
}

// CartesianOf returns L * f, the Cartesian coordinates of the fractional
// point f.
func (l *Lattice) CartesianOf(f [3]float64) [3]float64 {
	return mulVec(l.vectors, f)
}

func mulVec(m *matrix.Dense[float64], x [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += m.At(i, j) * x[j]
		}
		out[i] = sum
	}
	return out
}

// Wrap maps each fractional coordinate into [0, 1).
func Wrap(f [3]float64) [3]float64 {
	for i, v := range f {
		v = math.Mod(v, 1)
		if v < 0 {
			v += 1
		}
		f[i] = v
	}
	return f
}
