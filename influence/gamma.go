// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package influence computes the per-k-vector reciprocal-space convolution
// weight theta(k) for general r^-n interactions, including the closed-form
// Coulomb case and the incomplete-gamma-based general case.
package influence

import "math"

/*
The series/continued-fraction split, crossover point, and iteration guards
below follow the classic Cephes igam/igamc routines. The upper incomplete
gamma function this package needs, Gamma(a, x) for a = 3-n with integer
n >= 1, always has an integer first argument a in {2, 1, 0, -1, -2, ...};
the Cephes pair assumes a > 0, so non-positive a is handled separately: for
x < 1 via the standard downward recurrence from the exponential integral
E1(x) = Gamma(0, x), which keeps full precision at the small-x arguments a
dispersion kernel (n=6) produces, and for x >= 1 via the continued fraction
for E_{1-a}(x), since Gamma(a, x) = x^a E_{1-a}(x).
*/

const (
	machEp  = 1.0 / (1 << 53)
	maxLog  = 1024 * math.Ln2
	maxIter = 2000
)

// upperIncompleteGamma returns Gamma(a, x), the upper incomplete gamma
// integral, for x >= 0 and either a > 0 or a a non-positive integer. It
// panics if x < 0, or if a is non-positive and not an integer.
func upperIncompleteGamma(a, x float64) float64 {
	if x < 0 {
		panic("influence: upperIncompleteGamma: domain error, x < 0")
	}
	if x == 0 {
		if a <= 0 {
			return math.Inf(1)
		}
		return math.Gamma(a)
	}
	if a > 0 {
		return igamc(a, x) * math.Gamma(a)
	}
	return upperIncompleteGammaNonPositive(a, x)
}

// igamc computes the complemented, normalized incomplete gamma ratio
// Gamma(a,x)/Gamma(a) for a > 0, crossing over between a power series (for
// x < a+1) and a continued fraction (for x >= a+1).
func igamc(a, x float64) float64 {
	if x < a+1 {
		return 1 - igamSeries(a, x)
	}
	return igamContinuedFraction(a, x)
}

// igamSeries computes the normalized lower incomplete gamma ratio
// gamma(a,x)/Gamma(a) via its power series, valid for x < a+1.
func igamSeries(a, x float64) float64 {
	ax := a*math.Log(x) - x - lgamma(a)
	if ax < -maxLog {
		return 0
	}
	ax = math.Exp(ax)

	r := a
	c := 1.0
	sum := 1.0
	for i := 0; i < maxIter; i++ {
		r++
		c *= x / r
		sum += c
		if c < sum*machEp {
			break
		}
	}
	return sum * ax / a
}

// igamContinuedFraction computes the normalized upper incomplete gamma
// ratio Gamma(a,x)/Gamma(a) via Lentz's continued fraction, valid for
// x >= a+1.
func igamContinuedFraction(a, x float64) float64 {
	ax := a*math.Log(x) - x - lgamma(a)
	if ax < -maxLog {
		return 0
	}
	ax = math.Exp(ax)

	y := 1 - a
	z := x + y + 1
	c := 0.0
	pkm2, qkm2 := 1.0, x
	pkm1, qkm1 := x+1, z*x
	ans := pkm1 / qkm1

	for i := 0; i < maxIter; i++ {
		c++
		y++
		z += 2
		yc := y * c
		pk := pkm1*z - pkm2*yc
		qk := qkm1*z - qkm2*yc
		var t float64
		if qk != 0 {
			r := pk / qk
			t = math.Abs((ans - r) / r)
			ans = r
		} else {
			t = 1
		}
		pkm2, pkm1 = pkm1, pk
		qkm2, qkm1 = qkm1, qk
		if math.Abs(pk) > big {
			pkm2 /= big
			pkm1 /= big
			qkm2 /= big
			qkm1 /= big
		}
		if t < machEp {
			break
		}
	}
	return ans * ax
}

const big = 1.0 / machEp

func lgamma(a float64) float64 {
	v, _ := math.Lgamma(a)
	return v
}

// upperIncompleteGammaNonPositive evaluates Gamma(a, x) for a non-positive
// integer a, the case dispersion kernels (r^-6 and beyond, a = 3-n <= -1)
// need and the series/continued fraction pair above does not cover. For
// x < 1 it recurses downward from Gamma(0, x) = E1(x) via
// Gamma(a-1, x) = (Gamma(a, x) - x^(a-1) e^-x) / (a - 1); for x >= 1, where
// that recursion cancels catastrophically, it uses Gamma(-n, x) =
// x^-n E_{n+1}(x) with E_{n+1} from its Lentz continued fraction.
func upperIncompleteGammaNonPositive(a, x float64) float64 {
	n := int(math.Round(-a))
	if float64(n) != -a {
		panic("influence: upperIncompleteGammaNonPositive: a must be a non-positive integer")
	}
	if x >= 1 && n > 0 {
		b, c := x+float64(n+1), big
		d := 1 / b
		h := d
		for i := 1; i < maxIter; i++ {
			ai := -float64(i) * float64(n+i)
			b += 2
			d, c = 1/(ai*d+b), b+ai/c
			h *= c * d
			if math.Abs(c*d-1) < machEp {
				break
			}
		}
		return math.Pow(x, -float64(n)) * math.Exp(-x) * h
	}
	g := exponentialIntegralE1(x) // Gamma(0, x)
	emx := math.Exp(-x)
	for k := 1; k <= n; k++ {
		g = (g - math.Pow(x, float64(-k))*emx) / float64(-k)
	}
	return g
}

// exponentialIntegralE1 evaluates E1(x) = Gamma(0, x) for x > 0 via a power
// series for small x and an asymptotic continued fraction for large x,
// mirroring the series/continued-fraction split used for a > 0 above.
func exponentialIntegralE1(x float64) float64 {
	const eulerGamma = 0.5772156649015328606065121
	if x < 1 {
		sum := -eulerGamma - math.Log(x)
		term := 1.0
		for k := 1; k < maxIter; k++ {
			term *= -x / float64(k)
			delta := -term / float64(k)
			sum += delta
			if math.Abs(delta) < math.Abs(sum)*machEp {
				break
			}
		}
		return sum
	}
	// modified Lentz continued fraction,
	// E1(x) = e^-x / (x+1 - 1/(x+3 - 4/(x+5 - 9/(x+7 - ...))))
	b := x + 1
	c := big
	d := 1 / b
	h := d
	for i := 1; i < maxIter; i++ {
		a := -float64(i) * float64(i)
		b += 2
		d = 1 / (a*d + b)
		c = b + a/c
		del := c * d
		h *= del
		if math.Abs(del-1) < machEp {
			break
		}
	}
	return math.Exp(-x) * h
}
