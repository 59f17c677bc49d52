// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package influence

import (
	"math"

	"github.com/particlemesh/pme/spline"
)

// AxisModulus returns, for a spline order p and a grid dimension dim along
// one axis, the inverted squared B-spline structure-factor modulus
// 1 / |sum_{k=0}^{p-1} M_p(k) * exp(2*pi*i*m*k/dim)|^2 for m = 0..dim-1,
// the per-axis factor whose three-axis product corrects the influence
// function for spline interpolation. It depends only on (p, dim), so the
// orchestrator caches one call per axis per setup.
//
// M_p(k) for k=0..p-1 is exactly the cardinal B-spline evaluated at integer
// offsets from a fractional origin of 0, i.e. spline.Weights(p, 0, 0).
func AxisModulus(p, dim int) ([]float64, error) {
	values, _, err := spline.Weights(p, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]float64, dim)
	for m := 0; m < dim; m++ {
		var re, im float64
		theta := 2 * math.Pi * float64(m) / float64(dim)
		for k, mk := range values {
			ang := theta * float64(k)
			re += mk * math.Cos(ang)
			im += mk * math.Sin(ang)
		}
		denom := re*re + im*im
		if denom < 1e-300 {
			// Known degenerate bin (odd spline order at the Nyquist
			// frequency of an even dim): exclude it the same way Theta
			// excludes k=0, rather than dividing by ~0.
			out[m] = 0
			continue
		}
		out[m] = 1 / denom
	}
	return out, nil
}
