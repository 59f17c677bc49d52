// Copyright ©2013 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

// SliceView is a strided, non-owning window into a Dense's storage: a row, a
// column, or any other regularly-spaced run of elements. It must not outlive
// the Dense it was taken from.
type SliceView[T Real] struct {
	data   []T
	stride int
}

// Len returns the number of elements addressed by the view.
func (s SliceView[T]) Len() int {
	if s.stride == 0 {
		return 0
	}
	return (len(s.data)-1)/s.stride + 1
}

// At returns the i-th element of the view.
func (s SliceView[T]) At(i int) T {
	return s.data[i*s.stride]
}

// Set stores v at the i-th element of the view.
func (s SliceView[T]) Set(i int, v T) {
	s.data[i*s.stride] = v
}

// Contiguous reports whether the view has stride 1, a precondition for the
// operations below that alias the underlying slice directly.
func (s SliceView[T]) Contiguous() bool { return s.stride == 1 }

// AddScalar adds c to every element of the view in place.
func (s SliceView[T]) AddScalar(c T) {
	for i := 0; i < s.Len(); i++ {
		s.Set(i, s.At(i)+c)
	}
}

// ScaleScalar multiplies every element of the view by c in place.
func (s SliceView[T]) ScaleScalar(c T) {
	for i := 0; i < s.Len(); i++ {
		s.Set(i, s.At(i)*c)
	}
}

// AddSlice adds other elementwise into s in place. It requires both views
// have equal length; if either is non-contiguous the operation still
// succeeds (it walks by stride) but is only guaranteed allocation-free when
// both are contiguous.
func (s SliceView[T]) AddSlice(other SliceView[T]) error {
	if s.Len() != other.Len() {
		return ErrShape
	}
	for i := 0; i < s.Len(); i++ {
		s.Set(i, s.At(i)+other.At(i))
	}
	return nil
}

// Dot returns the inner product of s and other, which must be the same
// length and contiguous.
func (s SliceView[T]) Dot(other SliceView[T]) (T, error) {
	if s.Len() != other.Len() {
		return 0, ErrShape
	}
	if !s.Contiguous() || !other.Contiguous() {
		return 0, ErrIllegalStride
	}
	var sum T
	for i := 0; i < s.Len(); i++ {
		sum += s.At(i) * other.At(i)
	}
	return sum, nil
}

// ToSlice copies the view's elements, contiguous or strided, into a freshly
// allocated slice.
func (s SliceView[T]) ToSlice() []T {
	if !s.Contiguous() {
		out := make([]T, s.Len())
		for i := range out {
			out[i] = s.At(i)
		}
		return out
	}
	out := make([]T, len(s.data))
	copy(out, s.data)
	return out
}
