// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package simdvec provides the portable SIMD-lane abstraction the kernel
// package's micro-kernels are built on. Vec wraps a fixed-width lane group
// and every arithmetic op here is the scalar equivalent of the
// AVX2/AVX-512/NEON instruction the active tier implies. The active lane
// width is chosen once at init from internal/cpufeat and is constant for
// the process lifetime — there is no per-call dispatch overhead beyond
// that one initial tier selection.
package simdvec

import "github.com/infercore/gemmkit/internal/cpufeat"

// Lanes is the active SIMD width in float32 lanes, fixed by the detected
// cpufeat.Tier at package init.
var Lanes = cpufeat.Detect(nil).Tier.Lanes()

// Vec is a fixed-width accumulator register. Its length always equals
// Lanes; operations silently no-op past a short source slice the same way
// real masked SIMD loads truncate at the lane boundary.
type Vec struct {
	data []float32
}

// NumLanes returns the lane width of v (always equal to Lanes).
func (v Vec) NumLanes() int { return len(v.data) }

// Zero returns a vector with all lanes cleared.
func Zero() Vec {
	return Vec{data: make([]float32, Lanes)}
}

// Set broadcasts value to every lane.
func Set(value float32) Vec {
	d := make([]float32, Lanes)
	for i := range d {
		d[i] = value
	}
	return Vec{data: d}
}

// Load reads up to Lanes elements from src into a new vector. Remaining
// lanes (when len(src) < Lanes) are zero, matching a masked SIMD load.
func Load(src []float32) Vec {
	n := Lanes
	if len(src) < n {
		n = len(src)
	}
	d := make([]float32, Lanes)
	copy(d, src[:n])
	return Vec{data: d}
}

// Store writes up to Lanes elements of v into dst.
func Store(v Vec, dst []float32) {
	n := Lanes
	if len(dst) < n {
		n = len(dst)
	}
	copy(dst[:n], v.data[:n])
}

// MulAdd computes a*b+c, the fused-multiply-add every micro-kernel inner
// loop uses to accumulate a tile's dot products.
func MulAdd(a, b, c Vec) Vec {
	d := make([]float32, Lanes)
	for i := range d {
		d[i] = a.data[i]*b.data[i] + c.data[i]
	}
	return Vec{data: d}
}

// Mul performs element-wise multiplication.
func Mul(a, b Vec) Vec {
	d := make([]float32, Lanes)
	for i := range d {
		d[i] = a.data[i] * b.data[i]
	}
	return Vec{data: d}
}

// Add performs element-wise addition.
func Add(a, b Vec) Vec {
	d := make([]float32, Lanes)
	for i := range d {
		d[i] = a.data[i] + b.data[i]
	}
	return Vec{data: d}
}

// ReduceSum horizontally sums all lanes to a scalar, the final step in
// reducing an accumulator to one output element.
func ReduceSum(v Vec) float32 {
	var sum float32
	for _, x := range v.data {
		sum += x
	}
	return sum
}
