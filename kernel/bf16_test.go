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

package kernel

import (
	"math"
	"testing"
)

func TestBF16RoundTripExact(t *testing.T) {
	// Values whose low 16 mantissa bits are already zero round-trip exactly.
	for _, v := range []float32{0.0, 1.0, -1.0, 2.5, 100.0, -0.125} {
		got := BF16ToF32(F32ToBF16(v))
		if got != v {
			t.Errorf("round trip %v -> %v", v, got)
		}
	}
}

func TestBF16NaN(t *testing.T) {
	b := F32ToBF16(float32(math.NaN()))
	got := BF16ToF32(b)
	if !math.IsNaN(float64(got)) {
		t.Errorf("expected NaN, got %v", got)
	}
}

func TestBF16Subnormal(t *testing.T) {
	tiny := math.Float32frombits(1) // smallest positive subnormal
	b := F32ToBF16(tiny)
	if b != 0 {
		t.Errorf("subnormal should flush to zero, got bits 0x%x", uint16(b))
	}
}

func TestBF16SubnormalMantissaMasked(t *testing.T) {
	// A subnormal with set bits in 16-22 must still flush to signed zero,
	// not leak mantissa bits into the truncated result.
	tiny := math.Float32frombits(0x00400000)
	if b := F32ToBF16(tiny); b != 0 {
		t.Errorf("subnormal should flush to zero, got bits 0x%x", uint16(b))
	}
	negTiny := math.Float32frombits(0x80400000)
	if b := F32ToBF16(negTiny); b != 0x8000 {
		t.Errorf("negative subnormal should flush to signed zero, got bits 0x%x", uint16(b))
	}
}

func TestBF16NegativeZero(t *testing.T) {
	got := BF16ToF32(F32ToBF16(float32(math.Copysign(0, -1))))
	if got != 0 {
		t.Errorf("expected zero, got %v", got)
	}
	if math.Signbit(float64(got)) != true {
		t.Errorf("expected sign bit preserved on negative zero")
	}
}
