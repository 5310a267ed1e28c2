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

// Package cpufeat is the CPU feature probe. It reports, once at process
// init, which SIMD capability tier the current CPU supports and packs the
// bits the kernel dispatch tables are keyed on. There is no further runtime
// state: a probe result is immutable for the process lifetime.
package cpufeat

// Flags is the 32-bit capability set passed to every CPU GEMM entry point.
// Bit layout matches the wire contract the kernels were specified against;
// do not renumber.
type Flags uint32

const (
	// HasF16C indicates F16C-class half-float conversion instructions.
	HasF16C Flags = 1 << 1 // 2
	// HasAVX2 indicates AVX2 (256-bit integer + float) support.
	HasAVX2 Flags = 1 << 2 // 4
	// IsMSeriesMac indicates an Apple Silicon (M-series) target, which
	// relaxes the AVX-centric register budget cap in the tile dispatcher.
	IsMSeriesMac Flags = 1 << 3 // 8
)

// Tier names one row of the micro-kernel registry: the lane width and
// instruction family a GEMM call should dispatch through.
type Tier int

const (
	// TierScalar is the portable, un-tiled reference path.
	TierScalar Tier = iota
	// TierNEON128 is ARM NEON, 128-bit lanes (4 x float32).
	TierNEON128
	// TierSSE128 is x86 SSE-class, 128-bit lanes (4 x float32).
	TierSSE128
	// TierAVX256 is x86 AVX2, 256-bit lanes (8 x float32).
	TierAVX256
	// TierAVX512 is x86 AVX-512, 512-bit lanes (16 x float32).
	TierAVX512
)

// String renders a tier name, used by the probe CLI and dispatch tests.
func (t Tier) String() string {
	switch t {
	case TierNEON128:
		return "neon128"
	case TierSSE128:
		return "sse128"
	case TierAVX256:
		return "avx256"
	case TierAVX512:
		return "avx512"
	default:
		return "scalar"
	}
}

// Lanes returns the number of float32 lanes a tier's registers hold.
func (t Tier) Lanes() int {
	switch t {
	case TierNEON128, TierSSE128:
		return 4
	case TierAVX256:
		return 8
	case TierAVX512:
		return 16
	default:
		return 1
	}
}

// Probe is the result of the one-time CPU feature probe: the flags bitmask
// a caller should pass to entry points, and the dispatch tier C5 selected
// from it.
type Probe struct {
	Flags Flags
	Tier  Tier
}

// probeResult is computed once at package init by the arch-specific
// detectCPUFeatures in flags_amd64.go / flags_arm64.go / flags_other.go.
var probeResult Probe

// Detect returns the process-wide CPU feature probe. overrideMSeriesMac,
// when non-nil, replaces the platform-detected IsMSeriesMac bit, for
// callers that already know whether they're targeting Apple Silicon and
// would rather not rely on platform detection.
func Detect(overrideMSeriesMac *bool) Probe {
	p := probeResult
	if overrideMSeriesMac != nil {
		if *overrideMSeriesMac {
			p.Flags |= IsMSeriesMac
		} else {
			p.Flags &^= IsMSeriesMac
		}
	}
	return p
}
