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

import "github.com/infercore/gemmkit/internal/cpufeat"

// microkernelFunc runs one micro-kernel invocation over the aligned
// rectangle [m0,m0+⌊(m-m0)/rm⌋*rm) x [n0,n0+⌊(n-n0)/rn⌋*rn) using tile shape
// (rm, rn). It closes over the operand slices and scale streams of the
// calling typed entry point — an ordinary Go closure standing in for the
// function-pointer-plus-params-struct pattern a C implementation of the
// same dispatch would use.
type microkernelFunc func(m0, m, n0, n, rm, rn int)

// dispatchTile recursively covers the rectangle [m0,m) x [n0,n) with calls
// to kf, selecting a tile shape from tileTable at each step and capping each
// of its dimensions at 4 when cap4x4 is set (no AVX-512 tier, or the M-series-Mac bit is
// unset).
func dispatchTile(m0, m, n0, n int, cap4x4 bool, kf microkernelFunc) {
	if m0 >= m || n0 >= n {
		return
	}

	mr := m - m0
	if mr > 5 {
		mr = 5
	}
	nr := n - n0
	if nr > 5 {
		nr = 5
	}

	t := selectTile(mr, nr)
	if cap4x4 {
		t.rm = min(t.rm, 4)
		t.rn = min(t.rn, 4)
	}

	kf(m0, m, n0, n, t.rm, t.rn)

	mp := m0 + (m-m0)/t.rm*t.rm
	np := n0 + (n-n0)/t.rn*t.rn

	dispatchTile(mp, m, n0, n, cap4x4, kf)
	dispatchTile(m0, mp, np, n, cap4x4, kf)
}

// needsCap4x4 reports whether the active probe forces the dispatcher to
// stay within 4x4 tiles: this applies whenever AVX-512 is unavailable or
// the M-series-Mac bit is unset.
func needsCap4x4(probe cpufeat.Probe) bool {
	return probe.Tier != cpufeat.TierAVX512 || probe.Flags&cpufeat.IsMSeriesMac == 0
}
