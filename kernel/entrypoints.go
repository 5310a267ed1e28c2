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

// GemmF32 computes R = A * B^T over F32 operands. flags selects the target
// tier the way cpufeat.Detect would report it for the running process;
// passing cpufeat.Detect(nil).Flags is the normal caller pattern.
func GemmF32(flags cpufeat.Flags, a []float32, aoffset int, b []float32, boffset int, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	kf := newF32F32Kernel(a, aoffset, lda, b, boffset, ldb, r, roffset, n0, ldc, k)
	dispatchTile(0, m, 0, n, capFromFlags(flags), kf)
}

// GemmF32Batch runs GemmF32 once per entry of b/r, sharing a and aoffset
// across every call. Batch entries are independent and may be executed in
// any order; this reference implementation runs them in order.
func GemmF32Batch(flags cpufeat.Flags, a []float32, aoffset int, b [][]float32, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := range b {
		GemmF32(flags, a, aoffset, b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldb, ldc)
	}
}

// GemmF32Q4 computes R = A * B^T where A is F32 and B is Q4 (packed nibbles
// with a parallel F32 scale stream bf/ldbf).
func GemmF32Q4(flags cpufeat.Flags, a []float32, aoffset int, bf []float32, b []byte, boffset int, r []float32, roffset, m, n0, n, k, lda, ldb, ldbf, ldc int) {
	kf := newF32Q4Kernel(a, aoffset, lda, bf, b, boffset, ldb, ldbf, r, roffset, n0, ldc, k)
	dispatchTile(0, m, 0, n, capFromFlags(flags), kf)
}

// GemmF32Q4Batch runs GemmF32Q4 once per entry of bf/b/r, sharing a and
// aoffset across every call.
func GemmF32Q4Batch(flags cpufeat.Flags, a []float32, aoffset int, bf [][]float32, b [][]byte, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldbf, ldc int) {
	for i := range b {
		GemmF32Q4(flags, a, aoffset, bf[i], b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldb, ldbf, ldc)
	}
}

// GemmQ8Q4 computes R = A * B^T where A is Q8 (signed bytes with a parallel
// F32 scale stream af/ldaf) and B is Q4 (packed nibbles with bf/ldbf).
func GemmQ8Q4(flags cpufeat.Flags, af []float32, a []byte, aoffset int, bf []float32, b []byte, boffset int, r []float32, roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc int) {
	kf := newQ8Q4Kernel(af, a, aoffset, lda, ldaf, bf, b, boffset, ldb, ldbf, r, roffset, n0, ldc, k)
	dispatchTile(0, m, 0, n, capFromFlags(flags), kf)
}

// GemmQ8Q4Batch runs GemmQ8Q4 once per entry of bf/b/r, sharing af, a and
// aoffset across every call.
func GemmQ8Q4Batch(flags cpufeat.Flags, af []float32, a []byte, aoffset int, bf [][]float32, b [][]byte, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc int) {
	for i := range b {
		GemmQ8Q4(flags, af, a, aoffset, bf[i], b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc)
	}
}

// GemmBF16 computes R = A * B^T over BF16 operands. If rs is non-nil the
// reduced dot product is re-encoded to BF16 and written there instead of the
// F32 buffer r.
func GemmBF16(flags cpufeat.Flags, a []BF16, aoffset int, b []BF16, boffset int, rs []BF16, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	kf := newBF16Kernel(a, aoffset, lda, b, boffset, ldb, rs, r, roffset, n0, ldc, k)
	dispatchTile(0, m, 0, n, capFromFlags(flags), kf)
}

// GemmBF16Batch runs GemmBF16 once per entry of b/(rs or r), sharing a and
// aoffset across every call.
func GemmBF16Batch(flags cpufeat.Flags, a []BF16, aoffset int, b [][]BF16, boffset int, rs [][]BF16, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := range b {
		var rsi []BF16
		var ri []float32
		if rs != nil {
			rsi = rs[i]
		}
		if r != nil {
			ri = r[i]
		}
		GemmBF16(flags, a, aoffset, b[i], boffset, rsi, ri, roffset, m, n0, n, k, lda, ldb, ldc)
	}
}

// GemmF32BF16 computes R = A * B^T where A is F32 and B is BF16, sharing
// GemmBF16's optional BF16 output-encoding mode.
func GemmF32BF16(flags cpufeat.Flags, a []float32, aoffset int, b []BF16, boffset int, rs []BF16, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	kf := newF32BF16Kernel(a, aoffset, lda, b, boffset, ldb, rs, r, roffset, n0, ldc, k)
	dispatchTile(0, m, 0, n, capFromFlags(flags), kf)
}

// GemmF32BF16Batch runs GemmF32BF16 once per entry of b/(rs or r), sharing a
// and aoffset across every call.
func GemmF32BF16Batch(flags cpufeat.Flags, a []float32, aoffset int, b [][]BF16, boffset int, rs [][]BF16, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := range b {
		var rsi []BF16
		var ri []float32
		if rs != nil {
			rsi = rs[i]
		}
		if r != nil {
			ri = r[i]
		}
		GemmF32BF16(flags, a, aoffset, b[i], boffset, rsi, ri, roffset, m, n0, n, k, lda, ldb, ldc)
	}
}

// capFromFlags derives the dispatcher's 4x4 cap from the same flags/tier
// rule cpufeat.Detect applies: no AVX-512, or no M-series-Mac bit, forces
// the 4x4 ceiling.
func capFromFlags(flags cpufeat.Flags) bool {
	probe := cpufeat.Probe{Flags: flags, Tier: cpufeat.Detect(nil).Tier}
	return needsCap4x4(probe)
}
