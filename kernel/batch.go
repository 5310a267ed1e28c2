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
	"github.com/infercore/gemmkit/internal/cpufeat"
	"github.com/infercore/gemmkit/internal/workerpool"
)

// The sequential *Batch entry points in entrypoints.go already execute each
// GEMM independently and in order. The Parallel* wrappers below exploit
// that independence: batch entries share no mutable state (disjoint B
// operands, disjoint result buffers), so dispatching them across a
// workerpool.Pool is safe and changes only wall-clock time, never the
// result.

// ParallelGemmF32Batch is GemmF32Batch, executed across pool.
func ParallelGemmF32Batch(pool *workerpool.Pool, flags cpufeat.Flags, a []float32, aoffset int, b [][]float32, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	pool.ParallelForAtomic(len(b), func(i int) {
		GemmF32(flags, a, aoffset, b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldb, ldc)
	})
}

// ParallelGemmF32Q4Batch is GemmF32Q4Batch, executed across pool.
func ParallelGemmF32Q4Batch(pool *workerpool.Pool, flags cpufeat.Flags, a []float32, aoffset int, bf [][]float32, b [][]byte, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldbf, ldc int) {
	pool.ParallelForAtomic(len(b), func(i int) {
		GemmF32Q4(flags, a, aoffset, bf[i], b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldb, ldbf, ldc)
	})
}

// ParallelGemmQ8Q4Batch is GemmQ8Q4Batch, executed across pool.
func ParallelGemmQ8Q4Batch(pool *workerpool.Pool, flags cpufeat.Flags, af []float32, a []byte, aoffset int, bf [][]float32, b [][]byte, boffset int, r [][]float32, roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc int) {
	pool.ParallelForAtomic(len(b), func(i int) {
		GemmQ8Q4(flags, af, a, aoffset, bf[i], b[i], boffset, r[i], roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc)
	})
}

// ParallelGemmBF16Batch is GemmBF16Batch, executed across pool.
func ParallelGemmBF16Batch(pool *workerpool.Pool, flags cpufeat.Flags, a []BF16, aoffset int, b [][]BF16, boffset int, rs [][]BF16, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	pool.ParallelForAtomic(len(b), func(i int) {
		var rsi []BF16
		var ri []float32
		if rs != nil {
			rsi = rs[i]
		}
		if r != nil {
			ri = r[i]
		}
		GemmBF16(flags, a, aoffset, b[i], boffset, rsi, ri, roffset, m, n0, n, k, lda, ldb, ldc)
	})
}

// ParallelGemmF32BF16Batch is GemmF32BF16Batch, executed across pool.
func ParallelGemmF32BF16Batch(pool *workerpool.Pool, flags cpufeat.Flags, a []float32, aoffset int, b [][]BF16, boffset int, rs [][]BF16, r [][]float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	pool.ParallelForAtomic(len(b), func(i int) {
		var rsi []BF16
		var ri []float32
		if rs != nil {
			rsi = rs[i]
		}
		if r != nil {
			ri = r[i]
		}
		GemmF32BF16(flags, a, aoffset, b[i], boffset, rsi, ri, roffset, m, n0, n, k, lda, ldb, ldc)
	})
}
