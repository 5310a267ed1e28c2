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

// Package kernel implements the mixed-precision GEMM dispatcher: typed entry
// points, their tiled micro-kernels, the recursive tile dispatcher, and the
// scalar reference used as a correctness oracle. Every function computes
// R = A * B^T against row-major operands addressed by a caller-supplied
// leading dimension, following the K-last layout the BaseMatMulKLast family
// of kernels establishes (K contiguous as the last dimension of both
// operands).
package kernel

// ScalarGEMMF32 is the un-tiled reference implementation of F32*F32 GEMM. It
// dequantizes nothing — both operands are already F32 — and exists purely as
// the oracle every micro-kernel family is checked against.
func ScalarGEMMF32(a []float32, aoffset int, b []float32, boffset int, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			arow := aoffset + i*lda
			brow := boffset + j*ldb
			for p := 0; p < k; p++ {
				sum += a[arow+p] * b[brow+p]
			}
			r[i*ldc+(n0+j)-roffset] = sum
		}
	}
}

// ScalarGEMMF32Q4 is the un-tiled reference implementation of F32*Q4 GEMM. B
// is packed-nibble Q4 with a parallel F32 scale stream bf/ldbf.
func ScalarGEMMF32Q4(a []float32, aoffset int, bf []float32, b []byte, boffset int, r []float32, roffset, m, n0, n, k, lda, ldb, ldbf, ldc int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			arow := aoffset + i*lda
			brow := boffset + j*ldb
			bfrow := j * ldbf
			for blk := 0; blk < k/QBlock; blk++ {
				scale := bf[bfrow+blk]
				base := brow + blk*(QBlock/2)
				abase := arow + blk*QBlock
				for bi := 0; bi < QBlock/2; bi++ {
					packed := b[base+bi]
					sum += a[abase+bi] * DequantQ4Low(packed, scale)
					sum += a[abase+bi+QBlock/2] * DequantQ4High(packed, scale)
				}
			}
			r[i*ldc+(n0+j)-roffset] = sum
		}
	}
}

// ScalarGEMMQ8Q4 is the un-tiled reference implementation of Q8*Q4 GEMM. Both
// operands are quantized: A is Q8 (one scale per 32 signed bytes), B is Q4
// (packed nibbles, one scale per 32 logical elements).
func ScalarGEMMQ8Q4(af []float32, a []byte, aoffset int, bf []float32, b []byte, boffset int, r []float32, roffset, m, n0, n, k, lda, ldaf, ldb, ldbf, ldc int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			arow := aoffset + i*lda
			afrow := i * ldaf
			brow := boffset + j*ldb
			bfrow := j * ldbf
			for blk := 0; blk < k/QBlock; blk++ {
				as := af[afrow+blk]
				bs := bf[bfrow+blk]
				abase := arow + blk*QBlock
				bbase := brow + blk*(QBlock/2)
				var blockSum float32
				for bi := 0; bi < QBlock/2; bi++ {
					packed := b[bbase+bi]
					blockSum += float32(int8(a[abase+bi])) * float32(int(packed&0x0F)-8)
					blockSum += float32(int8(a[abase+bi+QBlock/2])) * float32(int(packed>>4)-8)
				}
				sum += as * bs * blockSum
			}
			r[i*ldc+(n0+j)-roffset] = sum
		}
	}
}

// ScalarGEMMBF16 is the un-tiled reference implementation of BF16*BF16 GEMM.
// When rs is non-nil the reduced dot product is re-encoded to BF16 and
// written there instead of to r.
func ScalarGEMMBF16(a []BF16, aoffset int, b []BF16, boffset int, rs []BF16, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			arow := aoffset + i*lda
			brow := boffset + j*ldb
			for p := 0; p < k; p++ {
				sum += BF16ToF32(a[arow+p]) * BF16ToF32(b[brow+p])
			}
			idx := i*ldc + (n0 + j) - roffset
			if rs != nil {
				rs[idx] = F32ToBF16(sum)
			} else {
				r[idx] = sum
			}
		}
	}
}

// ScalarGEMMF32BF16 is the un-tiled reference implementation of F32*BF16
// GEMM, sharing gemm_bf16's optional BF16 output-encoding mode.
func ScalarGEMMF32BF16(a []float32, aoffset int, b []BF16, boffset int, rs []BF16, r []float32, roffset, m, n0, n, k, lda, ldb, ldc int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			arow := aoffset + i*lda
			brow := boffset + j*ldb
			for p := 0; p < k; p++ {
				sum += a[arow+p] * BF16ToF32(b[brow+p])
			}
			idx := i*ldc + (n0 + j) - roffset
			if rs != nil {
				rs[idx] = F32ToBF16(sum)
			} else {
				r[idx] = sum
			}
		}
	}
}
