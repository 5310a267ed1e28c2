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

import "github.com/infercore/gemmkit/internal/simdvec"

// Each microkernel below follows the same three-step shape:
//
//  1. allocate an RM x RN grid of F32 sums;
//  2. for each (mi, ni) pair of the tile, walk K in lane-width (or
//     block-width) steps with its own zeroed accumulator, loading that row
//     of A and that row of B for the pair; a loaded A- or B-vector is not
//     reused across the tile's other columns or rows;
//  3. horizontally reduce each accumulator and write it into R.
//
// newF32F32Kernel builds a microkernelFunc computing R = A * B^T over F32
// operands for whatever tile shape dispatchTile selects at each call.
func newF32F32Kernel(a []float32, aoffset, lda int, b []float32, boffset, ldb int, r []float32, roffset, n0, ldc, k int) microkernelFunc {
	lanes := simdvec.Lanes
	return func(m0, m, n0b, n, rm, rn int) {
		ytiles := (m - m0) / rm
		xtiles := (n - n0b) / rn

		for job := 0; job < xtiles*ytiles; job++ {
			ii := m0 + job/xtiles*rm
			jj := n0b + job%xtiles*rn

			sums := make([][]float32, rm)
			for i := range sums {
				sums[i] = make([]float32, rn)
			}

			for ni := 0; ni < rn; ni++ {
				brow := boffset + (jj+ni)*ldb
				for mi := 0; mi < rm; mi++ {
					arow := aoffset + (ii+mi)*lda
					acc := simdvec.Zero()
					p := 0
					for ; p+lanes <= k; p += lanes {
						va := simdvec.Load(a[arow+p : arow+p+lanes])
						vb := simdvec.Load(b[brow+p : brow+p+lanes])
						acc = simdvec.MulAdd(va, vb, acc)
					}
					sum := simdvec.ReduceSum(acc)
					for ; p < k; p++ {
						sum += a[arow+p] * b[brow+p]
					}
					sums[mi][ni] = sum
				}
			}

			for mi := 0; mi < rm; mi++ {
				for ni := 0; ni < rn; ni++ {
					r[(ii+mi)*ldc+(n0+jj+ni)-roffset] = sums[mi][ni]
				}
			}
		}
	}
}

// newF32Q4Kernel builds a microkernel for F32 (A) times Q4 (B), unpacking
// each packed nibble byte into a signed pair before the FMA: mask with
// 0x0F for the low nibble, shift right 4 for the high nibble, subtract 8
// from each to recover the signed 4-bit code.
func newF32Q4Kernel(a []float32, aoffset, lda int, bf []float32, b []byte, boffset, ldb, ldbf int, r []float32, roffset, n0, ldc, k int) microkernelFunc {
	lanes := simdvec.Lanes
	return func(m0, m, n0b, n, rm, rn int) {
		ytiles := (m - m0) / rm
		xtiles := (n - n0b) / rn
		numBlocks := k / QBlock

		for job := 0; job < xtiles*ytiles; job++ {
			ii := m0 + job/xtiles*rm
			jj := n0b + job%xtiles*rn

			sums := make([][]float32, rm)
			for i := range sums {
				sums[i] = make([]float32, rn)
			}

			for ni := 0; ni < rn; ni++ {
				brow := boffset + (jj+ni)*ldb
				bfrow := (jj + ni) * ldbf
				for mi := 0; mi < rm; mi++ {
					arow := aoffset + (ii+mi)*lda
					var sum float32
					deq := make([]float32, QBlock)
					for blk := 0; blk < numBlocks; blk++ {
						scale := bf[bfrow+blk]
						base := brow + blk*(QBlock/2)
						for bi := 0; bi < QBlock/2; bi++ {
							packed := b[base+bi]
							deq[bi] = DequantQ4Low(packed, scale)
							deq[bi+QBlock/2] = DequantQ4High(packed, scale)
						}
						abase := arow + blk*QBlock
						acc := simdvec.Zero()
						p := 0
						for ; p+lanes <= QBlock; p += lanes {
							va := simdvec.Load(a[abase+p : abase+p+lanes])
							vb := simdvec.Load(deq[p : p+lanes])
							acc = simdvec.MulAdd(va, vb, acc)
						}
						sum += simdvec.ReduceSum(acc)
						for ; p < QBlock; p++ {
							sum += a[abase+p] * deq[p]
						}
					}
					sums[mi][ni] = sum
				}
			}

			for mi := 0; mi < rm; mi++ {
				for ni := 0; ni < rn; ni++ {
					r[(ii+mi)*ldc+(n0+jj+ni)-roffset] = sums[mi][ni]
				}
			}
		}
	}
}

// newQ8Q4Kernel builds a microkernel for Q8 (A) times Q4 (B). A real AVX2
// or NEON implementation would sign-extend the Q8 bytes and run the
// unpacked-nibble product through maddubs/madd or vdotq_s32 pairs; the
// portable Vec abstraction used here models that as an int-promoted-to-
// float FMA instead, which is numerically exact since every quantized
// product fits precisely in a float32 mantissa.
func newQ8Q4Kernel(af []float32, a []byte, aoffset, lda, ldaf int, bf []float32, b []byte, boffset, ldb, ldbf int, r []float32, roffset, n0, ldc, k int) microkernelFunc {
	lanes := simdvec.Lanes
	return func(m0, m, n0b, n, rm, rn int) {
		ytiles := (m - m0) / rm
		xtiles := (n - n0b) / rn
		numBlocks := k / QBlock

		for job := 0; job < xtiles*ytiles; job++ {
			ii := m0 + job/xtiles*rm
			jj := n0b + job%xtiles*rn

			sums := make([][]float32, rm)
			for i := range sums {
				sums[i] = make([]float32, rn)
			}

			for ni := 0; ni < rn; ni++ {
				brow := boffset + (jj+ni)*ldb
				bfrow := (jj + ni) * ldbf
				for mi := 0; mi < rm; mi++ {
					arow := aoffset + (ii+mi)*lda
					afrow := (ii + mi) * ldaf
					var sum float32
					aVals := make([]float32, QBlock)
					bVals := make([]float32, QBlock)
					for blk := 0; blk < numBlocks; blk++ {
						as := af[afrow+blk]
						bs := bf[bfrow+blk]
						abase := arow + blk*QBlock
						bbase := brow + blk*(QBlock/2)
						for ai := 0; ai < QBlock; ai++ {
							aVals[ai] = float32(int8(a[abase+ai]))
						}
						for bi := 0; bi < QBlock/2; bi++ {
							packed := b[bbase+bi]
							bVals[bi] = float32(int(packed&0x0F) - 8)
							bVals[bi+QBlock/2] = float32(int(packed>>4) - 8)
						}
						acc := simdvec.Zero()
						p := 0
						for ; p+lanes <= QBlock; p += lanes {
							va := simdvec.Load(aVals[p : p+lanes])
							vb := simdvec.Load(bVals[p : p+lanes])
							acc = simdvec.MulAdd(va, vb, acc)
						}
						blockSum := simdvec.ReduceSum(acc)
						for ; p < QBlock; p++ {
							blockSum += aVals[p] * bVals[p]
						}
						sum += as * bs * blockSum
					}
					sums[mi][ni] = sum
				}
			}

			for mi := 0; mi < rm; mi++ {
				for ni := 0; ni < rn; ni++ {
					r[(ii+mi)*ldc+(n0+jj+ni)-roffset] = sums[mi][ni]
				}
			}
		}
	}
}

// newBF16Kernel builds a microkernel for BF16*BF16 GEMM. The BF16 load
// rule (widen u16->u32, shift left 16, reinterpret as F32) is exactly
// BF16ToF32; the kernel widens both operand streams once per K-step and
// feeds the result through the same portable FMA loop as the F32 kernel.
func newBF16Kernel(a []BF16, aoffset, lda int, b []BF16, boffset, ldb int, rs []BF16, r []float32, roffset, n0, ldc, k int) microkernelFunc {
	lanes := simdvec.Lanes
	return func(m0, m, n0b, n, rm, rn int) {
		ytiles := (m - m0) / rm
		xtiles := (n - n0b) / rn

		aw := make([]float32, lanes)
		bw := make([]float32, lanes)

		for job := 0; job < xtiles*ytiles; job++ {
			ii := m0 + job/xtiles*rm
			jj := n0b + job%xtiles*rn

			sums := make([][]float32, rm)
			for i := range sums {
				sums[i] = make([]float32, rn)
			}

			for ni := 0; ni < rn; ni++ {
				brow := boffset + (jj+ni)*ldb
				for mi := 0; mi < rm; mi++ {
					arow := aoffset + (ii+mi)*lda
					acc := simdvec.Zero()
					p := 0
					for ; p+lanes <= k; p += lanes {
						for l := 0; l < lanes; l++ {
							aw[l] = BF16ToF32(a[arow+p+l])
							bw[l] = BF16ToF32(b[brow+p+l])
						}
						va := simdvec.Load(aw)
						vb := simdvec.Load(bw)
						acc = simdvec.MulAdd(va, vb, acc)
					}
					sum := simdvec.ReduceSum(acc)
					for ; p < k; p++ {
						sum += BF16ToF32(a[arow+p]) * BF16ToF32(b[brow+p])
					}
					sums[mi][ni] = sum
				}
			}

			for mi := 0; mi < rm; mi++ {
				for ni := 0; ni < rn; ni++ {
					idx := (ii+mi)*ldc + (n0 + jj + ni) - roffset
					if rs != nil {
						rs[idx] = F32ToBF16(sums[mi][ni])
					} else {
						r[idx] = sums[mi][ni]
					}
				}
			}
		}
	}
}

// newF32BF16Kernel builds a microkernel for F32 (A) times BF16 (B) GEMM,
// sharing gemm_bf16's optional BF16 output-encoding mode.
func newF32BF16Kernel(a []float32, aoffset, lda int, b []BF16, boffset, ldb int, rs []BF16, r []float32, roffset, n0, ldc, k int) microkernelFunc {
	lanes := simdvec.Lanes
	return func(m0, m, n0b, n, rm, rn int) {
		ytiles := (m - m0) / rm
		xtiles := (n - n0b) / rn

		bw := make([]float32, lanes)

		for job := 0; job < xtiles*ytiles; job++ {
			ii := m0 + job/xtiles*rm
			jj := n0b + job%xtiles*rn

			sums := make([][]float32, rm)
			for i := range sums {
				sums[i] = make([]float32, rn)
			}

			for ni := 0; ni < rn; ni++ {
				brow := boffset + (jj+ni)*ldb
				for mi := 0; mi < rm; mi++ {
					arow := aoffset + (ii+mi)*lda
					acc := simdvec.Zero()
					p := 0
					for ; p+lanes <= k; p += lanes {
						for l := 0; l < lanes; l++ {
							bw[l] = BF16ToF32(b[brow+p+l])
						}
						va := simdvec.Load(a[arow+p : arow+p+lanes])
						vb := simdvec.Load(bw)
						acc = simdvec.MulAdd(va, vb, acc)
					}
					sum := simdvec.ReduceSum(acc)
					for ; p < k; p++ {
						sum += a[arow+p] * BF16ToF32(b[brow+p])
					}
					sums[mi][ni] = sum
				}
			}

			for mi := 0; mi < rm; mi++ {
				for ni := 0; ni < rn; ni++ {
					idx := (ii+mi)*ldc + (n0 + jj + ni) - roffset
					if rs != nil {
						rs[idx] = F32ToBF16(sums[mi][ni])
					} else {
						r[idx] = sums[mi][ni]
					}
				}
			}
		}
	}
}
