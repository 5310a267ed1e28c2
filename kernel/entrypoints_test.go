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
	"math/rand"
	"testing"

	"github.com/infercore/gemmkit/internal/cpufeat"
)

const epsF32 = 1e-3

func almostEqual(a, b float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	scale := float32(1.0)
	if abs := math.Abs(float64(b)); abs > 1 {
		scale = float32(abs)
	}
	return float64(diff) <= float64(epsF32)*float64(scale)
}

func randMatrix(rng *rand.Rand, rows, cols int) []float32 {
	out := make([]float32, rows*cols)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

// TestGemmF32IdentityTransposesB uses A as the m x m identity matrix, so
// R = A * B^T must equal B transposed exactly.
func TestGemmF32IdentityTransposesB(t *testing.T) {
	const m, n, k = 4, 4, 4
	a := make([]float32, m*k)
	for i := 0; i < m; i++ {
		a[i*k+i] = 1
	}
	b := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	r := make([]float32, m*n)
	GemmF32(0, a, 0, b, 0, r, 0, m, 0, n, k, k, k, n)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			// R = A * B^T, A = I, so R[i][j] = B[j][i].
			want := b[j*k+i]
			got := r[i*n+j]
			if got != want {
				t.Errorf("R[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestGemmF32MatchesScalarRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sizes := []struct{ m, n, k int }{
		{1, 1, 8}, {3, 5, 16}, {7, 11, 32}, {9, 9, 40}, {16, 16, 64},
	}
	for _, sz := range sizes {
		a := randMatrix(rng, sz.m, sz.k)
		b := randMatrix(rng, sz.n, sz.k)

		want := make([]float32, sz.m*sz.n)
		ScalarGEMMF32(a, 0, b, 0, want, 0, sz.m, 0, sz.n, sz.k, sz.k, sz.k, sz.n)

		for _, flags := range []cpufeat.Flags{0, cpufeat.HasAVX2, cpufeat.HasAVX2 | cpufeat.IsMSeriesMac} {
			got := make([]float32, sz.m*sz.n)
			GemmF32(flags, a, 0, b, 0, got, 0, sz.m, 0, sz.n, sz.k, sz.k, sz.k, sz.n)
			for i := range got {
				if !almostEqual(got[i], want[i]) {
					t.Fatalf("size %+v flags %v: R[%d] = %v, want %v", sz, flags, i, got[i], want[i])
				}
			}
		}
	}
}

func TestGemmF32SubRegionAddressing(t *testing.T) {
	// A 2x2 block embedded in a larger logical matrix via offsets/limits and
	// a non-zero n0 column slab.
	const lda, ldb, ldc = 8, 8, 10
	const m, n, k, n0 = 2, 2, 4, 3

	rng := rand.New(rand.NewSource(2))
	a := randMatrix(rng, 6, lda)
	b := randMatrix(rng, 6, ldb)
	aoffset := 2 * lda
	boffset := 1 * ldb

	r := make([]float32, m*ldc)
	roffset := 0
	GemmF32(0, a, aoffset, b, boffset, r, roffset, m, n0, n, k, lda, ldb, ldc)

	want := make([]float32, m*ldc)
	ScalarGEMMF32(a, aoffset, b, boffset, want, roffset, m, n0, n, k, lda, ldb, ldc)

	for i := range r {
		if !almostEqual(r[i], want[i]) {
			t.Fatalf("R[%d] = %v, want %v", i, r[i], want[i])
		}
	}
}

// TestGemmQ8Q4SingleBlockExpectedValue checks a Q8*Q4 single-block scenario:
// with every A quantum equal to 1 and every B nibble encoding 1 (raw 9), a
// single 32-wide block with unit scales must reduce to 1*1*32 = 32.
func TestGemmQ8Q4SingleBlockExpectedValue(t *testing.T) {
	const k = QBlock
	a := make([]byte, k)
	for i := range a {
		a[i] = byte(int8(1)) // dequants to 1.0 with scale 1.0
	}
	b := make([]byte, k/2)
	for i := range b {
		// nibble value 9 -> dequant 9-8=1 in both low and high.
		b[i] = 0x99
	}
	af := []float32{1.0}
	bf := []float32{1.0}

	r := make([]float32, 1)
	GemmQ8Q4(0, af, a, 0, bf, b, 0, r, 0, 1, 0, 1, k, k, 1, k/2, 1, 1)

	want := float32(k) // sum of 1*1 over 32 elements
	if !almostEqual(r[0], want) {
		t.Errorf("R[0] = %v, want %v", r[0], want)
	}
}

func TestGemmF32Q4MatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const m, n, k = 3, 5, 64
	numBlocks := k / QBlock
	a := randMatrix(rng, m, k)

	b := make([]byte, n*(k/2))
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	bf := make([]float32, n*numBlocks)
	for i := range bf {
		bf[i] = rng.Float32()
	}

	want := make([]float32, m*n)
	ScalarGEMMF32Q4(a, 0, bf, b, 0, want, 0, m, 0, n, k, k, k/2, numBlocks, n)

	got := make([]float32, m*n)
	GemmF32Q4(cpufeat.HasAVX2, a, 0, bf, b, 0, got, 0, m, 0, n, k, k, k/2, numBlocks, n)

	for i := range got {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("R[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGemmBF16MatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const m, n, k = 4, 4, 32
	a := make([]BF16, m*k)
	b := make([]BF16, n*k)
	for i := range a {
		a[i] = F32ToBF16(rng.Float32()*2 - 1)
	}
	for i := range b {
		b[i] = F32ToBF16(rng.Float32()*2 - 1)
	}

	want := make([]float32, m*n)
	ScalarGEMMBF16(a, 0, b, 0, nil, want, 0, m, 0, n, k, k, k, n)

	got := make([]float32, m*n)
	GemmBF16(0, a, 0, b, 0, nil, got, 0, m, 0, n, k, k, k, n)

	for i := range got {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("R[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGemmBF16OutputEncoding(t *testing.T) {
	const m, n, k = 1, 1, 32
	a := make([]BF16, k)
	b := make([]BF16, k)
	for i := range a {
		a[i] = F32ToBF16(1.0)
		b[i] = F32ToBF16(1.0)
	}
	rs := make([]BF16, m*n)
	GemmBF16(0, a, 0, b, 0, rs, nil, 0, m, 0, n, k, k, k, n)
	if got := BF16ToF32(rs[0]); !almostEqual(got, float32(k)) {
		t.Errorf("rs[0] = %v, want %v", got, k)
	}
}

// TestGemmBatchConsistency checks that running the same (A, B_i) pair
// through the sequential batch entry point and through a direct single call
// must agree exactly.
func TestGemmBatchConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const m, n, k, batch = 3, 3, 16, 5
	a := randMatrix(rng, m, k)
	bs := make([][]float32, batch)
	rsBatch := make([][]float32, batch)
	for i := range bs {
		bs[i] = randMatrix(rng, n, k)
		rsBatch[i] = make([]float32, m*n)
	}

	GemmF32Batch(cpufeat.HasAVX2, a, 0, bs, 0, rsBatch, 0, m, 0, n, k, k, k, n)

	for i := range bs {
		direct := make([]float32, m*n)
		GemmF32(cpufeat.HasAVX2, a, 0, bs[i], 0, direct, 0, m, 0, n, k, k, k, n)
		for j := range direct {
			if rsBatch[i][j] != direct[j] {
				t.Fatalf("batch entry %d: R[%d] = %v, want %v (bit-identical to direct call)", i, j, rsBatch[i][j], direct[j])
			}
		}
	}
}
