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
	"math/rand"
	"testing"

	"github.com/infercore/gemmkit/internal/cpufeat"
	"github.com/infercore/gemmkit/internal/workerpool"
)

// TestParallelGemmF32BatchMatchesSequential checks that running the batch
// across a worker pool produces the same result as the sequential *Batch
// entry point: batch order never affects the result.
func TestParallelGemmF32BatchMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	const m, n, k, batch = 4, 4, 32, 12
	a := randMatrix(rng, m, k)
	bs := make([][]float32, batch)
	for i := range bs {
		bs[i] = randMatrix(rng, n, k)
	}

	want := make([][]float32, batch)
	for i := range want {
		want[i] = make([]float32, m*n)
	}
	GemmF32Batch(cpufeat.HasAVX2, a, 0, bs, 0, want, 0, m, 0, n, k, k, k, n)

	got := make([][]float32, batch)
	for i := range got {
		got[i] = make([]float32, m*n)
	}
	pool := workerpool.New(4)
	defer pool.Close()
	ParallelGemmF32Batch(pool, cpufeat.HasAVX2, a, 0, bs, 0, got, 0, m, 0, n, k, k, k, n)

	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("batch %d: R[%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}
