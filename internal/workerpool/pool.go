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

// Package workerpool distributes the independent GEMM calls inside a batch
// (kernel's Parallel*Batch functions) across a fixed set of goroutines.
// Batch members can cost very differently — a Q8Q4 entry is cheaper per
// element than an F32 one, and k varies per layer — so indices are handed
// out from a shared cursor instead of split into equal static ranges.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines, started once and reused across many
// ParallelForAtomic calls so a tight loop over many small batches (one per
// transformer layer) doesn't pay goroutine-spawn cost every time.
type Pool struct {
	size    int
	tasks   chan func()
	once    sync.Once
	stopped atomic.Bool
}

// New starts a pool of size goroutines. size <= 0 uses GOMAXPROCS(0).
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		size:  size,
		tasks: make(chan func(), size),
	}
	for i := 0; i < size; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	for task := range p.tasks {
		task()
	}
}

// NumWorkers returns the number of goroutines in the pool.
func (p *Pool) NumWorkers() int { return p.size }

// Close stops the pool. Idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.stopped.Store(true)
		close(p.tasks)
	})
}

// ParallelForAtomic calls fn(i) once for every i in [0, n), in no particular
// order, and returns once every call has finished. A closed pool, a pool
// with a single worker, or a call with n == 1 runs fn inline instead of
// touching the goroutines.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.size, n)
	if p.stopped.Load() || workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var cursor atomic.Int64
	claim := func() (int, bool) {
		i := int(cursor.Add(1)) - 1
		return i, i < n
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		p.tasks <- func() {
			defer wg.Done()
			for {
				i, ok := claim()
				if !ok {
					return
				}
				fn(i)
			}
		}
	}
	wg.Wait()
}
