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

package gpu

import (
	"encoding/binary"
	"testing"
)

func TestParamsBytesLayout(t *testing.T) {
	p := Params{M: 1, N: 2, K: 3, Lda: 4, Ldb: 5, Ldc: 6}
	b := p.Bytes()
	if len(b) != paramsByteSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), paramsByteSize)
	}
	want := []uint32{1, 2, 3, 4, 5, 6}
	for i, w := range want {
		got := binary.LittleEndian.Uint32(b[i*4 : i*4+4])
		if got != w {
			t.Errorf("field %d = %d, want %d", i, got, w)
		}
	}
}

func TestQ8ScaleByteOffset(t *testing.T) {
	cases := []struct{ offset int; want uint64 }{
		{0, 0},
		{8, 1},
		{32, 4},
	}
	for _, c := range cases {
		if got := Q8ScaleByteOffset(c.offset); got != c.want {
			t.Errorf("Q8ScaleByteOffset(%d) = %d, want %d", c.offset, got, c.want)
		}
	}
}

func TestQ4ScaleByteOffset(t *testing.T) {
	cases := []struct{ offset int; want uint64 }{
		{0, 0},
		{16, 4},
		{32, 8},
	}
	for _, c := range cases {
		if got := Q4ScaleByteOffset(c.offset); got != c.want {
			t.Errorf("Q4ScaleByteOffset(%d) = %d, want %d", c.offset, got, c.want)
		}
	}
}
