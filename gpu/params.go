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

import "encoding/binary"

// paramsByteSize is sizeof(Params) in the WGSL uniform layout: six u32
// fields, packed without padding.
const paramsByteSize = 24

// Params mirrors the WGSL uniform struct every GEMM shader reads as binding
// 5: {m, n+n0, k, lda, ldb, ldc}. N already carries the n0 offset added in
// — the shader is handed the absolute column bound, not the slab width.
type Params struct {
	M, N, K, Lda, Ldb, Ldc uint32
}

// Bytes packs Params into its 24-byte little-endian wire form.
func (p Params) Bytes() []byte {
	buf := make([]byte, paramsByteSize)
	binary.LittleEndian.PutUint32(buf[0:4], p.M)
	binary.LittleEndian.PutUint32(buf[4:8], p.N)
	binary.LittleEndian.PutUint32(buf[8:12], p.K)
	binary.LittleEndian.PutUint32(buf[12:16], p.Lda)
	binary.LittleEndian.PutUint32(buf[16:20], p.Ldb)
	binary.LittleEndian.PutUint32(buf[20:24], p.Ldc)
	return buf
}
