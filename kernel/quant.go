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

// QBlock is the number of logical elements sharing one F32 scale, for both
// the Q8 and Q4 quantization schemes.
const QBlock = 32

// Q8ScaleIndex converts a Q8 byte offset into a position in the parallel F32
// scale stream. The scale stream is addressed at 4-byte (F32) granularity, so
// the result is offset*4/QBlock: it advances once every eight bytes of the
// packed-quanta offset, four per 32-byte block.
func Q8ScaleIndex(offset int) int {
	return (offset * 4) / QBlock
}

// Q4ScaleIndex converts a Q4 packed-byte offset into an index into the
// parallel F32 scale array. Each packed byte encodes two elements, so the
// index advances twice as fast as a per-element offset would.
func Q4ScaleIndex(offset int) int {
	return (offset * 2) / QBlock
}

// DequantQ8 returns the dequantized value of signed byte q scaled by s.
func DequantQ8(q int8, s float32) float32 {
	return s * float32(q)
}

// DequantQ4Low returns the dequantized value of the low nibble of packed
// byte b, scaled by s.
func DequantQ4Low(b byte, s float32) float32 {
	return s * float32(int(b&0x0F)-8)
}

// DequantQ4High returns the dequantized value of the high nibble of packed
// byte b, scaled by s.
func DequantQ4High(b byte, s float32) float32 {
	return s * float32(int(b>>4)-8)
}
