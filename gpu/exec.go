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
	"fmt"
	"math"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// gemmTileRM and gemmTileRN are the general workgroup tile dimensions every
// compute shader is written against; rnM1 is the column width of the
// dedicated M=1 pipeline.
const (
	gemmTileRM = 8
	gemmTileRN = 8
	rnM1       = 64
)

const gemmFenceTimeout = 30 * time.Second

// GemmGPU mirrors the CPU GEMM entry points' contract on the GPU backend:
// write operands into the scratch bundle, dispatch the compiled pipeline
// over a workgroup grid sized for the m x n tile, and copy the result back
// into r with the same roffset/n0 remap the CPU path uses.
//
// a/aScales may be nil when the A operand carries no parallel scale stream
// (F32, BF16 A operands). bid2 is AbsentTensor when B carries no scales
// (F32, BF16 B operands).
func (d *Device) GemmGPU(scratchID ScratchId, shaderID ShaderId, a []byte, aScales []byte, aoffset, alimit int, bid, bid2 TensorId, boffset, blimit int, r []float32, roffset, rlimit, m, n0, n, k, lda, ldb, ldc int, m1Optimized bool) error {
	if d.failed {
		return fmt.Errorf("gpu: device is in a failed state")
	}
	if int(shaderID) < 0 || int(shaderID) >= len(d.pipelines) {
		return fmt.Errorf("gpu: invalid shader id %d", shaderID)
	}
	if int(scratchID) < 0 || int(scratchID) >= len(d.scratch) {
		return fmt.Errorf("gpu: invalid scratch id %d", scratchID)
	}

	s := d.scratch[scratchID]
	pipeline := d.pipelines[shaderID]

	aSize := uint64(alimit - aoffset)
	d.queue.WriteBuffer(s.input, 0, a[aoffset:alimit])

	a2Buffer := s.empty
	var a2Size uint64 = 8
	var a2Offset uint64
	if aScales != nil {
		a2Buffer = s.input2
		a2Offset = Q8ScaleByteOffset(aoffset)
		a2Size = Q8ScaleByteOffset(alimit) - a2Offset
		d.queue.WriteBuffer(s.input2, 0, aScales[a2Offset:a2Offset+a2Size])
	}

	params := Params{M: uint32(m), N: uint32(n + n0), K: uint32(k), Lda: uint32(lda), Ldb: uint32(ldb), Ldc: uint32(ldc)}
	d.queue.WriteBuffer(s.params, 0, params.Bytes())

	bSize := uint64(blimit - boffset)
	bBuffer := d.tensors[bid]

	b2Buffer := s.empty
	var b2Size uint64 = 8
	var b2Offset uint64
	if bid2 != AbsentTensor {
		b2Buffer = d.tensors[bid2]
		b2Offset = Q4ScaleByteOffset(boffset)
		b2Size = Q4ScaleByteOffset(blimit) - b2Offset
	}

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Layout: d.bindGroupLayout,
		Entries: []hal.BindGroupEntry{
			{Binding: 0, Buffer: s.input, Offset: 0, Size: aSize},
			{Binding: 1, Buffer: a2Buffer, Offset: 0, Size: a2Size},
			{Binding: 2, Buffer: bBuffer, Offset: uint64(boffset), Size: bSize},
			{Binding: 3, Buffer: b2Buffer, Offset: b2Offset, Size: b2Size},
			{Binding: 4, Buffer: s.result, Offset: 0, Size: uint64(rlimit)},
			{Binding: 5, Buffer: s.params, Offset: 0, Size: paramsByteSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer bindGroup.Destroy()

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gemmkit_cmd"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gemmkit_cmd"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass, err := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "gemmkit_pass"})
	if err != nil {
		return fmt.Errorf("gpu: begin compute pass: %w", err)
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)

	wgX := (n + gemmTileRN - 1) / gemmTileRN
	wgY := (m + gemmTileRM - 1) / gemmTileRM
	if m == 1 && m1Optimized {
		wgX = (n + rnM1 - 1) / rnM1
		wgY = 1
	}
	pass.DispatchWorkgroups(uint32(wgX), uint32(wgY), 1)
	pass.End()

	encoder.CopyBufferToBuffer(s.result, s.resultStaging, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: uint64(rlimit)}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, gemmFenceTimeout)
	if err != nil {
		d.failed = true
		return fmt.Errorf("gpu: wait: %w", err)
	}
	if !ok {
		return fmt.Errorf("gpu: wait timed out after %v", gemmFenceTimeout)
	}

	staging := make([]byte, rlimit)
	if err := d.queue.ReadBuffer(s.resultStaging, 0, staging); err != nil {
		return fmt.Errorf("gpu: read staging buffer: %w", err)
	}

	// Same roffset/n0 remap as the CPU path: the shader wrote absolute
	// columns [0, n0+n), the caller's R only covers [roffset, roffset+rlimit).
	stagingF32 := bytesToFloat32(staging)
	for rm := 0; rm < m; rm++ {
		for rn, rn2 := n0, 0; rn < int(params.N); rn, rn2 = rn+1, rn2+1 {
			idx := rm*ldc + rn - roffset
			idx2 := rm*ldc + n0 + rn2
			r[idx] = stagingF32[idx2]
		}
	}

	return nil
}

// GemmGPUBatch runs GemmGPU once per entry of bids/b2ids/rs, sharing the A
// operand and its scales across every call.
func (d *Device) GemmGPUBatch(scratchID ScratchId, shaderID ShaderId, a []byte, aScales []byte, aoffset, alimit int, bids, b2ids []TensorId, boffset, blimit int, rs [][]float32, roffset, rlimit, m, n0, n, k, lda, ldb, ldc int, m1Optimized bool) error {
	for i := range bids {
		if err := d.GemmGPU(scratchID, shaderID, a, aScales, aoffset, alimit, bids[i], b2ids[i], boffset, blimit, rs[i], roffset, rlimit, m, n0, n, k, lda, ldb, ldc, m1Optimized); err != nil {
			return fmt.Errorf("gpu: batch entry %d: %w", i, err)
		}
	}
	return nil
}

// Q8ScaleByteOffset and Q4ScaleByteOffset convert a byte offset into the
// packed-quanta stream into a byte offset into the parallel F32 scale
// stream, for the GPU executor's own scale-stream addressing.
// Q8ScaleByteOffset computes the same offset*4/32 as kernel.Q8ScaleIndex;
// Q4ScaleByteOffset is four times kernel.Q4ScaleIndex, which returns an
// element index into the scale array rather than a byte offset.
func Q8ScaleByteOffset(offset int) uint64 {
	const qBlock = 32
	return uint64((offset * 4) / qBlock)
}

func Q4ScaleByteOffset(offset int) uint64 {
	const qBlock = 32
	return uint64((offset * 2 * 4) / qBlock)
}

func bytesToFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
