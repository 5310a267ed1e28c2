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
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TensorId identifies a persistent, write-once weight buffer. -1 is the
// sentinel for "absent operand" or a failed registration.
type TensorId int64

// ScratchId identifies a reusable six-buffer scratch bundle.
type ScratchId int64

// ShaderId identifies a compiled shader module paired 1:1 with a compute
// pipeline. -1 is the sentinel for a failed compile.
type ShaderId int64

// AbsentTensor and AbsentShader are the -1 sentinels for "absent operand"
// and a failed registration respectively.
const (
	AbsentTensor TensorId = -1
	AbsentShader ShaderId = -1
)

// scratchBundle is the fixed six-buffer set: input, input2 (A-scales),
// params, result, result_staging, and an 8-byte empty buffer used whenever a
// binding's real operand is absent (some backends reject a zero-size bind).
type scratchBundle struct {
	input         hal.Buffer
	input2        hal.Buffer
	params        hal.Buffer
	result        hal.Buffer
	resultStaging hal.Buffer
	empty         hal.Buffer
}

func (s scratchBundle) destroy(d hal.Device) {
	for _, b := range []hal.Buffer{s.input, s.input2, s.params, s.result, s.resultStaging, s.empty} {
		if b != nil {
			d.DestroyBuffer(b)
		}
	}
}

// RegisterTensor uploads data into a new write-once STORAGE buffer, mapped
// at creation. Returns AbsentTensor on out-of-memory.
func (d *Device) RegisterTensor(data []byte) TensorId {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label:            "gemmkit_tensor",
		Size:             uint64(len(data)),
		Usage:            gputypes.BufferUsageStorage,
		MappedAtCreation: true,
	})
	if err != nil {
		return AbsentTensor
	}
	mapped := buf.GetMappedRange(0, uint64(len(data)))
	copy(mapped, data)
	buf.Unmap()

	d.tensors = append(d.tensors, buf)
	return TensorId(len(d.tensors) - 1)
}

// RegisterScratchBuffers allocates the six-buffer bundle: input, input2
// (sized for Q8 scales, input_size/QBlock float32s), params, result,
// result_staging, and an 8-byte empty placeholder.
func (d *Device) RegisterScratchBuffers(paramsSize, inputSize, resultSize int) ScratchId {
	mk := func(label string, size uint64, usage gputypes.BufferUsage) hal.Buffer {
		b, err := d.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			d.failed = true
			return nil
		}
		return b
	}

	const qBlock = 32
	bundle := scratchBundle{
		input:         mk("input", uint64(inputSize), gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst),
		input2:        mk("input2", uint64(inputSize/qBlock)*4, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst),
		params:        mk("params", uint64(paramsSize), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst),
		result:        mk("result", uint64(resultSize), gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc),
		resultStaging: mk("staging", uint64(resultSize), gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst),
		empty:         mk("empty", 8, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst),
	}

	d.scratch = append(d.scratch, bundle)
	return ScratchId(len(d.scratch) - 1)
}

// RegisterShader compiles src into a shader module and a matching compute
// pipeline bound to the device's shared bind-group layout. The shader's
// entry point must be named "main". Returns AbsentShader on compile
// failure.
func (d *Device) RegisterShader(src string) ShaderId {
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gemmkit_shader",
		Source: hal.WGSLSource(src),
	})
	if err != nil {
		d.failed = true
		return AbsentShader
	}

	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:           "gemmkit_pipeline",
		BindGroupLayout: d.bindGroupLayout,
		Compute:         hal.ComputeState{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		module.Destroy()
		d.failed = true
		return AbsentShader
	}

	d.shaders = append(d.shaders, module)
	d.pipelines = append(d.pipelines, pipeline)
	return ShaderId(len(d.shaders) - 1)
}
