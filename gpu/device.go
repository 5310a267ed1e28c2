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

// Package gpu wraps a compute-shader GEMM backend on top of the gogpu/wgpu
// hardware-abstraction layer: device bootstrap, a buffer/shader registry,
// and an executor that dispatches the same R = A*B^T computation the kernel
// package runs on CPU. WebGPU's native API drives adapter/device request,
// shader compile, and buffer map through an async callback model pumped by
// an event loop; hal's Go binding exposes the equivalent operations as
// ordinary blocking calls instead, which this package relies on throughout
// — semantics are unchanged as long as no other work runs on the same host
// thread while a call blocks.
package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// gemmBindingCount is the number of entries in the single bind-group layout
// shared by every compute pipeline: A, A-scales, B, B-scales (read-only
// storage), result (read-write storage), Params (uniform).
const gemmBindingCount = 6

// Device owns one GPU device's entire resource lifetime: the instance,
// adapter-derived limits, the shared bind-group layout, and the tensor,
// scratch, and shader registries. Handles returned by the registry methods
// are indices into this struct's dense tables rather than raw pointers,
// keeping every GPU resource reachable from (and destroyed through) a
// single owning value.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	bindGroupLayout hal.BindGroupLayout

	maxBufferSize  uint64
	maxBindGroups  uint32
	paramsByteSize uint32

	tensors  []hal.Buffer
	scratch  []scratchBundle
	shaders  []hal.ShaderModule
	pipelines []hal.ComputePipeline

	failed bool
}

// Limits reports the device limits relevant to sizing scratch buffers and
// bind groups.
type Limits struct {
	MaxBufferSize  uint64
	MaxBindGroups  uint32
	ParamsByteSize uint32
}

// Open acquires an instance, a high-performance adapter, and a device
// configured with that adapter's limits maximised, then installs the shared
// six-binding bind-group layout every compute pipeline will use.
func Open() (*Device, Limits, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, Limits{}, fmt.Errorf("gpu: vulkan backend not available")
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, Limits{}, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, Limits{}, fmt.Errorf("gpu: no adapters found")
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}

	limits := selected.Adapter.Limits()

	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, Limits{}, fmt.Errorf("gpu: open device: %w", err)
	}

	d := &Device{
		instance:       instance,
		device:         openDev.Device,
		queue:          openDev.Queue,
		maxBufferSize:  limits.MaxBufferSize,
		maxBindGroups:  limits.MaxBindGroups,
		paramsByteSize: paramsByteSize,
	}

	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gemmkit_bind_group_layout",
		Entries: []hal.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 4, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 5, Visibility: gputypes.ShaderStageCompute, Buffer: hal.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		d.device.Destroy()
		instance.Destroy()
		return nil, Limits{}, fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	d.bindGroupLayout = layout

	return d, Limits{MaxBufferSize: limits.MaxBufferSize, MaxBindGroups: limits.MaxBindGroups, ParamsByteSize: paramsByteSize}, nil
}

// Close destroys every resource the device owns: shaders, pipelines,
// scratch and tensor buffers, the bind-group layout, the device, and the
// instance. Handles issued before Close must not be used afterward; doing
// so is undefined.
func (d *Device) Close() {
	for _, p := range d.pipelines {
		if p != nil {
			p.Destroy()
		}
	}
	for _, s := range d.shaders {
		if s != nil {
			s.Destroy()
		}
	}
	for _, s := range d.scratch {
		s.destroy(d.device)
	}
	for _, t := range d.tensors {
		if t != nil {
			d.device.DestroyBuffer(t)
		}
	}
	if d.bindGroupLayout != nil {
		d.bindGroupLayout.Destroy()
	}
	d.device.Destroy()
	d.instance.Destroy()
}

// Failed reports whether the device has been marked failed: a fence wait
// returned an error, a shader module or pipeline could not be created, or a
// scratch buffer could not be allocated. Once set, GemmGPU returns an error
// without issuing work; the package neither logs nor exits the process.
func (d *Device) Failed() bool { return d.failed }
