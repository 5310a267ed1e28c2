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

//go:build amd64

package cpufeat

import "golang.org/x/sys/cpu"

func init() {
	detectCPUFeatures()
}

func detectCPUFeatures() {
	var f Flags
	tier := TierSSE128

	if cpu.X86.HasSSE2 {
		tier = TierSSE128
	}
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		f |= HasAVX2
		tier = TierAVX256
	}
	if cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL {
		tier = avx512Tier()
	}
	if cpu.X86.HasAVX && cpu.X86.HasAVX2 {
		// F16C ships alongside AVX2 on every AMD64 chip Go supports;
		// x/sys/cpu does not expose a dedicated HasF16C bit.
		f |= HasF16C
	}

	probeResult = Probe{Flags: f, Tier: tier}
}
