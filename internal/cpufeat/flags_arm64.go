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

//go:build arm64

package cpufeat

import "runtime"

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures runs the NEON path unconditionally: on an architecture
// without x86 intrinsics the HasF16C/HasAVX2 flag bits are meaningless and
// the NEON tier runs regardless. IsMSeriesMac is derived from the platform
// (darwin/arm64 is always Apple Silicon) rather than read from an input
// flag; callers needing an explicit override use cpufeat.Detect's
// overrideMSeriesMac parameter.
func detectCPUFeatures() {
	var f Flags
	if runtime.GOOS == "darwin" {
		f |= IsMSeriesMac
	}
	probeResult = Probe{Flags: f, Tier: TierNEON128}
}
