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

//go:build amd64 && !gemmkit_noavx512

package cpufeat

// avx512Tier is only reachable when the binary was built without the
// gemmkit_noavx512 tag; its sibling in tier_avx512_disabled_amd64.go always
// reports TierAVX256 instead. On a build that excludes AVX-512, the
// dispatcher never selects a tile shape wider than the AVX-256 tier
// allows, even though the micro-kernels themselves are ordinary portable
// Go built on internal/simdvec rather than separate per-ISA object code.
func avx512Tier() Tier {
	return TierAVX512
}
