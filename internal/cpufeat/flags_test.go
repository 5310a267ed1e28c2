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

package cpufeat

import "testing"

func TestTierString(t *testing.T) {
	cases := []struct {
		tier Tier
		want string
	}{
		{TierScalar, "scalar"},
		{TierNEON128, "neon128"},
		{TierSSE128, "sse128"},
		{TierAVX256, "avx256"},
		{TierAVX512, "avx512"},
	}
	for _, c := range cases {
		if got := c.tier.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.tier, got, c.want)
		}
	}
}

func TestTierLanes(t *testing.T) {
	cases := []struct {
		tier Tier
		want int
	}{
		{TierScalar, 1},
		{TierNEON128, 4},
		{TierSSE128, 4},
		{TierAVX256, 8},
		{TierAVX512, 16},
	}
	for _, c := range cases {
		if got := c.tier.Lanes(); got != c.want {
			t.Errorf("%v.Lanes() = %d, want %d", c.tier, got, c.want)
		}
	}
}

func TestDetectOverrideMSeriesMac(t *testing.T) {
	on, off := true, false

	p := Detect(&on)
	if p.Flags&IsMSeriesMac == 0 {
		t.Errorf("Detect(&true): IsMSeriesMac bit not set")
	}

	p = Detect(&off)
	if p.Flags&IsMSeriesMac != 0 {
		t.Errorf("Detect(&false): IsMSeriesMac bit set")
	}

	base := Detect(nil)
	p = Detect(&on)
	if p.Tier != base.Tier {
		t.Errorf("override changed Tier: got %v, want %v", p.Tier, base.Tier)
	}
}
