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

import "testing"

func TestSelectTileKnown(t *testing.T) {
	cases := []struct {
		mr, nr int
		want   tile
	}{
		{5, 5, tile{5, 5}},
		{4, 5, tile{4, 5}},
		{5, 4, tile{5, 4}},
		{1, 1, tile{1, 1}},
	}
	for _, c := range cases {
		if got := selectTile(c.mr, c.nr); got != c.want {
			t.Errorf("selectTile(%d,%d) = %+v, want %+v", c.mr, c.nr, got, c.want)
		}
	}
}

func TestSelectTileFallback(t *testing.T) {
	if got := selectTile(9, 9); got != (tile{1, 1}) {
		t.Errorf("selectTile(9,9) = %+v, want {1,1}", got)
	}
}

func TestTileTableNeverExceedsRemaining(t *testing.T) {
	for mr := 1; mr <= 5; mr++ {
		for nr := 1; nr <= 5; nr++ {
			got := selectTile(mr, nr)
			if got.rm > mr || got.rn > nr {
				t.Errorf("selectTile(%d,%d) = %+v exceeds remaining rectangle", mr, nr, got)
			}
		}
	}
}
