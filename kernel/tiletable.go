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

// tile is a register-tile shape: RM rows by RN columns of output.
type tile struct {
	rm, rn int
}

// tileTable maps (mr<<4)|nr, for mr,nr in 1..5, to the largest (RM,RN) tile
// that fully fits an mr x nr remaining rectangle. Written out literally per
// spec: computing it dynamically would change branch-prediction behavior
// relative to the reference kernels it is ported from. Tie-break: prefer
// larger RM*RN, then larger RN (column reuse is costlier to miss than row
// reuse).
var tileTable = map[int]tile{
	0x55: {5, 5},
	0x45: {4, 5},
	0x54: {5, 4},
	0x44: {4, 4},
	0x53: {5, 3},
	0x35: {3, 5},
	0x43: {4, 3},
	0x34: {3, 4},
	0x52: {5, 2},
	0x33: {3, 3},
	0x25: {2, 5},
	0x42: {4, 2},
	0x24: {2, 4},
	0x32: {3, 2},
	0x23: {2, 3},
	0x51: {5, 1},
	0x41: {4, 1},
	0x22: {2, 2},
	0x15: {1, 5},
	0x14: {1, 4},
	0x31: {3, 1},
	0x13: {1, 3},
	0x21: {2, 1},
	0x12: {1, 2},
	0x11: {1, 1},
}

// selectTile picks the (RM, RN) tile for a remaining mr x nr rectangle
// (mr, nr each capped to 5 by the caller), falling through to (1,1) for any
// key the table does not enumerate.
func selectTile(mr, nr int) tile {
	if t, ok := tileTable[(mr<<4)|nr]; ok {
		return t
	}
	return tile{1, 1}
}
