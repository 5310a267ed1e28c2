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

import "testing"

// TestOpenCloseOrSkip exercises the device bootstrap on whatever backend the
// test host provides. Machines with no usable Vulkan backend are expected to
// fail Open with an error rather than a panic, so that case is skipped
// rather than failed.
func TestOpenCloseOrSkip(t *testing.T) {
	d, limits, err := Open()
	if err != nil {
		t.Skipf("no GPU backend available: %v", err)
	}
	defer d.Close()

	if limits.ParamsByteSize != paramsByteSize {
		t.Errorf("ParamsByteSize = %d, want %d", limits.ParamsByteSize, paramsByteSize)
	}
	if d.Failed() {
		t.Errorf("newly opened device reports Failed()")
	}
}

// TestRegisterTensorOversizedFallback checks that registering a tensor
// larger than the device's MaxBufferSize returns AbsentTensor rather than
// panicking or silently truncating.
func TestRegisterTensorOversizedFallback(t *testing.T) {
	d, limits, err := Open()
	if err != nil {
		t.Skipf("no GPU backend available: %v", err)
	}
	defer d.Close()

	oversized := make([]byte, limits.MaxBufferSize+1)
	if id := d.RegisterTensor(oversized); id != AbsentTensor {
		t.Errorf("RegisterTensor(oversized) = %d, want AbsentTensor", id)
	}
}
