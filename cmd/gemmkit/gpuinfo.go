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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infercore/gemmkit/gpu"
)

// newGPUInfoCmd opens a GPU device the same way a caller wiring the gpu
// package would, prints the limits it negotiated, then tears it down. A
// failure to open is reported, not fatal — machines without a usable
// backend are expected to fall back to the CPU kernels.
func newGPUInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gpu-info",
		Short: "Open a GPU device and print the limits it negotiated",
		RunE: func(cmd *cobra.Command, args []string) error {
			device, limits, err := gpu.Open()
			if err != nil {
				fmt.Printf("gpu unavailable: %v\n", err)
				return nil
			}
			defer device.Close()

			fmt.Printf("MaxBufferSize:  %d\n", limits.MaxBufferSize)
			fmt.Printf("MaxBindGroups:  %d\n", limits.MaxBindGroups)
			fmt.Printf("ParamsByteSize: %d\n", limits.ParamsByteSize)
			return nil
		},
	}
}
