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
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/infercore/gemmkit/internal/cpufeat"
)

// newProbeCmd prints the same family of feature facts the vendored
// diagnostic tool this was adapted from prints, keyed to the tile
// dispatcher's own capability bits rather than the raw hwy dispatch level.
func newProbeCmd() *cobra.Command {
	var mSeriesMac bool
	var overrideMSeriesMac bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Print the CPU feature tier gemmkit would dispatch through",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("GOOS: %s\n", runtime.GOOS)
			fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
			fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
			fmt.Println()

			var override *bool
			if overrideMSeriesMac {
				override = &mSeriesMac
			}
			probe := cpufeat.Detect(override)

			fmt.Printf("Dispatch tier: %s\n", probe.Tier)
			fmt.Printf("Lanes (float32): %d\n", probe.Tier.Lanes())
			fmt.Printf("Flags: 0x%x\n", uint32(probe.Flags))
			fmt.Printf("  HasF16C:      %v\n", probe.Flags&cpufeat.HasF16C != 0)
			fmt.Printf("  HasAVX2:      %v\n", probe.Flags&cpufeat.HasAVX2 != 0)
			fmt.Printf("  IsMSeriesMac: %v\n", probe.Flags&cpufeat.IsMSeriesMac != 0)
			fmt.Println()

			switch runtime.GOARCH {
			case "arm64":
				printARM64Features()
			case "amd64":
				printAMD64Features()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overrideMSeriesMac, "override-mseries-mac", false, "override the platform-detected IsMSeriesMac bit")
	cmd.Flags().BoolVar(&mSeriesMac, "mseries-mac", false, "value to force IsMSeriesMac to when --override-mseries-mac is set")

	return cmd
}

func printARM64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Printf("  HasASIMD:    %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Printf("  HasFP:       %v\n", cpu.ARM64.HasFP)
	fmt.Printf("  HasFPHP:     %v (FP16 scalar, ARMv8.2-A)\n", cpu.ARM64.HasFPHP)
	fmt.Printf("  HasASIMDHP:  %v (FP16 NEON, ARMv8.2-A)\n", cpu.ARM64.HasASIMDHP)
	fmt.Printf("  HasASIMDFHM: %v (FP16 FMA, ARMv8.4-A)\n", cpu.ARM64.HasASIMDFHM)
	fmt.Printf("  HasSVE:      %v\n", cpu.ARM64.HasSVE)
	fmt.Printf("  HasSVE2:     %v\n", cpu.ARM64.HasSVE2)
}

func printAMD64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.X86 ===")
	fmt.Printf("  HasAVX:      %v\n", cpu.X86.HasAVX)
	fmt.Printf("  HasAVX2:     %v\n", cpu.X86.HasAVX2)
	fmt.Printf("  HasAVX512F:  %v\n", cpu.X86.HasAVX512F)
	fmt.Printf("  HasAVX512BW: %v\n", cpu.X86.HasAVX512BW)
	fmt.Printf("  HasAVX512VL: %v\n", cpu.X86.HasAVX512VL)
	fmt.Printf("  HasFMA:      %v\n", cpu.X86.HasFMA)
	fmt.Printf("  HasF16C:     %v\n", cpu.X86.HasF16C)
	fmt.Printf("  HasSSE2:     %v\n", cpu.X86.HasSSE2)
	fmt.Printf("  HasSSE41:    %v\n", cpu.X86.HasSSE41)
	fmt.Printf("  HasSSE42:    %v\n", cpu.X86.HasSSE42)
}
