// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/nicshackle/libsurvive/svmat"
	"github.com/nicshackle/libsurvive/svtype"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the linked backend, float precision and CPU features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:   %s\n", svmat.BackendName())
			fmt.Fprintf(out, "precision: %s\n", svtype.Precision)
			fmt.Fprintf(out, "epsilon:   %g\n", svmat.DefaultEpsilon)
			fmt.Fprintf(out, "arch:      %s\n", runtime.GOARCH)
			for _, f := range cpuFeatures() {
				fmt.Fprintf(out, "  %-10s %t\n", f.name, f.on)
			}

			return nil
		},
	}
}

type feature struct {
	name string
	on   bool
}

// cpuFeatures lists the SIMD extensions relevant to the BLAS kernels.
func cpuFeatures() []feature {
	switch runtime.GOARCH {
	case "amd64", "386":
		return []feature{
			{"sse4.1", cpu.X86.HasSSE41},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
		}
	case "arm64":
		return []feature{
			{"asimd", cpu.ARM64.HasASIMD},
			{"fphp", cpu.ARM64.HasFPHP},
			{"sve", cpu.ARM64.HasSVE},
		}
	default:
		return nil
	}
}
