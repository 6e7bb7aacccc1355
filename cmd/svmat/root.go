// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nicshackle/libsurvive/svmat"
)

// newRootCmd builds the command tree. log is handed to svmat once flags are
// parsed so --verbose can lower its level first.
func newRootCmd(log zerolog.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "svmat",
		Short:         "Run svmat kernels on matrix literals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			svmat.SetLogger(log.Level(level))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log kernel diagnostics")

	root.AddCommand(newInfoCmd(), newSolveCmd(), newInvertCmd(), newSVDCmd())

	return root
}

// methodValue is a pflag.Value for --method.
type methodValue svmat.InvertMethod

var _ pflag.Value = (*methodValue)(nil)

func (m *methodValue) String() string {
	if svmat.InvertMethod(*m) == svmat.InvertUnknown {
		return "auto"
	}

	return svmat.InvertMethod(*m).String()
}

func (m *methodValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto", "":
		*m = methodValue(svmat.InvertUnknown)
	case "lu":
		*m = methodValue(svmat.InvertLU)
	case "svd":
		*m = methodValue(svmat.InvertSVD)
	default:
		return fmt.Errorf("unknown method %q (want lu, svd or auto)", s)
	}

	return nil
}

func (*methodValue) Type() string { return "method" }

// epsOptions turns --eps into kernel options; 0 keeps the default.
func epsOptions(eps float64) ([]svmat.Option, error) {
	if eps == 0 {
		return nil, nil
	}
	if eps < 0 {
		return nil, fmt.Errorf("--eps must be non-negative, got %g", eps)
	}

	return []svmat.Option{svmat.WithEpsilon(eps)}, nil
}
