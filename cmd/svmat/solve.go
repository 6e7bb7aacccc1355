// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicshackle/libsurvive/svmat"
)

var errMissingA = errors.New("--a is required")

func newSolveCmd() *cobra.Command {
	var (
		litA, litB string
		method     methodValue
		eps        float64
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve A*x = B (least squares with --method svd)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if litA == "" || litB == "" {
				return errors.New("--a and --b are required")
			}
			opts, err := epsOptions(eps)
			if err != nil {
				return err
			}
			a, err := parseMatrix(litA)
			if err != nil {
				return fmt.Errorf("--a: %w", err)
			}
			defer svmat.ReleaseMat(&a)
			b, err := parseMatrix(litB)
			if err != nil {
				return fmt.Errorf("--b: %w", err)
			}
			defer svmat.ReleaseMat(&b)

			x, err := svmat.Create(a.Cols, b.Cols)
			if err != nil {
				return err
			}
			defer svmat.ReleaseMat(&x)

			ok, err := svmat.Solve(a, b, x, svmat.InvertMethod(method), opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s\n", status(ok))
			fmt.Fprintln(out, formatMatrix(x))

			return nil
		},
	}
	cmd.Flags().StringVar(&litA, "a", "", "coefficient matrix A")
	cmd.Flags().StringVar(&litB, "b", "", "right-hand side B")
	cmd.Flags().Var(&method, "method", "lu, svd or auto")
	cmd.Flags().Float64Var(&eps, "eps", 0, "relative singular-value threshold (0: default)")

	return cmd
}

func status(ok bool) string {
	if ok {
		return "ok"
	}

	return "singular"
}
