// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicshackle/libsurvive/svmat"
)

func newInvertCmd() *cobra.Command {
	var (
		litA   string
		method methodValue
		eps    float64
	)
	cmd := &cobra.Command{
		Use:   "invert",
		Short: "Print the (pseudo-)inverse of A and its determinant or w_min/w_max",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if litA == "" {
				return errMissingA
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

			inv, err := svmat.Create(a.Cols, a.Rows)
			if err != nil {
				return err
			}
			defer svmat.ReleaseMat(&inv)

			res, err := svmat.Invert(a, inv, svmat.InvertMethod(method), opts...)
			if err != nil {
				return err
			}
			label := "det"
			if svmat.InvertMethod(method) == svmat.InvertSVD || (method == 0 && a.Rows != a.Cols) {
				label = "w_min/w_max"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %g\n", label, res)
			fmt.Fprintln(out, formatMatrix(inv))

			return nil
		},
	}
	cmd.Flags().StringVar(&litA, "a", "", "matrix to invert")
	cmd.Flags().Var(&method, "method", "lu, svd or auto")
	cmd.Flags().Float64Var(&eps, "eps", 0, "relative singular-value threshold (0: default)")

	return cmd
}
