// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nicshackle/libsurvive/svmat"
)

func newSVDCmd() *cobra.Command {
	var litA, plotPath string
	cmd := &cobra.Command{
		Use:   "svd",
		Short: "Print W, U and V of A = U*diag(W)*Vᵀ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if litA == "" {
				return errMissingA
			}
			a, err := parseMatrix(litA)
			if err != nil {
				return fmt.Errorf("--a: %w", err)
			}
			defer svmat.ReleaseMat(&a)

			m, n := a.Rows, a.Cols
			k := min(m, n)
			w, err := svmat.Create(k, 1)
			if err != nil {
				return err
			}
			defer svmat.ReleaseMat(&w)
			u, err := svmat.Create(m, k)
			if err != nil {
				return err
			}
			defer svmat.ReleaseMat(&u)
			v, err := svmat.Create(n, k)
			if err != nil {
				return err
			}
			defer svmat.ReleaseMat(&v)

			if err = svmat.SVD(a, w, u, v, svmat.SVDModifyA); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "W:\n%s\nU:\n%s\nV:\n%s\n", formatMatrix(w), formatMatrix(u), formatMatrix(v))

			if plotPath != "" {
				if err = plotSpectrum(w, plotPath); err != nil {
					return fmt.Errorf("--plot: %w", err)
				}
				fmt.Fprintf(out, "spectrum written to %s\n", plotPath)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&litA, "a", "", "matrix to factor")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write the singular-value spectrum to this image (.png, .svg, .pdf)")

	return cmd
}

// plotSpectrum draws w_i against i; the image format follows the extension.
func plotSpectrum(w *svmat.Mat, path string) error {
	pts := make(plotter.XYs, w.Rows)
	for i := range pts {
		pts[i].X = float64(i + 1)
		pts[i].Y = float64(w.At(i, 0))
	}

	p := plot.New()
	p.Title.Text = "Singular values"
	p.X.Label.Text = "index"
	p.Y.Label.Text = "w"

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, points, plotter.NewGrid())

	return p.Save(4*vg.Inch, 3*vg.Inch, path)
}
