// SPDX-License-Identifier: MIT

package dense

import (
	"github.com/nicshackle/libsurvive/backend"
	"github.com/nicshackle/libsurvive/svtype"
)

// Gemm computes c = alpha*op(a)*op(b) + beta*c.
//
// Loop order is i→p→j so the innermost loop walks one row of c and, when b
// is not transposed, one row of b; both are contiguous. Zero entries of
// op(a) are skipped.
func (Backend) Gemm(transA, transB bool, alpha float64, a, b backend.View, beta float64, c backend.View) {
	m, n := c.Rows, c.Cols
	k := a.Cols
	if transA {
		k = a.Rows
	}

	var (
		i, p, j int
		av      float64
		row     []svtype.Float
		brow    []svtype.Float
	)
	for i = 0; i < m; i++ {
		row = c.Row(i)
		scaleRow(row, beta)

		for p = 0; p < k; p++ {
			if transA {
				av = a.At(p, i)
			} else {
				av = a.At(i, p)
			}
			if av == 0 {
				continue // skip zero for performance
			}
			av *= alpha

			if transB {
				for j = 0; j < n; j++ {
					row[j] += svtype.Float(av * b.At(j, p))
				}
				continue
			}
			brow = b.Row(p)
			for j = 0; j < n; j++ {
				row[j] += svtype.Float(av * float64(brow[j]))
			}
		}
	}
}

// scaleRow multiplies row by beta; beta == 0 clears it so stale NaNs vanish.
func scaleRow(row []svtype.Float, beta float64) {
	switch beta {
	case 0:
		clear(row)
	case 1:
	default:
		bf := svtype.Float(beta)
		for j := range row {
			row[j] *= bf
		}
	}
}
