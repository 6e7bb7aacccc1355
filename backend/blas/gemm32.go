// SPDX-License-Identifier: MIT

//go:build svfloat32

package blas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/nicshackle/libsurvive/backend"
)

// Gemm calls blas32.Gemm directly on the float32 view storage.
func (Backend) Gemm(transA, transB bool, alpha float64, a, b backend.View, beta float64, c backend.View) {
	blas32.Gemm(transpose(transA), transpose(transB), float32(alpha), general32(a), general32(b), float32(beta), general32(c))
}

func general32(v backend.View) blas32.General {
	return blas32.General{Rows: v.Rows, Cols: v.Cols, Stride: max(v.Stride, 1), Data: v.Data}
}

func transpose(t bool) blas.Transpose {
	if t {
		return blas.Trans
	}

	return blas.NoTrans
}
