// SPDX-License-Identifier: MIT

//go:build !svfloat32

package blas

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/nicshackle/libsurvive/backend"
)

// Gemm calls blas64.Gemm directly on the view storage; with float64
// elements no conversion is needed and strides pass through unchanged.
func (Backend) Gemm(transA, transB bool, alpha float64, a, b backend.View, beta float64, c backend.View) {
	blas64.Gemm(transpose(transA), transpose(transB), alpha, general64(a), general64(b), beta, general64(c))
}

func general64(v backend.View) blas64.General {
	return blas64.General{Rows: v.Rows, Cols: v.Cols, Stride: max(v.Stride, 1), Data: v.Data}
}

func transpose(t bool) blas.Transpose {
	if t {
		return blas.Trans
	}

	return blas.NoTrans
}
