// SPDX-License-Identifier: MIT
// Package svmat_test contains test helpers.
//
// Purpose:
//   - Small deterministic fixtures for lifecycle, ops and kernels.
//   - A tolerance that follows the build's Float precision.

package svmat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicshackle/libsurvive/svmat"
	"github.com/nicshackle/libsurvive/svtype"
)

// tol is the absolute tolerance for kernel results.
var tol = func() float64 {
	if svtype.FloatSize == 4 {
		return 1e-4
	}

	return 1e-9
}()

// MustCreate allocates an owned rows×cols matrix and registers its release.
func MustCreate(t testing.TB, rows, cols int) *svmat.Mat {
	t.Helper()
	m, err := svmat.Create(rows, cols)
	require.NoError(t, err)
	t.Cleanup(func() { svmat.ReleaseMat(&m) })

	return m
}

// MustFrom allocates an owned matrix filled row-major with vals.
func MustFrom(t testing.TB, rows, cols int, vals ...float64) *svmat.Mat {
	t.Helper()
	require.Len(t, vals, rows*cols, "fixture size")
	m := MustCreate(t, rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, svtype.Float(vals[i*cols+j]))
		}
	}

	return m
}

// padded returns a borrowed rows×cols matrix whose rows are pad elements
// wider than needed; the padding is filled with sentinel.
func padded(t testing.TB, rows, cols, pad int, sentinel float64, vals ...float64) *svmat.Mat {
	t.Helper()
	stride := cols + pad
	data := make([]svtype.Float, rows*stride)
	for i := range data {
		data[i] = svtype.Float(sentinel)
	}
	m := svmat.NewMat(rows, cols, nil)
	require.NoError(t, m.SetData(data, stride*svtype.FloatSize))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := 0.0
			if len(vals) > 0 {
				v = vals[i*cols+j]
			}
			m.Set(i, j, svtype.Float(v))
		}
	}

	return &m
}

// requireClose asserts element-wise agreement of got with the row-major want.
func requireClose(t testing.TB, got *svmat.Mat, want []float64, delta float64) {
	t.Helper()
	require.Len(t, want, got.Rows*got.Cols, "expected size")
	for i := 0; i < got.Rows; i++ {
		for j := 0; j < got.Cols; j++ {
			require.InDelta(t, want[i*got.Cols+j], float64(got.At(i, j)), delta, "element [%d,%d]", i, j)
		}
	}
}

// values returns m's elements row-major as float64.
func values(m *svmat.Mat) []float64 {
	out := make([]float64, 0, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		for _, v := range m.Row(i) {
			out = append(out, float64(v))
		}
	}

	return out
}

// identity returns the row-major n×n identity.
func identity(n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = 1
	}

	return out
}

// product returns a*b computed with GEMM.
func product(t testing.TB, a, b *svmat.Mat) *svmat.Mat {
	t.Helper()
	out := MustCreate(t, a.Rows, b.Cols)
	require.NoError(t, svmat.GEMM(a, b, 1, nil, 0, out, 0))

	return out
}
