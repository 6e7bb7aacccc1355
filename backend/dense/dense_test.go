// SPDX-License-Identifier: MIT

package dense

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicshackle/libsurvive/backend"
	"github.com/nicshackle/libsurvive/backend/backendtest"
)

func TestConformance(t *testing.T) {
	backendtest.Run(t, Backend{})
}

func TestFactorLU_PivotParity(t *testing.T) {
	t.Parallel()

	// One row swap is needed: det flips sign relative to prod(diag(U)).
	f := factorLU(backendtest.View(2, 2, 0, 2, 3, 1))
	require.Equal(t, -1.0, f.sign)
	require.InDelta(t, -6.0, f.det(), 1e-12)
	require.False(t, f.singular())
}

func TestFactorLU_ZeroMatrixIsSingular(t *testing.T) {
	t.Parallel()

	f := factorLU(backendtest.View(3, 3))
	require.True(t, f.singular())
	require.Zero(t, f.det())
}

func TestJacobiSVD_Diagonal(t *testing.T) {
	t.Parallel()

	res := jacobiSVD([]float64{1, 0, 0, 0, 5, 0, 0, 0, 3}, 3, 3)
	require.Equal(t, []float64{5, 3, 1}, res.w)
}

func TestCompleteBasis_FromEmpty(t *testing.T) {
	t.Parallel()

	const n = 4
	q := make([]float64, n*n)
	good := make([]bool, n)
	completeBasis(q, n, n, n, good)

	var i, j, l int
	var dot float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			dot = 0
			for l = 0; l < n; l++ {
				dot += q[l*n+i] * q[l*n+j]
			}
			if i == j {
				require.InDelta(t, 1, dot, 1e-12)
			} else {
				require.InDelta(t, 0, dot, 1e-12)
			}
		}
	}
	for _, g := range good {
		require.True(t, g)
	}
}

func TestSVD_DoesNotReadPadding(t *testing.T) {
	t.Parallel()

	a := backendtest.Padded(2, 2, 1, 2, 0, 0, 1)
	w := backendtest.View(2, 1)
	Backend{}.SVD(a, w, backend.View{}, backend.View{})
	require.False(t, math.IsNaN(w.At(0, 0)))
	require.InDelta(t, 2.0, w.At(0, 0), 1e-12)
	require.InDelta(t, 1.0, w.At(1, 0), 1e-12)
}

var sinkF float64

func BenchmarkGemm64(b *testing.B) {
	const n = 64
	x := backendtest.View(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x.Set(i, j, float64(i-j))
		}
	}
	c := backendtest.View(n, n)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Backend{}.Gemm(false, true, 1, x, x, 0, c)
	}
	sinkF = c.At(0, 0)
}

func BenchmarkSVD32(b *testing.B) {
	const n = 32
	x := backendtest.View(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x.Set(i, j, math.Cos(float64(i*n+j)))
		}
	}
	w := backendtest.View(n, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Backend{}.SVD(x, w, backend.View{}, backend.View{})
	}
	sinkF = w.At(0, 0)
}
