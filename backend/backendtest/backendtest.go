// SPDX-License-Identifier: MIT

// Package backendtest is the conformance suite every backend.Backend runs.
// Each backend package calls Run from its own tests so that the contract is
// checked against every engine with the same fixtures.
package backendtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicshackle/libsurvive/backend"
	"github.com/nicshackle/libsurvive/svtype"
)

// Tol is the absolute tolerance used by the suite; it follows the build's
// Float precision.
var Tol = func() float64 {
	if svtype.FloatSize == 4 {
		return 1e-4
	}

	return 1e-9
}()

// View builds a continuous rows×cols view from row-major values.
func View(rows, cols int, vals ...float64) backend.View {
	v := backend.NewView(rows, cols, nil)
	if len(vals) > 0 {
		v.SetFloat64s(vals)
	}

	return v
}

// Padded builds a rows×cols view with stride cols+pad. Padding cells hold
// NaN so a backend that ignores the stride fails loudly.
func Padded(rows, cols, pad int, vals ...float64) backend.View {
	stride := cols + pad
	data := make([]svtype.Float, rows*stride)
	for i := range data {
		data[i] = svtype.Float(math.NaN())
	}
	v := backend.View{Rows: rows, Cols: cols, Stride: stride, Data: data}
	v.Zero()
	if len(vals) > 0 {
		v.SetFloat64s(vals)
	}

	return v
}

// RequireClose fails unless got and want agree elementwise within tol.
func RequireClose(t *testing.T, want, got backend.View, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows, got.Rows, "rows")
	require.Equal(t, want.Cols, got.Cols, "cols")
	for i := 0; i < want.Rows; i++ {
		for j := 0; j < want.Cols; j++ {
			require.InDelta(t, want.At(i, j), got.At(i, j), tol, "element [%d,%d]", i, j)
		}
	}
}

// mul returns a*b with a naive triple loop; used as the reference product.
func mul(a, b backend.View) backend.View {
	out := View(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			s := 0.0
			for p := 0; p < a.Cols; p++ {
				s += a.At(i, p) * b.At(p, j)
			}
			out.Set(i, j, s)
		}
	}

	return out
}

func transposeOf(a backend.View) backend.View {
	out := View(a.Cols, a.Rows)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Set(j, i, a.At(i, j))
		}
	}

	return out
}

func identity(n int) backend.View {
	out := View(n, n)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}

	return out
}

// copyView returns a continuous copy of v.
func copyView(v backend.View) backend.View {
	return View(v.Rows, v.Cols, v.Float64s()...)
}

// Run executes the full suite against b.
func Run(t *testing.T, b backend.Backend) {
	t.Run("Name", func(t *testing.T) { require.NotEmpty(t, b.Name()) })
	t.Run("Gemm", func(t *testing.T) { testGemm(t, b) })
	t.Run("GemmStride", func(t *testing.T) { testGemmStride(t, b) })
	t.Run("InvertLU", func(t *testing.T) { testInvertLU(t, b) })
	t.Run("InvertLUSingular", func(t *testing.T) { testInvertLUSingular(t, b) })
	t.Run("InvertSVD", func(t *testing.T) { testInvertSVD(t, b) })
	t.Run("InvertSVDZero", func(t *testing.T) { testInvertSVDZero(t, b) })
	t.Run("InvertSVDRect", func(t *testing.T) { testInvertSVDRect(t, b) })
	t.Run("SolveIdentity", func(t *testing.T) { testSolveIdentity(t, b) })
	t.Run("SolveLU", func(t *testing.T) { testSolveLU(t, b) })
	t.Run("SolveLeastSquares", func(t *testing.T) { testSolveLeastSquares(t, b) })
	t.Run("SVDTall", func(t *testing.T) { testSVD(t, b, 4, 3) })
	t.Run("SVDWide", func(t *testing.T) { testSVD(t, b, 2, 5) })
	t.Run("SVDSquare", func(t *testing.T) { testSVD(t, b, 3, 3) })
	t.Run("SVDRankDeficient", func(t *testing.T) { testSVDRankDeficient(t, b) })
	t.Run("SVDValuesOnly", func(t *testing.T) { testSVDValuesOnly(t, b) })
	t.Run("Det", func(t *testing.T) { testDet(t, b) })
}

func testGemm(t *testing.T, b backend.Backend) {
	a := View(2, 3, 1, 2, 3, 4, 5, 6)
	c := View(3, 2, 7, 8, 9, 10, 11, 12)
	want := View(2, 2, 58, 64, 139, 154)

	dst := View(2, 2)
	b.Gemm(false, false, 1, a, c, 0, dst)
	RequireClose(t, want, dst, Tol)

	// op(a) = aᵀ with a stored 3×2.
	dst = View(2, 2)
	b.Gemm(true, false, 1, transposeOf(a), c, 0, dst)
	RequireClose(t, want, dst, Tol)

	// op(b) = bᵀ with b stored 2×3.
	dst = View(2, 2)
	b.Gemm(false, true, 1, a, transposeOf(c), 0, dst)
	RequireClose(t, want, dst, Tol)

	// alpha and beta: dst = 2*a*c + 0.5*dst.
	dst = View(2, 2, 2, 2, 2, 2)
	b.Gemm(false, false, 2, a, c, 0.5, dst)
	RequireClose(t, View(2, 2, 117, 129, 279, 309), dst, Tol)

	// beta == 0 ignores NaN in dst.
	dst = View(2, 2, math.NaN(), math.NaN(), math.NaN(), math.NaN())
	b.Gemm(false, false, 1, a, c, 0, dst)
	RequireClose(t, want, dst, Tol)
}

func testGemmStride(t *testing.T, b backend.Backend) {
	a := Padded(2, 2, 3, 1, 2, 3, 4)
	c := Padded(2, 2, 1, 5, 6, 7, 8)
	dst := Padded(2, 2, 2)
	b.Gemm(false, false, 1, a, c, 0, dst)
	RequireClose(t, View(2, 2, 19, 22, 43, 50), dst, Tol)
	require.True(t, math.IsNaN(float64(dst.Data[2])), "padding must stay untouched")
}

func testInvertLU(t *testing.T, b backend.Backend) {
	a := View(3, 3, 4, 7, 2, 3, 6, 1, 2, 5, 3)
	inv := View(3, 3)
	det := b.Invert(a, inv, backend.LU, 0)
	require.InDelta(t, 9.0, det, 1e3*Tol)
	RequireClose(t, identity(3), mul(a, inv), 1e2*Tol)

	// Strided input.
	p := Padded(2, 2, 2, 0, 1, 1, 0)
	inv = View(2, 2)
	det = b.Invert(p, inv, backend.LU, 0)
	require.InDelta(t, -1.0, det, Tol)
	RequireClose(t, View(2, 2, 0, 1, 1, 0), inv, Tol)
}

func testInvertLUSingular(t *testing.T, b backend.Backend) {
	a := View(2, 2, 1, 2, 2, 4)
	inv := View(2, 2, 9, 9, 9, 9)
	det := b.Invert(a, inv, backend.LU, 0)
	require.Zero(t, det)
	RequireClose(t, View(2, 2), inv, 0)
}

func testInvertSVD(t *testing.T, b backend.Backend) {
	a := View(3, 3, 2, -1, 0, -1, 2, -1, 0, -1, 2)
	inv := View(3, 3)
	ratio := b.Invert(a, inv, backend.SVD, 1e-12)
	RequireClose(t, identity(3), mul(a, inv), 1e2*Tol)
	// Eigenvalues of this SPD matrix are 2-√2, 2, 2+√2.
	require.InDelta(t, (2-math.Sqrt2)/(2+math.Sqrt2), ratio, 1e2*Tol)
}

func testInvertSVDZero(t *testing.T, b backend.Backend) {
	a := View(2, 2)
	inv := View(2, 2, 5, 5, 5, 5)
	ratio := b.Invert(a, inv, backend.SVD, 1e-12)
	require.Zero(t, ratio)
	RequireClose(t, View(2, 2), inv, Tol)
}

func testInvertSVDRect(t *testing.T, b backend.Backend) {
	// Full column rank 3×2: pinv(a)*a = I₂.
	a := View(3, 2, 1, 0, 0, 1, 1, 1)
	pinv := View(2, 3)
	b.Invert(a, pinv, backend.SVD, 1e-12)
	RequireClose(t, identity(2), mul(pinv, a), 1e2*Tol)
	// Moore–Penrose: a*pinv*a = a.
	RequireClose(t, a, mul(mul(a, pinv), a), 1e2*Tol)
}

func testSolveIdentity(t *testing.T, b backend.Backend) {
	for _, m := range []backend.Method{backend.LU, backend.SVD} {
		x := View(2, 1)
		ok := b.Solve(identity(2), View(2, 1, 1, 1), x, m, 1e-12)
		require.True(t, ok, m.String())
		RequireClose(t, View(2, 1, 1, 1), x, Tol)
	}
}

func testSolveLU(t *testing.T, b backend.Backend) {
	a := View(3, 3, 3, 2, -1, 2, -2, 4, -1, 0.5, -1)
	rhs := View(3, 2, 1, 2, -2, 4, 0, -1)
	x := View(3, 2)
	require.True(t, b.Solve(a, rhs, x, backend.LU, 0))
	RequireClose(t, rhs, mul(a, x), 1e2*Tol)

	x = View(2, 1, 7, 7)
	require.False(t, b.Solve(View(2, 2, 1, 2, 2, 4), View(2, 1, 1, 1), x, backend.LU, 0))
	RequireClose(t, View(2, 1), x, 0)
}

func testSolveLeastSquares(t *testing.T, b backend.Backend) {
	// Fit y = c0 + c1*t through (0,1), (1,3), (2,5), (3,7): exact line 1 + 2t.
	a := View(4, 2, 1, 0, 1, 1, 1, 2, 1, 3)
	y := View(4, 1, 1, 3, 5, 7)
	x := View(2, 1)
	require.True(t, b.Solve(a, y, x, backend.SVD, 1e-12))
	RequireClose(t, View(2, 1, 1, 2), x, 1e2*Tol)
}

func sample(m, n int) backend.View {
	v := View(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			x := math.Sin(float64(3*i + 7*j + 1))
			if i == j {
				x++
			}
			v.Set(i, j, x)
		}
	}

	return v
}

// checkOrthonormalColumns asserts qᵀq = I.
func checkOrthonormalColumns(t *testing.T, q backend.View) {
	t.Helper()
	RequireClose(t, identity(q.Cols), mul(transposeOf(q), q), 1e2*Tol)
}

func testSVD(t *testing.T, b backend.Backend, m, n int) {
	k := min(m, n)
	a := sample(m, n)

	for _, full := range []bool{false, true} {
		uc, vc := k, k
		if full {
			uc, vc = m, n
		}
		w := View(k, 1)
		u := View(m, uc)
		v := View(n, vc)
		b.SVD(copyView(a), w, u, v)

		for i := 1; i < k; i++ {
			require.GreaterOrEqual(t, w.At(i-1, 0), w.At(i, 0), "singular values must be non-increasing")
		}
		require.GreaterOrEqual(t, w.At(k-1, 0), 0.0)
		checkOrthonormalColumns(t, u)
		checkOrthonormalColumns(t, v)

		// Reconstruct from the first k columns.
		recon := View(m, n)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				s := 0.0
				for l := 0; l < k; l++ {
					s += u.At(i, l) * w.At(l, 0) * v.At(j, l)
				}
				recon.Set(i, j, s)
			}
		}
		RequireClose(t, a, recon, 1e3*Tol)
	}
}

func testSVDRankDeficient(t *testing.T, b backend.Backend) {
	// Rank 1: every row is a multiple of (1, 2, 3).
	a := View(3, 3, 1, 2, 3, 2, 4, 6, 3, 6, 9)
	w := View(3, 1)
	u := View(3, 3)
	v := View(3, 3)
	b.SVD(copyView(a), w, u, v)
	require.InDelta(t, math.Sqrt(14)*math.Sqrt(14), w.At(0, 0), 1e3*Tol)
	require.InDelta(t, 0, w.At(1, 0), 1e3*Tol)
	require.InDelta(t, 0, w.At(2, 0), 1e3*Tol)
	checkOrthonormalColumns(t, u)
	checkOrthonormalColumns(t, v)
}

func testSVDValuesOnly(t *testing.T, b backend.Backend) {
	a := View(2, 2, 3, 0, 0, -4)
	w := View(2, 1)
	b.SVD(a, w, backend.View{}, backend.View{})
	RequireClose(t, View(2, 1, 4, 3), w, 1e2*Tol)
}

func testDet(t *testing.T, b backend.Backend) {
	require.InDelta(t, -2.0, b.Det(View(2, 2, 1, 2, 3, 4)), 1e2*Tol)
	require.InDelta(t, 0.0, b.Det(View(2, 2, 1, 2, 2, 4)), 1e2*Tol)
	require.InDelta(t, 24.0, b.Det(View(3, 3, 2, 0, 0, 0, 3, 0, 0, 0, 4)), 1e2*Tol)
	require.InDelta(t, 5.0, b.Det(View(1, 1, 5)), Tol)
}
