// SPDX-License-Identifier: MIT

package svmat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicshackle/libsurvive/svmat"
)

func TestBackendName(t *testing.T) {
	t.Parallel()

	require.Contains(t, []string{"dense", "blas", "gonum"}, svmat.BackendName())
}

func TestGEMM_PlainProduct(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	b := MustFrom(t, 3, 2, 7, 8, 9, 10, 11, 12)
	dst := MustCreate(t, 2, 2)
	require.NoError(t, svmat.GEMM(a, b, 1, nil, 0, dst, 0))
	requireClose(t, dst, []float64{58, 64, 139, 154}, tol)
}

func TestGEMM_TransposeFlags(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	b := MustFrom(t, 3, 2, 7, 8, 9, 10, 11, 12)
	want := []float64{58, 64, 139, 154}

	at := MustCreate(t, 3, 2)
	bt := MustCreate(t, 2, 3)
	require.NoError(t, svmat.Transpose(a, at))
	require.NoError(t, svmat.Transpose(b, bt))

	dst := MustCreate(t, 2, 2)
	require.NoError(t, svmat.GEMM(at, b, 1, nil, 0, dst, svmat.GemmATrans))
	requireClose(t, dst, want, tol)

	require.NoError(t, svmat.GEMM(a, bt, 1, nil, 0, dst, svmat.GemmBTrans))
	requireClose(t, dst, want, tol)

	require.NoError(t, svmat.GEMM(at, bt, 1, nil, 0, dst, svmat.GemmATrans|svmat.GemmBTrans))
	requireClose(t, dst, want, tol)
}

func TestGEMM_Affine(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 2, 3, 4)
	b := MustFrom(t, 2, 2, 5, 6, 7, 8)
	c := MustFrom(t, 2, 2, 1, 2, 3, 4)
	dst := MustCreate(t, 2, 2)

	// 2*a*b + 3*c
	require.NoError(t, svmat.GEMM(a, b, 2, c, 3, dst, 0))
	requireClose(t, dst, []float64{41, 50, 95, 112}, tol)

	// 2*a*b + 3*cᵀ
	require.NoError(t, svmat.GEMM(a, b, 2, c, 3, dst, svmat.GemmCTrans))
	requireClose(t, dst, []float64{41, 53, 92, 112}, tol)

	// beta == 0 ignores src3 entirely, even a mis-shaped one.
	require.NoError(t, svmat.GEMM(a, b, 1, MustCreate(t, 5, 5), 0, dst, 0))
	requireClose(t, dst, []float64{19, 22, 43, 50}, tol)
}

func TestGEMM_Accumulate(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 0, 0, 1)
	b := MustFrom(t, 2, 2, 1, 2, 3, 4)
	acc := MustFrom(t, 2, 2, 10, 10, 10, 10)
	require.NoError(t, svmat.GEMM(a, b, 1, acc, 1, acc, 0))
	requireClose(t, acc, []float64{11, 12, 13, 14}, tol)

	// Transposed accumulator in place.
	require.NoError(t, svmat.GEMM(a, b, 1, acc, 1, acc, svmat.GemmCTrans))
	requireClose(t, acc, []float64{12, 15, 15, 18}, tol)
}

func TestGEMM_DstAliasesInput(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 2, 3, 4)
	b := MustFrom(t, 2, 2, 5, 6, 7, 8)
	require.NoError(t, svmat.GEMM(a, b, 1, nil, 0, a, 0))
	requireClose(t, a, []float64{19, 22, 43, 50}, tol)

	sq := MustFrom(t, 2, 2, 1, 1, 0, 1)
	require.NoError(t, svmat.GEMM(sq, sq, 1, sq, 1, sq, 0))
	requireClose(t, sq, []float64{2, 3, 0, 2}, tol)
}

func TestGEMM_ShapeErrors(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	b := MustFrom(t, 2, 2, 1, 2, 3, 4)
	dst := MustFrom(t, 2, 2, 9, 9, 9, 9)

	require.ErrorIs(t, svmat.GEMM(a, b, 1, nil, 0, dst, 0), svmat.ErrDimensionMismatch)
	require.ErrorIs(t, svmat.GEMM(b, b, 1, a, 1, dst, 0), svmat.ErrDimensionMismatch)
	require.ErrorIs(t, svmat.GEMM(b, b, 1, nil, 0, MustCreate(t, 3, 2), 0), svmat.ErrDimensionMismatch)
	require.ErrorIs(t, svmat.GEMM(nil, b, 1, nil, 0, dst, 0), svmat.ErrNilMatrix)

	mask := svmat.NewMask(2, 2, nil)
	require.ErrorIs(t, svmat.GEMM(&mask, b, 1, nil, 0, dst, 0), svmat.ErrTypeMismatch)

	require.Equal(t, []float64{9, 9, 9, 9}, values(dst), "no write on failure")
}

func TestInvert_IdentityProduct(t *testing.T) {
	t.Parallel()

	for _, method := range []svmat.InvertMethod{svmat.InvertLU, svmat.InvertSVD, svmat.InvertUnknown} {
		t.Run(method.String(), func(t *testing.T) {
			m := MustFrom(t, 3, 3, 4, 7, 2, 3, 6, 1, 2, 5, 3)
			inv := MustCreate(t, 3, 3)
			res, err := svmat.Invert(m, inv, method)
			require.NoError(t, err)
			require.NotZero(t, res)
			requireClose(t, product(t, m, inv), identity(3), 1e3*tol)
		})
	}
}

func TestInvert_LUReturnsDet(t *testing.T) {
	t.Parallel()

	m := MustFrom(t, 2, 2, 4, 7, 2, 6)
	inv := MustCreate(t, 2, 2)
	det, err := svmat.Invert(m, inv, svmat.InvertLU)
	require.NoError(t, err)
	require.InDelta(t, 10.0, det, 1e2*tol)
	requireClose(t, inv, []float64{0.6, -0.7, -0.2, 0.4}, 1e2*tol)
}

func TestInvert_InPlace(t *testing.T) {
	t.Parallel()

	m := MustFrom(t, 2, 2, 4, 7, 2, 6)
	_, err := svmat.Invert(m, m, svmat.InvertLU)
	require.NoError(t, err)
	requireClose(t, m, []float64{0.6, -0.7, -0.2, 0.4}, 1e2*tol)
}

func TestInvert_SingularLU(t *testing.T) {
	t.Parallel()

	m := MustFrom(t, 2, 2, 1, 2, 2, 4)
	inv := MustFrom(t, 2, 2, 3, 3, 3, 3)
	det, err := svmat.Invert(m, inv, svmat.InvertLU)
	require.NoError(t, err, "singularity is not an error")
	require.Zero(t, det)
	require.Equal(t, []float64{0, 0, 0, 0}, values(inv))
}

func TestInvert_ZeroMatrixSVD(t *testing.T) {
	t.Parallel()

	m := MustCreate(t, 2, 2)
	inv := MustFrom(t, 2, 2, 1, 1, 1, 1)
	res, err := svmat.Invert(m, inv, svmat.InvertSVD)
	require.NoError(t, err)
	require.InDelta(t, 0, res, tol)
	requireClose(t, inv, []float64{0, 0, 0, 0}, tol)
}

func TestInvert_Pseudo(t *testing.T) {
	t.Parallel()

	// Unknown method on a non-square input resolves to SVD.
	a := MustFrom(t, 3, 2, 1, 0, 0, 1, 1, 1)
	pinv := MustCreate(t, 2, 3)
	res, err := svmat.Invert(a, pinv, svmat.InvertUnknown)
	require.NoError(t, err)
	require.InDelta(t, 1/math.Sqrt(3), res, 1e2*tol)
	requireClose(t, product(t, pinv, a), identity(2), 1e2*tol)
}

func TestInvert_RankDeficientThreshold(t *testing.T) {
	t.Parallel()

	// diag(1, 1e-10): a loose eps drops the small singular value.
	m := MustFrom(t, 2, 2, 1, 0, 0, 1e-10)
	inv := MustCreate(t, 2, 2)
	res, err := svmat.Invert(m, inv, svmat.InvertSVD, svmat.WithEpsilon(1e-6))
	require.NoError(t, err)
	require.InDelta(t, 1e-10, res, 1e-12)
	requireClose(t, inv, []float64{1, 0, 0, 0}, tol)
}

func TestInvert_Errors(t *testing.T) {
	t.Parallel()

	rect := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	sq := MustCreate(t, 2, 2)

	_, err := svmat.Invert(rect, MustCreate(t, 3, 2), svmat.InvertLU)
	require.ErrorIs(t, err, svmat.ErrNonSquare)

	_, err = svmat.Invert(rect, MustCreate(t, 2, 3), svmat.InvertSVD)
	require.ErrorIs(t, err, svmat.ErrDimensionMismatch)

	_, err = svmat.Invert(sq, sq, svmat.InvertMethod(9))
	require.ErrorIs(t, err, svmat.ErrUnknownMethod)

	require.Panics(t, func() { svmat.WithEpsilon(-1) })
	require.Panics(t, func() { svmat.WithEpsilon(math.NaN()) })
}

func TestSolve_IdentityScenario(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 0, 0, 1)
	b := MustFrom(t, 2, 1, 1, 1)
	x := MustCreate(t, 2, 1)
	ok, err := svmat.Solve(a, b, x, svmat.InvertUnknown)
	require.NoError(t, err)
	require.True(t, ok)
	requireClose(t, x, []float64{1, 1}, tol)
}

func TestSolve_Methods(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 3, 3, 2, 1, -1, -3, -1, 2, -2, 1, 2)
	b := MustFrom(t, 3, 1, 8, -11, -3)
	for _, method := range []svmat.InvertMethod{svmat.InvertLU, svmat.InvertSVD} {
		x := MustCreate(t, 3, 1)
		ok, err := svmat.Solve(a, b, x, method)
		require.NoError(t, err)
		require.True(t, ok)
		requireClose(t, x, []float64{2, 3, -1}, 1e3*tol)
	}
}

func TestSolve_LeastSquares(t *testing.T) {
	t.Parallel()

	// y = 1 + 2t sampled at t = 0..3 with symmetric noise.
	a := MustFrom(t, 4, 2, 1, 0, 1, 1, 1, 2, 1, 3)
	y := MustFrom(t, 4, 1, 1.1, 2.9, 5.1, 6.9)
	x := MustCreate(t, 2, 1)
	ok, err := svmat.Solve(a, y, x, svmat.InvertSVD)
	require.NoError(t, err)
	require.True(t, ok)
	requireClose(t, x, []float64{1.06, 1.96}, 1e3*tol)
}

func TestSolve_SingularLU(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 2, 2, 4)
	b := MustFrom(t, 2, 1, 1, 1)
	x := MustFrom(t, 2, 1, 5, 5)
	ok, err := svmat.Solve(a, b, x, svmat.InvertLU)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []float64{0, 0}, values(x))
}

func TestSolve_ShapeErrors(t *testing.T) {
	t.Parallel()

	a := MustCreate(t, 3, 2)
	x := MustFrom(t, 2, 1, 4, 4)

	_, err := svmat.Solve(a, MustCreate(t, 2, 1), x, svmat.InvertSVD)
	require.ErrorIs(t, err, svmat.ErrDimensionMismatch)

	_, err = svmat.Solve(a, MustCreate(t, 3, 1), MustCreate(t, 3, 1), svmat.InvertSVD)
	require.ErrorIs(t, err, svmat.ErrDimensionMismatch)

	_, err = svmat.Solve(a, MustCreate(t, 3, 1), x, svmat.InvertLU)
	require.ErrorIs(t, err, svmat.ErrNonSquare)

	require.Equal(t, []float64{4, 4}, values(x), "no write on failure")
}

// reconstruct returns U*diag(w)*Vᵀ using the first k columns.
func reconstruct(u *svmat.Mat, w []float64, v *svmat.Mat) []float64 {
	m, n := u.Rows, v.Rows
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for l, s := range w {
				out[i*n+j] += float64(u.At(i, l)) * s * float64(v.At(j, l))
			}
		}
	}

	return out
}

func TestSVD_OrderingAndReconstruction(t *testing.T) {
	t.Parallel()

	for _, sh := range [][2]int{{3, 3}, {4, 2}, {2, 4}} {
		m, n := sh[0], sh[1]
		k := min(m, n)
		vals := make([]float64, m*n)
		for i := range vals {
			vals[i] = math.Sin(float64(i*i + 1))
		}
		a := MustFrom(t, m, n, vals...)
		before := values(a)
		w := MustCreate(t, k, 1)
		u := MustCreate(t, m, k)
		v := MustCreate(t, n, k)
		require.NoError(t, svmat.SVD(a, w, u, v, 0))

		ws := values(w)
		for i := 1; i < k; i++ {
			require.GreaterOrEqual(t, ws[i-1], ws[i])
		}
		requireClose(t, a, reconstruct(u, ws, v), 1e3*tol)
		require.Equal(t, before, values(a), "A untouched without SVDModifyA")
	}
}

func TestSVD_Layouts(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 3, 2, 3, 0, 0, -2, 0, 0)

	row := MustCreate(t, 1, 2)
	require.NoError(t, svmat.SVD(a, row, nil, nil, 0))
	requireClose(t, row, []float64{3, 2}, tol)

	diag := MustFrom(t, 2, 2, 9, 9, 9, 9)
	require.NoError(t, svmat.SVD(a, diag, nil, nil, 0))
	requireClose(t, diag, []float64{3, 0, 0, 2}, tol)

	require.ErrorIs(t, svmat.SVD(a, MustCreate(t, 3, 1), nil, nil, 0), svmat.ErrDimensionMismatch)

	full := MustCreate(t, 3, 2)
	require.NoError(t, svmat.SVD(a, full, nil, nil, svmat.SVDModifyA))
	requireClose(t, full, []float64{3, 0, 0, 2, 0, 0}, tol)
}

func TestSVD_FullBasesAndTransposeFlags(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 3, 2, 1, 2, 3, 4, 5, 6)
	w := MustCreate(t, 2, 1)
	ut := MustCreate(t, 3, 3) // Uᵀ, full
	vt := MustCreate(t, 2, 2) // Vᵀ
	require.NoError(t, svmat.SVD(a, w, ut, vt, svmat.SVDUTrans|svmat.SVDVTrans))

	// Uᵀ·U = I for the full 3×3 basis.
	u := MustCreate(t, 3, 3)
	require.NoError(t, svmat.Transpose(ut, u))
	requireClose(t, product(t, ut, u), identity(3), 1e3*tol)

	// A = U[:, :2]·diag(w)·V with V = (Vᵀ)ᵀ.
	v := MustCreate(t, 2, 2)
	require.NoError(t, svmat.Transpose(vt, v))
	requireClose(t, a, reconstruct(u, values(w), v), 1e3*tol)

	require.ErrorIs(t, svmat.SVD(a, w, MustCreate(t, 3, 3), MustCreate(t, 3, 2), 0), svmat.ErrDimensionMismatch)
}

func TestSVD_OverlappingOutputs(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 3, 0, 0, -2)
	uw := MustFrom(t, 2, 2, 7, 7, 7, 7)
	require.ErrorIs(t, svmat.SVD(a, uw, uw, nil, 0), svmat.ErrOutputOverlap)
	require.Equal(t, []float64{7, 7, 7, 7}, values(uw), "no write on failure")

	v := MustCreate(t, 2, 2)
	require.ErrorIs(t, svmat.SVD(a, MustCreate(t, 2, 1), v, v, 0), svmat.ErrOutputOverlap)

	// Two headers over one buffer overlap as well.
	shared, err := svmat.ShareData(v)
	require.NoError(t, err)
	t.Cleanup(func() { svmat.ReleaseMat(&shared) })
	require.ErrorIs(t, svmat.SVD(a, MustCreate(t, 2, 1), v, shared, 0), svmat.ErrOutputOverlap)

	// Outputs may still alias A; A is copied first.
	w := MustCreate(t, 2, 1)
	require.NoError(t, svmat.SVD(a, w, a, nil, 0))
	requireClose(t, w, []float64{3, 2}, tol)
}

func TestMulTransposed(t *testing.T) {
	t.Parallel()

	src := MustFrom(t, 3, 2, 1, 2, 3, 4, 5, 6)

	ata := MustCreate(t, 2, 2)
	require.NoError(t, svmat.MulTransposed(src, ata, 0, nil, 1))
	requireClose(t, ata, []float64{35, 44, 44, 56}, tol)

	aat := MustCreate(t, 3, 3)
	require.NoError(t, svmat.MulTransposed(src, aat, 1, nil, 0.5))
	requireClose(t, aat, []float64{2.5, 5.5, 8.5, 5.5, 12.5, 19.5, 8.5, 19.5, 30.5}, tol)
}

func TestMulTransposed_Delta(t *testing.T) {
	t.Parallel()

	src := MustFrom(t, 3, 2, 1, 2, 3, 4, 5, 6)
	// Column means (3, 4): centered rows are (-2,-2), (0,0), (2,2).
	mean := MustFrom(t, 1, 2, 3, 4)
	cov := MustCreate(t, 2, 2)
	require.NoError(t, svmat.MulTransposed(src, cov, 0, mean, 0.5))
	requireClose(t, cov, []float64{4, 4, 4, 4}, tol)

	// The same through a full-size delta.
	full := MustFrom(t, 3, 2, 3, 4, 3, 4, 3, 4)
	require.NoError(t, svmat.MulTransposed(src, cov, 0, full, 0.5))
	requireClose(t, cov, []float64{4, 4, 4, 4}, tol)

	// Scalar delta.
	one := MustFrom(t, 1, 1, 1)
	require.NoError(t, svmat.MulTransposed(src, cov, 0, one, 1))
	requireClose(t, cov, []float64{20, 26, 26, 35}, tol)

	// Per-row delta: row means (1.5, 3.5, 5.5) leave ±0.5 in every row.
	rowMean := MustFrom(t, 3, 1, 1.5, 3.5, 5.5)
	gram := MustCreate(t, 3, 3)
	require.NoError(t, svmat.MulTransposed(src, gram, 1, rowMean, 1))
	requireClose(t, gram, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, tol)

	require.ErrorIs(t, svmat.MulTransposed(src, cov, 0, MustCreate(t, 2, 2), 1), svmat.ErrDimensionMismatch)
	require.ErrorIs(t, svmat.MulTransposed(src, MustCreate(t, 3, 3), 0, nil, 1), svmat.ErrDimensionMismatch)
}

func TestDet(t *testing.T) {
	t.Parallel()

	d, err := svmat.Det(MustFrom(t, 2, 2, 1, 2, 3, 4))
	require.NoError(t, err)
	require.InDelta(t, -2.0, d, 1e2*tol)

	d, err = svmat.Det(MustFrom(t, 2, 2, 1, 2, 2, 4))
	require.NoError(t, err)
	require.InDelta(t, 0.0, d, 1e2*tol)

	_, err = svmat.Det(MustCreate(t, 2, 3))
	require.ErrorIs(t, err, svmat.ErrNonSquare)
}
