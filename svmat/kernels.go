// SPDX-License-Identifier: MIT
// Package svmat: linear-algebra kernel contract layer.
//
// Every kernel follows the same sequence:
//   - Stage 1: validate operands (nil, header, type, shape) and fail before
//     any write.
//   - Stage 2: stage outputs that alias inputs in call-scoped matrices that
//     are released on every path.
//   - Stage 3: delegate the arithmetic to the linked backend.
//
// Degeneracy (singular or rank-deficient input) is reported through return
// values, never as an error.

package svmat

import (
	"fmt"

	"github.com/nicshackle/libsurvive/backend"
	"github.com/nicshackle/libsurvive/svtype"
)

// Operation tags used in error wrapping.
const (
	opSetData       = "SetData"
	opCreate        = "Create"
	opClone         = "CloneMat"
	opShare         = "ShareData"
	opSetZero       = "SetZero"
	opSetIdentity   = "SetIdentity"
	opSetDiag       = "SetDiag"
	opCopy          = "Copy"
	opTranspose     = "Transpose"
	opGEMM          = "GEMM"
	opInvert        = "Invert"
	opSolve         = "Solve"
	opSVD           = "SVD"
	opMulTransposed = "MulTransposed"
	opDet           = "Det"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// eng is the build's backend; calls on it are static.
var eng engine

// BackendName reports the numeric backend linked into this build.
func BackendName() string { return eng.Name() }

// GemmFlag selects operand transposition for GEMM.
type GemmFlag int

// GEMM transposition flags; combine with |.
const (
	GemmATrans GemmFlag = 1 // use src1ᵀ
	GemmBTrans GemmFlag = 2 // use src2ᵀ
	GemmCTrans GemmFlag = 4 // use src3ᵀ
)

// InvertMethod selects the factorization used by Invert and Solve.
type InvertMethod int

// Invert methods.
const (
	// InvertUnknown lets the kernel choose: LU for square input, SVD otherwise.
	InvertUnknown InvertMethod = 0
	InvertSVD     InvertMethod = 1
	InvertLU      InvertMethod = 2
)

// String returns "unknown", "svd" or "lu".
func (m InvertMethod) String() string {
	if m == InvertUnknown {
		return "unknown"
	}

	return backend.Method(m).String()
}

// SVDFlag controls SVD output layout and whether A may be destroyed.
type SVDFlag int

// SVD flags; combine with |.
const (
	SVDModifyA SVDFlag = 1 // the backend may overwrite A
	SVDUTrans  SVDFlag = 2 // write Uᵀ instead of U
	SVDVTrans  SVDFlag = 4 // write Vᵀ instead of V
)

// opShape returns the shape of m, swapped when t is set.
func opShape(m *Mat, t bool) (int, int) {
	if t {
		return m.Cols, m.Rows
	}

	return m.Rows, m.Cols
}

// stageFor returns dst itself, or a fresh staging matrix of dst's shape when
// dst shares storage with any of the inputs. release must be deferred.
func stageFor(dst *Mat, inputs ...*Mat) (out *Mat, staged bool, release func(), err error) {
	for _, in := range inputs {
		if in != nil && sameArray(dst, in) {
			tmp, err := Create(dst.Rows, dst.Cols)
			if err != nil {
				return nil, false, func() {}, err
			}

			return tmp, true, func() { ReleaseMat(&tmp) }, nil
		}
	}

	return dst, false, func() {}, nil
}

// copyFloat copies src into dst (same shape); a no-op for identical views.
func copyFloat(src, dst *Mat) error {
	if sameView(src, dst) {
		return nil
	}
	if sameArray(src, dst) {
		return Copy(src, dst, nil)
	}
	copyMasked(src, dst, nil)

	return nil
}

// GEMM computes dst = alpha*op(src1)*op(src2) + beta*op(src3), where op
// transposes its operand when the matching flag is set. src3 may be nil (or
// beta 0) for a pure product. dst may alias any operand.
//
// Shapes: op(src1) is m×k, op(src2) is k×n, op(src3) and dst are m×n.
// Complexity: O(m*n*k) in the backend.
func GEMM(src1, src2 *Mat, alpha float64, src3 *Mat, beta float64, dst *Mat, flags GemmFlag) error {
	if err := validateFloats(src1, src2, dst); err != nil {
		return matrixErrorf(opGEMM, err)
	}
	ta, tb, tc := flags&GemmATrans != 0, flags&GemmBTrans != 0, flags&GemmCTrans != 0
	m, k := opShape(src1, ta)
	k2, n := opShape(src2, tb)
	if k != k2 {
		return matrixErrorf(opGEMM, validatorErrorf("inner dimension", ErrDimensionMismatch))
	}
	if err := validateShape(dst, m, n); err != nil {
		return matrixErrorf(opGEMM, err)
	}
	useC := src3 != nil && beta != 0
	if useC {
		if err := validateFloat(src3); err != nil {
			return matrixErrorf(opGEMM, err)
		}
		if r, c := opShape(src3, tc); r != m || c != n {
			return matrixErrorf(opGEMM, validatorErrorf("src3", ErrDimensionMismatch))
		}
	}

	out, staged, release, err := stageFor(dst, src1, src2)
	defer release()
	if err != nil {
		return matrixErrorf(opGEMM, err)
	}

	b := 0.0
	if useC {
		b = beta
		if tc {
			err = Transpose(src3, out)
		} else {
			err = copyFloat(src3, out)
		}
		if err != nil {
			return matrixErrorf(opGEMM, err)
		}
	}
	eng.Gemm(ta, tb, alpha, src1.view(), src2.view(), b, out.view())

	if staged {
		copyMasked(out, dst, nil)
	}

	return nil
}

// resolveMethod maps InvertUnknown to LU for square input and SVD otherwise,
// and rejects values outside the known set.
func resolveMethod(m InvertMethod, a *Mat) (backend.Method, error) {
	switch m {
	case InvertUnknown:
		if a.Rows == a.Cols {
			return backend.LU, nil
		}
		return backend.SVD, nil
	case InvertSVD:
		return backend.SVD, nil
	case InvertLU:
		if err := validateSquare(a); err != nil {
			return 0, err
		}
		return backend.LU, nil
	default:
		return 0, ErrUnknownMethod
	}
}

// Invert writes the (pseudo-)inverse of the r×c matrix src into the c×r
// dst and returns a conditioning scalar:
//   - LU: det(src); a singular src yields 0 and a zero dst.
//   - SVD: w_min/w_max, with singular values at or below eps*w_max treated
//     as zero (eps from WithEpsilon); 0 for a zero matrix.
//
// A result near zero signals a singular or ill-conditioned input; it is not
// an error. dst may alias src.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidHeader, ErrBadStride, ErrTypeMismatch.
//   - ErrNonSquare (InvertLU on r != c), ErrUnknownMethod.
//   - ErrDimensionMismatch (dst is not c×r).
//
// Complexity: LU Time O(n^3); SVD Time O(sweeps*min(r,c)^2*max(r,c)).
func Invert(src, dst *Mat, method InvertMethod, opts ...Option) (float64, error) {
	if err := validateFloats(src, dst); err != nil {
		return 0, matrixErrorf(opInvert, err)
	}
	bm, err := resolveMethod(method, src)
	if err != nil {
		return 0, matrixErrorf(opInvert, err)
	}
	if err = validateShape(dst, src.Cols, src.Rows); err != nil {
		return 0, matrixErrorf(opInvert, err)
	}
	o := gatherOptions(opts...)

	out, staged, release, err := stageFor(dst, src)
	defer release()
	if err != nil {
		return 0, matrixErrorf(opInvert, err)
	}

	res := eng.Invert(src.view(), out.view(), bm, o.eps)
	if staged {
		copyMasked(out, dst, nil)
	}
	if res == 0 {
		logger.Debug().
			Str("method", bm.String()).
			Int("rows", src.Rows).
			Int("cols", src.Cols).
			Msg("invert: singular input")
	}

	return res, nil
}

// Solve writes x = argmin ||a*x - b|| into x (a.Cols × b.Cols).
//
// Inputs:
//   - a: r×c coefficient matrix; b: r×p right-hand sides; x: c×p output.
//   - method: InvertLU (square a), InvertSVD, or InvertUnknown (LU when
//     square, SVD otherwise).
//   - opts: WithEpsilon sets the relative singular-value cut-off for SVD.
//
// Returns:
//   - bool: false when LU meets a singular a (x zeroed); SVD always true.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidHeader, ErrBadStride, ErrTypeMismatch.
//   - ErrDimensionMismatch (row counts of a and b, or the shape of x).
//   - ErrNonSquare (InvertLU with r != c), ErrUnknownMethod.
//
// Complexity:
//   - LU:  Time O(c^3 + c^2*p).
//   - SVD: Time O(sweeps*min(r,c)^2*max(r,c) + r*c*p).
//
// Notes:
//   - Degeneracy is the boolean, never an error.
//   - x may alias a or b; the result goes through a staging matrix then.
func Solve(a, b, x *Mat, method InvertMethod, opts ...Option) (bool, error) {
	if err := validateFloats(a, b, x); err != nil {
		return false, matrixErrorf(opSolve, err)
	}
	if a.Rows != b.Rows {
		return false, matrixErrorf(opSolve, validatorErrorf("rhs rows", ErrDimensionMismatch))
	}
	bm, err := resolveMethod(method, a)
	if err != nil {
		return false, matrixErrorf(opSolve, err)
	}
	if err = validateShape(x, a.Cols, b.Cols); err != nil {
		return false, matrixErrorf(opSolve, err)
	}
	o := gatherOptions(opts...)

	out, staged, release, err := stageFor(x, a, b)
	defer release()
	if err != nil {
		return false, matrixErrorf(opSolve, err)
	}

	ok := eng.Solve(a.view(), b.view(), out.view(), bm, o.eps)
	if staged {
		copyMasked(out, x, nil)
	}
	if !ok {
		logger.Debug().
			Str("method", bm.String()).
			Int("n", a.Rows).
			Msg("solve: singular system")
	}

	return ok, nil
}

// wLayout is how SVD writes singular values into W.
type wLayout int

const (
	wVector wLayout = iota // k×1 or 1×k
	wDiag                  // k×k or m×n diagonal matrix
)

func svdWLayout(w *Mat, m, n, k int) (wLayout, error) {
	switch {
	case (w.Rows == k && w.Cols == 1) || (w.Rows == 1 && w.Cols == k):
		return wVector, nil
	case (w.Rows == k && w.Cols == k) || (w.Rows == m && w.Cols == n):
		return wDiag, nil
	default:
		return 0, validatorErrorf("W", ErrDimensionMismatch)
	}
}

// svdFactorCols validates an optional factor output. f must be rows×c
// (c×rows when trans) with c ∈ {k, rows}; it returns c, or 0 for nil.
func svdFactorCols(f *Mat, rows, k int, trans bool, tag string) (int, error) {
	if f == nil {
		return 0, nil
	}
	if err := validateFloat(f); err != nil {
		return 0, err
	}
	r, c := opShape(f, trans)
	if r != rows || (c != k && c != rows) {
		return 0, validatorErrorf(tag, ErrDimensionMismatch)
	}

	return c, nil
}

// SVD factors the m×n matrix a as U*diag(W)*Vᵀ with singular values in W in
// non-increasing order (k = min(m, n) of them).
//
// W is k×1, 1×k, k×k or m×n (diagonal). U is optional and m×m or m×k; V is
// optional and n×n or n×k. With SVDUTrans / SVDVTrans the transposed factor
// is written and the expected shape swaps. Columns past k complete an
// orthonormal basis. Without SVDModifyA, a is never written.
// Blueprint:
//
//	Stage 1 (Validate): shapes of A, W, U, V; outputs pairwise disjoint.
//	Stage 2 (Scratch): working copy of A unless SVDModifyA allows reuse,
//	                   plus factors that need transposing or alias A.
//	Stage 3 (Factor): backend SVD into the working views.
//	Stage 4 (Write): W in its layout, then U and V (transposed on request).
//
// Errors:
//   - ErrNilMatrix, ErrInvalidHeader, ErrBadStride, ErrTypeMismatch.
//   - ErrDimensionMismatch (W layout, or a U/V shape).
//   - ErrOutputOverlap (two of W, U, V share a backing array).
//
// Outputs may alias a; scratch matrices are released on every path.
func SVD(a, w, u, v *Mat, flags SVDFlag) error {
	if err := validateFloats(a, w); err != nil {
		return matrixErrorf(opSVD, err)
	}
	m, n := a.Rows, a.Cols
	k := min(m, n)
	layout, err := svdWLayout(w, m, n, k)
	if err != nil {
		return matrixErrorf(opSVD, err)
	}
	ut, vt := flags&SVDUTrans != 0, flags&SVDVTrans != 0
	uc, err := svdFactorCols(u, m, k, ut, "U")
	if err != nil {
		return matrixErrorf(opSVD, err)
	}
	vc, err := svdFactorCols(v, n, k, vt, "V")
	if err != nil {
		return matrixErrorf(opSVD, err)
	}
	if err = validateDisjoint(w, u, v); err != nil {
		return matrixErrorf(opSVD, err)
	}

	// Scratch: the working copy of A, the value column, and factors that
	// need transposing or would alias A.
	var scratch []*Mat
	defer func() {
		for _, s := range scratch {
			ReleaseMat(&s)
		}
	}()
	create := func(r, c int) (*Mat, error) {
		s, err := Create(r, c)
		if err == nil {
			scratch = append(scratch, s)
		}
		return s, err
	}

	work := a
	if flags&SVDModifyA == 0 || sameArray(a, w) || (u != nil && sameArray(a, u)) || (v != nil && sameArray(a, v)) {
		if work, err = create(m, n); err != nil {
			return matrixErrorf(opSVD, err)
		}
		copyMasked(a, work, nil)
	}
	wv, err := create(k, 1)
	if err != nil {
		return matrixErrorf(opSVD, err)
	}

	factor := func(f *Mat, rows, cols int, trans bool) (*Mat, error) {
		if f == nil {
			return nil, nil
		}
		if trans || sameArray(f, work) {
			return create(rows, cols)
		}
		return f, nil
	}
	uw, err := factor(u, m, uc, ut)
	if err != nil {
		return matrixErrorf(opSVD, err)
	}
	vw, err := factor(v, n, vc, vt)
	if err != nil {
		return matrixErrorf(opSVD, err)
	}

	eng.SVD(work.view(), wv.view(), viewOf(uw), viewOf(vw))

	if layout == wDiag {
		zeroRows(w)
	}
	for i := 0; i < k; i++ {
		s := wv.At(i, 0)
		switch {
		case layout == wDiag:
			w.Set(i, i, s)
		case w.Cols == 1:
			w.Set(i, 0, s)
		default:
			w.Set(0, i, s)
		}
	}
	writeFactor(uw, u, ut)
	writeFactor(vw, v, vt)

	return nil
}

func viewOf(m *Mat) backend.View {
	if m == nil {
		return backend.View{}
	}

	return m.view()
}

// writeFactor moves a computed factor into the caller's matrix.
func writeFactor(computed, dst *Mat, trans bool) {
	switch {
	case dst == nil || computed == dst:
	case trans:
		transposeInto(computed, dst)
	default:
		copyMasked(computed, dst, nil)
	}
}

// MulTransposed computes scale*(src-δ)ᵀ(src-δ) into the n×n dst when order
// is 0, and scale*(src-δ)(src-δ)ᵀ into the m×m dst otherwise. delta may be
// nil, src-shaped, a 1×n row or an m×1 column (broadcast), or 1×1.
//
// Errors: ErrNilMatrix, ErrInvalidHeader, ErrBadStride, ErrTypeMismatch,
// ErrDimensionMismatch (delta or dst shape).
// Complexity: Time O(m*n*size) for the product, Space O(m*n) when delta
// is given or dst overlaps src.
func MulTransposed(src, dst *Mat, order int, delta *Mat, scale float64) error {
	if err := validateFloats(src, dst); err != nil {
		return matrixErrorf(opMulTransposed, err)
	}
	m, n := src.Rows, src.Cols
	if delta != nil {
		if err := validateFloat(delta); err != nil {
			return matrixErrorf(opMulTransposed, err)
		}
		dr, dc := delta.Rows, delta.Cols
		if (dr != m && dr != 1) || (dc != n && dc != 1) {
			return matrixErrorf(opMulTransposed, validatorErrorf("delta", ErrDimensionMismatch))
		}
	}
	size := n
	if order != 0 {
		size = m
	}
	if err := validateShape(dst, size, size); err != nil {
		return matrixErrorf(opMulTransposed, err)
	}

	centered := src
	if delta != nil || sameArray(src, dst) {
		d, err := Create(m, n)
		if err != nil {
			return matrixErrorf(opMulTransposed, err)
		}
		defer ReleaseMat(&d)
		subtractBroadcast(src, delta, d)
		centered = d
	}

	cv := centered.view()
	eng.Gemm(order == 0, order != 0, scale, cv, cv, 0, dst.view())

	return nil
}

// subtractBroadcast writes src - delta into out; delta's rows and columns
// repeat when it has a single one. A nil delta copies src.
func subtractBroadcast(src, delta, out *Mat) {
	var i, j, di, dj int
	var srow, orow []svtype.Float
	for i = 0; i < src.Rows; i++ {
		srow, orow = src.Row(i), out.Row(i)
		if delta == nil {
			copy(orow, srow)
			continue
		}
		di = min(i, delta.Rows-1)
		for j = range srow {
			dj = min(j, delta.Cols-1)
			orow[j] = srow[j] - delta.At(di, dj)
		}
	}
}

// Det returns the determinant of the square matrix m from its pivoted LU
// factorization: the product of U's diagonal times the permutation sign.
// Errors: validation sentinels and ErrNonSquare. Complexity: O(n^3).
func Det(m *Mat) (float64, error) {
	if err := validateFloat(m); err != nil {
		return 0, matrixErrorf(opDet, err)
	}
	if err := validateSquare(m); err != nil {
		return 0, matrixErrorf(opDet, err)
	}

	return eng.Det(m.view()), nil
}
