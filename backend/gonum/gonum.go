// SPDX-License-Identifier: MIT

// Package gonum is the full linear-algebra library backend. Views are copied
// into gonum mat.Dense values and the factorizations come from mat.LU and
// mat.SVD.
//
// Link it into svmat with the `svgonum` build tag.
package gonum

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nicshackle/libsurvive/backend"
)

// Name is the identifier reported by Backend.Name.
const Name = "gonum"

const machEps = 2.220446049250313e-16

// Backend implements backend.Backend on top of gonum/mat.
type Backend struct{}

var _ backend.Backend = Backend{}

// Name returns "gonum".
func (Backend) Name() string { return Name }

// dense copies v into a new *mat.Dense.
func dense(v backend.View) *mat.Dense {
	return mat.NewDense(v.Rows, v.Cols, v.Float64s())
}

// store writes m into dst; shapes must agree.
func store(dst backend.View, m mat.Matrix) {
	for i := 0; i < dst.Rows; i++ {
		for j := 0; j < dst.Cols; j++ {
			dst.Set(i, j, m.At(i, j))
		}
	}
}

func op(m mat.Matrix, t bool) mat.Matrix {
	if t {
		return m.T()
	}

	return m
}

// Gemm forms alpha*op(a)*op(b) with Dense.Mul, then folds in beta*c.
func (Backend) Gemm(transA, transB bool, alpha float64, a, b backend.View, beta float64, c backend.View) {
	var prod mat.Dense
	prod.Mul(op(dense(a), transA), op(dense(b), transB))

	var v float64
	for i := 0; i < c.Rows; i++ {
		for j := 0; j < c.Cols; j++ {
			v = alpha * prod.At(i, j)
			if beta != 0 {
				v += beta * c.At(i, j)
			}
			c.Set(i, j, v)
		}
	}
}

// Det returns mat.Det of a.
func (Backend) Det(a backend.View) float64 {
	return mat.Det(dense(a))
}

// factorLU factorizes a and reports whether it is numerically singular,
// judged by the LU condition estimate against n*eps.
func factorLU(a backend.View) (*mat.LU, bool) {
	var lu mat.LU
	lu.Factorize(dense(a))
	cond := lu.Cond()
	singular := math.IsInf(cond, 1) || math.IsNaN(cond) || cond*float64(a.Rows)*machEps >= 1

	return &lu, singular
}

// Invert writes the (pseudo-)inverse of a into dst.
//
// Returns:
//   - LU:  lu.Det(), or 0 with dst zeroed when factorLU flags a.
//   - SVD: w_min/w_max of the thin factorization (0 for a zero matrix).
func (Backend) Invert(a, dst backend.View, method backend.Method, eps float64) float64 {
	if method == backend.LU {
		lu, singular := factorLU(a)
		if singular {
			dst.Zero()
			return 0
		}
		var inv mat.Dense
		n := a.Rows
		eye := mat.NewDiagDense(n, nil)
		for i := 0; i < n; i++ {
			eye.SetDiag(i, 1)
		}
		// SolveTo reports a condition error but still writes the result;
		// singularity was judged above.
		_ = lu.SolveTo(&inv, false, eye)
		store(dst, &inv)

		return lu.Det()
	}

	pinv, ratio := pseudoInverse(a, eps)
	store(dst, pinv)

	return ratio
}

// Solve writes argmin ||a*x - b|| into x.
func (Backend) Solve(a, b, x backend.View, method backend.Method, eps float64) bool {
	if method == backend.LU {
		lu, singular := factorLU(a)
		if singular {
			x.Zero()
			return false
		}
		var sol mat.Dense
		_ = lu.SolveTo(&sol, false, dense(b))
		store(x, &sol)

		return true
	}

	pinv, _ := pseudoInverse(a, eps)
	var sol mat.Dense
	sol.Mul(pinv, dense(b))
	store(x, &sol)

	return true
}

// SVD factors a with mat.SVD, asking for thin or full factors depending on
// the widths of u and v.
func (Backend) SVD(a, w, u, v backend.View) {
	m, n := a.Rows, a.Cols
	k := min(m, n)

	kind := mat.SVDNone
	if !u.Empty() {
		kind |= mat.SVDThinU
		if u.Cols == m && m != k {
			kind = kind&^mat.SVDThinU | mat.SVDFullU
		}
	}
	if !v.Empty() {
		kind |= mat.SVDThinV
		if v.Cols == n && n != k {
			kind = kind&^mat.SVDThinV | mat.SVDFullV
		}
	}

	var svd mat.SVD
	svd.Factorize(dense(a), kind)
	for i, s := range svd.Values(nil) {
		w.Set(i, 0, s)
	}
	if !u.Empty() {
		var um mat.Dense
		svd.UTo(&um)
		store(u, &um)
	}
	if !v.Empty() {
		var vm mat.Dense
		svd.VTo(&vm)
		store(v, &vm)
	}
}

// pseudoInverse returns V*diag(1/w)*Uᵀ and w_min/w_max.
func pseudoInverse(a backend.View, eps float64) (*mat.Dense, float64) {
	var svd mat.SVD
	svd.Factorize(dense(a), mat.SVDThin)
	s := svd.Values(nil)
	k := len(s)

	var um, vm mat.Dense
	svd.UTo(&um)
	svd.VTo(&vm)

	thresh := eps * s[0]
	for l := 0; l < k; l++ {
		inv := 0.0
		if s[0] > 0 && s[l] > thresh {
			inv = 1 / s[l]
		}
		for i := 0; i < a.Cols; i++ {
			vm.Set(i, l, vm.At(i, l)*inv)
		}
	}
	var pinv mat.Dense
	pinv.Mul(&vm, um.T())

	if s[0] == 0 {
		return &pinv, 0
	}

	return &pinv, s[k-1] / s[0]
}
