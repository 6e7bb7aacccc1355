// SPDX-License-Identifier: MIT

// Package backend defines the boundary between the svmat contract layer and
// the numerical engines that do the arithmetic.
//
// A backend sees only row-major strided views of Float storage. It never
// receives svmat headers and never returns engine-native types. All shape,
// type and aliasing checks happen in svmat before a backend is called, so a
// backend may assume:
//
//   - every View it receives is non-empty unless documented otherwise,
//   - output views never overlap input views,
//   - shapes are conformant for the requested operation.
//
// Exactly one backend is linked into svmat per build (see svmat/engine_*.go).
// The subpackages dense, blas and gonum provide the three engines; the
// backendtest package holds the conformance suite all of them run.
package backend

// Method selects the factorization used by Invert and Solve.
// The numeric values match svmat.InvertMethod.
type Method int

const (
	// SVD computes a pseudo-inverse / least-squares solution via singular
	// value decomposition; handles non-square and rank-deficient input.
	SVD Method = 1

	// LU uses an LU factorization with partial pivoting; square input only.
	LU Method = 2
)

// String returns "svd", "lu" or "unknown".
func (m Method) String() string {
	switch m {
	case SVD:
		return "svd"
	case LU:
		return "lu"
	default:
		return "unknown"
	}
}

// Backend is the numerical engine contract.
type Backend interface {
	// Name identifies the engine (e.g. "dense", "blas", "gonum").
	Name() string

	// Gemm computes c = alpha*op(a)*op(b) + beta*c where op transposes its
	// operand when the corresponding flag is set. When beta == 0 the prior
	// contents of c are ignored (NaNs included).
	Gemm(transA, transB bool, alpha float64, a, b View, beta float64, c View)

	// Invert writes the (pseudo-)inverse of the r×c matrix a into the c×r
	// view dst.
	// LU: a is square; returns det(a). A singular a yields 0 and a zero dst.
	// SVD: singular values w_i <= eps*w_max are treated as zero; returns
	// w_min/w_max (0 when a is all zeros).
	Invert(a, dst View, method Method, eps float64) float64

	// Solve writes x = argmin ||a*x - b|| into x (a.Cols × b.Cols).
	// LU: a is square; returns false and zero-fills x if a is singular.
	// SVD: least squares with the same eps threshold as Invert; always true.
	Solve(a, b, x View, method Method, eps float64) bool

	// SVD factors the m×n matrix a as U*diag(w)*Vᵀ. a may be overwritten.
	// w is a k×1 view (k = min(m,n)) receiving singular values in
	// non-increasing order. u is empty or m×uc with uc ∈ {k, m}; v is empty
	// or n×vc with vc ∈ {k, n}. Columns beyond k complete an orthonormal basis.
	SVD(a, w, u, v View)

	// Det returns the determinant of the square matrix a.
	Det(a View) float64
}
