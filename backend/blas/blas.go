// SPDX-License-Identifier: MIT

// Package blas is the BLAS-style backend: level-3 products go through
// gonum's blas64/blas32 front ends (whatever implementation is registered
// with blas64.Use / blas32.Use, pure Go by default, netlib when a program
// swaps it in) and factorizations go through gonum's lapack64.
//
// Link it into svmat with the `svblas` build tag.
package blas

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/lapack64"

	"github.com/nicshackle/libsurvive/backend"
)

// Name is the identifier reported by Backend.Name.
const Name = "blas"

// machEps is float64 machine epsilon; pivot tolerances scale from it.
const machEps = 2.220446049250313e-16

// Backend implements backend.Backend on top of gonum BLAS and LAPACK.
type Backend struct{}

var _ backend.Backend = Backend{}

// Name returns "blas".
func (Backend) Name() string { return Name }

// general copies v into a continuous float64 blas64.General.
func general(v backend.View) blas64.General {
	return blas64.General{Rows: v.Rows, Cols: v.Cols, Stride: v.Cols, Data: v.Float64s()}
}

// storeGeneral writes the first dst.Rows×dst.Cols block of g into dst.
func storeGeneral(dst backend.View, g blas64.General) {
	for i := 0; i < dst.Rows; i++ {
		for j := 0; j < dst.Cols; j++ {
			dst.Set(i, j, g.Data[i*g.Stride+j])
		}
	}
}

// luFactor is the output of Getrf plus what the callers need from it.
type luFactor struct {
	g    blas64.General
	ipiv []int
}

func factorLU(a backend.View) luFactor {
	f := luFactor{g: general(a), ipiv: make([]int, a.Rows)}
	lapack64.Getrf(f.g, f.ipiv)

	return f
}

func (f luFactor) det() float64 {
	d := 1.0
	n := f.g.Rows
	for i := 0; i < n; i++ {
		d *= f.g.Data[i*f.g.Stride+i]
		if f.ipiv[i] != i {
			d = -d
		}
	}

	return d
}

// singular applies the same relative pivot test as the dense backend:
// |u_ii| <= n * eps * max|a_ij|.
func (f luFactor) singular(a backend.View) bool {
	amax := 0.0
	for i := 0; i < a.Rows; i++ {
		for _, x := range a.Row(i) {
			amax = math.Max(amax, math.Abs(float64(x)))
		}
	}
	n := f.g.Rows
	tol := float64(n) * machEps * amax
	for i := 0; i < n; i++ {
		if math.Abs(f.g.Data[i*f.g.Stride+i]) <= tol {
			return true
		}
	}

	return false
}

// Det returns the determinant from the LU diagonal and the pivot parity.
func (Backend) Det(a backend.View) float64 {
	return factorLU(a).det()
}

// Invert writes the (pseudo-)inverse of a into dst.
// LU runs Getrf, then Getri after a workspace query, and returns the
// determinant; a negligible pivot zeroes dst and returns 0. SVD returns
// w_min/w_max from pseudoInverse.
func (Backend) Invert(a, dst backend.View, method backend.Method, eps float64) float64 {
	if method == backend.LU {
		f := factorLU(a)
		if f.singular(a) {
			dst.Zero()
			return 0
		}
		det := f.det()

		work := []float64{0}
		lapack64.Getri(f.g, f.ipiv, work, -1)
		lwork := max(int(work[0]), f.g.Rows)
		work = make([]float64, lwork)
		if !lapack64.Getri(f.g, f.ipiv, work, lwork) {
			dst.Zero()
			return 0
		}
		storeGeneral(dst, f.g)

		return det
	}

	pinv, ratio := pseudoInverse(a, eps)
	storeGeneral(dst, pinv)

	return ratio
}

// Solve writes argmin ||a*x - b|| into x.
func (Backend) Solve(a, b, x backend.View, method backend.Method, eps float64) bool {
	if method == backend.LU {
		f := factorLU(a)
		if f.singular(a) {
			x.Zero()
			return false
		}
		rhs := general(b)
		lapack64.Getrs(blas.NoTrans, f.g, rhs, f.ipiv)
		storeGeneral(x, rhs)

		return true
	}

	pinv, _ := pseudoInverse(a, eps)
	rhs := general(b)
	out := blas64.General{Rows: x.Rows, Cols: x.Cols, Stride: x.Cols, Data: make([]float64, x.Rows*x.Cols)}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, pinv, rhs, 0, out)
	storeGeneral(x, out)

	return true
}

// SVD writes the factorization computed by Gesvd.
//
// Inputs:
//   - w: k×1 view for the singular values (k = min(m, n)).
//   - u, v: empty (not computed), m×k / n×k (SVDStore) or m×m / n×n
//     (SVDAll).
//
// Notes:
//   - Gesvd returns Vᵀ; it is transposed into v on the way out.
//   - Both calls go through a workspace query first (lwork = -1).
func (Backend) SVD(a, w, u, v backend.View) {
	m, n := a.Rows, a.Cols
	k := min(m, n)

	jobU, ug := svdJob(u, m, k)
	jobVT, vtg := svdJob(v, n, k)
	if !vtg.isNone {
		// Gesvd stores Vᵀ: n×n for SVDAll, k×n for SVDStore.
		vtg.g = blas64.General{Rows: vtg.g.Cols, Cols: n, Stride: n, Data: make([]float64, vtg.g.Cols*n)}
	}

	g := general(a)
	s := make([]float64, k)
	gesvd(jobU, jobVT, g, ug.g, vtg.g, s)

	for i := 0; i < k; i++ {
		w.Set(i, 0, s[i])
	}
	if !ug.isNone {
		storeGeneral(u, ug.g)
	}
	if !vtg.isNone {
		for i := 0; i < v.Rows; i++ {
			for j := 0; j < v.Cols; j++ {
				v.Set(i, j, vtg.g.Data[j*vtg.g.Stride+i])
			}
		}
	}
}

type jobTarget struct {
	g      blas64.General
	isNone bool
}

// svdJob maps a requested factor view to the Gesvd job and its storage.
// rows×cols of the returned General matches the view; cols == rows selects
// the full basis.
func svdJob(view backend.View, rows, k int) (lapack.SVDJob, jobTarget) {
	if view.Empty() {
		return lapack.SVDNone, jobTarget{g: blas64.General{Stride: 1}, isNone: true}
	}
	cols := view.Cols
	job := lapack.SVDStore
	if cols == rows && cols != k {
		job = lapack.SVDAll
	}
	if job == lapack.SVDStore {
		cols = k
	}

	return job, jobTarget{g: blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: make([]float64, rows*cols)}}
}

// gesvd runs the workspace query and the factorization.
func gesvd(jobU, jobVT lapack.SVDJob, a, u, vt blas64.General, s []float64) bool {
	work := []float64{0}
	lapack64.Gesvd(jobU, jobVT, a, u, vt, s, work, -1)
	lwork := int(work[0])
	work = make([]float64, lwork)

	return lapack64.Gesvd(jobU, jobVT, a, u, vt, s, work, lwork)
}

// pseudoInverse returns V*diag(1/w)*Uᵀ (n×m) and w_min/w_max.
func pseudoInverse(a backend.View, eps float64) (blas64.General, float64) {
	m, n := a.Rows, a.Cols
	k := min(m, n)

	u := blas64.General{Rows: m, Cols: k, Stride: k, Data: make([]float64, m*k)}
	vt := blas64.General{Rows: k, Cols: n, Stride: n, Data: make([]float64, k*n)}
	s := make([]float64, k)
	gesvd(lapack.SVDStore, lapack.SVDStore, general(a), u, vt, s)

	// Scale the rows of Vᵀ by 1/w (0 under the threshold), then pinv = (Vᵀ)ᵀ·Uᵀ.
	thresh := eps * s[0]
	for l := 0; l < k; l++ {
		inv := 0.0
		if s[0] > 0 && s[l] > thresh {
			inv = 1 / s[l]
		}
		row := vt.Data[l*n : (l+1)*n]
		for j := range row {
			row[j] *= inv
		}
	}
	pinv := blas64.General{Rows: n, Cols: m, Stride: m, Data: make([]float64, n*m)}
	blas64.Gemm(blas.Trans, blas.Trans, 1, vt, u, 0, pinv)

	if s[0] == 0 {
		return pinv, 0
	}

	return pinv, s[k-1] / s[0]
}
