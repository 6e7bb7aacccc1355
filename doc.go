// SPDX-License-Identifier: MIT

// Package libsurvive is the dense-matrix layer of a real-time tracking
// pipeline: one matrix value type, ownership-aware lifecycle operations and
// a fixed catalogue of linear-algebra kernels, backed by a numerical engine
// chosen at build time.
//
// 🚀 What is in here?
//
//	• svtype/   : packed element-type tags and the build's Float precision
//	• svmat/    : Mat header, lifecycle (Create, CloneMat, ShareData,
//	              ReleaseMat), structural ops and the kernel contract
//	              (GEMM, Invert, Solve, SVD, MulTransposed, Det)
//	• backend/  : the View/Backend boundary and its three engines:
//	              dense (pure Go), blas (gonum BLAS + LAPACK), gonum (gonum/mat)
//	• cmd/svmat : CLI to run the kernels on matrix literals
//
// ✨ Build configuration
//
//	go build ./...                      # float64, dense backend
//	go build -tags svblas ./...         # gonum BLAS/LAPACK backend
//	go build -tags svgonum ./...        # gonum/mat backend
//	go build -tags svfloat32 ./...      # float32 elements (any backend)
//
// Quick example:
//
//	a := svmat.NewMat(2, 2, []svtype.Float{1, 0, 0, 1})
//	b := svmat.NewMat(2, 1, []svtype.Float{1, 1})
//	x, _ := svmat.Create(2, 1)
//	defer svmat.ReleaseMat(&x)
//	ok, err := svmat.Solve(&a, &b, x, svmat.InvertUnknown) // x = [1; 1]
//
// See the package docs of svmat for the ownership and error contracts.
package libsurvive
