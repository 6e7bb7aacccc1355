// SPDX-License-Identifier: MIT

// Package svmat provides the matrix value type of the tracking pipeline and
// the fixed catalogue of kernels it runs on it.
//
// 🚀 What is svmat?
//
//	One row-major Mat header (type tag, shape, byte step, storage and two
//	independent reference counts) plus:
//	  • lifecycle: InitHeader, NewMat, NewMask, Create, CloneMat, ShareData,
//	    Retain, ReleaseMat
//	  • structural ops: SetZero, SetIdentity, SetDiag, Copy (masked), Transpose
//	  • kernels: GEMM, Invert, Solve, SVD, MulTransposed, Det
//
// ✨ Backends
//
//	The arithmetic is done by exactly one backend chosen at build time:
//	  • default          → backend/dense  (plain Go loops)
//	  • -tags svblas     → backend/blas   (gonum BLAS + LAPACK)
//	  • -tags svgonum    → backend/gonum  (gonum/mat)
//	Element precision is float64, or float32 with -tags svfloat32.
//	BackendName reports the linked engine.
//
// ⚙️ Contract
//
//	Kernels validate every operand before touching the backend and return
//	wrapped sentinels (match with errors.Is). A failed validation never
//	writes to an output. Singular or rank-deficient input is not an error:
//	Invert returns 0 and Solve returns false.
//
// 🔒 Ownership
//
//	Storage is borrowed (NewMat, NewMask, SetData) or owned (Create,
//	CloneMat, ShareData). The buffer count tracks headers sharing storage;
//	the header count tracks holders of one header (Retain). ReleaseMat drops
//	each when it reaches zero and never frees borrowed memory. Counters are
//	atomic; element access is not synchronized.
package svmat
