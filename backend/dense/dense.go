// SPDX-License-Identifier: MIT

// Package dense is the hand-rolled numerical backend: plain Go loops, no
// third-party code. It is the engine linked into svmat by default.
//
// Factorizations run on float64 working copies regardless of the configured
// Float precision, so float32 builds lose accuracy only when results are
// written back.
//
//   - Gemm: i→k→j row-major triple loop with zero skipping.
//   - LU:   Doolittle elimination with partial pivoting.
//   - SVD:  one-sided Jacobi (Hestenes) rotations on columns.
package dense

import "github.com/nicshackle/libsurvive/backend"

// Name is the identifier reported by Backend.Name.
const Name = "dense"

// Backend implements backend.Backend with pure Go kernels.
// The zero value is ready to use.
type Backend struct{}

var _ backend.Backend = Backend{}

// Name returns "dense".
func (Backend) Name() string { return Name }

// Det returns the determinant of the square view a.
func (Backend) Det(a backend.View) float64 {
	f := factorLU(a)

	return f.det()
}
