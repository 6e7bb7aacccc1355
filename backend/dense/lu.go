// SPDX-License-Identifier: MIT

package dense

import (
	"math"

	"github.com/nicshackle/libsurvive/backend"
)

// machEps is float64 machine epsilon; pivot tolerances scale from it.
const machEps = 2.220446049250313e-16

// luFactor holds a packed LU factorization P*A = L*U of an n×n matrix.
// L has a unit diagonal and is stored strictly below the diagonal of lu;
// U occupies the diagonal and above.
type luFactor struct {
	n    int
	lu   []float64 // row-major n×n
	piv  []int     // row i of P*A is row piv[i] of A
	sign float64   // +1 or -1: parity of the row swaps
	amax float64   // max |a_ij| of the input, for the singularity test
}

// factorLU runs Doolittle elimination with partial pivoting on a float64
// copy of the square view a. The elimination always completes; an exactly
// zero pivot column is left as is (det becomes 0).
func factorLU(a backend.View) *luFactor {
	n := a.Rows
	f := &luFactor{
		n:    n,
		lu:   a.Float64s(),
		piv:  make([]int, n),
		sign: 1,
	}
	for i := range f.piv {
		f.piv[i] = i
	}
	for _, x := range f.lu {
		if ax := math.Abs(x); ax > f.amax {
			f.amax = ax
		}
	}

	var (
		i, j, k, p int
		big, t     float64
		lu         = f.lu
		rowK       []float64
		rowI       []float64
	)
	for k = 0; k < n; k++ {
		// Stage 1: choose the pivot row with the largest |a_ik|, i >= k.
		p, big = k, math.Abs(lu[k*n+k])
		for i = k + 1; i < n; i++ {
			if t = math.Abs(lu[i*n+k]); t > big {
				p, big = i, t
			}
		}
		if p != k {
			for j = 0; j < n; j++ {
				lu[k*n+j], lu[p*n+j] = lu[p*n+j], lu[k*n+j]
			}
			f.piv[k], f.piv[p] = f.piv[p], f.piv[k]
			f.sign = -f.sign
		}
		if big == 0 {
			continue // whole column is zero below the diagonal
		}

		// Stage 2: eliminate below the pivot.
		rowK = lu[k*n : (k+1)*n]
		for i = k + 1; i < n; i++ {
			rowI = lu[i*n : (i+1)*n]
			t = rowI[k] / rowK[k]
			rowI[k] = t
			if t == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				rowI[j] -= t * rowK[j]
			}
		}
	}

	return f
}

// det returns sign * prod(diag(U)).
func (f *luFactor) det() float64 {
	d := f.sign
	for i := 0; i < f.n; i++ {
		d *= f.lu[i*f.n+i]
	}

	return d
}

// singular reports whether some pivot is negligible relative to the input
// magnitude (n * eps * max|a_ij|). A zero matrix is singular.
func (f *luFactor) singular() bool {
	tol := float64(f.n) * machEps * f.amax
	for i := 0; i < f.n; i++ {
		if math.Abs(f.lu[i*f.n+i]) <= tol {
			return true
		}
	}

	return false
}

// solveInto solves A*x = b for one right-hand side column in place:
// on entry x holds b, on exit it holds the solution.
// Complexity: O(n^2).
func (f *luFactor) solveInto(x, scratch []float64) {
	n, lu := f.n, f.lu

	// Apply P.
	for i := 0; i < n; i++ {
		scratch[i] = x[f.piv[i]]
	}

	// Forward substitution: L*y = P*b (unit diagonal).
	var sum float64
	for i := 0; i < n; i++ {
		sum = scratch[i]
		for k := 0; k < i; k++ {
			sum -= lu[i*n+k] * scratch[k]
		}
		scratch[i] = sum
	}

	// Backward substitution: U*x = y.
	for i := n - 1; i >= 0; i-- {
		sum = scratch[i]
		for k := i + 1; k < n; k++ {
			sum -= lu[i*n+k] * x[k]
		}
		x[i] = sum / lu[i*n+i]
	}
}

// solve writes the solution of A*X = B into x, column by column.
func (f *luFactor) solve(b, x backend.View) {
	n := f.n
	col := make([]float64, n)
	scratch := make([]float64, n)
	for c := 0; c < b.Cols; c++ {
		for i := 0; i < n; i++ {
			col[i] = b.At(i, c)
		}
		f.solveInto(col, scratch)
		for i := 0; i < n; i++ {
			x.Set(i, c, col[i])
		}
	}
}

// inverse writes A^{-1} into dst by solving against the identity columns.
func (f *luFactor) inverse(dst backend.View) {
	n := f.n
	col := make([]float64, n)
	scratch := make([]float64, n)
	for c := 0; c < n; c++ {
		clear(col)
		col[c] = 1
		f.solveInto(col, scratch)
		for i := 0; i < n; i++ {
			dst.Set(i, c, col[i])
		}
	}
}
