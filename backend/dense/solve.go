// SPDX-License-Identifier: MIT

package dense

import "github.com/nicshackle/libsurvive/backend"

// Invert writes the (pseudo-)inverse of a into dst.
// Blueprint:
//
//	LU:  Stage 1 factor P*A = L*U; Stage 2 reject a negligible pivot
//	     (dst zeroed, 0 returned); Stage 3 solve against each identity
//	     column; Stage 4 return sign * prod(diag(U)).
//	SVD: build V*diag(1/w)*Uᵀ with w <= eps*w_max dropped; return
//	     w_min/w_max (0 for a zero matrix).
//
// Time Complexity: LU O(n³); SVD O(sweeps·k²·max(m,n)). Space O(m·n).
func (Backend) Invert(a, dst backend.View, method backend.Method, eps float64) float64 {
	if method == backend.LU {
		f := factorLU(a)
		if f.singular() {
			dst.Zero()
			return 0
		}
		f.inverse(dst)

		return f.det()
	}

	return pinvSVD(a, eps, func(pinv []float64, rows, cols int) {
		dst.SetFloat64s(pinv)
	})
}

// Solve writes argmin ||a*x - b|| into x.
//
// Returns:
//   - false only for LU on a numerically singular a; x is zeroed then.
//
// Complexity: LU O(n³ + n²·p) for p right-hand sides; SVD forms the
// pseudo-inverse once, then O(m·n·p) for the product.
func (Backend) Solve(a, b, x backend.View, method backend.Method, eps float64) bool {
	if method == backend.LU {
		f := factorLU(a)
		if f.singular() {
			x.Zero()
			return false
		}
		f.solve(b, x)

		return true
	}

	pinvSVD(a, eps, func(pinv []float64, rows, cols int) {
		// x = pinv(a) * b, pinv is rows×cols = (a.Cols × a.Rows).
		var sum float64
		for i := 0; i < rows; i++ {
			for j := 0; j < b.Cols; j++ {
				sum = 0
				for l := 0; l < cols; l++ {
					sum += pinv[i*cols+l] * b.At(l, j)
				}
				x.Set(i, j, sum)
			}
		}
	})

	return true
}

// pinvSVD builds the Moore–Penrose pseudo-inverse V*diag(1/w)*Uᵀ of the m×n
// view a, passing the continuous n×m result to emit. Singular values at or
// below eps*w_max contribute nothing. Returns w_min/w_max, or 0 for a zero
// matrix.
func pinvSVD(a backend.View, eps float64, emit func(pinv []float64, rows, cols int)) float64 {
	m, n := a.Rows, a.Cols
	k := min(m, n)

	var res *svdResult
	var left, right []float64 // left: m×k, right: n×k
	if m >= n {
		res = jacobiSVD(a.Float64s(), m, n)
		left, right = res.u, res.v
	} else {
		res = jacobiSVD(transposed(a), n, m)
		left, right = res.v, res.u
	}

	pinv := make([]float64, n*m)
	wmax := res.w[0]
	thresh := eps * wmax
	var inv float64
	for l := 0; l < k; l++ {
		if wmax == 0 || res.w[l] <= thresh {
			break // non-increasing: every later value is below the threshold too
		}
		inv = 1 / res.w[l]
		for i := 0; i < n; i++ {
			vi := right[i*k+l] * inv
			if vi == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				pinv[i*m+j] += vi * left[j*k+l]
			}
		}
	}
	emit(pinv, n, m)

	if wmax == 0 {
		return 0
	}

	return res.w[k-1] / wmax
}
