// SPDX-License-Identifier: MIT

package dense

import (
	"math"
	"sort"

	"github.com/nicshackle/libsurvive/backend"
)

const (
	// jacobiTol is the relative orthogonality threshold between two columns.
	jacobiTol = 1e-15

	// jacobiMaxSweeps bounds the number of full (p,q) sweeps.
	jacobiMaxSweeps = 75
)

// svdResult is a thin factorization of an m×n matrix with m >= n:
// A = U*diag(w)*Vᵀ, U m×n (columns with w_j == 0 are not yet orthonormal),
// V n×n orthogonal, w non-increasing.
type svdResult struct {
	m, n int
	w    []float64
	u    []float64 // row-major m×n
	v    []float64 // row-major n×n
}

// jacobiSVD factors the row-major m×n matrix a (m >= n) with one-sided
// Jacobi rotations. a is used as the working copy of U and is overwritten.
//
// Each rotation zeroes the inner product of columns p and q of the working
// matrix; V accumulates the same rotations. On convergence the column norms
// are the singular values.
// Complexity: O(sweeps * n^2 * m).
func jacobiSVD(a []float64, m, n int) *svdResult {
	v := make([]float64, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	var (
		sweep, p, q, i     int
		alpha, beta, gamma float64
		zeta, t, c, s      float64
		up, uq, vp, vq     float64
		rotated            bool
	)
	for sweep = 0; sweep < jacobiMaxSweeps; sweep++ {
		rotated = false
		for p = 0; p < n-1; p++ {
			for q = p + 1; q < n; q++ {
				alpha, beta, gamma = 0, 0, 0
				for i = 0; i < m; i++ {
					up, uq = a[i*n+p], a[i*n+q]
					alpha += up * up
					beta += uq * uq
					gamma += up * uq
				}
				if gamma == 0 || math.Abs(gamma) <= jacobiTol*math.Sqrt(alpha*beta) {
					continue
				}
				rotated = true

				// Smaller root of t² + 2ζt − 1 = 0 keeps the rotation angle ≤ π/4.
				zeta = (beta - alpha) / (2 * gamma)
				t = math.Copysign(1/(math.Abs(zeta)+math.Hypot(zeta, 1)), zeta)
				c = 1 / math.Sqrt(1+t*t)
				s = c * t

				for i = 0; i < m; i++ {
					up, uq = a[i*n+p], a[i*n+q]
					a[i*n+p] = c*up - s*uq
					a[i*n+q] = s*up + c*uq
				}
				for i = 0; i < n; i++ {
					vp, vq = v[i*n+p], v[i*n+q]
					v[i*n+p] = c*vp - s*vq
					v[i*n+q] = s*vp + c*vq
				}
			}
		}
		if !rotated {
			break
		}
	}

	// Column norms are the singular values; normalize the columns of U.
	w := make([]float64, n)
	var norm float64
	for p = 0; p < n; p++ {
		norm = 0
		for i = 0; i < m; i++ {
			norm += a[i*n+p] * a[i*n+p]
		}
		w[p] = math.Sqrt(norm)
	}
	wmax := 0.0
	for _, x := range w {
		wmax = math.Max(wmax, x)
	}
	for p = 0; p < n; p++ {
		if w[p] <= machEps*wmax || w[p] == 0 {
			// Numerically null direction: drop it so completeBasis replaces it.
			w[p] = 0
			for i = 0; i < m; i++ {
				a[i*n+p] = 0
			}
			continue
		}
		for i = 0; i < m; i++ {
			a[i*n+p] /= w[p]
		}
	}

	res := &svdResult{m: m, n: n, w: w, u: a, v: v}
	res.sortDescending()

	return res
}

// sortDescending permutes singular values and the matching columns of U and
// V so that w is non-increasing. The sort is stable for reproducibility.
func (r *svdResult) sortDescending() {
	order := make([]int, r.n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return r.w[order[x]] > r.w[order[y]] })

	w := make([]float64, r.n)
	u := make([]float64, r.m*r.n)
	v := make([]float64, r.n*r.n)
	for dst, src := range order {
		w[dst] = r.w[src]
		for i := 0; i < r.m; i++ {
			u[i*r.n+dst] = r.u[i*r.n+src]
		}
		for i := 0; i < r.n; i++ {
			v[i*r.n+dst] = r.v[i*r.n+src]
		}
	}
	r.w, r.u, r.v = w, u, v
}

// completeBasis turns the first cols columns of the row-major rows×stride
// matrix q into an orthonormal set. Columns whose index is in good are kept;
// every other column is replaced by the standard basis vector with the
// largest component orthogonal to the columns accepted so far
// (Gram–Schmidt, two passes).
func completeBasis(q []float64, rows, stride, cols int, good []bool) {
	accepted := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		if good[j] {
			accepted = append(accepted, j)
		}
	}

	cand := make([]float64, rows)
	best := make([]float64, rows)
	for j := 0; j < cols; j++ {
		if good[j] {
			continue
		}
		bestNorm := -1.0
		for e := 0; e < rows; e++ {
			clear(cand)
			cand[e] = 1
			for pass := 0; pass < 2; pass++ {
				for _, g := range accepted {
					dot := 0.0
					for i := 0; i < rows; i++ {
						dot += cand[i] * q[i*stride+g]
					}
					for i := 0; i < rows; i++ {
						cand[i] -= dot * q[i*stride+g]
					}
				}
			}
			norm := 0.0
			for _, x := range cand {
				norm += x * x
			}
			if norm > bestNorm {
				bestNorm = norm
				copy(best, cand)
			}
		}
		norm := math.Sqrt(bestNorm)
		for i := 0; i < rows; i++ {
			q[i*stride+j] = best[i] / norm
		}
		good[j] = true
		accepted = append(accepted, j)
	}
}

// SVD factors a = U*diag(w)*Vᵀ and writes the requested parts.
// Blueprint:
//
//	Stage 1 (Orient): Jacobi needs m >= n; for m < n factor aᵀ and swap
//	                  the roles of U and V.
//	Stage 2 (Factor): one-sided Jacobi sweeps, values sorted non-increasing.
//	Stage 3 (Write):  the k values into w; U and V when non-empty, with
//	                  columns for null values and full-basis extras
//	                  completed by Gram–Schmidt.
//
// Time Complexity: O(sweeps·k²·max(m,n)); Space Complexity: O(m·n + n²).
func (Backend) SVD(a, w, u, v backend.View) {
	m, n := a.Rows, a.Cols
	k := min(m, n)

	var res *svdResult
	var left, right []float64 // left: m×k, right: n×k (row-major, stride k)
	if m >= n {
		res = jacobiSVD(a.Float64s(), m, n)
		left = res.u
		right = res.v
	} else {
		res = jacobiSVD(transposed(a), n, m)
		left = res.v
		right = res.u
	}

	for i := 0; i < k; i++ {
		w.Set(i, 0, res.w[i])
	}
	if !u.Empty() {
		writeBasis(u, left, m, k, res.w)
	}
	if !v.Empty() {
		writeBasis(v, right, n, k, res.w)
	}
}

// writeBasis copies the row-major rows×k factor src into dst, completing
// columns for null singular values and the extra columns of a full basis.
func writeBasis(dst backend.View, src []float64, rows, k int, w []float64) {
	cols := dst.Cols
	q := make([]float64, rows*cols)
	good := make([]bool, cols)
	for j := 0; j < k; j++ {
		good[j] = w[j] > 0 || isUnit(src, rows, k, j)
		for i := 0; i < rows; i++ {
			q[i*cols+j] = src[i*k+j]
		}
	}
	completeBasis(q, rows, cols, cols, good)
	dst.SetFloat64s(q)
}

// isUnit reports whether column j of the row-major rows×stride matrix has
// unit norm (V columns are orthonormal even for null singular values).
func isUnit(q []float64, rows, stride, j int) bool {
	norm := 0.0
	for i := 0; i < rows; i++ {
		norm += q[i*stride+j] * q[i*stride+j]
	}

	return math.Abs(norm-1) < 1e-8
}

// transposed returns aᵀ as a continuous row-major float64 slice.
func transposed(a backend.View) []float64 {
	out := make([]float64, a.Rows*a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out[j*a.Rows+i] = a.At(i, j)
		}
	}

	return out
}
