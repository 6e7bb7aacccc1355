// SPDX-License-Identifier: MIT

package svmat

import "github.com/nicshackle/libsurvive/svtype"

// SetZero overwrites every element of m with zero, row by row so padded
// rows keep their padding.
func SetZero(m *Mat) error {
	if err := validateMat(m); err != nil {
		return matrixErrorf(opSetZero, err)
	}
	zeroRows(m)

	return nil
}

func zeroRows(m *Mat) {
	stride := m.stride()
	for i := 0; i < m.Rows; i++ {
		if m.Type.IsMask() {
			clear(m.mask[i*stride : i*stride+m.Cols])
			continue
		}
		clear(m.Row(i))
	}
}

// SetIdentity writes v on the diagonal of m and zero everywhere else.
func SetIdentity(m *Mat, v float64) error {
	if err := validateFloat(m); err != nil {
		return matrixErrorf(opSetIdentity, err)
	}
	zeroRows(m)
	for i := 0; i < min(m.Rows, m.Cols); i++ {
		m.Set(i, i, svtype.Float(v))
	}

	return nil
}

// SetDiag writes diag on the diagonal of m and zero everywhere else.
// len(diag) must equal min(m.Rows, m.Cols).
func SetDiag(m *Mat, diag []float64) error {
	if err := validateFloat(m); err != nil {
		return matrixErrorf(opSetDiag, err)
	}
	if len(diag) != min(m.Rows, m.Cols) {
		return matrixErrorf(opSetDiag, ErrDimensionMismatch)
	}
	zeroRows(m)
	for i, v := range diag {
		m.Set(i, i, svtype.Float(v))
	}

	return nil
}

// Copy copies src into the pre-shaped dst. With a non-nil mask only the
// elements whose mask byte is non-zero are written; the rest of dst is left
// untouched.
//
// Inputs:
//   - src, dst: valid headers of equal type and size (float or 8-bit).
//   - mask: nil, or an 8-bit single-channel matrix of src's size.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidHeader, ErrBadStride (validateMat).
//   - ErrTypeMismatch      (src and dst types differ).
//   - ErrDimensionMismatch (sizes differ, or the mask size differs).
//   - ErrBadMask           (mask is not single-channel 8-bit).
//
// Complexity: Time O(rows*cols), Space O(1) unless the buffers overlap.
//
// Notes:
//   - Identical views are a no-op; any other overlap copies from a snapshot.
func Copy(src, dst, mask *Mat) error {
	if err := validateMat(src); err != nil {
		return matrixErrorf(opCopy, err)
	}
	if err := validateMat(dst); err != nil {
		return matrixErrorf(opCopy, err)
	}
	if !AreTypesEq(src, dst) {
		return matrixErrorf(opCopy, ErrTypeMismatch)
	}
	if !AreSizesEq(src, dst) {
		return matrixErrorf(opCopy, ErrDimensionMismatch)
	}
	if err := validateMask(mask, src.Rows, src.Cols); err != nil {
		return matrixErrorf(opCopy, err)
	}
	if sameView(src, dst) {
		return nil
	}

	// Overlapping rows would be read after being written: copy from a
	// private snapshot instead.
	if sameArray(src, dst) {
		snap, err := CloneMat(src)
		if err != nil {
			return matrixErrorf(opCopy, err)
		}
		defer ReleaseMat(&snap)
		src = snap
	}
	copyMasked(src, dst, mask)

	return nil
}

// copyMasked assumes validated, non-overlapping operands.
func copyMasked(src, dst, mask *Mat) {
	ss, ds := src.stride(), dst.stride()
	ms := 0
	if mask != nil {
		ms = mask.stride()
	}

	var i, j int
	for i = 0; i < src.Rows; i++ {
		if src.Type.IsMask() {
			s := src.mask[i*ss : i*ss+src.Cols]
			d := dst.mask[i*ds : i*ds+src.Cols]
			if mask == nil {
				copy(d, s)
				continue
			}
			for j = range s {
				if mask.mask[i*ms+j] != 0 {
					d[j] = s[j]
				}
			}
			continue
		}

		s, d := src.Row(i), dst.Row(i)
		if mask == nil {
			copy(d, s)
			continue
		}
		for j = range s {
			if mask.mask[i*ms+j] != 0 {
				d[j] = s[j]
			}
		}
	}
}

// Transpose writes dst[j][i] = src[i][j]. dst must be src.Cols×src.Rows.
// Blueprint:
//
//	Stage 1 (Validate): both float, dst shape is the swapped src shape.
//	Stage 2 (Stage): when the buffers overlap (in-place square call
//	                 included), transpose into a Create'd matrix first.
//	Stage 3 (Write): copy the staged result into dst and release it.
//
// Errors: ErrNilMatrix, ErrInvalidHeader, ErrBadStride, ErrTypeMismatch,
// ErrDimensionMismatch.
// Time Complexity: O(rows*cols); Space Complexity: O(rows*cols) when staged.
func Transpose(src, dst *Mat) error {
	if err := validateFloats(src, dst); err != nil {
		return matrixErrorf(opTranspose, err)
	}
	if err := validateShape(dst, src.Cols, src.Rows); err != nil {
		return matrixErrorf(opTranspose, err)
	}

	if sameArray(src, dst) {
		tmp, err := Create(dst.Rows, dst.Cols)
		if err != nil {
			return matrixErrorf(opTranspose, err)
		}
		defer ReleaseMat(&tmp)
		transposeInto(src, tmp)
		copyMasked(tmp, dst, nil)

		return nil
	}
	transposeInto(src, dst)

	return nil
}

// transposeInto assumes validated, non-overlapping operands.
func transposeInto(src, dst *Mat) {
	var i, j int
	var row []svtype.Float
	for i = 0; i < src.Rows; i++ {
		row = src.Row(i)
		for j = range row {
			dst.Set(j, i, row[j])
		}
	}
}
