// SPDX-License-Identifier: MIT

package svmat

import "github.com/nicshackle/libsurvive/svtype"

// IsMatHeader reports whether m carries the header magic and has rows > 0
// and cols > 0.
func IsMatHeader(m *Mat) bool {
	return m != nil && m.Type.IsValid() && m.Rows > 0 && m.Cols > 0
}

// IsMatHeaderZ is IsMatHeader relaxed to admit empty (0-row or 0-column)
// headers.
func IsMatHeaderZ(m *Mat) bool {
	return m != nil && m.Type.IsValid() && m.Rows >= 0 && m.Cols >= 0
}

// IsMat reports whether m is a valid header whose attached storage is large
// enough for its shape and step.
func IsMat(m *Mat) bool { return IsMatHeader(m) && m.hasStorage() && m.fits() }

// IsMaskArr reports whether m is a single-channel 8-bit matrix with storage.
func IsMaskArr(m *Mat) bool { return IsMat(m) && m.Type.IsMask() }

// AreTypesEq reports whether a and b agree on depth and channels.
func AreTypesEq(a, b *Mat) bool {
	return a != nil && b != nil && svtype.SameType(a.Type, b.Type)
}

// AreCnsEq reports whether a and b have the same channel count.
func AreCnsEq(a, b *Mat) bool {
	return a != nil && b != nil && svtype.SameChannels(a.Type, b.Type)
}

// AreDepthsEq reports whether a and b have the same depth.
func AreDepthsEq(a, b *Mat) bool {
	return a != nil && b != nil && svtype.SameDepth(a.Type, b.Type)
}

// AreSizesEq reports whether a and b have the same rows and cols.
func AreSizesEq(a, b *Mat) bool {
	return a != nil && b != nil && a.Rows == b.Rows && a.Cols == b.Cols
}

// IsMatConst reports whether m is 1×1.
func IsMatConst(m *Mat) bool { return m != nil && (m.Rows|m.Cols) == 1 }
