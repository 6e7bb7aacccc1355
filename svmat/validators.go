// SPDX-License-Identifier: MIT
// Package svmat: central validators.
//
// Kernels delegate nil, header, stride, type and shape checks here and wrap
// the result with their operation tag. Validators return sentinels tagged
// with the validator name; they are pure and allocate nothing on success.
//
// Each composite validator follows a fixed sequence:
// nil → header → storage → step → type.

package svmat

import (
	"fmt"

	"github.com/nicshackle/libsurvive/svtype"
)

// validatorErrorf wraps err with the validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// validateMat ensures m is a valid header with storage and a consistent step.
func validateMat(m *Mat) error {
	if m == nil {
		return validatorErrorf("validateMat", ErrNilMatrix)
	}
	if !IsMat(m) {
		return validatorErrorf("validateMat", ErrInvalidHeader)
	}
	if err := validateStep(m); err != nil {
		return err
	}

	return nil
}

// validateStep checks Step against the packed row width and the
// continuity flag. Assumes m is not nil.
func validateStep(m *Mat) error {
	es := m.Type.ElemSize()
	packed := m.Cols * es
	if es == 0 || m.Step < packed || m.Step%es != 0 {
		return validatorErrorf("validateStep", ErrBadStride)
	}
	if (m.Step == packed) != m.Type.IsContinuous() && m.Rows > 1 {
		return validatorErrorf("validateStep: continuity", ErrBadStride)
	}

	return nil
}

// validateFloat is validateMat plus a check that m holds Float elements.
func validateFloat(m *Mat) error {
	if err := validateMat(m); err != nil {
		return err
	}
	if !svtype.SameType(m.Type, svtype.FloatType) {
		return validatorErrorf("validateFloat", ErrTypeMismatch)
	}

	return nil
}

// validateFloats runs validateFloat over every operand, failing on the first.
func validateFloats(ms ...*Mat) error {
	for _, m := range ms {
		if err := validateFloat(m); err != nil {
			return err
		}
	}

	return nil
}

// validateShape ensures m is rows×cols. Assumes m is not nil.
func validateShape(m *Mat, rows, cols int) error {
	if m.Rows != rows {
		return validatorErrorf("validateShape: Rows", ErrDimensionMismatch)
	}
	if m.Cols != cols {
		return validatorErrorf("validateShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// validateSquare ensures m has Rows == Cols. Assumes m is not nil.
func validateSquare(m *Mat) error {
	if m.Rows != m.Cols {
		return validatorErrorf("validateSquare", ErrNonSquare)
	}

	return nil
}

// validateMask accepts a nil mask or a valid 8-bit mask of the given shape.
func validateMask(mask *Mat, rows, cols int) error {
	if mask == nil {
		return nil
	}
	if !IsMaskArr(mask) {
		return validatorErrorf("validateMask", ErrBadMask)
	}
	if err := validateStep(mask); err != nil {
		return err
	}

	return validateShape(mask, rows, cols)
}

// validateDisjoint ensures no two of the non-nil outputs share a backing
// array. Assumes every non-nil output passed validateMat.
func validateDisjoint(outs ...*Mat) error {
	for i, a := range outs {
		if a == nil {
			continue
		}
		for _, b := range outs[i+1:] {
			if b != nil && sameArray(a, b) {
				return validatorErrorf("validateDisjoint", ErrOutputOverlap)
			}
		}
	}

	return nil
}
