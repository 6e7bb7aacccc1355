// SPDX-License-Identifier: MIT

//go:build !svfloat32

package svtype

// Float is the element type of every matrix created by this module.
type Float = float64

const (
	// FloatDepth is the depth code matching Float.
	FloatDepth = Depth64F

	// Epsilon is the machine epsilon of Float (2^-52).
	Epsilon = 2.220446049250313e-16

	// FloatSize is the byte width of one Float element.
	FloatSize = 8

	// Precision names the configured element width.
	Precision = "float64"
)
