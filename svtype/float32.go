// SPDX-License-Identifier: MIT

//go:build svfloat32

package svtype

// Float is the element type of every matrix created by this module.
type Float = float32

const (
	// FloatDepth is the depth code matching Float.
	FloatDepth = Depth32F

	// Epsilon is the machine epsilon of Float (2^-23).
	Epsilon = 1.1920928955078125e-07

	// FloatSize is the byte width of one Float element.
	FloatSize = 4

	// Precision names the configured element width.
	Precision = "float32"
)
