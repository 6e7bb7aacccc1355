// SPDX-License-Identifier: MIT

// Package svmat: sentinel error set.
// Kernels return these sentinels wrapped with an operation tag and tests
// match them with errors.Is. No operation panics on user-triggered input;
// panics are reserved for programmer errors in constructors and options.

package svmat

import "errors"

// Every message is prefixed with "svmat: " so it can be grepped in logs.
//
// ERROR PRIORITY (checked in this order at the entry of each kernel):
// nil -> header validity -> stride -> element type -> shape -> method.

var (
	// ErrNilMatrix indicates that a nil *Mat was passed where one is required.
	ErrNilMatrix = errors.New("svmat: nil matrix")

	// ErrInvalidHeader is returned for a header with a wrong magic value,
	// non-positive dimensions, or storage missing or too short for its shape.
	ErrInvalidHeader = errors.New("svmat: invalid matrix header")

	// ErrBadShape is returned when requested dimensions are negative.
	ErrBadShape = errors.New("svmat: invalid shape")

	// ErrDimensionMismatch indicates operand shapes incompatible with the
	// requested operation and transposition.
	ErrDimensionMismatch = errors.New("svmat: dimension mismatch")

	// ErrTypeMismatch indicates operands whose element types disagree, or a
	// kernel operand that is not of the configured float type.
	ErrTypeMismatch = errors.New("svmat: element type mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("svmat: matrix is not square")

	// ErrBadMask is returned for a copy mask that is not single-channel 8-bit.
	ErrBadMask = errors.New("svmat: invalid mask")

	// ErrBadStride indicates a row step smaller than the packed row width,
	// not a multiple of the element size, or disagreeing with the
	// continuity flag.
	ErrBadStride = errors.New("svmat: invalid row step")

	// ErrNotOwned is returned when an operation needs a managed buffer but
	// the matrix wraps caller-supplied storage.
	ErrNotOwned = errors.New("svmat: storage is not owned")

	// ErrAlloc signals that the requested buffer cannot be allocated.
	ErrAlloc = errors.New("svmat: allocation failed")

	// ErrOutputOverlap signals that two output matrices of one kernel share
	// a backing array.
	ErrOutputOverlap = errors.New("svmat: output matrices overlap")

	// ErrUnknownMethod is returned for an InvertMethod outside the known set.
	ErrUnknownMethod = errors.New("svmat: unknown invert method")
)
