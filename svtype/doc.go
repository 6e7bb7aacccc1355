// SPDX-License-Identifier: MIT

// Package svtype encodes matrix element types into a single integer tag.
//
// A Type packs four things into one uint32:
//
//	bits 16..31  header magic (MagicVal)
//	bit  14      continuity flag (rows packed without padding)
//	bits 3..11   channel count minus one
//	bits 0..2    element depth (Depth8U … Depth64F)
//
// Every predicate (SameType, SameChannels, SameDepth, IsMask, IsValid) is a
// single masked comparison, so headers can be checked on hot paths without
// branching on a discriminant.
//
// The package also fixes the floating precision of the whole build. Float is
// float64 unless the module is compiled with the `svfloat32` build tag; all
// matrices created by svmat use Float storage and FloatType headers.
package svtype
