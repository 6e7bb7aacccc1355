// SPDX-License-Identifier: MIT

package svtype

import "fmt"

// Depth is the scalar representation of one channel of one element.
type Depth uint32

// Depth codes. The numeric values are part of the header format.
const (
	Depth8U  Depth = 0
	Depth8S  Depth = 1
	Depth16U Depth = 2
	Depth16S Depth = 3
	Depth32S Depth = 4
	Depth32F Depth = 5
	Depth64F Depth = 6
)

// Bit layout of a Type tag.
const (
	MagicVal  Type = 0x42420000 // header magic for a 2-D matrix
	MagicMask Type = 0xFFFF0000

	ContFlagShift      = 14
	ContFlag      Type = 1 << ContFlagShift

	CnShift      = 3
	CnMax        = 512
	CnMask  Type = (CnMax - 1) << CnShift

	DepthMax       = 1 << CnShift
	DepthMask Type = DepthMax - 1

	// TypeMask covers depth and channels; it is what "same type" compares.
	TypeMask Type = DepthMask | CnMask
)

// depthSize is the byte width of one channel for each depth code.
var depthSize = [DepthMax]int{1, 1, 2, 2, 4, 4, 8, 0}

var depthName = [DepthMax]string{"8U", "8S", "16U", "16S", "32S", "32F", "64F", "?"}

// Size returns the byte width of one channel of depth d (0 for unknown codes).
func (d Depth) Size() int { return depthSize[d&Depth(DepthMask)] }

// String returns the short depth name, e.g. "64F".
func (d Depth) String() string { return depthName[d&Depth(DepthMask)] }

// IsFloat reports whether d is a floating-point depth.
func (d Depth) IsFloat() bool { return d == Depth32F || d == Depth64F }

// Type is a packed element-type tag: magic | continuity | channels | depth.
type Type uint32

// MakeType returns the tag for the given depth and channel count with the
// magic value and the continuity flag set.
// Panics if channels is outside [1, CnMax] or depth is not one of the Depth
// codes; both are programmer errors.
func MakeType(depth Depth, channels int) Type {
	if depth > Depth64F {
		panic(fmt.Sprintf("svtype: MakeType: unknown depth %d", depth))
	}
	if channels < 1 || channels > CnMax {
		panic(fmt.Sprintf("svtype: MakeType: channels %d out of range", channels))
	}

	return MagicVal | ContFlag | Type(channels-1)<<CnShift | Type(depth)
}

// Depth returns the depth bits.
func (t Type) Depth() Depth { return Depth(t & DepthMask) }

// Channels returns the channel count (1..CnMax).
func (t Type) Channels() int { return int((t&CnMask)>>CnShift) + 1 }

// Kind returns the tag reduced to depth and channel bits.
func (t Type) Kind() Type { return t & TypeMask }

// IsValid reports whether the tag carries the matrix header magic.
func (t Type) IsValid() bool { return t&MagicMask == MagicVal }

// IsContinuous reports whether the continuity flag is set.
func (t Type) IsContinuous() bool { return t&ContFlag != 0 }

// WithContinuous returns t with the continuity flag set or cleared.
func (t Type) WithContinuous(on bool) Type {
	if on {
		return t | ContFlag
	}

	return t &^ ContFlag
}

// ElemSize is the byte width of one element (all channels).
func (t Type) ElemSize() int { return t.Channels() * t.Depth().Size() }

// IsMask reports whether t is a single-channel 8-bit tag (8U or 8S), the
// only element types accepted for copy masks.
func (t Type) IsMask() bool { return t&(TypeMask&^Type(Depth8S)) == 0 }

// String renders the tag as "<depth>C<channels>", e.g. "64FC1".
func (t Type) String() string {
	return fmt.Sprintf("%sC%d", t.Depth(), t.Channels())
}

// SameType reports whether a and b agree on depth and channels.
func SameType(a, b Type) bool { return (a^b)&TypeMask == 0 }

// SameChannels reports whether a and b have the same channel count.
func SameChannels(a, b Type) bool { return (a^b)&CnMask == 0 }

// SameDepth reports whether a and b have the same depth.
func SameDepth(a, b Type) bool { return (a^b)&DepthMask == 0 }
