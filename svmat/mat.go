// SPDX-License-Identifier: MIT

package svmat

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/nicshackle/libsurvive/backend"
	"github.com/nicshackle/libsurvive/svtype"
)

// buffer is managed element storage shared by one or more headers.
// refs counts the headers that hold it; at zero the storage is dropped.
type buffer struct {
	refs atomic.Int32
	data []svtype.Float
	mask []uint8
}

// Mat is a row-major 2-D matrix header.
//
// Storage is either owned (allocated by Create, CloneMat or ShareData and
// reference counted through a shared buffer) or borrowed (attached by NewMat,
// NewMask or SetData; never released by this package). Elements are addressed
// as row*Step + col*ElemSize bytes, so padded rows are handled uniformly.
//
// Float matrices keep their elements in a []svtype.Float; single-channel
// 8-bit matrices (copy masks) in a []uint8. Other depths are header-only.
type Mat struct {
	Type       svtype.Type
	Rows, Cols int
	Step       int // bytes per row; >= Cols*Type.ElemSize()

	data []svtype.Float
	mask []uint8
	buf  *buffer // nil for borrowed storage

	hdrRefs int32 // header sharing count; 0 means unmanaged
}

// stride is the row step in elements.
func (m *Mat) stride() int {
	es := m.Type.ElemSize()
	if es == 0 {
		return 0
	}

	return m.Step / es
}

// At returns element (i, j) of a float matrix. It panics when the index is
// out of range, like a slice index.
func (m *Mat) At(i, j int) svtype.Float { return m.data[i*m.stride()+j] }

// Set assigns element (i, j) of a float matrix.
func (m *Mat) Set(i, j int, v svtype.Float) { m.data[i*m.stride()+j] = v }

// Row returns row i of a float matrix; the slice shares m's storage.
func (m *Mat) Row(i int) []svtype.Float {
	off := i * m.stride()
	return m.data[off : off+m.Cols : off+m.Cols]
}

// MaskAt returns element (i, j) of an 8-bit matrix.
func (m *Mat) MaskAt(i, j int) uint8 { return m.mask[i*m.stride()+j] }

// SetMask assigns element (i, j) of an 8-bit matrix.
func (m *Mat) SetMask(i, j int, v uint8) { m.mask[i*m.stride()+j] = v }

// Data returns the float backing slice (nil for empty or non-float headers).
func (m *Mat) Data() []svtype.Float { return m.data }

// Stride returns the row step in elements.
func (m *Mat) Stride() int { return m.stride() }

// RefCount returns the data buffer's reference count (0 for borrowed storage).
func (m *Mat) RefCount() int {
	if m == nil || m.buf == nil {
		return 0
	}

	return int(m.buf.refs.Load())
}

// HeaderRefCount returns the header's own reference count.
func (m *Mat) HeaderRefCount() int {
	if m == nil {
		return 0
	}

	return int(atomic.LoadInt32(&m.hdrRefs))
}

// IsOwned reports whether m holds a managed buffer.
func (m *Mat) IsOwned() bool { return m != nil && m.buf != nil }

// hasStorage reports whether m carries element storage for its depth.
func (m *Mat) hasStorage() bool {
	if m.Type.IsMask() {
		return m.mask != nil
	}

	return m.data != nil
}

// fits reports whether the attached storage covers every element the
// header addresses: (Rows-1)*stride + Cols elements.
func (m *Mat) fits() bool {
	if m.Rows == 0 || m.Cols == 0 {
		return true
	}
	n := len(m.data)
	if m.Type.IsMask() {
		n = len(m.mask)
	}

	return n >= (m.Rows-1)*m.stride()+m.Cols
}

// view exposes a float matrix to the backend.
func (m *Mat) view() backend.View {
	return backend.View{Rows: m.Rows, Cols: m.Cols, Stride: m.stride(), Data: m.data}
}

// String renders the matrix one bracketed row per line.
func (m *Mat) String() string {
	if m == nil {
		return "<nil>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d %s\n", m.Rows, m.Cols, m.Type)
	if !m.hasStorage() {
		return sb.String()
	}

	var i, j int
	for i = 0; i < m.Rows; i++ {
		sb.WriteByte('[')
		for j = 0; j < m.Cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			if m.Type.IsMask() {
				fmt.Fprintf(&sb, "%d", m.MaskAt(i, j))
			} else {
				fmt.Fprintf(&sb, "%g", m.At(i, j))
			}
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// sameArray reports whether a and b are backed by the same array. Two
// slices share an array iff their last capacity element coincides.
// Conservative: disjoint windows of one array also count.
func sameArray(a, b *Mat) bool {
	if a == b {
		return true
	}
	if cap(a.data) > 0 && cap(b.data) > 0 {
		return &a.data[:cap(a.data)][cap(a.data)-1] == &b.data[:cap(b.data)][cap(b.data)-1]
	}
	if cap(a.mask) > 0 && cap(b.mask) > 0 {
		return &a.mask[:cap(a.mask)][cap(a.mask)-1] == &b.mask[:cap(b.mask)][cap(b.mask)-1]
	}

	return false
}

// sameView reports whether a and b address exactly the same elements.
func sameView(a, b *Mat) bool {
	if a == b {
		return true
	}
	if len(a.data) == 0 || len(b.data) == 0 {
		return false
	}

	return &a.data[0] == &b.data[0] && a.Step == b.Step && a.Rows == b.Rows && a.Cols == b.Cols
}
