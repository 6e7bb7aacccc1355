// SPDX-License-Identifier: MIT

package svmat

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/nicshackle/libsurvive/svtype"
)

// InitHeader writes shape and type into hdr and returns it. The magic value
// and the continuity flag are forced on and Step is set to the packed row
// width. Storage is left untouched and the header refcount is reset to 0.
// Panics on negative dimensions or a nil hdr.
func InitHeader(hdr *Mat, rows, cols int, typ svtype.Type) *Mat {
	if hdr == nil {
		panic("svmat: InitHeader: nil header")
	}
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("svmat: InitHeader: negative shape %dx%d", rows, cols))
	}
	hdr.Type = svtype.MagicVal | svtype.ContFlag | typ.Kind()
	hdr.Rows, hdr.Cols = rows, cols
	hdr.Step = cols * hdr.Type.ElemSize()
	atomic.StoreInt32(&hdr.hdrRefs, 0)

	return hdr
}

// NewMat returns an unmanaged float header over data. A nil data allocates a
// zeroed slice that still belongs to the garbage collector, not to the
// refcounts. Panics on negative dimensions or when data is too short.
func NewMat(rows, cols int, data []svtype.Float) Mat {
	var m Mat
	InitHeader(&m, rows, cols, svtype.FloatType)
	if data == nil {
		data = make([]svtype.Float, rows*cols)
	}
	if len(data) < rows*cols {
		panic(fmt.Sprintf("svmat: NewMat: %d elements for %dx%d", len(data), rows, cols))
	}
	m.data = data

	return m
}

// NewMask returns an unmanaged 8U single-channel header over data, suitable
// as a Copy mask. Same allocation and panic rules as NewMat.
func NewMask(rows, cols int, data []uint8) Mat {
	var m Mat
	InitHeader(&m, rows, cols, svtype.MakeType(svtype.Depth8U, 1))
	if data == nil {
		data = make([]uint8, rows*cols)
	}
	if len(data) < rows*cols {
		panic(fmt.Sprintf("svmat: NewMask: %d elements for %dx%d", len(data), rows, cols))
	}
	m.mask = data

	return m
}

// SetData attaches borrowed float storage with a row step of step bytes;
// step 0 means packed rows. A managed buffer previously held by m is
// released first. The continuity flag follows the step.
func (m *Mat) SetData(data []svtype.Float, step int) error {
	if m == nil {
		return matrixErrorf(opSetData, ErrNilMatrix)
	}
	if !IsMatHeaderZ(m) {
		return matrixErrorf(opSetData, ErrInvalidHeader)
	}
	if !svtype.SameType(m.Type, svtype.FloatType) {
		return matrixErrorf(opSetData, ErrTypeMismatch)
	}
	packed := m.Cols * svtype.FloatSize
	if step == 0 {
		step = packed
	}
	if step < packed || step%svtype.FloatSize != 0 {
		return matrixErrorf(opSetData, ErrBadStride)
	}
	stride := step / svtype.FloatSize
	if m.Rows > 0 && len(data) < (m.Rows-1)*stride+m.Cols {
		return matrixErrorf(opSetData, ErrBadShape)
	}

	dropBuffer(m)
	m.data = data
	m.Step = step
	m.Type = m.Type.WithContinuous(step == packed)

	return nil
}

// Create allocates an owned rows×cols float matrix filled with zeros.
//
// Inputs:
//   - rows, cols: non-negative dimensions; either may be 0 (empty matrix).
//
// Returns:
//   - *Mat: continuous header whose header and buffer counts are both 1.
//
// Errors:
//   - ErrBadShape (negative dimension).
//   - ErrAlloc    (rows*cols*FloatSize overflows int).
//
// Complexity: Time O(rows*cols) for zeroing, Space O(rows*cols).
//
// Notes:
//   - Release with ReleaseMat; the storage is dropped when the last header
//     sharing the buffer is released.
func Create(rows, cols int) (*Mat, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(opCreate, ErrBadShape)
	}
	if cols > 0 && rows > math.MaxInt/svtype.FloatSize/cols {
		return nil, matrixErrorf(opCreate, ErrAlloc)
	}

	m := &Mat{}
	InitHeader(m, rows, cols, svtype.FloatType)
	m.attach(&buffer{data: make([]svtype.Float, rows*cols)})
	m.hdrRefs = 1

	return m, nil
}

// attach makes b the managed storage of m and takes a reference on it.
func (m *Mat) attach(b *buffer) {
	b.refs.Add(1)
	m.buf = b
	m.data = b.data
	m.mask = b.mask
}

// CloneMat returns a deep, owned copy of src with the same shape, type and
// step. The copy shares nothing with src.
// Blueprint:
//
//	Stage 1 (Validate): src is a valid header whose storage fits its shape.
//	Stage 2 (Allocate): one buffer of Rows*stride elements (mask or float).
//	Stage 3 (Copy): row by row, so padding is allocated but never read.
//	Stage 4 (Attach): new header with both counts at 1.
//
// Errors: ErrNilMatrix, ErrInvalidHeader, ErrBadStride.
// Time Complexity: O(rows*cols); Space Complexity: O(rows*stride).
func CloneMat(src *Mat) (*Mat, error) {
	if err := validateMat(src); err != nil {
		return nil, matrixErrorf(opClone, err)
	}
	stride := src.stride()

	b := &buffer{}
	if src.Type.IsMask() {
		b.mask = make([]uint8, src.Rows*stride)
		for i := 0; i < src.Rows; i++ {
			copy(b.mask[i*stride:i*stride+src.Cols], src.mask[i*stride:i*stride+src.Cols])
		}
	} else {
		b.data = make([]svtype.Float, src.Rows*stride)
		for i := 0; i < src.Rows; i++ {
			copy(b.data[i*stride:i*stride+src.Cols], src.Row(i))
		}
	}

	m := &Mat{Type: src.Type, Rows: src.Rows, Cols: src.Cols, Step: src.Step}
	m.attach(b)
	m.hdrRefs = 1

	return m, nil
}

// ShareData returns a new owned header over src's buffer (clone by
// reference); the buffer's refcount grows by one.
//
// Inputs:
//   - src: valid header holding a managed buffer (Create, CloneMat, ShareData).
//
// Returns:
//   - *Mat: new header, header count 1, same shape, type and step as src.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidHeader, ErrBadStride (validateMat).
//   - ErrNotOwned (src wraps borrowed storage from NewMat or SetData).
//
// Notes:
//   - Writes through either header are visible through the other.
//   - Each header is released independently; the storage outlives both
//     until the last one goes.
func ShareData(src *Mat) (*Mat, error) {
	if err := validateMat(src); err != nil {
		return nil, matrixErrorf(opShare, err)
	}
	if src.buf == nil {
		return nil, matrixErrorf(opShare, ErrNotOwned)
	}

	m := &Mat{Type: src.Type, Rows: src.Rows, Cols: src.Cols, Step: src.Step}
	m.attach(src.buf)
	m.hdrRefs = 1

	return m, nil
}

// Retain adds a holder to the header itself and returns it.
func (m *Mat) Retain() *Mat {
	atomic.AddInt32(&m.hdrRefs, 1)
	return m
}

// ReleaseMat gives up the caller's hold on *m and sets *m to nil.
// Blueprint:
//
//	Stage 1 (Detach caller): *m = nil, so this pointer cannot be reused.
//	Stage 2 (Header count): CAS-decrement while more than one holder remains.
//	Stage 3 (Last holder): drop the buffer reference and clear the header.
//
// While other holders of the header remain (see Retain) only the header
// count drops. The last holder, or any holder of an unmanaged header, also
// detaches the storage (dropping the buffer when its count reaches zero)
// and clears the header, so a later release through another alias is a
// no-op. nil and *nil are no-ops.
func ReleaseMat(m **Mat) {
	if m == nil || *m == nil {
		return
	}
	hdr := *m
	*m = nil

	for {
		n := atomic.LoadInt32(&hdr.hdrRefs)
		if n <= 1 {
			break
		}
		if atomic.CompareAndSwapInt32(&hdr.hdrRefs, n, n-1) {
			return
		}
	}

	dropBuffer(hdr)
	*hdr = Mat{}
}

// dropBuffer detaches m's storage and releases its buffer reference.
func dropBuffer(m *Mat) {
	b := m.buf
	m.buf, m.data, m.mask = nil, nil, nil
	if b == nil {
		return
	}
	for {
		n := b.refs.Load()
		if n <= 0 {
			logger.Warn().
				Int("rows", m.Rows).
				Int("cols", m.Cols).
				Msg("buffer refcount underflow ignored")
			return
		}
		if b.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				b.data, b.mask = nil, nil
			}
			return
		}
	}
}
