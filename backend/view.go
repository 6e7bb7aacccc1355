// SPDX-License-Identifier: MIT

package backend

import "github.com/nicshackle/libsurvive/svtype"

// View is a row-major window over Float storage.
// Element (i, j) lives at Data[i*Stride+j]; Stride >= Cols.
type View struct {
	Rows, Cols int
	Stride     int            // elements between the starts of consecutive rows
	Data       []svtype.Float // len >= (Rows-1)*Stride+Cols when non-empty
}

// NewView returns a continuous r×c view over data (Stride == c).
// A nil data allocates a zeroed buffer.
func NewView(r, c int, data []svtype.Float) View {
	if data == nil {
		data = make([]svtype.Float, r*c)
	}

	return View{Rows: r, Cols: c, Stride: c, Data: data}
}

// Empty reports whether the view has no elements or no storage.
func (v View) Empty() bool { return v.Rows == 0 || v.Cols == 0 || v.Data == nil }

// At returns element (i, j).
func (v View) At(i, j int) float64 { return float64(v.Data[i*v.Stride+j]) }

// Set assigns element (i, j).
func (v View) Set(i, j int, x float64) { v.Data[i*v.Stride+j] = svtype.Float(x) }

// Row returns row i as a slice of length Cols sharing v's storage.
func (v View) Row(i int) []svtype.Float {
	off := i * v.Stride
	return v.Data[off : off+v.Cols : off+v.Cols]
}

// IsContinuous reports whether rows are packed without padding.
func (v View) IsContinuous() bool { return v.Stride == v.Cols || v.Rows <= 1 }

// Zero overwrites every element with 0. Padded views are cleared row by
// row so the padding is left as is.
func (v View) Zero() {
	if v.IsContinuous() {
		clear(v.Data[:v.Rows*v.Cols])
		return
	}
	for i := 0; i < v.Rows; i++ {
		clear(v.Row(i))
	}
}

// Float64s copies v into a fresh continuous row-major []float64 (len Rows*Cols).
func (v View) Float64s() []float64 {
	out := make([]float64, v.Rows*v.Cols)
	if v.IsContinuous() {
		for i, x := range v.Data[:len(out)] {
			out[i] = float64(x)
		}
		return out
	}
	for i := 0; i < v.Rows; i++ {
		dst := out[i*v.Cols : (i+1)*v.Cols]
		for j, x := range v.Row(i) {
			dst[j] = float64(x)
		}
	}

	return out
}

// SetFloat64s writes the continuous row-major src (len Rows*Cols) into v.
func (v View) SetFloat64s(src []float64) {
	if v.IsContinuous() {
		dst := v.Data[:v.Rows*v.Cols]
		for i := range dst {
			dst[i] = svtype.Float(src[i])
		}
		return
	}
	for i := 0; i < v.Rows; i++ {
		row := v.Row(i)
		s := src[i*v.Cols : (i+1)*v.Cols]
		for j := range row {
			row[j] = svtype.Float(s[j])
		}
	}
}
