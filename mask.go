package spritegroup

import (
	"image"
	"math/bits"
)

// DefaultMaskThreshold is the alpha value (0-255) a pixel must exceed to be
// set in a mask built by MaskFromImage.
const DefaultMaskThreshold = 127

// Mask is a 1-bit-per-pixel opacity map used for pixel-exact collision.
// Rows are packed into 64-bit words; bits beyond the width stay zero.
type Mask struct {
	w, h   int
	stride int // words per row
	bits   []uint64
}

// NewMask creates an empty mask of the given size.
func NewMask(w, h int) *Mask {
	if w < 0 || h < 0 {
		panic("spritegroup: negative mask size")
	}
	stride := (w + 63) / 64
	return &Mask{w: w, h: h, stride: stride, bits: make([]uint64, stride*h)}
}

// MaskFromImage builds a mask of img with DefaultMaskThreshold.
func MaskFromImage(img image.Image) *Mask {
	return MaskFromImageThreshold(img, DefaultMaskThreshold)
}

// MaskFromImageThreshold builds a mask of img in which a pixel is set when
// its 8-bit alpha exceeds threshold. Mask (0, 0) is img.Bounds().Min.
func MaskFromImageThreshold(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if uint8(a>>8) > threshold {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// Size returns the mask's width and height.
func (m *Mask) Size() image.Point {
	return image.Point{X: m.w, Y: m.h}
}

// Get reports whether the bit at (x, y) is set. Out of range is unset.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.stride+x/64]&(1<<(x%64)) != 0
}

// Set sets or clears the bit at (x, y). Out of range is ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	i := y*m.stride + x/64
	if v {
		m.bits[i] |= 1 << (x % 64)
	} else {
		m.bits[i] &^= 1 << (x % 64)
	}
}

// Fill sets every bit.
func (m *Mask) Fill() {
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			m.Set(x, y, true)
		}
	}
}

// Count returns the number of set bits.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// word returns the 64 bits of row y starting at column x.
func (m *Mask) word(y, x int) uint64 {
	i := y*m.stride + x/64
	off := uint(x % 64)
	w := m.bits[i] >> off
	if off != 0 && x/64+1 < m.stride {
		w |= m.bits[i+1] << (64 - off)
	}
	return w
}

// Overlap reports whether m and other share a set bit when other's
// top-left corner is placed at offset in m's coordinates.
func (m *Mask) Overlap(other *Mask, offset image.Point) bool {
	_, ok := m.OverlapPoint(other, offset)
	return ok
}

// OverlapPoint returns the first set bit, in m's coordinates and row-major
// order, shared by m and other placed at offset.
func (m *Mask) OverlapPoint(other *Mask, offset image.Point) (image.Point, bool) {
	x0, y0 := max(0, offset.X), max(0, offset.Y)
	x1, y1 := min(m.w, offset.X+other.w), min(m.h, offset.Y+other.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x += 64 {
			hit := m.word(y, x) & other.word(y-offset.Y, x-offset.X)
			if n := x1 - x; n < 64 {
				hit &= (1 << uint(n)) - 1
			}
			if hit != 0 {
				return image.Point{X: x + bits.TrailingZeros64(hit), Y: y}, true
			}
		}
	}
	return image.Point{}, false
}
