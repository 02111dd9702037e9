package spritegroup

import (
	"image"
	"image/color"
)

// Surface is a drawing target. Implementations clip every operation to
// both their bounds and their current clip rectangle.
type Surface interface {
	// Blit draws the area part of src (in src's coordinate space) with its
	// top-left corner at dst, and returns the rectangle of the surface that
	// was actually affected. When nothing is drawn the result is a
	// zero-size rectangle at dst.
	Blit(src image.Image, dst image.Point, area image.Rectangle, mode BlendMode) image.Rectangle
	// Fill replaces the pixels of r with c.
	Fill(r image.Rectangle, c color.Color)
	Bounds() image.Rectangle
	Clip() image.Rectangle
	SetClip(r image.Rectangle)
}

// BlitOp is one entry of a batched blit.
type BlitOp struct {
	Image image.Image
	Dst   image.Point
	Area  image.Rectangle
	Mode  BlendMode
}

// BatchSurface is a Surface with a batched blit path. Groups use it when
// the target provides it.
type BatchSurface interface {
	Surface
	// BlitMany performs every op in order and returns one affected
	// rectangle per op.
	BlitMany(ops []BlitOp) []image.Rectangle
}

// clipBlit resolves a blit against the source bounds, the target bounds and
// the clip. It returns the affected target rectangle and the source point
// drawn at its top-left corner. An empty result is a zero-size rectangle at
// dp.
func clipBlit(bounds, clip image.Rectangle, src image.Image, dp image.Point, area image.Rectangle) (image.Rectangle, image.Point) {
	none := image.Rectangle{Min: dp, Max: dp}
	orig := area.Min
	area = area.Intersect(src.Bounds())
	if area.Empty() {
		return none, image.Point{}
	}
	dp = dp.Add(area.Min.Sub(orig))
	dr := RectAt(dp, area.Size())
	vis := dr.Intersect(clip.Intersect(bounds))
	if vis.Empty() {
		return none, image.Point{}
	}
	return vis, area.Min.Add(vis.Min.Sub(dr.Min))
}

// Background repaints a rectangle of a surface with whatever lies behind
// the sprites.
type Background interface {
	Paint(dst Surface, r image.Rectangle)
}

// ImageBackground paints the same rectangle of Image, copied without
// blending. Image's top-left corner is aligned with the surface origin.
type ImageBackground struct {
	Image image.Image
}

// Paint implements Background.
func (b ImageBackground) Paint(dst Surface, r image.Rectangle) {
	if b.Image == nil {
		return
	}
	dst.Blit(b.Image, r.Min, r.Add(b.Image.Bounds().Min), BlendNone)
}

// ColorBackground paints a solid color.
type ColorBackground struct {
	Color color.Color
}

// Paint implements Background.
func (b ColorBackground) Paint(dst Surface, r image.Rectangle) {
	dst.Fill(r, b.Color)
}

// BackgroundFunc adapts a function to Background. It is called once per
// rectangle to repaint.
type BackgroundFunc func(dst Surface, r image.Rectangle)

// Paint implements Background.
func (f BackgroundFunc) Paint(dst Surface, r image.Rectangle) {
	f(dst, r)
}
