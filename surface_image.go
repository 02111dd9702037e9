package spritegroup

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageSurface is a software Surface over any draw.Image, such as
// *image.RGBA. Normal and opaque blits go through x/image/draw; the other
// blend modes are composited per pixel with the same factors as
// BlendMode.EbitenBlend.
type ImageSurface struct {
	img  draw.Image
	clip image.Rectangle
}

// NewImageSurface wraps img. The initial clip is the whole image.
func NewImageSurface(img draw.Image) *ImageSurface {
	return &ImageSurface{img: img, clip: img.Bounds()}
}

// Image returns the wrapped image.
func (s *ImageSurface) Image() draw.Image {
	return s.img
}

// Bounds implements Surface.
func (s *ImageSurface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Clip implements Surface.
func (s *ImageSurface) Clip() image.Rectangle {
	return s.clip
}

// SetClip implements Surface. The clip is limited to the image bounds.
func (s *ImageSurface) SetClip(r image.Rectangle) {
	s.clip = r.Intersect(s.img.Bounds())
}

// Blit implements Surface.
func (s *ImageSurface) Blit(src image.Image, dp image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	if src == nil {
		return image.Rectangle{Min: dp, Max: dp}
	}
	dr, sp := clipBlit(s.img.Bounds(), s.clip, src, dp, area)
	if dr.Empty() {
		return dr
	}
	sr := image.Rectangle{Min: sp, Max: sp.Add(dr.Size())}
	switch mode {
	case BlendDefault, BlendNormal:
		draw.Copy(s.img, dr.Min, src, sr, draw.Over, nil)
	case BlendNone:
		draw.Copy(s.img, dr.Min, src, sr, draw.Src, nil)
	default:
		blendPixels(s.img, dr, src, sp, mode)
	}
	return dr
}

// BlitMany implements BatchSurface.
func (s *ImageSurface) BlitMany(ops []BlitOp) []image.Rectangle {
	out := make([]image.Rectangle, len(ops))
	for i, op := range ops {
		out[i] = s.Blit(op.Image, op.Dst, op.Area, op.Mode)
	}
	return out
}

// Fill implements Surface.
func (s *ImageSurface) Fill(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.clip)
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// blendPixels composites src onto dst over dr for the modes draw.Op cannot
// express. Channels are premultiplied and normalized to [0, 1].
func blendPixels(dst draw.Image, dr image.Rectangle, src image.Image, sp image.Point, mode BlendMode) {
	const full = 0xffff
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			sr, sg, sb, sa := src.At(sp.X+x-dr.Min.X, sp.Y+y-dr.Min.Y).RGBA()
			dr0, dg, db, da := dst.At(x, y).RGBA()
			s := [4]float64{float64(sr) / full, float64(sg) / full, float64(sb) / full, float64(sa) / full}
			d := [4]float64{float64(dr0) / full, float64(dg) / full, float64(db) / full, float64(da) / full}
			var o [4]float64
			for i := 0; i < 4; i++ {
				o[i] = blendChannel(mode, s[i], d[i], s[3], d[3], i == 3)
			}
			dst.Set(x, y, color.RGBA64{
				R: unit16(o[0]),
				G: unit16(o[1]),
				B: unit16(o[2]),
				A: unit16(o[3]),
			})
		}
	}
}

// blendChannel applies one blend equation to a premultiplied channel.
func blendChannel(mode BlendMode, s, d, sa, da float64, alpha bool) float64 {
	switch mode {
	case BlendAdd:
		return s + d
	case BlendMultiply:
		if alpha {
			return sa*da + d*(1-sa)
		}
		return s*d + d*(1-sa)
	case BlendScreen:
		if alpha {
			return s + d*(1-sa)
		}
		return s + d*(1-s)
	case BlendErase:
		return d * (1 - sa)
	case BlendMask:
		return d * sa
	case BlendBelow:
		return s*(1-da) + d
	default:
		return s + d*(1-sa)
	}
}

func unit16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}
