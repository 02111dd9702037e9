package spritegroup

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSurface is a Surface over an *ebiten.Image, typically the screen
// passed to ebiten.Game.Draw. Source images that are not *ebiten.Image are
// uploaded once and cached by identity.
//
// A dirty-rectangle group relies on the previous frame's pixels surviving,
// so games drawing to the screen should call
// ebiten.SetScreenClearedEveryFrame(false).
type EbitenSurface struct {
	img     *ebiten.Image
	clip    image.Rectangle
	uploads map[image.Image]*ebiten.Image
}

// NewEbitenSurface wraps img. The initial clip is the whole image.
func NewEbitenSurface(img *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{
		img:     img,
		clip:    img.Bounds(),
		uploads: make(map[image.Image]*ebiten.Image),
	}
}

// Image returns the wrapped image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// Retarget points the surface at a new image, keeping the upload cache. The
// clip is reset to the new image's bounds when its size changed.
func (s *EbitenSurface) Retarget(img *ebiten.Image) {
	if img.Bounds() != s.img.Bounds() {
		s.clip = img.Bounds()
	}
	s.img = img
}

// Forget drops the cached upload of src, deallocating it.
func (s *EbitenSurface) Forget(src image.Image) {
	if up, ok := s.uploads[src]; ok {
		up.Deallocate()
		delete(s.uploads, src)
	}
}

// Bounds implements Surface.
func (s *EbitenSurface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Clip implements Surface.
func (s *EbitenSurface) Clip() image.Rectangle {
	return s.clip
}

// SetClip implements Surface. The clip is limited to the image bounds.
func (s *EbitenSurface) SetClip(r image.Rectangle) {
	s.clip = r.Intersect(s.img.Bounds())
}

// Blit implements Surface.
func (s *EbitenSurface) Blit(src image.Image, dp image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	if src == nil {
		return image.Rectangle{Min: dp, Max: dp}
	}
	dr, sp := clipBlit(s.img.Bounds(), s.clip, src, dp, area)
	if dr.Empty() {
		return dr
	}
	eimg := s.ebitenImage(src)
	sub := eimg.SubImage(image.Rectangle{Min: sp, Max: sp.Add(dr.Size())}).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(dr.Min.X), float64(dr.Min.Y))
	op.Blend = mode.EbitenBlend()
	s.img.DrawImage(sub, &op)
	return dr
}

// Fill implements Surface.
func (s *EbitenSurface) Fill(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.clip)
	if r.Empty() {
		return
	}
	s.img.SubImage(r).(*ebiten.Image).Fill(c)
}

func (s *EbitenSurface) ebitenImage(src image.Image) *ebiten.Image {
	if e, ok := src.(*ebiten.Image); ok {
		return e
	}
	if up, ok := s.uploads[src]; ok {
		return up
	}
	up := ebiten.NewImageFromImageWithOptions(src, &ebiten.NewImageFromImageOptions{
		PreserveBounds: true,
	})
	s.uploads[src] = up
	return up
}
