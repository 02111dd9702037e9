package spritegroup

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestEbitenSurfaceBlitRect(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(64, 64))
	src := solidImage(16, 16, testRed)

	got := s.Blit(src, image.Pt(56, -4), src.Bounds(), BlendNormal)
	if got != image.Rect(56, 0, 64, 12) {
		t.Errorf("Blit = %v, want (56,0)-(64,12)", got)
	}
	if len(s.uploads) != 1 {
		t.Errorf("uploads = %d, want 1", len(s.uploads))
	}

	s.Blit(src, image.Pt(0, 0), src.Bounds(), BlendAdd)
	if len(s.uploads) != 1 {
		t.Error("the same source should be uploaded once")
	}

	s.Forget(src)
	if len(s.uploads) != 0 {
		t.Error("Forget should drop the upload")
	}
}

func TestEbitenSurfaceClip(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(64, 64))
	s.SetClip(image.Rect(10, 10, 100, 100))
	if s.Clip() != image.Rect(10, 10, 64, 64) {
		t.Errorf("Clip = %v", s.Clip())
	}
	src := solidImage(8, 8, testRed)
	if got := s.Blit(src, image.Pt(0, 0), src.Bounds(), BlendNormal); !got.Empty() {
		t.Errorf("Blit outside clip = %v, want empty", got)
	}

	s.Retarget(ebiten.NewImage(64, 64))
	if s.Clip() != image.Rect(10, 10, 64, 64) {
		t.Error("same-size retarget keeps the clip")
	}
	s.Retarget(ebiten.NewImage(32, 32))
	if s.Clip() != image.Rect(0, 0, 32, 32) {
		t.Errorf("resized retarget clip = %v", s.Clip())
	}
}

func TestEbitenSurfaceDrawsEbitenImagesDirectly(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(32, 32))
	src := ebiten.NewImage(8, 8)
	got := s.Blit(src, image.Pt(4, 4), src.Bounds(), BlendNormal)
	if got != XYWH(4, 4, 8, 8) {
		t.Errorf("Blit = %v", got)
	}
	if len(s.uploads) != 0 {
		t.Error("ebiten images must not be uploaded")
	}
}

func TestLayeredDirtyOnEbitenSurface(t *testing.T) {
	g, _ := newDirtyTestGroup(0)
	s := dirtySprite("s", XYWH(4, 4, 8, 8), testRed)
	s.Dirty = DirtyAlways
	_ = g.Add(s)
	dst := NewEbitenSurface(ebiten.NewImage(32, 32))
	bg := ColorBackground{Color: testBG}

	if got := g.Draw(dst, bg, BlendDefault); len(got) != 1 || got[0] != dst.Bounds() {
		t.Errorf("first Draw = %v", got)
	}
	if got := g.Draw(dst, bg, BlendDefault); len(got) != 1 || got[0] != s.Rect {
		t.Errorf("second Draw = %v", got)
	}
}
