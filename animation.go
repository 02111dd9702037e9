package spritegroup

import (
	"image"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates a sprite's rectangle. Create one via TweenPosition or
// TweenSize and call Update(dt) each frame. Every step that changes the
// rectangle marks the sprite dirty once so a LayeredDirty group repaints it.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	target *Sprite
	apply  func(s *Sprite, a, b int)
	Done   bool
}

// Update advances the tweens by dt seconds and writes the rounded values to
// the target. If the target has been killed, Done is set and nothing is
// written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.target.Alive() {
		g.Done = true
		return
	}
	va, doneA := g.tweens[0].Update(dt)
	vb, doneB := g.tweens[1].Update(dt)
	g.Done = doneA && doneB

	before := g.target.Rect
	g.apply(g.target, round32(va), round32(vb))
	if g.target.Rect != before && g.target.Dirty < DirtyAlways {
		g.target.Dirty = DirtyOnce
	}
}

func round32(v float32) int {
	return int(math.Round(float64(v)))
}

// TweenPosition creates a TweenGroup moving s's top-left corner to (toX,
// toY) over duration seconds. The sprite must belong to a group while the
// tween runs.
func TweenPosition(s *Sprite, toX, toY int, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: s}
	g.tweens[0] = gween.New(float32(s.Rect.Min.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(s.Rect.Min.Y), float32(toY), duration, fn)
	g.apply = func(s *Sprite, x, y int) {
		s.Rect = RectAt(image.Point{X: x, Y: y}, s.Rect.Size())
	}
	return g
}

// TweenSize creates a TweenGroup resizing s's rectangle to w x h, keeping
// its top-left corner. Derived collision radii are recomputed as it grows.
func TweenSize(s *Sprite, w, h int, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: s}
	g.tweens[0] = gween.New(float32(s.Rect.Dx()), float32(w), duration, fn)
	g.tweens[1] = gween.New(float32(s.Rect.Dy()), float32(h), duration, fn)
	g.apply = func(s *Sprite, w, h int) {
		r := RectAt(s.Rect.Min, image.Point{X: w, Y: h})
		if r != s.Rect {
			defaultRadii.Forget(s)
		}
		s.Rect = r
	}
	return g
}
