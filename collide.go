package spritegroup

import (
	"image"
	"math"
)

// CollideFunc reports whether two sprites collide.
type CollideFunc func(a, b *Sprite) bool

// CollideRect reports whether the rectangles of a and b overlap. It is the
// default predicate of the group collision drivers.
func CollideRect(a, b *Sprite) bool {
	return collideRect(a.Rect, b.Rect)
}

// CollideRectRatio returns a predicate testing the rectangles scaled by
// ratio about their centers.
func CollideRectRatio(ratio float64) CollideFunc {
	return func(a, b *Sprite) bool {
		return collideRect(scaleRect(a.Rect, ratio), scaleRect(b.Rect, ratio))
	}
}

func scaleRect(r image.Rectangle, ratio float64) image.Rectangle {
	w, h := float64(r.Dx()), float64(r.Dy())
	return Inflate(r, int(w*ratio-w), int(h*ratio-h))
}

// --- Circles ---

// RadiusCache memoizes the bounding radius of sprites that do not set
// Sprite.Radius, keyed by sprite ID. The radius is half the diagonal of the
// sprite's rectangle when first computed; call Forget after resizing a
// sprite to recompute it.
type RadiusCache struct {
	radii map[uint32]float64
}

// NewRadiusCache creates an empty cache.
func NewRadiusCache() *RadiusCache {
	return &RadiusCache{radii: make(map[uint32]float64)}
}

// defaultRadii backs CollideCircle and CollideCircleRatio. Entries are
// dropped by Sprite.Kill.
var defaultRadii = NewRadiusCache()

// Radius returns s.Radius when set, else the cached or newly computed
// bounding radius.
func (c *RadiusCache) Radius(s *Sprite) float64 {
	if s.Radius > 0 {
		return s.Radius
	}
	if r, ok := c.radii[s.ID]; ok {
		return r
	}
	r := halfDiagonal(s.Rect)
	c.radii[s.ID] = r
	return r
}

// Cached reports whether the cache holds a radius for s.
func (c *RadiusCache) Cached(s *Sprite) bool {
	_, ok := c.radii[s.ID]
	return ok
}

// Forget drops the cached radius of s.
func (c *RadiusCache) Forget(s *Sprite) {
	delete(c.radii, s.ID)
}

// Len returns the number of cached radii.
func (c *RadiusCache) Len() int {
	return len(c.radii)
}

// Collide reports whether the bounding circles of a and b overlap.
func (c *RadiusCache) Collide(a, b *Sprite) bool {
	return circlesOverlap(a, b, c.Radius(a), c.Radius(b))
}

// CollideRatio returns a predicate testing the bounding circles with both
// radii scaled by ratio. It reads radii already in the cache but never adds
// to it; other sprites get a radius from their current rectangle.
func (c *RadiusCache) CollideRatio(ratio float64) CollideFunc {
	return func(a, b *Sprite) bool {
		return circlesOverlap(a, b, c.peek(a)*ratio, c.peek(b)*ratio)
	}
}

// peek is Radius without storing a derived radius.
func (c *RadiusCache) peek(s *Sprite) float64 {
	if s.Radius > 0 {
		return s.Radius
	}
	if r, ok := c.radii[s.ID]; ok {
		return r
	}
	return halfDiagonal(s.Rect)
}

func halfDiagonal(r image.Rectangle) float64 {
	return 0.5 * math.Hypot(float64(r.Dx()), float64(r.Dy()))
}

func circlesOverlap(a, b *Sprite, ra, rb float64) bool {
	ca, cb := center(a.Rect), center(b.Rect)
	dx, dy := float64(ca.X-cb.X), float64(ca.Y-cb.Y)
	return dx*dx+dy*dy <= (ra+rb)*(ra+rb)
}

// CollideCircle reports whether the bounding circles of a and b overlap,
// caching derived radii in the package cache.
func CollideCircle(a, b *Sprite) bool {
	return defaultRadii.Collide(a, b)
}

// CollideCircleRatio returns a predicate testing bounding circles scaled by
// ratio. Radii cached by CollideCircle are reused; none are added.
func CollideCircleRatio(ratio float64) CollideFunc {
	return defaultRadii.CollideRatio(ratio)
}

// --- Masks ---

// CollideMask reports whether the opaque pixels of a and b overlap at their
// current positions. Each sprite's Mask is used when set, else one is built
// from its Image. Sprites with neither never collide.
func CollideMask(a, b *Sprite) bool {
	ma, mb := spriteMask(a), spriteMask(b)
	if ma == nil || mb == nil {
		return false
	}
	return ma.Overlap(mb, b.Rect.Min.Sub(a.Rect.Min))
}

func spriteMask(s *Sprite) *Mask {
	if s.Mask != nil {
		return s.Mask
	}
	if s.Image == nil {
		return nil
	}
	return MaskFromImage(s.Image)
}

// --- Group drivers ---

// SpriteCollide returns the members of g that collide with s, in draw
// order. When remove is true each match is removed from g (and only g). A
// nil fn means CollideRect.
func SpriteCollide(s *Sprite, g *Group, remove bool, fn CollideFunc) []*Sprite {
	if fn == nil {
		fn = CollideRect
	}
	var hits []*Sprite
	for _, other := range g.Sprites() {
		if !g.hasInternal(other) {
			continue
		}
		if fn(s, other) {
			if remove {
				g.Remove(other)
			}
			hits = append(hits, other)
		}
	}
	return hits
}

// collisionPair is one member of a group with its matches in another.
type collisionPair struct {
	sprite  *Sprite
	matches []*Sprite
}

func groupCollide(a, b *Group, removeA, removeB bool, fn CollideFunc) []collisionPair {
	var out []collisionPair
	for _, s := range a.Sprites() {
		if !a.hasInternal(s) {
			continue
		}
		hits := SpriteCollide(s, b, removeB, fn)
		if len(hits) == 0 {
			continue
		}
		out = append(out, collisionPair{sprite: s, matches: hits})
		if removeA {
			s.Kill()
		}
	}
	return out
}

// GroupCollide tests every member of a against b and returns each colliding
// member of a mapped to its matches in b. removeA kills colliding members of
// a (removing them from every group); removeB removes matches from b.
func GroupCollide(a, b *Group, removeA, removeB bool, fn CollideFunc) map[*Sprite][]*Sprite {
	out := make(map[*Sprite][]*Sprite)
	for _, p := range groupCollide(a, b, removeA, removeB, fn) {
		out[p.sprite] = p.matches
	}
	return out
}

// SpriteCollideAny returns the first member of g, in draw order, that
// collides with s, or nil.
func SpriteCollideAny(s *Sprite, g *Group, fn CollideFunc) *Sprite {
	if fn == nil {
		fn = CollideRect
	}
	for _, other := range g.Sprites() {
		if !g.hasInternal(other) {
			continue
		}
		if fn(s, other) {
			return other
		}
	}
	return nil
}
