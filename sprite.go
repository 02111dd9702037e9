package spritegroup

import (
	"image"
	"sort"
)

// spriteIDCounter is a plain counter (no atomic; spritegroup is single-threaded).
var spriteIDCounter uint32

func nextSpriteID() uint32 {
	spriteIDCounter++
	return spriteIDCounter
}

// Sprite is a single renderable entity. A single flat struct serves both
// plain sprites and sprites carrying per-frame render state for the dirty
// rectangle compositor; NewDirtySprite marks the latter.
//
// Sprites and groups are not safe for concurrent use. Call them only from
// the update/render thread.
type Sprite struct {
	// Identity
	ID   uint32
	Name string

	// Image is drawn at Rect.Min. The sprite does not own it.
	Image image.Image
	// Rect is the sprite's position and size on the target surface.
	Rect image.Rectangle
	// SourceRect, when non-nil, selects the part of Image to draw instead of
	// the whole image. It is expressed in Image's coordinate space.
	SourceRect *image.Rectangle

	// Render state consulted by LayeredDirty groups.
	BlendMode BlendMode
	Dirty     DirtyState

	// Radius overrides the bounding radius used by circle collision.
	// Zero means "derive from Rect".
	Radius float64
	// Mask overrides the pixel mask used by CollideMask. When nil the mask
	// is built from Image on demand.
	Mask *Mask

	// Metadata
	UserData any

	// OnUpdate is called by Group.Update. Nil by default.
	OnUpdate func(dt float64)

	layer       int
	hasLayer    bool
	visible     bool
	renderState bool

	// groups holds the back-references, keyed by group ID.
	groups map[uint32]*Group
}

// NewSprite creates a plain sprite with no layer. Layered groups assign it
// their default layer when it is added without an explicit one.
func NewSprite(name string) *Sprite {
	return &Sprite{
		ID:      nextSpriteID(),
		Name:    name,
		visible: true,
	}
}

// NewDirtySprite creates a sprite with per-frame render state: it starts
// visible, on layer 0 and dirty once, so its first frame is painted.
func NewDirtySprite(name string) *Sprite {
	s := NewSprite(name)
	s.renderState = true
	s.hasLayer = true
	s.Dirty = DirtyOnce
	return s
}

// HasRenderState reports whether the sprite was created by NewDirtySprite.
func (s *Sprite) HasRenderState() bool {
	return s.renderState
}

// --- Visibility ---

// Visible reports whether the sprite is drawn by LayeredDirty groups.
func (s *Sprite) Visible() bool {
	return s.visible
}

// SetVisible shows or hides the sprite. The sprite is marked dirty once so
// the area it covers is repainted, unless it is already always dirty.
func (s *Sprite) SetVisible(v bool) {
	s.visible = v
	if s.Dirty < DirtyAlways {
		s.Dirty = DirtyOnce
	}
}

// --- Layer ---

// Layer returns the sprite's recorded layer. Sprites that were never given
// one report 0; see HasLayer.
func (s *Sprite) Layer() int {
	return s.layer
}

// HasLayer reports whether the sprite carries a layer of its own.
func (s *Sprite) HasLayer() bool {
	return s.hasLayer
}

// SetLayer records the sprite's layer. It fails with ErrLayerLocked once the
// sprite belongs to any group; use Group.ChangeLayer then.
func (s *Sprite) SetLayer(layer int) error {
	if s.Alive() {
		return ErrLayerLocked
	}
	s.layer = layer
	s.hasLayer = true
	return nil
}

// setLayerInternal records a layer chosen by a group, bypassing the lock.
func (s *Sprite) setLayerInternal(layer int) {
	s.layer = layer
	s.hasLayer = true
}

// syncLayer updates the recorded layer of a sprite that already carries one.
// A sprite without a layer of its own stays without one.
func (s *Sprite) syncLayer(layer int) {
	if s.hasLayer {
		s.layer = layer
	}
}

// --- Membership ---

// Add adds the sprite to every given group. Groups the sprite already
// belongs to are skipped. The first error from a group stops the loop.
func (s *Sprite) Add(groups ...*Group) error {
	for _, g := range groups {
		if g == nil {
			panic("spritegroup: cannot add sprite to nil group")
		}
		if s.inGroup(g) {
			continue
		}
		if err := g.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes the sprite from every given group it belongs to.
func (s *Sprite) Remove(groups ...*Group) {
	for _, g := range groups {
		if g == nil || !s.inGroup(g) {
			continue
		}
		g.Remove(s)
	}
}

// Kill removes the sprite from every group it belongs to. The sprite itself
// stays usable and can be added to groups again. No-op for a sprite with no
// groups.
func (s *Sprite) Kill() {
	for _, g := range s.Groups() {
		g.removeInternal(s)
	}
	clear(s.groups)
	defaultRadii.Forget(s)
}

// Groups returns the groups the sprite belongs to, ordered by group ID.
func (s *Sprite) Groups() []*Group {
	out := make([]*Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Alive reports whether the sprite belongs to at least one group.
func (s *Sprite) Alive() bool {
	return len(s.groups) > 0
}

func (s *Sprite) inGroup(g *Group) bool {
	_, ok := s.groups[g.id]
	return ok
}

func (s *Sprite) addInternal(g *Group) {
	if s.groups == nil {
		s.groups = make(map[uint32]*Group)
	}
	s.groups[g.id] = g
}

func (s *Sprite) removeInternal(g *Group) {
	delete(s.groups, g.id)
}

// sourceSize returns the size of the region of Image the sprite draws.
func (s *Sprite) sourceSize() image.Point {
	if s.SourceRect != nil {
		return s.SourceRect.Size()
	}
	return s.Rect.Size()
}

// sourceArea returns the region of Image the sprite draws, in Image space.
func (s *Sprite) sourceArea() image.Rectangle {
	if s.SourceRect != nil {
		return *s.SourceRect
	}
	if s.Image == nil {
		return image.Rectangle{}
	}
	return s.Image.Bounds()
}

// sourceOrigin returns the Image-space point drawn at Rect.Min.
func (s *Sprite) sourceOrigin() image.Point {
	return s.sourceArea().Min
}
