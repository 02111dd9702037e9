package spritegroup

import (
	"fmt"
	"image"
)

// groupIDCounter is a plain counter (no atomic; spritegroup is single-threaded).
var groupIDCounter uint32

func nextGroupID() uint32 {
	groupIDCounter++
	return groupIDCounter
}

// slot is a group's per-sprite state.
type slot struct {
	sprite *Sprite
	layer  int

	// drawn is the rectangle last reported by the surface for this sprite.
	// hasDrawn is false until the sprite is drawn the first time.
	drawn    image.Rectangle
	hasDrawn bool
}

// Group is a collection of sprites with bidirectional membership: a sprite is
// in a group's slots iff the group is in the sprite's back-references. A
// single flat struct is used for every kind of group; Kind selects ordering
// and draw behavior.
//
// Groups are not safe for concurrent use. Call them only from the
// update/render thread, and never call Draw on a group from within its own
// Draw (for example from a BackgroundFunc).
type Group struct {
	id   uint32
	kind GroupKind

	slots map[uint32]*slot
	order []*slot

	// lost holds rectangles vacated by removed sprites, cleared by Draw.
	lost []image.Rectangle

	defaultLayer int
	debug        bool

	// Compositor state (GroupKindLayeredDirty only)
	dirty *compositor
}

func newGroup(kind GroupKind) *Group {
	return &Group{
		id:    nextGroupID(),
		kind:  kind,
		slots: make(map[uint32]*slot),
	}
}

// NewGroup creates a plain group that draws sprites in insertion order.
func NewGroup() *Group {
	return newGroup(GroupKindPlain)
}

// NewRenderUpdates creates a group that draws sprites in insertion order and
// reports the rectangles that changed since the previous Draw.
func NewRenderUpdates() *Group {
	return newGroup(GroupKindRenderUpdates)
}

// NewGroupSingle creates a group holding at most one sprite. Adding a sprite
// replaces the current one.
func NewGroupSingle() *Group {
	return newGroup(GroupKindSingle)
}

// NewLayeredUpdates creates a group that draws sprites ordered by layer,
// ties broken by insertion order. Sprites without a layer of their own are
// placed on defaultLayer.
func NewLayeredUpdates(defaultLayer int) *Group {
	g := newGroup(GroupKindLayered)
	g.defaultLayer = defaultLayer
	return g
}

// ID returns the group's unique identifier.
func (g *Group) ID() uint32 {
	return g.id
}

// Kind returns the group's kind.
func (g *Group) Kind() GroupKind {
	return g.kind
}

// DefaultLayer returns the layer given to sprites added without one.
func (g *Group) DefaultLayer() int {
	return g.defaultLayer
}

// --- Membership ---

// Add adds sprites to the group. Sprites already present are skipped.
// Layered groups use each sprite's own layer, or the default layer when it
// has none. A LayeredDirty group rejects the whole call with
// ErrNotDirtySprite if any sprite lacks render state.
func (g *Group) Add(sprites ...*Sprite) error {
	return g.add(sprites, nil)
}

// AddToLayer adds sprites to a layered group on the given layer, overriding
// their own layer. Sprites that carry a layer have it updated; sprites
// without one do not gain one. Returns ErrNotLayered for other kinds.
func (g *Group) AddToLayer(layer int, sprites ...*Sprite) error {
	if !g.kind.layered() {
		return fmt.Errorf("AddToLayer on %s group: %w", g.kind, ErrNotLayered)
	}
	return g.add(sprites, &layer)
}

// AddGroup adds every sprite of other to g.
func (g *Group) AddGroup(other *Group) error {
	if other == nil {
		panic("spritegroup: cannot add nil group")
	}
	return g.add(other.Sprites(), nil)
}

func (g *Group) add(sprites []*Sprite, layer *int) error {
	for _, s := range sprites {
		if s == nil {
			panic("spritegroup: cannot add nil sprite")
		}
		if g.kind == GroupKindLayeredDirty && !s.renderState {
			return fmt.Errorf("add %q: %w", s.Name, ErrNotDirtySprite)
		}
	}
	for _, s := range sprites {
		if g.hasInternal(s) {
			continue
		}
		g.addInternal(s, layer)
		s.addInternal(g)
	}
	if g.debug {
		debugCheckConsistency(g)
	}
	return nil
}

// Remove removes sprites from the group. Absent sprites are ignored.
func (g *Group) Remove(sprites ...*Sprite) {
	for _, s := range sprites {
		if s == nil || !g.hasInternal(s) {
			continue
		}
		g.removeInternal(s)
		s.removeInternal(g)
	}
	if g.debug {
		debugCheckConsistency(g)
	}
}

// RemoveGroup removes every sprite of other from g.
func (g *Group) RemoveGroup(other *Group) {
	if other == nil {
		return
	}
	g.Remove(other.Sprites()...)
}

// Has reports whether every given sprite is in the group. It returns false
// when called with no sprites.
func (g *Group) Has(sprites ...*Sprite) bool {
	if len(sprites) == 0 {
		return false
	}
	for _, s := range sprites {
		if s == nil || !g.hasInternal(s) {
			return false
		}
	}
	return true
}

// HasGroup reports whether every sprite of other is in g. It returns false
// when other is nil or empty.
func (g *Group) HasGroup(other *Group) bool {
	if other == nil {
		return false
	}
	return g.Has(other.Sprites()...)
}

// Empty removes every sprite from the group.
func (g *Group) Empty() {
	for _, s := range g.Sprites() {
		g.removeInternal(s)
		s.removeInternal(g)
	}
}

// Sprites returns the members in draw order. The returned slice is a copy.
func (g *Group) Sprites() []*Sprite {
	out := make([]*Sprite, len(g.order))
	for i, sl := range g.order {
		out[i] = sl.sprite
	}
	return out
}

// Len returns the number of sprites in the group.
func (g *Group) Len() int {
	return len(g.order)
}

// Copy returns a new group of the same kind and configuration holding the
// same sprites. Drawn-rectangle history is not copied.
func (g *Group) Copy() *Group {
	c := newGroup(g.kind)
	c.defaultLayer = g.defaultLayer
	c.debug = g.debug
	if g.dirty != nil {
		d := *g.dirty
		d.useUpdate = false
		c.dirty = &d
	}
	for _, sl := range g.order {
		layer := sl.layer
		c.addInternal(sl.sprite, &layer)
		sl.sprite.addInternal(c)
	}
	return c
}

// Update calls OnUpdate on every member, in draw order.
func (g *Group) Update(dt float64) {
	for _, s := range g.Sprites() {
		if s.OnUpdate != nil {
			s.OnUpdate(dt)
		}
	}
}

// SetDebugMode enables or disables debug mode. When enabled, membership
// changes verify bidirectional consistency (panicking on divergence) and
// LayeredDirty frames log timing stats at debug level.
func (g *Group) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// --- Internal membership ---

func (g *Group) hasInternal(s *Sprite) bool {
	_, ok := g.slots[s.ID]
	return ok
}

func (g *Group) addInternal(s *Sprite, layer *int) {
	sl := &slot{sprite: s}
	switch g.kind {
	case GroupKindSingle:
		for _, old := range g.Sprites() {
			g.removeInternal(old)
			old.removeInternal(g)
		}
		g.order = append(g.order, sl)
	case GroupKindLayered, GroupKindLayeredDirty:
		if g.kind == GroupKindLayeredDirty && s.Dirty == DirtyClean {
			s.Dirty = DirtyOnce
		}
		switch {
		case layer != nil:
			sl.layer = *layer
			s.syncLayer(*layer)
		case s.hasLayer:
			sl.layer = s.layer
		default:
			sl.layer = g.defaultLayer
			s.setLayerInternal(g.defaultLayer)
		}
		g.insertOrdered(sl)
	default:
		g.order = append(g.order, sl)
	}
	g.slots[s.ID] = sl
}

func (g *Group) removeInternal(s *Sprite) {
	sl, ok := g.slots[s.ID]
	if !ok {
		return
	}
	g.unlinkOrdered(sl)
	if g.kind.layered() {
		if sl.hasDrawn {
			g.lost = append(g.lost, sl.drawn)
		}
		g.lost = append(g.lost, s.Rect)
	} else if sl.hasDrawn && !sl.drawn.Empty() {
		g.lost = append(g.lost, sl.drawn)
	}
	delete(g.slots, s.ID)
}

// unlinkOrdered removes sl from the draw order, preserving the order of the
// remaining slots.
func (g *Group) unlinkOrdered(sl *slot) {
	for i, o := range g.order {
		if o == sl {
			copy(g.order[i:], g.order[i+1:])
			g.order[len(g.order)-1] = nil
			g.order = g.order[:len(g.order)-1]
			return
		}
	}
}

// --- Drawing ---

// Draw blits every member onto dst and returns the rectangles of dst that
// changed. What "changed" means depends on the kind:
//
//   - plain and single groups return the rectangles vacated by sprites
//     removed since the previous Draw;
//   - render-updates and layered groups also return, per sprite, the union
//     of its previous and current rectangle when they overlap, else both;
//   - layered dirty groups run the adaptive compositor (see drawDirty).
//
// bg is only used by layered dirty groups; other kinds erase with Clear.
// A mode other than BlendDefault overrides every sprite's blend mode.
func (g *Group) Draw(dst Surface, bg Background, mode BlendMode) []image.Rectangle {
	switch g.kind {
	case GroupKindLayeredDirty:
		return g.drawDirty(dst, bg, mode)
	case GroupKindRenderUpdates, GroupKindLayered:
		return g.drawUpdates(dst, mode)
	default:
		return g.drawPlain(dst, mode)
	}
}

func (g *Group) drawPlain(dst Surface, mode BlendMode) []image.Rectangle {
	g.blitSlots(dst, g.order, mode)
	dirty := g.lost
	g.lost = nil
	return dirty
}

func (g *Group) drawUpdates(dst Surface, mode BlendMode) []image.Rectangle {
	dirty := g.lost
	g.lost = nil
	old := make([]image.Rectangle, len(g.order))
	had := make([]bool, len(g.order))
	for i, sl := range g.order {
		old[i], had[i] = sl.drawn, sl.hasDrawn
	}
	g.blitSlots(dst, g.order, mode)
	for i, sl := range g.order {
		cur := sl.drawn
		switch {
		case !had[i] || old[i].Empty():
			dirty = append(dirty, cur)
		case collideRect(cur, old[i]):
			dirty = append(dirty, unionRect(cur, old[i]))
		default:
			dirty = append(dirty, cur, old[i])
		}
	}
	return dirty
}

// blitSlots draws each slot's sprite with its own blend mode (or override)
// and records the drawn rectangle. It uses the batched path when dst
// supports it.
func (g *Group) blitSlots(dst Surface, slots []*slot, override BlendMode) {
	if len(slots) == 0 {
		return
	}
	batch, ok := dst.(BatchSurface)
	if !ok {
		for _, sl := range slots {
			sl.drawn = blitSprite(dst, sl.sprite, sl.sprite.BlendMode.resolve(override))
			sl.hasDrawn = true
		}
		return
	}
	ops := make([]BlitOp, 0, len(slots))
	idx := make([]int, 0, len(slots))
	for i, sl := range slots {
		s := sl.sprite
		if s.Image == nil {
			sl.drawn = image.Rectangle{Min: s.Rect.Min, Max: s.Rect.Min}
			sl.hasDrawn = true
			continue
		}
		ops = append(ops, BlitOp{
			Image: s.Image,
			Dst:   s.Rect.Min,
			Area:  s.sourceArea(),
			Mode:  s.BlendMode.resolve(override),
		})
		idx = append(idx, i)
	}
	rects := batch.BlitMany(ops)
	for j, i := range idx {
		slots[i].drawn = rects[j]
		slots[i].hasDrawn = true
	}
}

// blitSprite draws one sprite at its rectangle. A sprite without an image
// draws nothing and reports a zero-size rectangle at its position.
func blitSprite(dst Surface, s *Sprite, mode BlendMode) image.Rectangle {
	if s.Image == nil {
		return image.Rectangle{Min: s.Rect.Min, Max: s.Rect.Min}
	}
	return dst.Blit(s.Image, s.Rect.Min, s.sourceArea(), mode)
}

// Clear erases the group's sprites from dst by painting bg over every
// rectangle drawn in the previous frame and every rectangle vacated since.
// Call it before Draw. On a layered dirty group, Clear only records bg for
// subsequent Draw calls.
func (g *Group) Clear(dst Surface, bg Background) {
	if g.kind == GroupKindLayeredDirty {
		g.dirty.bg = bg
		return
	}
	if bg == nil {
		return
	}
	for _, r := range g.lost {
		bg.Paint(dst, r)
	}
	for _, sl := range g.order {
		if sl.hasDrawn && !sl.drawn.Empty() {
			bg.Paint(dst, sl.drawn)
		}
	}
}

// --- Single ---

// Sprite returns the sprite held by a single group, or nil.
func (g *Group) Sprite() *Sprite {
	if len(g.order) == 0 {
		return nil
	}
	return g.order[0].sprite
}

// SetSprite replaces the sprite held by a single group. Passing nil empties
// the group. Panics on other kinds.
func (g *Group) SetSprite(s *Sprite) {
	if g.kind != GroupKindSingle {
		panic("spritegroup: SetSprite requires a single group")
	}
	if s == nil {
		g.Empty()
		return
	}
	_ = g.Add(s)
}
