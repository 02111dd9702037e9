package spritegroup

import (
	"fmt"
	"image"
	"sort"
)

// insertOrdered places sl after every slot whose layer is <= sl.layer, so
// equal layers keep insertion order.
func (g *Group) insertOrdered(sl *slot) {
	i := sort.Search(len(g.order), func(i int) bool {
		return g.order[i].layer > sl.layer
	})
	g.order = append(g.order, nil)
	copy(g.order[i+1:], g.order[i:])
	g.order[i] = sl
}

func (g *Group) mustLayered(op string) {
	if !g.kind.layered() {
		panic(fmt.Errorf("spritegroup: %s on %s group: %w", op, g.kind, ErrNotLayered))
	}
}

func (g *Group) mustSlot(s *Sprite, op string) *slot {
	sl, ok := g.slots[s.ID]
	if !ok {
		panic(fmt.Sprintf("spritegroup: %s: sprite %q is not in this group", op, s.Name))
	}
	return sl
}

// ChangeLayer moves a member to newLayer, after any sprites already on it.
// The sprite's own layer follows only if it carries one.
// On a layered dirty group a clean sprite is marked dirty once.
// Panics if s is not a member.
func (g *Group) ChangeLayer(s *Sprite, newLayer int) {
	g.mustLayered("ChangeLayer")
	sl := g.mustSlot(s, "ChangeLayer")
	g.unlinkOrdered(sl)
	sl.layer = newLayer
	g.insertOrdered(sl)
	s.syncLayer(newLayer)
	if g.kind == GroupKindLayeredDirty && s.Dirty == DirtyClean {
		s.Dirty = DirtyOnce
	}
}

// LayerOf returns the layer of s in this group, or the default layer if s is
// not a member.
func (g *Group) LayerOf(s *Sprite) int {
	if sl, ok := g.slots[s.ID]; ok {
		return sl.layer
	}
	return g.defaultLayer
}

// TopLayer returns the highest layer in use, or the default layer when the
// group is empty.
func (g *Group) TopLayer() int {
	g.mustLayered("TopLayer")
	if len(g.order) == 0 {
		return g.defaultLayer
	}
	return g.order[len(g.order)-1].layer
}

// BottomLayer returns the lowest layer in use, or the default layer when the
// group is empty.
func (g *Group) BottomLayer() int {
	g.mustLayered("BottomLayer")
	if len(g.order) == 0 {
		return g.defaultLayer
	}
	return g.order[0].layer
}

// MoveToFront moves s onto the current top layer, drawn after every sprite
// already there.
func (g *Group) MoveToFront(s *Sprite) {
	g.ChangeLayer(s, g.TopLayer())
}

// MoveToBack moves s onto a new layer one below the current bottom layer.
func (g *Group) MoveToBack(s *Sprite) {
	g.ChangeLayer(s, g.BottomLayer()-1)
}

// TopSprite returns the sprite drawn last, or nil when the group is empty.
func (g *Group) TopSprite() *Sprite {
	if len(g.order) == 0 {
		return nil
	}
	return g.order[len(g.order)-1].sprite
}

// GetSprite returns the sprite at draw position idx. Panics if idx is out of
// range.
func (g *Group) GetSprite(idx int) *Sprite {
	if idx < 0 || idx >= len(g.order) {
		panic("spritegroup: sprite index out of range")
	}
	return g.order[idx].sprite
}

// GetSpritesFromLayer returns the members on layer, in draw order.
func (g *Group) GetSpritesFromLayer(layer int) []*Sprite {
	g.mustLayered("GetSpritesFromLayer")
	var out []*Sprite
	for _, sl := range g.order {
		if sl.layer == layer {
			out = append(out, sl.sprite)
		} else if sl.layer > layer {
			break
		}
	}
	return out
}

// GetSpritesAt returns the members whose rectangle contains p, in draw order.
func (g *Group) GetSpritesAt(p image.Point) []*Sprite {
	var out []*Sprite
	pt := RectAt(p, image.Point{X: 1, Y: 1})
	for _, sl := range g.order {
		if collideRect(pt, sl.sprite.Rect) {
			out = append(out, sl.sprite)
		}
	}
	return out
}

// RemoveSpritesOfLayer removes and returns every member on layer.
func (g *Group) RemoveSpritesOfLayer(layer int) []*Sprite {
	sprites := g.GetSpritesFromLayer(layer)
	g.Remove(sprites...)
	return sprites
}

// Layers returns the distinct layers in use, ascending.
func (g *Group) Layers() []int {
	g.mustLayered("Layers")
	var out []int
	for _, sl := range g.order {
		if len(out) == 0 || out[len(out)-1] != sl.layer {
			out = append(out, sl.layer)
		}
	}
	return out
}

// SwitchLayer moves every member of layer a onto layer b and every member of
// layer b onto layer a.
func (g *Group) SwitchLayer(a, b int) {
	fromA := g.GetSpritesFromLayer(a)
	fromB := g.GetSpritesFromLayer(b)
	for _, s := range fromB {
		g.ChangeLayer(s, a)
	}
	for _, s := range fromA {
		g.ChangeLayer(s, b)
	}
}
