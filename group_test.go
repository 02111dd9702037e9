package spritegroup

import (
	"errors"
	"image"
	"testing"
)

func newTestSprite(name string, r image.Rectangle) *Sprite {
	s := NewSprite(name)
	s.Rect = r
	return s
}

func names(sprites []*Sprite) []string {
	out := make([]string, len(sprites))
	for i, s := range sprites {
		out[i] = s.Name
	}
	return out
}

func equalNames(sprites []*Sprite, want ...string) bool {
	got := names(sprites)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// checkConsistent fails the test when any sprite's back-references and the
// groups' membership disagree.
func checkConsistent(t *testing.T, sprites []*Sprite, groups []*Group) {
	t.Helper()
	for _, g := range groups {
		for _, s := range sprites {
			if g.Has(s) != s.inGroup(g) {
				t.Fatalf("sprite %q / group %d: Has=%v back-reference=%v",
					s.Name, g.ID(), g.Has(s), s.inGroup(g))
			}
		}
	}
}

func TestGroupKinds(t *testing.T) {
	tests := []struct {
		g    *Group
		want GroupKind
	}{
		{NewGroup(), GroupKindPlain},
		{NewRenderUpdates(), GroupKindRenderUpdates},
		{NewGroupSingle(), GroupKindSingle},
		{NewLayeredUpdates(0), GroupKindLayered},
		{NewLayeredDirty(0), GroupKindLayeredDirty},
	}
	for _, tt := range tests {
		if tt.g.Kind() != tt.want {
			t.Errorf("Kind = %v, want %v", tt.g.Kind(), tt.want)
		}
	}
}

func TestGroupIDsUnique(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	if a.ID() == b.ID() {
		t.Error("group IDs should be unique")
	}
}

func TestGroupInsertionOrder(t *testing.T) {
	g := NewGroup()
	a, b, c := NewSprite("a"), NewSprite("b"), NewSprite("c")
	_ = g.Add(b, a)
	_ = g.Add(c, a)
	if !equalNames(g.Sprites(), "b", "a", "c") {
		t.Errorf("order = %v, want [b a c]", names(g.Sprites()))
	}
}

func TestGroupSpritesReturnsCopy(t *testing.T) {
	g := NewGroup()
	_ = g.Add(NewSprite("a"))
	list := g.Sprites()
	list[0] = nil
	if g.Sprites()[0] == nil {
		t.Error("Sprites must return a copy")
	}
}

func TestGroupHas(t *testing.T) {
	g := NewGroup()
	a, b := NewSprite("a"), NewSprite("b")
	_ = g.Add(a)

	if g.Has() {
		t.Error("Has() with no arguments should be false")
	}
	if !g.Has(a) {
		t.Error("Has(a) should be true")
	}
	if g.Has(a, b) {
		t.Error("Has(a, b) should be false when b is absent")
	}
	if g.Has(nil) {
		t.Error("Has(nil) should be false")
	}
}

func TestGroupRemoveAbsentIsNoop(t *testing.T) {
	g := NewGroup()
	a := NewSprite("a")
	g.Remove(a, nil)
	if g.Len() != 0 {
		t.Errorf("Len = %d", g.Len())
	}
}

func TestGroupAddNilPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic adding nil sprite")
		}
	}()
	_ = NewGroup().Add(nil)
}

func TestGroupAddGroupAndRemoveGroup(t *testing.T) {
	src := NewGroup()
	a, b := NewSprite("a"), NewSprite("b")
	_ = src.Add(a, b)

	dst := NewGroup()
	if err := dst.AddGroup(src); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if !dst.HasGroup(src) {
		t.Error("dst should contain every sprite of src")
	}
	if len(a.Groups()) != 2 {
		t.Errorf("a belongs to %d groups, want 2", len(a.Groups()))
	}

	dst.RemoveGroup(src)
	if dst.Len() != 0 {
		t.Errorf("dst Len = %d after RemoveGroup", dst.Len())
	}
	if src.Len() != 2 {
		t.Error("RemoveGroup must not touch the source group")
	}
	if dst.HasGroup(NewGroup()) {
		t.Error("HasGroup of an empty group should be false")
	}
}

func TestGroupEmpty(t *testing.T) {
	g := NewGroup()
	a, b := NewSprite("a"), NewSprite("b")
	_ = g.Add(a, b)
	g.Empty()
	if g.Len() != 0 {
		t.Errorf("Len = %d", g.Len())
	}
	if a.Alive() || b.Alive() {
		t.Error("Empty must clear back-references")
	}
}

func TestGroupCopy(t *testing.T) {
	g := NewLayeredUpdates(2)
	a, b := NewSprite("a"), NewSprite("b")
	_ = g.AddToLayer(5, a)
	_ = g.Add(b)

	c := g.Copy()
	if c.ID() == g.ID() || c.Kind() != g.Kind() || c.DefaultLayer() != 2 {
		t.Error("copy should be a distinct group of the same kind and configuration")
	}
	if !equalNames(c.Sprites(), "b", "a") {
		t.Errorf("copy order = %v, want [b a]", names(c.Sprites()))
	}
	if c.LayerOf(a) != 5 {
		t.Errorf("copy LayerOf(a) = %d, want 5", c.LayerOf(a))
	}
	if len(a.Groups()) != 2 {
		t.Error("sprites should belong to both the source group and the copy")
	}
}

func TestGroupUpdateCallsOnUpdate(t *testing.T) {
	g := NewGroup()
	var calls []string
	for _, name := range []string{"a", "b", "c"} {
		s := NewSprite(name)
		s.OnUpdate = func(dt float64) {
			if dt != 0.5 {
				t.Errorf("dt = %v", dt)
			}
			calls = append(calls, s.Name)
		}
		_ = g.Add(s)
	}
	_ = g.Add(NewSprite("no-callback"))

	g.Update(0.5)
	if len(calls) != 3 || calls[0] != "a" || calls[2] != "c" {
		t.Errorf("calls = %v, want [a b c]", calls)
	}
}

func TestGroupUpdateToleratesRemovalDuringUpdate(t *testing.T) {
	g := NewGroup()
	a, b := NewSprite("a"), NewSprite("b")
	a.OnUpdate = func(float64) { b.Kill() }
	ran := false
	b.OnUpdate = func(float64) { ran = true }
	_ = g.Add(a, b)

	g.Update(1)
	if g.Has(b) {
		t.Error("b should have been killed")
	}
	if !ran {
		t.Error("Update iterates a snapshot taken before the first callback")
	}
}

// --- Single ---

func TestGroupSingleReplaces(t *testing.T) {
	g := NewGroupSingle()
	if g.Sprite() != nil {
		t.Error("empty single group should hold nil")
	}
	a, b := NewSprite("a"), NewSprite("b")
	_ = g.Add(a)
	_ = g.Add(b)
	if g.Sprite() != b || g.Len() != 1 {
		t.Errorf("Sprite = %v, Len = %d", g.Sprite(), g.Len())
	}
	if a.Alive() {
		t.Error("replaced sprite should lose its back-reference")
	}

	g.SetSprite(a)
	if g.Sprite() != a || b.Alive() {
		t.Error("SetSprite should replace b with a")
	}
	g.SetSprite(nil)
	if g.Sprite() != nil || a.Alive() {
		t.Error("SetSprite(nil) should empty the group")
	}
}

func TestSetSpriteRequiresSingle(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	NewGroup().SetSprite(NewSprite("a"))
}

// --- Bidirectional consistency ---

func TestBidirectionalConsistency(t *testing.T) {
	sprites := []*Sprite{NewSprite("a"), NewSprite("b"), NewSprite("c"), NewSprite("d")}
	groups := []*Group{NewGroup(), NewRenderUpdates(), NewLayeredUpdates(0), NewGroupSingle()}
	for _, g := range groups {
		g.SetDebugMode(true)
	}

	ops := []func(){
		func() { _ = groups[0].Add(sprites...) },
		func() { _ = sprites[0].Add(groups...) },
		func() { groups[0].Remove(sprites[1]) },
		func() { sprites[2].Kill() },
		func() { _ = groups[3].Add(sprites[3]) },
		func() { _ = groups[3].Add(sprites[1]) },
		func() { _ = groups[2].AddToLayer(4, sprites[1], sprites[2]) },
		func() { groups[2].ChangeLayer(sprites[1], -1) },
		func() { sprites[0].Remove(groups[1], groups[2]) },
		func() { groups[0].Empty() },
		func() { sprites[1].Kill() },
	}
	for i, op := range ops {
		op()
		for _, g := range groups {
			debugCheckConsistency(g)
		}
		checkConsistent(t, sprites, groups)
		if t.Failed() {
			t.Fatalf("inconsistent after op %d", i)
		}
	}
}

// --- Drawing ---

func TestPlainDrawReturnsVacatedRects(t *testing.T) {
	dst := newTestSurface(50, 50)
	g := NewGroup()
	a := newTestSprite("a", XYWH(0, 0, 10, 10))
	a.Image = solidImage(10, 10, testRed)
	b := newTestSprite("b", XYWH(20, 20, 10, 10))
	b.Image = solidImage(10, 10, testGreen)
	_ = g.Add(a, b)

	if got := g.Draw(dst, nil, BlendDefault); len(got) != 0 {
		t.Errorf("first Draw = %v, want none", got)
	}
	if pixelAt(dst, 25, 25) != testGreen {
		t.Error("b was not drawn")
	}

	g.Remove(a)
	got := g.Draw(dst, nil, BlendDefault)
	if len(got) != 1 || got[0] != XYWH(0, 0, 10, 10) {
		t.Errorf("Draw after remove = %v, want [a's rect]", got)
	}
	if got := g.Draw(dst, nil, BlendDefault); len(got) != 0 {
		t.Errorf("vacated rects must be reported once, got %v", got)
	}
}

func TestRenderUpdatesDrawRects(t *testing.T) {
	dst := newTestSurface(100, 100)
	g := NewRenderUpdates()
	s := newTestSprite("s", XYWH(0, 0, 10, 10))
	s.Image = solidImage(10, 10, testRed)
	_ = g.Add(s)

	got := g.Draw(dst, nil, BlendDefault)
	if len(got) != 1 || got[0] != XYWH(0, 0, 10, 10) {
		t.Errorf("first Draw = %v", got)
	}

	// Overlapping move reports the union.
	s.Rect = XYWH(5, 0, 10, 10)
	got = g.Draw(dst, nil, BlendDefault)
	if len(got) != 1 || got[0] != XYWH(0, 0, 15, 10) {
		t.Errorf("overlapping move = %v, want [(0,0)-(15,10)]", got)
	}

	// Disjoint move reports both rectangles.
	s.Rect = XYWH(50, 50, 10, 10)
	got = g.Draw(dst, nil, BlendDefault)
	if len(got) != 2 || got[0] != XYWH(50, 50, 10, 10) || got[1] != XYWH(5, 0, 10, 10) {
		t.Errorf("disjoint move = %v", got)
	}
}

func TestGroupDrawBlendOverride(t *testing.T) {
	dst := newTestSurface(10, 10)
	dst.Fill(dst.Bounds(), testRed)
	g := NewGroup()
	s := newTestSprite("s", XYWH(0, 0, 10, 10))
	s.Image = solidImage(10, 10, testRed)
	s.BlendMode = BlendNormal
	_ = g.Add(s)

	g.Draw(dst, nil, BlendErase)
	if pixelAt(dst, 5, 5).A != 0 {
		t.Error("override blend mode should erase")
	}
}

func TestGroupDrawSourceRect(t *testing.T) {
	dst := newTestSurface(20, 20)
	sheet := solidImage(20, 10, testRed)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			sheet.Set(x, y, testGreen)
		}
	}
	frame := XYWH(10, 0, 10, 10)
	s := newTestSprite("s", XYWH(0, 0, 10, 10))
	s.Image = sheet
	s.SourceRect = &frame
	g := NewGroup()
	_ = g.Add(s)

	g.Draw(dst, nil, BlendDefault)
	if pixelAt(dst, 0, 0) != testGreen || pixelAt(dst, 9, 9) != testGreen {
		t.Error("source rect frame not drawn at the sprite position")
	}
	if pixelAt(dst, 10, 0).A != 0 {
		t.Error("only the source rect should be drawn")
	}
}

func TestGroupClearPaintsBackground(t *testing.T) {
	dst := newTestSurface(50, 50)
	bg := ColorBackground{Color: testBG}
	g := NewRenderUpdates()
	a := newTestSprite("a", XYWH(0, 0, 10, 10))
	a.Image = solidImage(10, 10, testRed)
	b := newTestSprite("b", XYWH(20, 20, 10, 10))
	b.Image = solidImage(10, 10, testGreen)
	_ = g.Add(a, b)
	g.Draw(dst, nil, BlendDefault)

	g.Remove(b)
	g.Clear(dst, bg)
	if pixelAt(dst, 5, 5) != testBG {
		t.Error("drawn rect of a should be cleared")
	}
	if pixelAt(dst, 25, 25) != testBG {
		t.Error("vacated rect of b should be cleared")
	}
	if pixelAt(dst, 40, 40) == testBG {
		t.Error("untouched pixels must not be painted")
	}
}

func TestAddToLayerOnPlainGroup(t *testing.T) {
	err := NewGroup().AddToLayer(1, NewSprite("a"))
	if !errors.Is(err, ErrNotLayered) {
		t.Errorf("AddToLayer = %v, want ErrNotLayered", err)
	}
}
