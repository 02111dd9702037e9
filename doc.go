// Package spritegroup manages layered groups of sprites and composites them
// onto a surface with an adaptive dirty-rectangle renderer.
//
// # Sprites and groups
//
// A [Sprite] holds an image, a rectangle and, for sprites created with
// [NewDirtySprite], per-frame render state (dirty flag, visibility, blend
// mode, source rectangle). Membership is bidirectional: a sprite knows its
// groups and each group knows its sprites.
//
//	player := spritegroup.NewDirtySprite("player")
//	player.Image = img
//	player.Rect = spritegroup.XYWH(100, 50, 32, 32)
//
//	all := spritegroup.NewLayeredDirty(0)
//	if err := all.AddToLayer(2, player); err != nil {
//		return err
//	}
//
// Group kinds differ in ordering and in what Draw reports:
// [NewGroup], [NewRenderUpdates], [NewGroupSingle], [NewLayeredUpdates]
// and [NewLayeredDirty]. Layered groups keep sprites sorted by layer with
// ties in insertion order and offer [Group.ChangeLayer],
// [Group.MoveToFront], [Group.MoveToBack] and [Group.SwitchLayer].
//
// # Dirty-rectangle compositing
//
// A layered dirty group draws either the whole clip (full redraw) or only
// the minimal set of non-overlapping rectangles touched by dirty sprites
// (incremental redraw). The frame time of each Draw decides the mode of the
// next one; see [Group.SetTimingThreshold]. Targets implement [Surface]:
// [ImageSurface] for software rendering and [EbitenSurface] for [Ebitengine].
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.surface.Retarget(screen)
//		g.sprites.Draw(g.surface, g.background, spritegroup.BlendDefault)
//	}
//
// # Collision
//
// [CollideRect], [CollideRectRatio], [CollideCircle], [CollideCircleRatio]
// and [CollideMask] compare two sprites. [SpriteCollide], [GroupCollide]
// and [SpriteCollideAny] run them against groups; [CollideGroupsNotify]
// also forwards each pair to an [EventStore] such as the Donburi adapter in
// spritegroup/ecs.
//
// # Threading
//
// Sprites and groups are not thread-safe by design. Call them only from the
// update/render thread.
//
// [Ebitengine]: https://ebitengine.org
package spritegroup
