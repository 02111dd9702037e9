package spritegroup

// EventStore is the interface for optional ECS integration. Collision
// drivers that take a store forward every colliding pair to it.
type EventStore interface {
	EmitCollision(event CollisionEvent)
}

// CollisionEvent carries one colliding pair for the ECS bridge.
type CollisionEvent struct {
	// A is the sprite from the first group, B its match in the second.
	A, B uint32
	// UserData of each sprite at the time of the collision.
	AUserData any
	BUserData any
	// Removed reports which side was removed by the driver.
	RemovedA bool
	RemovedB bool
}

// CollideGroupsNotify runs GroupCollide and emits one CollisionEvent per
// colliding pair to store, in the draw order of a and then b. A nil store
// behaves like GroupCollide.
func CollideGroupsNotify(a, b *Group, removeA, removeB bool, fn CollideFunc, store EventStore) map[*Sprite][]*Sprite {
	pairs := groupCollide(a, b, removeA, removeB, fn)
	out := make(map[*Sprite][]*Sprite, len(pairs))
	for _, p := range pairs {
		out[p.sprite] = p.matches
		if store == nil {
			continue
		}
		for _, m := range p.matches {
			store.EmitCollision(CollisionEvent{
				A:         p.sprite.ID,
				B:         m.ID,
				AUserData: p.sprite.UserData,
				BUserData: m.UserData,
				RemovedA:  removeA,
				RemovedB:  removeB,
			})
		}
	}
	return out
}
