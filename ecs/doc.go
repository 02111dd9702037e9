// Package ecs provides ECS adapters for spritegroup's collision events.
//
// The primary adapter is [NewDonburiStore], which bridges collisions found by
// spritegroup.CollideGroupsNotify into a [Donburi] world as typed events.
// Subscribe to [CollisionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	spritegroup.CollideGroupsNotify(bullets, enemies, true, true, nil, store)
//	ecs.CollisionEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
