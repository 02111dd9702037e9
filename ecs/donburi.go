package ecs

import (
	"github.com/phanxgames/spritegroup"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CollisionEventType is the Donburi event type for spritegroup collisions.
var CollisionEventType = events.NewEventType[spritegroup.CollisionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Collisions are published to CollisionEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) spritegroup.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitCollision(event spritegroup.CollisionEvent) {
	CollisionEventType.Publish(s.world, event)
}
