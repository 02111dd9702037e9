package spritegroup

import "errors"

var (
	// ErrLayerLocked is returned by Sprite.SetLayer while the sprite belongs
	// to at least one group. Use Group.ChangeLayer instead.
	ErrLayerLocked = errors.New("spritegroup: cannot set layer directly after adding to a group; use Group.ChangeLayer")

	// ErrNotDirtySprite is returned when a sprite without per-frame render
	// state (see NewDirtySprite) is added to a LayeredDirty group.
	ErrNotDirtySprite = errors.New("spritegroup: layered dirty groups only accept sprites created with NewDirtySprite")

	// ErrInvalidThreshold is returned when a timing threshold is NaN,
	// infinite or negative.
	ErrInvalidThreshold = errors.New("spritegroup: timing threshold must be a finite, non-negative number of milliseconds")

	// ErrNotLayered is returned by layer operations on a group that does not
	// keep a layer order.
	ErrNotLayered = errors.New("spritegroup: operation requires a layered group")
)
