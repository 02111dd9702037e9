package spritegroup

import "github.com/hajimehoshi/ebiten/v2"

// BlendMode selects a compositing operation for a blit. Each maps to a
// specific ebiten.Blend value and is emulated per pixel by ImageSurface.
type BlendMode uint8

const (
	BlendDefault  BlendMode = iota // inherit: the sprite's own mode, else source-over
	BlendNormal                    // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendMask                      // clip destination to source alpha
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// resolve returns the mode a blit should use given a group-wide override.
// A non-default override wins over the sprite's own mode.
func (b BlendMode) resolve(override BlendMode) BlendMode {
	if override != BlendDefault {
		return override
	}
	return b
}

// DirtyState is the per-frame repaint flag of a sprite drawn by a
// LayeredDirty group.
type DirtyState uint8

const (
	DirtyClean  DirtyState = iota // unchanged; repainted only where overlapped
	DirtyOnce                     // repaint next frame, then demote to clean
	DirtyAlways                   // repaint every frame, never demoted
)

// GroupKind distinguishes the draw and ordering behavior of a Group.
type GroupKind uint8

const (
	GroupKindPlain         GroupKind = iota // insertion order, draw returns vacated rects
	GroupKindRenderUpdates                  // insertion order, draw returns changed rects
	GroupKindSingle                         // at most one sprite; adding replaces it
	GroupKindLayered                        // layer order, draw returns changed rects
	GroupKindLayeredDirty                   // layer order, adaptive dirty-rect compositor
)

// String returns a short name for the kind, used in log output.
func (k GroupKind) String() string {
	switch k {
	case GroupKindPlain:
		return "group"
	case GroupKindRenderUpdates:
		return "render-updates"
	case GroupKindSingle:
		return "single"
	case GroupKindLayered:
		return "layered"
	case GroupKindLayeredDirty:
		return "layered-dirty"
	default:
		return "unknown"
	}
}

// layered reports whether the kind keeps a layer-sorted draw order.
func (k GroupKind) layered() bool {
	return k == GroupKindLayered || k == GroupKindLayeredDirty
}
