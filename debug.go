package spritegroup

import (
	"fmt"
	"time"
)

// frameStats holds per-frame compositor metrics.
// Only populated when the group is in debug mode.
type frameStats struct {
	incremental bool
	elapsed     time.Duration
	rectCount   int
	spriteCount int
}

// debugLog writes frame stats at debug level.
func (g *Group) debugLog(stats frameStats) {
	if !g.debug {
		return
	}
	mode := "full"
	if stats.incremental {
		mode = "incremental"
	}
	Logger().Debug("spritegroup: frame",
		"group", g.id,
		"mode", mode,
		"elapsed", stats.elapsed,
		"rects", stats.rectCount,
		"sprites", stats.spriteCount)
}

// debugCheckConsistency panics when the group's slots, its draw order and
// the back-references of its sprites disagree, or when a layered group's
// order is not sorted.
func debugCheckConsistency(g *Group) {
	if len(g.slots) != len(g.order) {
		panic(fmt.Sprintf("spritegroup debug: group %d has %d slots but %d ordered entries",
			g.id, len(g.slots), len(g.order)))
	}
	for i, sl := range g.order {
		s := sl.sprite
		if g.slots[s.ID] != sl {
			panic(fmt.Sprintf("spritegroup debug: group %d order entry %d (%q) has no slot", g.id, i, s.Name))
		}
		if !s.inGroup(g) {
			panic(fmt.Sprintf("spritegroup debug: sprite %q is in group %d but lacks the back-reference", s.Name, g.id))
		}
		if g.kind.layered() && i > 0 && g.order[i-1].layer > sl.layer {
			panic(fmt.Sprintf("spritegroup debug: group %d layer order broken at %d (%d > %d)",
				g.id, i, g.order[i-1].layer, sl.layer))
		}
	}
}
