package spritegroup

import (
	"image"
	"math"
	"time"
)

// DefaultTimingThreshold is the frame time, in milliseconds, above which a
// layered dirty group falls back to full redraws (one frame at 80 FPS).
const DefaultTimingThreshold = 1000.0 / 80.0

// Clock returns a monotonic timestamp. The compositor calls it at the start
// and end of every Draw to measure the frame.
type Clock func() time.Duration

// MonotonicClock returns a Clock counting from the moment it was created.
func MonotonicClock() Clock {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// compositor is the state of a GroupKindLayeredDirty group.
type compositor struct {
	clip    image.Rectangle
	hasClip bool

	// useUpdate selects incremental redraw for the next frame.
	useUpdate bool
	threshold float64 // milliseconds

	bg    Background
	clock Clock

	lastElapsed time.Duration
}

// NewLayeredDirty creates a layered group with an adaptive dirty-rectangle
// compositor. Only sprites created by NewDirtySprite may join it. The first
// frame is a full redraw.
func NewLayeredDirty(defaultLayer int) *Group {
	g := newGroup(GroupKindLayeredDirty)
	g.defaultLayer = defaultLayer
	g.dirty = &compositor{
		threshold: DefaultTimingThreshold,
		clock:     MonotonicClock(),
	}
	return g
}

func (g *Group) mustDirty(op string) *compositor {
	if g.dirty == nil {
		panic("spritegroup: " + op + " requires a layered dirty group")
	}
	return g.dirty
}

// SetClip restricts drawing to r and forces a full redraw on the next frame.
func (g *Group) SetClip(r image.Rectangle) {
	c := g.mustDirty("SetClip")
	c.clip = r
	c.hasClip = true
	c.useUpdate = false
}

// ResetClip makes the group draw into the whole target surface (its own
// clip at Draw time) and forces a full redraw on the next frame.
func (g *Group) ResetClip() {
	c := g.mustDirty("ResetClip")
	c.clip = image.Rectangle{}
	c.hasClip = false
	c.useUpdate = false
}

// Clip returns the clip rectangle and whether one is set.
func (g *Group) Clip() (image.Rectangle, bool) {
	c := g.mustDirty("Clip")
	return c.clip, c.hasClip
}

// RepaintRect queues r, clipped to the current clip, for repainting on the
// next incremental frame. Use it after changing the background out of band.
func (g *Group) RepaintRect(r image.Rectangle) {
	c := g.mustDirty("RepaintRect")
	if c.hasClip {
		r = clipRect(r, c.clip)
	}
	g.lost = append(g.lost, r)
}

// SetTimingThreshold sets the frame time in milliseconds above which the
// next frame is a full redraw.
func (g *Group) SetTimingThreshold(ms float64) error {
	c := g.mustDirty("SetTimingThreshold")
	if err := checkThreshold(ms); err != nil {
		return err
	}
	c.threshold = ms
	return nil
}

func checkThreshold(ms float64) error {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return ErrInvalidThreshold
	}
	return nil
}

// TimingThreshold returns the current threshold in milliseconds.
func (g *Group) TimingThreshold() float64 {
	return g.mustDirty("TimingThreshold").threshold
}

// Incremental reports whether the next Draw will redraw incrementally.
func (g *Group) Incremental() bool {
	return g.mustDirty("Incremental").useUpdate
}

// SetClock replaces the clock used to time frames. Nil restores the
// monotonic clock.
func (g *Group) SetClock(clock Clock) {
	c := g.mustDirty("SetClock")
	if clock == nil {
		clock = MonotonicClock()
	}
	c.clock = clock
}

// LastFrameTime returns the measured duration of the most recent Draw.
func (g *Group) LastFrameTime() time.Duration {
	return g.mustDirty("LastFrameTime").lastElapsed
}

// Background returns the background recorded by the last Draw or Clear.
func (g *Group) Background() Background {
	return g.mustDirty("Background").bg
}

// drawDirty runs one frame of the compositor. In full mode it paints the
// background over the clip, blits every visible sprite and returns the clip.
// In incremental mode it computes the minimal set of non-overlapping update
// rectangles, repaints only those and returns them. The frame's measured
// duration picks the mode of the next frame.
func (g *Group) drawDirty(dst Surface, bg Background, override BlendMode) []image.Rectangle {
	c := g.dirty

	origClip := dst.Clip()
	clip := origClip
	if c.hasClip {
		clip = c.clip
	}
	if bg != nil {
		c.bg = bg
	}

	dst.SetClip(clip)
	start := c.clock()

	var ret []image.Rectangle
	incremental := c.useUpdate
	if incremental {
		update := g.findDirtyArea(clip)
		if c.bg != nil {
			for _, r := range update {
				c.bg.Paint(dst, r)
			}
		}
		g.drawDirtyInternal(dst, update, override)
		ret = update
	} else {
		if c.bg != nil {
			c.bg.Paint(dst, clip)
		}
		visible := make([]*slot, 0, len(g.order))
		for _, sl := range g.order {
			if sl.sprite.visible {
				visible = append(visible, sl)
			}
		}
		g.blitSlots(dst, visible, override)
		ret = []image.Rectangle{clip}
	}

	elapsed := c.clock() - start
	c.lastElapsed = elapsed
	ms := float64(elapsed) / float64(time.Millisecond)
	next := ms <= c.threshold
	if next != c.useUpdate && g.debug {
		Logger().Debug("spritegroup: redraw mode switch",
			"group", g.id, "incremental", next, "frame_ms", ms, "threshold_ms", c.threshold)
	}
	c.useUpdate = next

	g.lost = g.lost[:0]
	dst.SetClip(origClip)

	if g.debug {
		g.debugLog(frameStats{
			incremental: incremental,
			elapsed:     elapsed,
			rectCount:   len(ret),
			spriteCount: len(g.order),
		})
	}
	return ret
}

// absorbRect merges r with every rectangle of update it overlaps, repeating
// until the grown rectangle overlaps none, then appends it clipped to clip.
// A rectangle entirely outside clip is dropped.
func absorbRect(update []image.Rectangle, r, clip image.Rectangle) []image.Rectangle {
	for i := collideList(r, update); i >= 0; i = collideList(r, update) {
		r = unionRect(r, update[i])
		update = append(update[:i], update[i+1:]...)
	}
	r = clipRect(r, clip)
	if r.Empty() {
		return update
	}
	return append(update, r)
}

// findDirtyArea builds the update rectangles for an incremental frame from
// the queued lost and repaint rectangles plus the current and previously
// drawn rectangle of every dirty sprite. The result is pairwise
// non-overlapping.
func (g *Group) findDirtyArea(clip image.Rectangle) []image.Rectangle {
	update := make([]image.Rectangle, 0, len(g.lost)+len(g.order))
	for _, r := range g.lost {
		update = absorbRect(update, r, clip)
	}
	for _, sl := range g.order {
		s := sl.sprite
		if s.Dirty == DirtyClean {
			continue
		}
		update = absorbRect(update, RectAt(s.Rect.Min, s.sourceSize()), clip)
		if sl.hasDrawn {
			update = absorbRect(update, sl.drawn, clip)
		}
	}
	return update
}

// drawDirtyInternal repaints sprites for an incremental frame. Clean visible
// sprites are redrawn only where they intersect an update rectangle; every
// other sprite is redrawn whole (if visible) and demoted from DirtyOnce.
func (g *Group) drawDirtyInternal(dst Surface, update []image.Rectangle, override BlendMode) {
	for _, sl := range g.order {
		s := sl.sprite
		mode := s.BlendMode.resolve(override)
		if s.Dirty == DirtyClean && s.visible {
			if s.Image == nil {
				continue
			}
			r := RectAt(s.Rect.Min, s.sourceSize())
			origin := s.sourceOrigin()
			for _, i := range collideListAll(r, update) {
				part := clipRect(r, update[i])
				area := part.Sub(r.Min).Add(origin)
				dst.Blit(s.Image, part.Min, area, mode)
			}
			continue
		}
		if s.visible {
			sl.drawn = blitSprite(dst, s, mode)
			sl.hasDrawn = true
		}
		if s.Dirty == DirtyOnce {
			s.Dirty = DirtyClean
		}
	}
}
