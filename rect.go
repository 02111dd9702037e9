package spritegroup

import "image"

// Rectangles are image.Rectangle values: Min is the top-left corner and Max
// is exclusive, with Y increasing downward. The helpers below give them the
// collision semantics sprite code expects: zero-area rectangles never
// collide, and adjacent rectangles sharing only an edge do not overlap.

// RectAt returns the rectangle with top-left corner p and the given size.
func RectAt(p image.Point, size image.Point) image.Rectangle {
	return image.Rectangle{Min: p, Max: p.Add(size)}
}

// XYWH returns the rectangle at (x, y) with width w and height h.
func XYWH(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// collideRect reports whether a and b share at least one pixel.
func collideRect(a, b image.Rectangle) bool {
	return a.Overlaps(b)
}

// unionRect returns the smallest rectangle containing both a and b. Unlike
// image.Rectangle.Union, an empty operand still contributes its position.
func unionRect(a, b image.Rectangle) image.Rectangle {
	if a.Min.X > b.Min.X {
		a.Min.X = b.Min.X
	}
	if a.Min.Y > b.Min.Y {
		a.Min.Y = b.Min.Y
	}
	if a.Max.X < b.Max.X {
		a.Max.X = b.Max.X
	}
	if a.Max.Y < b.Max.Y {
		a.Max.Y = b.Max.Y
	}
	return a
}

// clipRect returns the part of r inside bounds. When they do not overlap the
// result is a zero-size rectangle anchored at r.Min.
func clipRect(r, bounds image.Rectangle) image.Rectangle {
	c := r.Intersect(bounds)
	if c.Empty() {
		return image.Rectangle{Min: r.Min, Max: r.Min}
	}
	return c
}

// Inflate grows r by dw horizontally and dh vertically around its center.
// Negative values shrink it.
func Inflate(r image.Rectangle, dw, dh int) image.Rectangle {
	w, h := r.Dx()+dw, r.Dy()+dh
	r.Min.X -= dw / 2
	r.Min.Y -= dh / 2
	r.Max.X = r.Min.X + w
	r.Max.Y = r.Min.Y + h
	return r
}

// center returns the integer center of r.
func center(r image.Rectangle) image.Point {
	return image.Point{X: r.Min.X + r.Dx()/2, Y: r.Min.Y + r.Dy()/2}
}

// collideList returns the index of the first rectangle in list overlapping r,
// or -1.
func collideList(r image.Rectangle, list []image.Rectangle) int {
	for i, o := range list {
		if collideRect(r, o) {
			return i
		}
	}
	return -1
}

// collideListAll returns the indices of every rectangle in list overlapping r.
func collideListAll(r image.Rectangle, list []image.Rectangle) []int {
	var idx []int
	for i, o := range list {
		if collideRect(r, o) {
			idx = append(idx, i)
		}
	}
	return idx
}
