// Package geom provides the rectangle and point algebra used by the layout resolver, hit-tester,
// and emitter (spec.md §3.1 "resolved_bounds", §4.3). Grounded on phanxgames-willow's node.go and
// camera.go field conventions (plain X,Y / Width,Height float64 pairs with small value-receiver
// helpers next to HitRect/HitCircle) rather than a transform-matrix based geometry library — FD
// nodes are axis-aligned, so no rotation/skew support is needed.
package geom

import "math"

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// IsZero reports whether s has zero width and height.
func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

// Rect is an axis-aligned rectangle with origin (X,Y) and extent (W,H).
type Rect struct {
	X, Y, W, H float64
}

// Zero is the empty rectangle at the origin.
var Zero = Rect{}

// IsZero reports whether r has zero width and height.
func (r Rect) IsZero() bool {
	return r.W == 0 && r.H == 0
}

// Right returns the X coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies within r, inclusive of edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Translated returns r shifted by (dx,dy).
func (r Rect) Translated(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle containing both r and o. The zero value of Rect is not an
// identity for Union: it still contributes the origin point, so callers that fold over a slice
// track "have we seen the first element yet" separately (see UnionAll).
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// UnionAll returns the bounding box of rects, or Zero if rects is empty. Used by group
// auto-sizing (spec.md invariant 6).
func UnionAll(rects []Rect) Rect {
	if len(rects) == 0 {
		return Zero
	}
	out := rects[0]
	for _, r := range rects[1:] {
		out = out.Union(r)
	}
	return out
}

// Round2 rounds v to 2 decimal places, matching spec.md invariant 9 ("stored coordinates are
// rounded to 2 decimal places on emit").
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamped returns r with width and height clamped to be at least min, preserving origin. Used by
// resize-handle drags (spec.md §8 "Resize handle drag clamps width & height to ≥4").
func (r Rect) Clamped(min float64) Rect {
	if r.W < min {
		r.W = min
	}
	if r.H < min {
		r.H = min
	}
	return r
}
