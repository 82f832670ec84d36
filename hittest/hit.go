// Package hittest implements FD's point/handle hit-testing and the tool-gesture/drill-down state
// machines that translate pointer and key input into command.Command values (spec.md §4.6).
//
// Grounded on phanxgames-willow's input.go: HitRect/HitCircle's local-coordinate Contains tests,
// its pointerState{down,startX,startY,dragging} shape for tracking an in-flight gesture, and its
// defaultDragDeadZone = 4.0 constant (reused here verbatim as spec.md's own 4px dead-zone).
package hittest

import "github.com/fdcanvas/fd/geom"

// DragDeadZone is the screen-space pixel distance a pointer must move before a gesture commits to
// a drag rather than a click (spec.md §4.6 "Shift-drag→axis-lock after a 4-pixel dead-zone").
const DragDeadZone = 4.0

// HandleRadius is the hit radius, in screen pixels, around a resize handle (spec.md §4.6
// "hit_test_resize_handle... 8-pixel screen-space radius").
const HandleRadius = 8.0

// HitRect is an axis-aligned hit area in local (already-transformed) coordinates, grounded
// directly on willow's HitRect.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside r.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area, grounded directly on willow's HitCircle — used for resize
// handle hit-testing (spec.md §4.6 "8-pixel screen-space radius").
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on c.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.CenterX, y-c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Handle identifies one of the 8 resize handles around a selection's bounding box.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// NodeHit is one candidate in a reverse-z-order hit scan.
type NodeHit struct {
	ID     string
	Bounds geom.Rect
	// IsGroupBackground marks a frame's own background rect, hit only when no child matched
	// (spec.md §4.6 "frames hit via their background").
	IsGroupBackground bool
}

// HitTestNode scans candidates in reverse z-order (candidates must already be given
// back-to-front, i.e. candidates[len-1] is topmost) and returns the id of the first one
// containing point, honoring spec.md §4.6's "groups self-skip" rule: a caller building
// candidates should never include a plain group's own bounds, only its children and
// frame/shape backgrounds, so this function itself only needs to pick the first match.
func HitTestNode(candidates []NodeHit, point geom.Point) (string, bool) {
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		if c.Bounds.Contains(point) {
			return c.ID, true
		}
	}
	return "", false
}

// ResizeHandleAt returns which of the 8 handles around bounds contains point. Both bounds and
// point are in scene space; scale (pixels per scene unit) shrinks the hit radius to
// HandleRadius/scale scene units so handles keep a constant on-screen size regardless of zoom.
func ResizeHandleAt(bounds geom.Rect, point geom.Point, scale float64) (Handle, bool) {
	if scale <= 0 {
		scale = 1
	}
	r := HandleRadius / scale

	positions := []struct {
		h    Handle
		x, y float64
	}{
		{HandleTopLeft, bounds.X, bounds.Y},
		{HandleTop, bounds.X + bounds.W/2, bounds.Y},
		{HandleTopRight, bounds.X + bounds.W, bounds.Y},
		{HandleRight, bounds.X + bounds.W, bounds.Y + bounds.H/2},
		{HandleBottomRight, bounds.X + bounds.W, bounds.Y + bounds.H},
		{HandleBottom, bounds.X + bounds.W/2, bounds.Y + bounds.H},
		{HandleBottomLeft, bounds.X, bounds.Y + bounds.H},
		{HandleLeft, bounds.X, bounds.Y + bounds.H/2},
	}
	for _, p := range positions {
		hc := HitCircle{CenterX: p.x, CenterY: p.y, Radius: r}
		if hc.Contains(point.X, point.Y) {
			return p.h, true
		}
	}
	return HandleNone, false
}
