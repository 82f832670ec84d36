package layout

import (
	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/scene"
)

// position performs pass 2: assign absolute bounds top-down, starting n at origin (its parent's
// content-area offset, already accounting for the parent's layout mode), then recursing into its
// children using n's own layout mode to place them, and finally auto-sizing group nodes from their
// children's resolved bounds (spec.md §4.3 pass 2, "Group auto-sizing").
func (r *Resolver) position(id scene.NodeID, origin geom.Point, parentSize geom.Size, intrinsic map[scene.NodeID]geom.Size) geom.Rect {
	n, ok := r.graph.Get(id)
	if !ok {
		return geom.Rect{}
	}

	size := intrinsic[id]
	if n.Constraint.Kind == "fill_parent" && !parentSize.IsZero() {
		size = parentSize
	}
	pos := r.applyConstraint(n, origin, size)

	childOrigins := arrangeManaged(n, pos, intrinsic)
	var childBounds []geom.Rect
	for _, childID := range n.Children {
		childOrigin := childOrigins[childID]
		b := r.position(childID, childOrigin, size, intrinsic)
		childBounds = append(childBounds, b)
	}

	bounds := geom.Rect{X: pos.X, Y: pos.Y, W: size.W, H: size.H}
	if n.Kind == scene.KindGroup && len(childBounds) > 0 && r.dragging != id {
		bounds = geom.UnionAll(childBounds)
	}
	bounds.X = geom.Round2(bounds.X)
	bounds.Y = geom.Round2(bounds.Y)
	bounds.W = geom.Round2(bounds.W)
	bounds.H = geom.Round2(bounds.H)
	n.Bounds = bounds
	return bounds
}

// applyConstraint resolves n's positioning constraint (spec.md §4.3 "Positioning constraints";
// invariant 4: at most one is active at a time, applying a new one clears the others) against the
// content-area origin handed down by the parent's layout mode, returning n's own top-left corner.
func (r *Resolver) applyConstraint(n *scene.Node, parentOrigin geom.Point, size geom.Size) geom.Point {
	c := n.Constraint
	switch c.Kind {
	case "position":
		return geom.Point{X: c.X, Y: c.Y}
	case "offset":
		return geom.Point{X: parentOrigin.X + c.DX, Y: parentOrigin.Y + c.DY}
	case "center_in":
		target, ok := r.graph.Get(c.Target)
		if !ok {
			return parentOrigin
		}
		tb := target.Bounds
		return geom.Point{
			X: tb.X + tb.W/2 - size.W/2,
			Y: tb.Y + tb.H/2 - size.H/2,
		}
	case "fill_parent":
		return parentOrigin
	default:
		return parentOrigin
	}
}
