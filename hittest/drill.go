package hittest

import (
	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/scene"
)

// rectContains reports whether inner lies entirely within outer, used by DetachOnDragOut to test
// a child's resolved bounds against its parent's pre-drag envelope.
func rectContains(outer, inner geom.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

// DrillState is the Figma-style nested-selection state machine of spec.md §4.6: `state ∈
// {Idle, Selected(set), PendingDrill(parent,child)}`.
type DrillState int

const (
	DrillIdle DrillState = iota
	DrillSelected
	DrillPending
)

// Drill tracks the current drill-down state across a pointer gesture.
type Drill struct {
	State  DrillState
	Parent scene.NodeID // set only in DrillPending
	Child  scene.NodeID // the hit child, set only in DrillPending
}

// PointerDown applies spec.md's `on PointerDown(hit h)` rule: if h is already selected and its
// ancestor group is selected, drilling is offered (PendingDrill); otherwise h (or its
// effective_target-bubbled ancestor) is selected outright.
func (d *Drill) PointerDown(g *scene.Graph, hit scene.NodeID, sel *scene.Selection) scene.NodeID {
	if sel.Contains(hit) {
		for _, ancestor := range g.Ancestors(hit) {
			if sel.Contains(ancestor) {
				d.State = DrillPending
				d.Parent = ancestor
				d.Child = hit
				return hit
			}
		}
	}

	target := g.EffectiveTarget(hit, sel)
	d.State = DrillSelected
	sel.Set(target)
	return target
}

// PointerMove applies spec.md's "on PointerMove (drag > 4px): commit as move... cancel pending
// drill" rule. draggedPastDeadZone should be the result of Gesture.Move/Move's crossedDeadZone
// check (or simply whether the gesture is already Dragging).
func (d *Drill) PointerMove(draggedPastDeadZone bool) {
	if draggedPastDeadZone && d.State == DrillPending {
		d.State = DrillSelected
		d.Parent, d.Child = "", ""
	}
}

// PointerUp applies spec.md's "on PointerUp without drag AND PendingDrill active: select(h)" —
// the drill-down itself. Returns the id that should become the sole selection, or "" if no
// drill-down fires on this PointerUp.
func (d *Drill) PointerUp(dragged bool, sel *scene.Selection) (scene.NodeID, bool) {
	if dragged || d.State != DrillPending {
		return "", false
	}
	child := d.Child
	d.State = DrillSelected
	d.Parent, d.Child = "", ""
	sel.Set(child)
	return child, true
}

// DetachEvent is the one-shot notification spec.md §4.6 describes for a glow-ring flash:
// "A one-shot detach event is recorded so the view may flash a glow ring."
type DetachEvent struct {
	Child     scene.NodeID
	NewParent scene.NodeID
}

// DetachOnDragOut reparents child to the nearest ancestor (or root) whose bounds still contain
// it, when child's resolved bounds lie fully outside its current parent group's pre-drag bounds
// (spec.md §4.6 "Detach"). preDragParentBounds is the parent's bounds captured once at gesture
// start — group auto-sizing must be suppressed for the whole drag so the envelope cannot grow to
// re-contain an escaping child (the "chasing envelope" spec.md explicitly calls out).
func DetachOnDragOut(g *scene.Graph, child scene.NodeID, preDragParentBounds geom.Rect) (*DetachEvent, error) {
	n, ok := g.Get(child)
	if !ok {
		return nil, scene.ErrNotFound
	}
	if n.Parent == "" || rectContains(preDragParentBounds, n.Bounds) {
		return nil, nil
	}

	newParent := scene.NodeID("")
	for _, ancestor := range g.Ancestors(n.Parent) {
		an, ok := g.Get(ancestor)
		if ok && rectContains(an.Bounds, n.Bounds) {
			newParent = ancestor
			break
		}
	}

	if err := g.Reparent(child, newParent, -1); err != nil {
		return nil, err
	}
	return &DetachEvent{Child: child, NewParent: newParent}, nil
}
