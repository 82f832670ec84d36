package hittest

import (
	"math"

	"github.com/fdcanvas/fd/geom"
)

// Tool is one of FD's finite drawing/selection tools (spec.md §4.6).
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolEllipse
	ToolFrame
	ToolText
	ToolPen
	ToolArrow
)

// Modifiers mirrors willow's KeyModifiers shape: the handful of modifier keys every gesture rule
// in spec.md §4.6 branches on.
type Modifiers struct {
	Shift bool
	Alt   bool
	Cmd   bool // meta/ctrl, platform-normalized by the host before reaching this package
}

// GestureKind classifies what a completed (or in-progress) pointer gesture should become,
// decided once the drag exceeds DragDeadZone (spec.md §4.6 Select tool rules).
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureClick
	GestureMarquee         // drag started on empty canvas: intersect-test, not contain-test
	GestureMove            // drag started on an already-selected node
	GestureSelectThenMove  // drag started on an unselected node
	GestureDuplicateDrag   // Alt-drag: duplicate in place, then drag the duplicate
	GestureTemporarySelect // Cmd-drag while a drawing tool is active
	GestureAxisLocked      // Shift-drag, after the dead zone, locked to the dominant axis
	GestureCreateDrag      // Rect/Ellipse/Frame/Text tool: drag to size while creating
	GestureArrowDrag       // Arrow tool: drag from a node toward a target
)

// Gesture tracks one pointer-down...up sequence, grounded on willow's pointerState
// {down,startX,startY,lastX,lastY,dragging}.
type Gesture struct {
	Tool        Tool
	Active      bool
	Dragging    bool
	HitID       string // node id under the initial PointerDown, "" if on empty canvas
	StartHit    bool   // HitID was non-empty at PointerDown
	WasSelected bool   // HitID was already selected at PointerDown
	Start       geom.Point
	Last        geom.Point
	Mods        Modifiers
	Kind        GestureKind
}

// Begin starts a new gesture at a PointerDown, choosing its eventual Kind from the tool in play,
// whether the down-point hit a node, and whether that node was already selected (spec.md §4.6
// Select tool bullet list).
func Begin(tool Tool, at geom.Point, hitID string, wasSelected bool, mods Modifiers) *Gesture {
	g := &Gesture{
		Tool:        tool,
		Active:      true,
		HitID:       hitID,
		StartHit:    hitID != "",
		WasSelected: wasSelected,
		Start:       at,
		Last:        at,
		Mods:        mods,
	}
	g.Kind = g.classify()
	return g
}

func (g *Gesture) classify() GestureKind {
	if g.Tool != ToolSelect {
		if g.Mods.Cmd {
			return GestureTemporarySelect
		}
		if g.Tool == ToolArrow {
			return GestureArrowDrag
		}
		return GestureCreateDrag
	}
	switch {
	case g.Mods.Alt && g.StartHit:
		return GestureDuplicateDrag
	case !g.StartHit:
		return GestureMarquee
	case g.WasSelected:
		return GestureMove
	default:
		return GestureSelectThenMove
	}
}

// Move updates the gesture with a new pointer position, returning whether the drag dead zone has
// now been crossed (i.e. this call is the first to cross it). Once crossed, a Shift-held
// Select-tool move gesture is reported as GestureAxisLocked (spec.md §4.6 "Shift-drag→axis-lock
// after a 4-pixel dead-zone").
func (g *Gesture) Move(to geom.Point) (crossedDeadZone bool) {
	wasDragging := g.Dragging
	g.Last = to
	if !g.Dragging && distance(g.Start, to) > DragDeadZone {
		g.Dragging = true
		if g.Tool == ToolSelect && g.Mods.Shift && (g.Kind == GestureMove || g.Kind == GestureSelectThenMove) {
			g.Kind = GestureAxisLocked
		}
	}
	return g.Dragging && !wasDragging
}

// AxisLockedDelta projects a raw (dx, dy) onto whichever axis has the larger magnitude, per
// spec.md §4.6's "axis-lock" Shift-drag behaviour.
func AxisLockedDelta(dx, dy float64) (lx, ly float64) {
	if abs(dx) >= abs(dy) {
		return dx, 0
	}
	return 0, dy
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func distance(a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}
