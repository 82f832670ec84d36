// Package layout resolves absolute node bounds from declarative layout modes in a two-pass walk
// (spec.md §4.3): bottom-up intrinsic-size measurement, then top-down absolute positioning.
//
// Grounded on the teacher's internal/layout package, whose Doc pretty-printer already implements
// exactly this shape for 1-D text layout: measure() walks once bottom-up to compute each tag's
// intrinsic width, then layout() walks top-down to assign column offsets. This package
// generalizes that two-pass structure from 1-D text columns to 2-D node boxes.
package layout

import (
	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/scene"
)

// TextMetrics is supplied by the host to measure real glyph metrics. When absent, Resolver falls
// back to the heuristic in estimateTextSize (spec.md §4.3 "Text intrinsic size").
type TextMetrics interface {
	Measure(text string, fontSize float64) (w, h float64)
}

// Resolver computes resolved_bounds for every node in a scene graph.
type Resolver struct {
	graph   *scene.Graph
	metrics TextMetrics
	cache   *metricsCache

	// dragging holds the id of a group currently being dragged, if any; its auto-sizing pass is
	// suppressed so a child can be detached by dragging it out (spec.md invariant 6).
	dragging scene.NodeID
}

// NewResolver creates a resolver over graph. metrics may be nil, in which case the avg-advance
// heuristic is used for every text node.
func NewResolver(graph *scene.Graph, metrics TextMetrics) *Resolver {
	return &Resolver{graph: graph, metrics: metrics, cache: newMetricsCache(512)}
}

// SuppressGroupAutoSizeFor marks groupID's auto-sizing pass as suspended for the duration of a
// drag gesture; pass "" to clear it.
func (r *Resolver) SuppressGroupAutoSizeFor(groupID scene.NodeID) {
	r.dragging = groupID
}

// Resolve computes resolved_bounds for every node reachable from the graph's roots, writing them
// directly onto each scene.Node.
func (r *Resolver) Resolve() {
	intrinsic := make(map[scene.NodeID]geom.Size)
	for _, id := range r.graph.Roots() {
		r.measure(id, intrinsic)
	}
	origin := geom.Point{}
	for _, id := range r.graph.Roots() {
		r.position(id, origin, geom.Size{}, intrinsic)
	}
}

// measure performs pass 1: recurse depth-first, resolving each child's intrinsic size before the
// parent's own (spec.md §4.3 pass 1).
func (r *Resolver) measure(id scene.NodeID, out map[scene.NodeID]geom.Size) geom.Size {
	n, ok := r.graph.Get(id)
	if !ok {
		return geom.Size{}
	}

	for _, childID := range n.Children {
		r.measure(childID, out)
	}

	var size geom.Size
	switch {
	case n.HasIntrinsicSize:
		size = geom.Size{W: n.IntrinsicW, H: n.IntrinsicH}
	case n.Kind == scene.KindText:
		size = r.measureText(n)
	case n.Kind == scene.KindGroup:
		size = unionChildSizes(n, out)
	case layoutMode(n) != "" && layoutMode(n) != "free":
		size = measureManaged(n, out)
	default:
		size = unionChildSizes(n, out)
	}
	out[id] = size
	return size
}

func (r *Resolver) measureText(n *scene.Node) geom.Size {
	fontSize := floatProp(n.InlineStyle, "font_size", 16)
	if r.metrics != nil {
		w, h := r.metrics.Measure(n.Text, fontSize)
		return geom.Size{W: w, H: h}
	}
	if w, h, ok := r.cache.get(n.Text, fontSize); ok {
		return geom.Size{W: w, H: h}
	}
	w, h := estimateTextSize(n.Text, fontSize)
	r.cache.put(n.Text, fontSize, w, h)
	return geom.Size{W: w, H: h}
}

// estimateTextSize implements the fallback in spec.md §4.3: "(char_count × avg_advance ×
// font_size, 1.4 × font_size × line_count)".
func estimateTextSize(text string, fontSize float64) (w, h float64) {
	const avgAdvance = 0.6
	lines := 1
	maxLineLen := 0
	lineLen := 0
	for _, r := range text {
		if r == '\n' {
			lines++
			if lineLen > maxLineLen {
				maxLineLen = lineLen
			}
			lineLen = 0
			continue
		}
		lineLen++
	}
	if lineLen > maxLineLen {
		maxLineLen = lineLen
	}
	return float64(maxLineLen) * avgAdvance * fontSize, 1.4 * fontSize * float64(lines)
}

func unionChildSizes(n *scene.Node, sizes map[scene.NodeID]geom.Size) geom.Size {
	if len(n.Children) == 0 {
		return geom.Size{}
	}
	var rects []geom.Rect
	for _, id := range n.Children {
		s := sizes[id]
		rects = append(rects, geom.Rect{W: s.W, H: s.H})
	}
	u := geom.UnionAll(rects)
	return geom.Size{W: u.W, H: u.H}
}

func layoutMode(n *scene.Node) string {
	if v, ok := n.InlineStyle["layout"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func floatProp(style map[string]any, key string, def float64) float64 {
	if v, ok := style[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func intProp(style map[string]any, key string, def int) int {
	return int(floatProp(style, key, float64(def)))
}
