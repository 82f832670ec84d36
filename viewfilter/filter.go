// Package viewfilter implements spec.md §4.8's `emit_filtered(graph, mode)`: reduced FD text for
// AI prompts or read-only display, built atop emit's canonical printer rather than duplicating
// its formatting rules.
package viewfilter

import (
	"github.com/fdcanvas/fd/emit"
	"github.com/fdcanvas/fd/scene"
)

// Mode is one of the 8 fixed view filter modes (spec.md §4.8).
type Mode string

const (
	ModeFull      Mode = "full"
	ModeStructure Mode = "structure"
	ModeLayout    Mode = "layout"
	ModeDesign    Mode = "design"
	ModeSpec      Mode = "spec"
	ModeVisual    Mode = "visual"
	ModeWhen      Mode = "when"
	ModeEdges     Mode = "edges"
)

var layoutKeys = map[string]bool{
	"x": true, "y": true, "w": true, "h": true,
	"layout": true, "gap": true, "gap_x": true, "gap_y": true,
	"pad": true, "columns": true, "flow": true,
}

var designKeys = map[string]bool{
	"fill": true, "stroke": true, "corner": true, "opacity": true, "shadow": true,
	"font": true, "font_weight": true, "font_size": true, "align": true,
}

// Emit produces mode's reduced FD text for g. Every mode except ModeEdges keeps node kind, id,
// text label, and parent/child hierarchy, only property categories vary; ModeEdges drops all
// shapes and keeps only edges and legacy constraints.
func Emit(g *scene.Graph, mode Mode) string {
	switch mode {
	case ModeFull:
		return emit.Document(g)
	case ModeEdges:
		return emitEdgesOnly(g)
	default:
		return emit.Document(pruneShapes(g, mode))
	}
}

// pruneShapes returns a new graph containing every non-edge node from g (same ids and hierarchy)
// with properties inside mode's category kept and everything else cleared.
func pruneShapes(g *scene.Graph, mode Mode) *scene.Graph {
	out := scene.New()
	for _, t := range g.Themes() {
		out.AddTheme(t)
	}
	for _, path := range g.Imports() {
		out.AddImport(path)
	}

	var walk func(id, parent scene.NodeID)
	walk = func(id, parent scene.NodeID) {
		n, ok := g.Get(id)
		if !ok || n.Kind == scene.KindEdge {
			return
		}
		clone := pruneNode(n, mode)
		if err := out.Insert(parent, clone); err != nil {
			return
		}
		for _, childID := range n.Children {
			walk(childID, clone.ID)
		}
	}
	for _, id := range g.Roots() {
		walk(id, "")
	}
	return out
}

func pruneNode(n *scene.Node, mode Mode) *scene.Node {
	clone := &scene.Node{
		ID:          n.ID,
		Kind:        n.Kind,
		Anonymous:   n.Anonymous,
		Text:        n.Text,
		InlineStyle: make(map[string]any),
		DeclLine:    n.DeclLine,
		DeclEndLine: n.DeclEndLine,
	}

	keepLayout := mode == ModeLayout || mode == ModeVisual
	keepDesign := mode == ModeDesign || mode == ModeVisual
	keepSpec := mode == ModeSpec
	keepWhen := mode == ModeWhen || mode == ModeVisual

	if keepLayout {
		clone.Constraint = n.Constraint
		clone.HasIntrinsicSize = n.HasIntrinsicSize
		clone.IntrinsicW, clone.IntrinsicH = n.IntrinsicW, n.IntrinsicH
	}
	if keepDesign {
		clone.StyleRefs = append([]string{}, n.StyleRefs...)
	}
	for key, v := range n.InlineStyle {
		if (keepLayout && layoutKeys[key]) || (keepDesign && designKeys[key]) {
			clone.InlineStyle[key] = v
		}
	}
	if keepSpec {
		clone.Spec = n.Spec
	}
	if keepWhen {
		clone.Animations = append([]scene.Animation{}, n.Animations...)
	}
	return clone
}

// emitEdgesOnly collects every edge (top-level or nested) plus legacy constraints into a flat
// document — edges have no hierarchy of their own worth preserving once shapes are removed
// (spec.md §4.8 "Edges: edge/constraint relations only").
func emitEdgesOnly(g *scene.Graph) string {
	out := scene.New()

	var collect func(id scene.NodeID)
	collect = func(id scene.NodeID) {
		n, ok := g.Get(id)
		if !ok {
			return
		}
		if n.Kind == scene.KindEdge {
			clone := &scene.Node{
				ID: n.ID, Kind: scene.KindEdge, Anonymous: n.Anonymous,
				From: n.From, To: n.To, InlineStyle: map[string]any{},
			}
			_ = out.Insert("", clone)
		}
		for _, childID := range n.Children {
			collect(childID)
		}
	}
	for _, id := range g.Roots() {
		collect(id)
	}
	for _, c := range g.LegacyConstraints() {
		out.AddLegacyConstraint(c)
	}
	return emit.Document(out)
}
