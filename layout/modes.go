package layout

import (
	"math"

	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/scene"
)

// measureManaged computes the intrinsic size of a column/row/grid container from its children's
// already-resolved intrinsic sizes plus its gap/padding style properties (spec.md §4.3 "Layout
// modes").
func measureManaged(n *scene.Node, sizes map[scene.NodeID]geom.Size) geom.Size {
	if len(n.Children) == 0 {
		return geom.Size{}
	}
	gap := floatProp(n.InlineStyle, "gap", 0)
	pad := floatProp(n.InlineStyle, "padding", 0)

	switch layoutMode(n) {
	case "column":
		var w, h float64
		for i, id := range n.Children {
			s := sizes[id]
			w = math.Max(w, s.W)
			h += s.H
			if i > 0 {
				h += gap
			}
		}
		return geom.Size{W: w + 2*pad, H: h + 2*pad}
	case "row":
		var w, h float64
		for i, id := range n.Children {
			s := sizes[id]
			h = math.Max(h, s.H)
			w += s.W
			if i > 0 {
				w += gap
			}
		}
		return geom.Size{W: w + 2*pad, H: h + 2*pad}
	case "grid":
		cols := intProp(n.InlineStyle, "columns", 1)
		if cols < 1 {
			cols = 1
		}
		var colWidths, rowHeights []float64
		for i, id := range n.Children {
			s := sizes[id]
			col := i % cols
			row := i / cols
			for len(colWidths) <= col {
				colWidths = append(colWidths, 0)
			}
			for len(rowHeights) <= row {
				rowHeights = append(rowHeights, 0)
			}
			colWidths[col] = math.Max(colWidths[col], s.W)
			rowHeights[row] = math.Max(rowHeights[row], s.H)
		}
		var w, h float64
		for i, cw := range colWidths {
			w += cw
			if i > 0 {
				w += gap
			}
		}
		for i, rh := range rowHeights {
			h += rh
			if i > 0 {
				h += gap
			}
		}
		return geom.Size{W: w + 2*pad, H: h + 2*pad}
	default:
		return unionChildSizes(n, sizes)
	}
}

// arrangeManaged positions n's children relative to n's own content origin (top-left, after
// padding), for column/row/grid modes. Free-mode children are positioned by their own
// constraints only, in position().
func arrangeManaged(n *scene.Node, origin geom.Point, sizes map[scene.NodeID]geom.Size) map[scene.NodeID]geom.Point {
	gap := floatProp(n.InlineStyle, "gap", 0)
	pad := floatProp(n.InlineStyle, "padding", 0)
	out := make(map[scene.NodeID]geom.Point, len(n.Children))
	start := geom.Point{X: origin.X + pad, Y: origin.Y + pad}

	switch layoutMode(n) {
	case "column":
		y := start.Y
		for _, id := range n.Children {
			out[id] = geom.Point{X: start.X, Y: y}
			y += sizes[id].H + gap
		}
	case "row":
		x := start.X
		for _, id := range n.Children {
			out[id] = geom.Point{X: x, Y: start.Y}
			x += sizes[id].W + gap
		}
	case "grid":
		cols := intProp(n.InlineStyle, "columns", 1)
		if cols < 1 {
			cols = 1
		}
		var colWidths, rowHeights []float64
		for i, id := range n.Children {
			s := sizes[id]
			col := i % cols
			row := i / cols
			for len(colWidths) <= col {
				colWidths = append(colWidths, 0)
			}
			for len(rowHeights) <= row {
				rowHeights = append(rowHeights, 0)
			}
			colWidths[col] = math.Max(colWidths[col], s.W)
			rowHeights[row] = math.Max(rowHeights[row], s.H)
		}
		colOffsets := make([]float64, len(colWidths))
		for i := 1; i < len(colWidths); i++ {
			colOffsets[i] = colOffsets[i-1] + colWidths[i-1] + gap
		}
		rowOffsets := make([]float64, len(rowHeights))
		for i := 1; i < len(rowHeights); i++ {
			rowOffsets[i] = rowOffsets[i-1] + rowHeights[i-1] + gap
		}
		for i, id := range n.Children {
			col := i % cols
			row := i / cols
			out[id] = geom.Point{X: start.X + colOffsets[col], Y: start.Y + rowOffsets[row]}
		}
	default:
		for _, id := range n.Children {
			out[id] = start
		}
	}
	return out
}
