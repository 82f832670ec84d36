package command_test

import (
	"testing"

	"github.com/fdcanvas/fd/color"
	"github.com/fdcanvas/fd/command"
	"github.com/fdcanvas/fd/scene"
	"github.com/teleivo/assertive/assert"
)

func TestAddNodeInverseIsRemoveNode(t *testing.T) {
	g := scene.New()
	add := command.AddNode{Node: &scene.Node{ID: "a", Kind: scene.KindRect}}

	assert.NoError(t, add.Apply(g))
	_, ok := g.Get("a")
	assert.True(t, ok, "AddNode should have inserted the node")

	assert.NoError(t, add.Inverse().Apply(g))
	_, ok = g.Get("a")
	assert.True(t, !ok, "RemoveNode inverse should have removed the node")
}

func TestRemoveNodeInverseRestoresSnapshot(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect, Text: "hi"}))

	rm := &command.RemoveNode{ID: "a"}
	assert.NoError(t, rm.Apply(g))
	_, ok := g.Get("a")
	assert.True(t, !ok, "node should be removed")

	assert.NoError(t, rm.Inverse().Apply(g))
	n, ok := g.Get("a")
	assert.True(t, ok, "undo should restore the node")
	assert.Equals(t, n.Text, "hi", "restored node should keep its prior fields")
}

func TestMoveNodeInverseRestoresPriorConstraint(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "a", Kind: scene.KindRect,
		Constraint: scene.Constraint{Kind: "position", X: 1, Y: 2},
	}))

	mv := &command.MoveNode{ID: "a", X: 10, Y: 20}
	assert.NoError(t, mv.Apply(g))
	n, _ := g.Get("a")
	assert.Equals(t, n.Constraint.X, 10.0, "x after move")

	inv := mv.Inverse()
	assert.NoError(t, inv.Apply(g))
	n, _ = g.Get("a")
	assert.Equals(t, n.Constraint.X, 1.0, "x should be restored by the inverse")
	assert.Equals(t, n.Constraint.Y, 2.0, "y should be restored by the inverse")
}

func TestResizeNodeClampsToMinimumSize(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))

	rs := &command.ResizeNode{ID: "a", W: 1, H: -5}
	assert.NoError(t, rs.Apply(g))
	n, _ := g.Get("a")
	assert.Equals(t, n.IntrinsicW, 4.0, "width should be clamped to the minimum")
	assert.Equals(t, n.IntrinsicH, 4.0, "height should be clamped to the minimum")
}

func TestResizeNodeInverseRestoresPriorSize(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 50, IntrinsicH: 60}))

	rs := &command.ResizeNode{ID: "a", W: 10, H: 10}
	assert.NoError(t, rs.Apply(g))
	assert.NoError(t, rs.Inverse().Apply(g))

	n, _ := g.Get("a")
	assert.Equals(t, n.IntrinsicW, 50.0, "width should be restored")
	assert.Equals(t, n.IntrinsicH, 60.0, "height should be restored")
}

func TestSetStyleInverseRestoresPriorValueOrUnsets(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "a", Kind: scene.KindRect,
		InlineStyle: map[string]any{"fill": color.RGBA{R: 1, G: 2, B: 3, A: 255}},
	}))

	set := &command.SetStyle{ID: "a", Property: "fill", Value: color.RGBA{R: 9, G: 9, B: 9, A: 255}}
	assert.NoError(t, set.Apply(g))
	assert.NoError(t, set.Inverse().Apply(g))

	n, _ := g.Get("a")
	assert.Equals(t, n.InlineStyle["fill"], color.RGBA{R: 1, G: 2, B: 3, A: 255}, "prior fill should be restored")

	setNew := &command.SetStyle{ID: "a", Property: "stroke", Value: "none"}
	assert.NoError(t, setNew.Apply(g))
	assert.NoError(t, setNew.Inverse().Apply(g))
	n, _ = g.Get("a")
	_, hasStroke := n.InlineStyle["stroke"]
	assert.True(t, !hasStroke, "a property that did not exist before should be unset by undo")
}

func TestSetTextInverseRestoresPriorText(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "t", Kind: scene.KindText, Text: "before"}))

	cmd := &command.SetText{ID: "t", Text: "after"}
	assert.NoError(t, cmd.Apply(g))
	assert.NoError(t, cmd.Inverse().Apply(g))

	n, _ := g.Get("t")
	assert.Equals(t, n.Text, "before", "text should be restored")
}

func TestReparentNodeInverseRestoresPriorParentAndIndex(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "src", Kind: scene.KindGroup}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "dst", Kind: scene.KindGroup}))
	assert.NoError(t, g.Insert("src", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("src", &scene.Node{ID: "b", Kind: scene.KindRect}))

	cmd := &command.ReparentNode{ID: "a", NewParent: "dst", IndexHint: -1}
	assert.NoError(t, cmd.Apply(g))
	n, _ := g.Get("a")
	assert.Equals(t, n.Parent, scene.NodeID("dst"), "node should have moved to the new parent")

	assert.NoError(t, cmd.Inverse().Apply(g))
	n, _ = g.Get("a")
	assert.Equals(t, n.Parent, scene.NodeID("src"), "undo should restore the prior parent")
	assert.Equals(t, g.Children("src")[0], scene.NodeID("a"), "undo should restore the prior sibling position")
}

func TestGroupNodesInverseUngroups(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))

	grp := &command.GroupNodes{GroupID: "grp", Children: []scene.NodeID{"a", "b"}}
	assert.NoError(t, grp.Apply(g))
	n, ok := g.Get("a")
	assert.True(t, ok, "grouped node should still exist")
	assert.Equals(t, n.Parent, scene.NodeID("grp"), "a should be reparented under the new group")

	assert.NoError(t, grp.Inverse().Apply(g))
	_, ok = g.Get("grp")
	assert.True(t, !ok, "ungroup should remove the now-empty group")
	n, _ = g.Get("a")
	assert.Equals(t, n.Parent, scene.NodeID(""), "a should be back at the top level")
}

func TestAddEdgeRejectsEdgeAsEndpoint(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "e1", Kind: scene.KindEdge,
		From: scene.EdgeAnchor{Node: "a"}, To: scene.EdgeAnchor{Node: "b"},
	}))

	bad := command.AddEdge{Edge: &scene.Node{
		ID: "e2", Kind: scene.KindEdge,
		From: scene.EdgeAnchor{Node: "e1"}, To: scene.EdgeAnchor{Node: "b"},
	}}
	err := bad.Apply(g)
	assert.True(t, err != nil, "an edge may not reference another edge as an endpoint")
}

func TestRemoveEdgeInverseRestoresSnapshot(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "e1", Kind: scene.KindEdge,
		From: scene.EdgeAnchor{Node: "a"}, To: scene.EdgeAnchor{Node: "b"},
	}))

	rm := &command.RemoveEdge{ID: "e1"}
	assert.NoError(t, rm.Apply(g))
	_, ok := g.Get("e1")
	assert.True(t, !ok, "edge should be removed")

	assert.NoError(t, rm.Inverse().Apply(g))
	n, ok := g.Get("e1")
	assert.True(t, ok, "undo should restore the edge")
	assert.Equals(t, n.From.Node, scene.NodeID("a"), "restored edge should keep its from-anchor")
}

func TestZOrderInverseRestoresIndex(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "c", Kind: scene.KindRect}))

	z := &command.ZOrder{ID: "a", Op: scene.ToFront}
	assert.NoError(t, z.Apply(g))
	roots := g.Roots()
	assert.Equals(t, roots[len(roots)-1], scene.NodeID("a"), "a should be on top after ToFront")

	assert.NoError(t, z.Inverse().Apply(g))
	roots = g.Roots()
	assert.Equals(t, roots[0], scene.NodeID("a"), "undo should restore a's original position")
}

func TestRenameInverseRenamesBack(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "old", Kind: scene.KindRect}))

	r := command.Rename{Old: "old", New: "new"}
	assert.NoError(t, r.Apply(g))
	_, ok := g.Get("new")
	assert.True(t, ok, "node should be addressable under its new id")

	assert.NoError(t, r.Inverse().Apply(g))
	_, ok = g.Get("old")
	assert.True(t, ok, "undo should rename it back to the original id")
}
