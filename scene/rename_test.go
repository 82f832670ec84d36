package scene_test

import (
	"testing"

	"github.com/fdcanvas/fd/scene"
	"github.com/teleivo/assertive/assert"
)

func TestRenameUpdatesIDAndChildListing(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "old", Kind: scene.KindRect}))

	assert.NoError(t, g.Rename("old", "new"))

	_, ok := g.Get("old")
	assert.True(t, !ok, "the old id should no longer resolve")
	n, ok := g.Get("new")
	assert.True(t, ok, "the new id should resolve to the renamed node")
	assert.Equals(t, n.ID, scene.NodeID("new"), "the node's own ID field should be updated")

	roots := g.Roots()
	assert.Equals(t, roots[0], scene.NodeID("new"), "the root listing should reference the new id")
}

func TestRenameRejectsCollisionWithExistingID(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))

	err := g.Rename("a", "b")
	assert.True(t, err == scene.ErrAlreadyExists, "renaming onto an existing id should fail with ErrAlreadyExists")

	_, ok := g.Get("a")
	assert.True(t, ok, "the rename should not have applied when rejected")
}

func TestRenameUnknownIDErrors(t *testing.T) {
	g := scene.New()
	err := g.Rename("missing", "new")
	assert.True(t, err == scene.ErrNotFound, "renaming a node that does not exist should fail with ErrNotFound")
}

func TestRenameFixesUpChildrenParentField(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "group1", Kind: scene.KindGroup}))
	assert.NoError(t, g.Insert("group1", &scene.Node{ID: "leaf", Kind: scene.KindRect}))

	assert.NoError(t, g.Rename("group1", "container"))

	leaf, ok := g.Get("leaf")
	assert.True(t, ok, "the child should still exist")
	assert.Equals(t, leaf.Parent, scene.NodeID("container"), "the child's Parent field should follow the rename")
}

func TestRenameFixesUpEdgeEndpoints(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{ID: "b", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "e1", Kind: scene.KindEdge,
		From: scene.EdgeAnchor{Node: "a"}, To: scene.EdgeAnchor{Node: "b"},
	}))

	assert.NoError(t, g.Rename("a", "a2"))

	e1, ok := g.Get("e1")
	assert.True(t, ok, "the edge should still exist")
	assert.Equals(t, e1.From.Node, scene.NodeID("a2"), "the edge's from-anchor should follow the rename")
	assert.Equals(t, e1.To.Node, scene.NodeID("b"), "the unrelated to-anchor should be untouched")
}

func TestRenameFixesUpCenterInConstraintTarget(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "anchor", Kind: scene.KindRect}))
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "floater", Kind: scene.KindRect,
		Constraint: scene.Constraint{Kind: "center_in", Target: "anchor"},
	}))

	assert.NoError(t, g.Rename("anchor", "anchor2"))

	floater, _ := g.Get("floater")
	assert.Equals(t, floater.Constraint.Target, scene.NodeID("anchor2"), "a center_in target should follow the rename")
}

func TestRenameFixesUpLegacyConstraintTarget(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "a", Kind: scene.KindRect}))
	g.AddLegacyConstraint(scene.LegacyConstraint{Target: "a", Name: "rank", Raw: "same"})

	assert.NoError(t, g.Rename("a", "a2"))

	cs := g.LegacyConstraints()
	assert.Equals(t, len(cs), 1, "the legacy constraint should still be present")
	assert.Equals(t, cs[0].Target, scene.NodeID("a2"), "the legacy constraint's target should follow the rename")
}

func TestReplaceFromSwapsGraphContentInPlace(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "old", Kind: scene.KindRect}))

	fresh := scene.New()
	assert.NoError(t, fresh.Insert("", &scene.Node{ID: "new", Kind: scene.KindEllipse}))

	g.ReplaceFrom(fresh)

	_, ok := g.Get("old")
	assert.True(t, !ok, "ReplaceFrom should discard the graph's prior content")
	n, ok := g.Get("new")
	assert.True(t, ok, "ReplaceFrom should adopt the other graph's content")
	assert.Equals(t, n.Kind, scene.KindEllipse, "the adopted node should keep its own fields")
}
