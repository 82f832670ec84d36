package layout_test

import (
	"testing"

	"github.com/fdcanvas/fd/layout"
	"github.com/fdcanvas/fd/scene"
	"github.com/teleivo/assertive/assert"
)

func rect(g *scene.Graph, id scene.NodeID) scene.Node {
	n, _ := g.Get(id)
	return *n
}

func TestColumnLayoutStacksChildrenVertically(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "col", Kind: scene.KindFrame,
		InlineStyle: map[string]any{"layout": "column", "gap": float64(10)},
	}))
	assert.NoError(t, g.Insert("col", &scene.Node{ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 50, IntrinsicH: 20}))
	assert.NoError(t, g.Insert("col", &scene.Node{ID: "b", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 50, IntrinsicH: 20}))

	layout.NewResolver(g, nil).Resolve()

	a := rect(g, "a")
	b := rect(g, "b")
	assert.Equals(t, a.Bounds.Y, 0.0, "first child starts at top")
	assert.Equals(t, b.Bounds.Y, 30.0, "second child offset by sibling height + gap")
}

func TestRowLayoutStacksChildrenHorizontally(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "row", Kind: scene.KindFrame,
		InlineStyle: map[string]any{"layout": "row", "gap": float64(5)},
	}))
	assert.NoError(t, g.Insert("row", &scene.Node{ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 40, IntrinsicH: 20}))
	assert.NoError(t, g.Insert("row", &scene.Node{ID: "b", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 40, IntrinsicH: 20}))

	layout.NewResolver(g, nil).Resolve()

	a := rect(g, "a")
	b := rect(g, "b")
	assert.Equals(t, a.Bounds.X, 0.0, "first child starts at left")
	assert.Equals(t, b.Bounds.X, 45.0, "second child offset by sibling width + gap")
}

func TestGridLayoutWrapsByColumnCount(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "grid", Kind: scene.KindFrame,
		InlineStyle: map[string]any{"layout": "grid", "columns": float64(2), "gap": float64(0)},
	}))
	for _, id := range []scene.NodeID{"a", "b", "c"} {
		assert.NoError(t, g.Insert("grid", &scene.Node{ID: id, Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10}))
	}

	layout.NewResolver(g, nil).Resolve()

	c := rect(g, "c")
	assert.Equals(t, c.Bounds.X, 0.0, "third item wraps to the start of row 2")
	assert.Equals(t, c.Bounds.Y, 10.0, "third item sits in the second row")
}

func TestPositionConstraintOverridesLayout(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10,
		Constraint: scene.Constraint{Kind: "position", X: 100, Y: 200},
	}))

	layout.NewResolver(g, nil).Resolve()

	a := rect(g, "a")
	assert.Equals(t, a.Bounds.X, 100.0, "explicit position x wins")
	assert.Equals(t, a.Bounds.Y, 200.0, "explicit position y wins")
}

func TestCenterInConstraint(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "target", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 100, IntrinsicH: 100,
		Constraint: scene.Constraint{Kind: "position", X: 0, Y: 0},
	}))
	assert.NoError(t, g.Insert("", &scene.Node{
		ID: "centered", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 20, IntrinsicH: 20,
		Constraint: scene.Constraint{Kind: "center_in", Target: "target"},
	}))

	layout.NewResolver(g, nil).Resolve()

	centered := rect(g, "centered")
	assert.Equals(t, centered.Bounds.X, 40.0, "centered within 100-wide target at x=0")
	assert.Equals(t, centered.Bounds.Y, 40.0, "centered within 100-tall target at y=0")
}

func TestGroupAutoSizesToChildrenUnion(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "group1", Kind: scene.KindGroup}))
	assert.NoError(t, g.Insert("group1", &scene.Node{
		ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10,
		Constraint: scene.Constraint{Kind: "position", X: 0, Y: 0},
	}))
	assert.NoError(t, g.Insert("group1", &scene.Node{
		ID: "b", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10,
		Constraint: scene.Constraint{Kind: "position", X: 50, Y: 50},
	}))

	layout.NewResolver(g, nil).Resolve()

	group := rect(g, "group1")
	assert.Equals(t, group.Bounds.W, 60.0, "group width spans both children")
	assert.Equals(t, group.Bounds.H, 60.0, "group height spans both children")
}

func TestGroupAutoSizeSuppressedWhileDragging(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "group1", Kind: scene.KindGroup}))
	assert.NoError(t, g.Insert("group1", &scene.Node{
		ID: "a", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10,
		Constraint: scene.Constraint{Kind: "position", X: 0, Y: 0},
	}))
	assert.NoError(t, g.Insert("group1", &scene.Node{
		ID: "b", Kind: scene.KindRect, HasIntrinsicSize: true, IntrinsicW: 10, IntrinsicH: 10,
		Constraint: scene.Constraint{Kind: "position", X: 50, Y: 50},
	}))

	r := layout.NewResolver(g, nil)
	r.SuppressGroupAutoSizeFor("group1")
	r.Resolve()

	group := rect(g, "group1")
	assert.Equals(t, group.Bounds.W, 10.0, "auto-sizing from resolved child positions is suppressed for the dragged group")
	assert.Equals(t, group.Bounds.H, 10.0, "auto-sizing from resolved child positions is suppressed for the dragged group")
}

func TestTextIntrinsicSizeFallback(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "t", Kind: scene.KindText, Text: "hello", InlineStyle: map[string]any{"font_size": float64(10)}}))

	layout.NewResolver(g, nil).Resolve()

	text := rect(g, "t")
	assert.Equals(t, text.Bounds.W, 30.0, "5 chars * 0.6 avg advance * 10 font size")
	assert.Equals(t, text.Bounds.H, 14.0, "1.4 * 10 font size * 1 line")
}

type fakeMetrics struct{}

func (fakeMetrics) Measure(text string, fontSize float64) (w, h float64) {
	return 999, 999
}

func TestTextMetricsCapabilityOverridesFallback(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "t", Kind: scene.KindText, Text: "hello"}))

	layout.NewResolver(g, fakeMetrics{}).Resolve()

	text := rect(g, "t")
	assert.Equals(t, text.Bounds.W, 999.0, "supplied TextMetrics wins over the heuristic")
}
