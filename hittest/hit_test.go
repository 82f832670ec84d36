package hittest_test

import (
	"testing"

	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/hittest"
	"github.com/teleivo/assertive/assert"
)

func TestHitTestNodePicksTopmost(t *testing.T) {
	candidates := []hittest.NodeHit{
		{ID: "a", Bounds: geom.Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "b", Bounds: geom.Rect{X: 10, Y: 10, W: 20, H: 20}},
	}
	id, ok := hittest.HitTestNode(candidates, geom.Point{X: 15, Y: 15})
	assert.True(t, ok, "expected a hit")
	assert.Equals(t, id, "b", "topmost (last) candidate wins")
}

func TestHitTestNodeMisses(t *testing.T) {
	candidates := []hittest.NodeHit{
		{ID: "a", Bounds: geom.Rect{X: 0, Y: 0, W: 10, H: 10}},
	}
	_, ok := hittest.HitTestNode(candidates, geom.Point{X: 50, Y: 50})
	assert.True(t, !ok, "expected no hit outside bounds")
}

func TestResizeHandleAtCorner(t *testing.T) {
	bounds := geom.Rect{X: 0, Y: 0, W: 100, H: 50}
	h, ok := hittest.ResizeHandleAt(bounds, geom.Point{X: 0, Y: 0}, 1)
	assert.True(t, ok, "expected a handle hit at the top-left corner")
	assert.Equals(t, h, hittest.HandleTopLeft, "handle")
}

func TestResizeHandleAtScalesWithZoom(t *testing.T) {
	bounds := geom.Rect{X: 0, Y: 0, W: 100, H: 50}
	// at 2x zoom a screen-space point 6px away from the handle centre (within the 8px
	// screen-space radius) corresponds to 3 scene units, still inside scaled radius.
	h, ok := hittest.ResizeHandleAt(bounds, geom.Point{X: 3, Y: 0}, 2)
	assert.True(t, ok, "expected the handle radius to scale with zoom")
	assert.Equals(t, h, hittest.HandleTopLeft, "handle")
}
