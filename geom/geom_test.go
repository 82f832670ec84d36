package geom_test

import (
	"testing"

	"github.com/fdcanvas/fd/geom"
	"github.com/teleivo/assertive/assert"
)

func TestRectUnion(t *testing.T) {
	a := geom.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := geom.Rect{X: 5, Y: -5, W: 10, H: 10}

	got := a.Union(b)
	want := geom.Rect{X: 0, Y: -5, W: 15, H: 15}

	assert.Equals(t, got, want, "Union")
}

func TestUnionAllEmpty(t *testing.T) {
	got := geom.UnionAll(nil)
	assert.Equals(t, got, geom.Zero, "UnionAll(nil)")
}

func TestContains(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, W: 10, H: 10}

	assert.True(t, r.Contains(geom.Point{X: 5, Y: 5}), "center point should be contained")
	assert.True(t, r.Contains(geom.Point{X: 10, Y: 10}), "bottom-right edge should be contained")
	assert.Truef(t, !r.Contains(geom.Point{X: 11, Y: 5}), "point outside right edge should not be contained")
}

func TestClamped(t *testing.T) {
	r := geom.Rect{X: 0, Y: 0, W: 1, H: 2}
	got := r.Clamped(4)

	assert.Equals(t, got.W, 4.0, "clamped width")
	assert.Equals(t, got.H, 4.0, "clamped height")
}

func TestRound2(t *testing.T) {
	assert.Equals(t, geom.Round2(1.2349), 1.23, "Round2(1.2349)")
	assert.Equals(t, geom.Round2(1.2351), 1.24, "Round2(1.2351)")
}
