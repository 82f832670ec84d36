package tween_test

import (
	"testing"
	"time"

	"github.com/fdcanvas/fd/color"
	"github.com/fdcanvas/fd/scene"
	"github.com/fdcanvas/fd/tween"
	"github.com/teleivo/assertive/assert"
)

func TestSpringOvershootsPastOne(t *testing.T) {
	max := 0.0
	for i := 0; i <= 100; i++ {
		v := tween.Spring(float64(i) / 100)
		if v > max {
			max = v
		}
	}
	assert.True(t, max > 1.0, "spring easing should overshoot past 1.0 before settling")
	assert.Equals(t, tween.Spring(0), 0.0, "spring at t=0")
	assert.Equals(t, tween.Spring(1), 1.0, "spring at t=1")
}

func TestEasingByNameLinearIsIdentity(t *testing.T) {
	fn := tween.EasingByName("linear")
	assert.True(t, approx(fn(0.5), 0.5), "linear easing should pass progress through unchanged")
}

func TestEasingByNameUnknownDefaultsToLinear(t *testing.T) {
	fn := tween.EasingByName("bogus")
	assert.True(t, approx(fn(0.25), 0.25), "an unrecognized easing name should fall back to linear")
}

func TestEvaluateReturnsNilWithoutMatchingTrigger(t *testing.T) {
	n := &scene.Node{ID: "box", Animations: []scene.Animation{{Trigger: "press", Properties: map[string]any{"opacity": 1.0}}}}
	out := tween.Evaluate(time.Now(), n, "hover", tween.Phase{Forward: true, StartedAt: time.Now()})
	assert.True(t, out == nil, "no when-block for the given trigger should yield a nil override")
}

func TestEvaluateInterpolatesNumericLinearly(t *testing.T) {
	n := &scene.Node{
		ID:          "box",
		InlineStyle: map[string]any{"opacity": 0.0},
		Animations: []scene.Animation{
			{Trigger: "hover", Easing: "linear", DurationMS: 1000, Properties: map[string]any{"opacity": 1.0}},
		},
	}
	start := time.Now().Add(-500 * time.Millisecond)
	out := tween.Evaluate(time.Now(), n, "hover", tween.Phase{Forward: true, StartedAt: start, Duration: time.Second})
	v, ok := out["opacity"].(float64)
	assert.True(t, ok, "opacity override should be numeric")
	assert.True(t, approx(v, 0.5), "halfway through a linear 1s tween, opacity should be ~0.5")
}

func TestEvaluateLastDeclaredWins(t *testing.T) {
	n := &scene.Node{
		ID: "box",
		Animations: []scene.Animation{
			{Trigger: "hover", DurationMS: 1000, Properties: map[string]any{"opacity": 0.2}},
			{Trigger: "hover", DurationMS: 1000, Properties: map[string]any{"opacity": 0.9}},
		},
	}
	start := time.Now().Add(-1 * time.Second)
	out := tween.Evaluate(time.Now(), n, "hover", tween.Phase{Forward: true, StartedAt: start, Duration: time.Second})
	v, _ := out["opacity"].(float64)
	assert.True(t, approx(v, 0.9), "a fully elapsed tween should reach the last declared animation's target (0.9), not the first's (0.2)")
}

func TestEvaluateInterpolatesColorPerChannel(t *testing.T) {
	n := &scene.Node{
		ID:          "box",
		InlineStyle: map[string]any{"fill": color.RGBA{R: 0, G: 0, B: 0, A: 255}},
		Animations: []scene.Animation{
			{Trigger: "press", Easing: "linear", DurationMS: 1000, Properties: map[string]any{"fill": color.RGBA{R: 200, G: 0, B: 0, A: 255}}},
		},
	}
	start := time.Now().Add(-1 * time.Second)
	out := tween.Evaluate(time.Now(), n, "press", tween.Phase{Forward: true, StartedAt: start, Duration: time.Second})
	c, ok := out["fill"].(color.RGBA)
	assert.True(t, ok, "fill override should be a color.RGBA")
	assert.Equals(t, c.R, uint8(200), "fully elapsed forward tween should reach its target red channel")
}

func TestEvaluateReversePhaseFlipsProgress(t *testing.T) {
	n := &scene.Node{
		ID:          "box",
		InlineStyle: map[string]any{"opacity": 0.0},
		Animations: []scene.Animation{
			{Trigger: "hover", Easing: "linear", DurationMS: 1000, Properties: map[string]any{"opacity": 1.0}},
		},
	}
	out := tween.Evaluate(time.Now(), n, "hover", tween.Phase{Forward: false, StartedAt: time.Now(), Duration: time.Second})
	v, _ := out["opacity"].(float64)
	assert.True(t, approx(v, 1.0), "a reverting phase at elapsed=0 should start from the fully-forward value")
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.01
}
