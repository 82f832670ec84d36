// Package tween implements FD's per-frame tween engine (spec.md §4.9): given the current time and
// the active trigger phase for a node, it returns a `{property: overridden value}` map without
// ever mutating the scene graph. It holds no state of its own between calls — a host (the
// renderer's input loop) owns each node/trigger's Phase and re-derives it from pointer events.
//
// Grounded on phanxgames-willow's animation.go TweenGroup, which drives github.com/tanema/gween
// tweens per frame via Update(dt); FD has no frame-owned Tween objects to update since the engine
// must stay stateless, so no gween Tween is kept: progress is recomputed every call from Phase's
// StartedAt and fed straight to a gween/ease function. gween/ease supplies the named curves; "spring" has
// no gween/ease analog (the library ships only polynomial eases) so it is hand-written below as
// a damped sinusoid per spec.md's own formula (c4 = 2π/3).
package tween

import (
	"math"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/fdcanvas/fd/color"
	"github.com/fdcanvas/fd/scene"
)

// Easing maps a normalized progress in [0,1] to an eased progress, generally also in [0,1]
// (spring overshoots past 1 before settling, by design).
type Easing func(t float64) float64

// EasingByName resolves one of spec.md §4.9's 5 named easing functions, defaulting to linear for
// an unrecognized name.
func EasingByName(name string) Easing {
	switch name {
	case "ease_in":
		return wrap(ease.InQuad)
	case "ease_out":
		return wrap(ease.OutQuad)
	case "ease_in_out":
		return wrap(ease.InOutQuad)
	case "spring":
		return Spring
	default:
		return wrap(ease.Linear)
	}
}

// wrap adapts a gween/ease.TweenFunc (t, begin, change, duration float32) to our normalized
// Easing signature by calling it over a unit interval.
func wrap(fn func(t, b, c, d float32) float32) Easing {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// springC4 is spec.md §4.9's damping constant for the spring easing curve.
const springC4 = 2 * math.Pi / 3

// Spring is a damped sinusoidal easing curve (the classic "elastic out"), overshooting past 1.0
// before settling, per spec.md §4.9 "spring (damped sinusoidal with c4 = 2π/3)".
func Spring(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	default:
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*springC4) + 1
	}
}

// Phase describes the in-flight animation state for one (node, trigger) pair, owned and updated
// by the caller across frames (spec.md §4.9 is explicit the tween engine itself is "stateless
// between frames").
type Phase struct {
	// Forward is true while animating toward the when-block's target values (pointer-down,
	// pointer-enter, or a not-yet-exited hover); false while reverting toward the base value
	// (hover pointer-exit, or press pointer-up).
	Forward bool
	// StartedAt is when the current phase (forward or reverting) began.
	StartedAt time.Time
	// Duration is the current phase's duration. On a hover exit this is
	// min(remaining, declared duration) per spec.md §4.9's hover trigger semantics; the caller
	// computes that once when the reverse phase begins and holds it here.
	Duration time.Duration
}

// Override is one node's computed property overrides for the current frame.
type Override = map[string]any

// Evaluate computes node's property overrides for trigger at phase, given the current time. It
// returns nil if node has no when-block for trigger. When more than one when-block declares the
// same trigger, the last declared wins (spec.md §4.9 "replacement, not merge").
func Evaluate(now time.Time, node *scene.Node, trigger string, phase Phase) Override {
	anim := lastAnimationFor(node, trigger)
	if anim == nil {
		return nil
	}

	d := phase.Duration
	if d <= 0 {
		d = time.Duration(anim.DurationMS) * time.Millisecond
	}
	progress := 1.0
	if d > 0 {
		progress = float64(now.Sub(phase.StartedAt)) / float64(d)
	}
	progress = clamp01(progress)

	eased := EasingByName(anim.Easing)(progress)
	if !phase.Forward {
		eased = 1 - eased
	}

	out := make(Override, len(anim.Properties))
	for key, target := range anim.Properties {
		out[key] = interpolate(baseValue(node, key), target, eased)
	}
	return out
}

// lastAnimationFor returns the last-declared Animation matching trigger, implementing spec.md
// §4.9's "last declared wins" rule (n.Animations is in document declaration order).
func lastAnimationFor(node *scene.Node, trigger string) *scene.Animation {
	var found *scene.Animation
	for i := range node.Animations {
		if node.Animations[i].Trigger == trigger {
			found = &node.Animations[i]
		}
	}
	return found
}

// baseValue looks up node's current, un-animated value for key so a tween has something to
// interpolate from.
func baseValue(node *scene.Node, key string) any {
	switch key {
	case "x":
		return node.Constraint.X
	case "y":
		return node.Constraint.Y
	case "w":
		return node.IntrinsicW
	case "h":
		return node.IntrinsicH
	}
	if v, ok := node.InlineStyle[key]; ok {
		return v
	}
	return nil
}

// interpolate blends base toward target at progress t (spec.md §4.9 "Property interpolation:
// numeric linear; colors per-channel RGB linear; others step"). A non-numeric, non-color property
// snaps to target once the eased progress passes its curve's midpoint — there is no continuous
// interpolation for a discrete value, so some threshold must pick the moment of the jump, and the
// midpoint of the eased curve is the least surprising choice for both forward and reverse phases.
func interpolate(base, target any, t float64) any {
	switch tv := target.(type) {
	case float64:
		bv, _ := base.(float64)
		return bv + (tv-bv)*t
	case color.RGBA:
		bv, ok := base.(color.RGBA)
		if !ok {
			bv = color.RGBA{A: 0xFF}
		}
		return color.RGBA{
			R: lerp8(bv.R, tv.R, t),
			G: lerp8(bv.G, tv.G, t),
			B: lerp8(bv.B, tv.B, t),
			A: lerp8(bv.A, tv.A, t),
		}
	default:
		if t >= 0.5 {
			return target
		}
		return base
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
