// Package color parses and canonicalizes FD color literals: 6-digit hex colors and the fixed
// 17-entry named palette (spec.md §4.1). Grounded on the teacher's token.go map-based two-way
// lookup table idiom (name↔value), applied here to color names instead of keywords.
package color

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RGBA is a color in 8-bit-per-channel RGBA, alpha defaulting to fully opaque.
type RGBA struct {
	R, G, B, A uint8
}

// namedPalette is the fixed 17-color palette accepted as a bare identifier value, e.g. "fill:
// purple". Canonical hex values below match common CSS/Tailwind-ish swatches; the exact shade is
// an implementation choice since spec.md only requires a stable palette of 17.
var namedPalette = map[string]RGBA{
	"purple":   {0xA8, 0x55, 0xF7, 0xFF},
	"blue":     {0x00, 0x7A, 0xFF, 0xFF},
	"red":      {0xFF, 0x3B, 0x30, 0xFF},
	"green":    {0x34, 0xC7, 0x59, 0xFF},
	"orange":   {0xFF, 0x95, 0x00, 0xFF},
	"yellow":   {0xFF, 0xCC, 0x00, 0xFF},
	"pink":     {0xFF, 0x2D, 0x55, 0xFF},
	"teal":     {0x30, 0xB0, 0xC7, 0xFF},
	"indigo":   {0x5E, 0x5C, 0xE6, 0xFF},
	"cyan":     {0x32, 0xAD, 0xE6, 0xFF},
	"brown":    {0xA2, 0x84, 0x5E, 0xFF},
	"gray":     {0x8E, 0x8E, 0x93, 0xFF},
	"black":    {0x00, 0x00, 0x00, 0xFF},
	"white":    {0xFF, 0xFF, 0xFF, 0xFF},
	"lime":     {0xA0, 0xE4, 0x26, 0xFF},
	"navy":     {0x1E, 0x3A, 0x5F, 0xFF},
	"maroon":   {0x80, 0x1F, 0x1F, 0xFF},
}

// hexByColor is the reverse index of namedPalette, used when emitting a hint comment for a hex
// value that matches a named color exactly (spec.md §4.4 item 6).
var hexByColor map[RGBA]string

func init() {
	hexByColor = make(map[RGBA]string, len(namedPalette))
	for name, rgba := range namedPalette {
		hexByColor[rgba] = name
	}
}

// Parse parses an FD color literal: either a 3/6-digit "#rgb"/"#rrggbb" hex literal or one of the
// 17 named colors. It returns an error describing which form failed to match.
func Parse(literal string) (RGBA, error) {
	if strings.HasPrefix(literal, "#") {
		return parseHex(literal)
	}
	if rgba, ok := namedPalette[strings.ToLower(literal)]; ok {
		return rgba, nil
	}
	return RGBA{}, fmt.Errorf("color: %q is not a hex literal or one of the %d named colors", literal, len(namedPalette))
}

func parseHex(literal string) (RGBA, error) {
	hex := strings.TrimPrefix(literal, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
		// already full form
	default:
		return RGBA{}, fmt.Errorf("color: bad hex literal %q: want 3 or 6 digits after '#'", literal)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("color: bad hex literal %q: %v", literal, err)
	}
	return RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

// Hex returns the canonical 6-digit uppercase hex string for c, e.g. "#FF0000".
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NamedHint returns the palette name matching c exactly and true, or ("", false) if c does not
// correspond to one of the 17 named colors. Used by the emitter to append a "# purple" hint
// comment (spec.md §4.4 item 6).
func NamedHint(c RGBA) (string, bool) {
	name, ok := hexByColor[RGBA{c.R, c.G, c.B, 0xFF}]
	return name, ok
}

// Lerp linearly interpolates each channel between a and b by t ∈ [0,1], used by the tween engine
// for color-valued animations (spec.md §4.9).
func Lerp(a, b RGBA, t float64) RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return RGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: lerpChannel(a.A, b.A, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// Names returns the sorted names of the built-in palette, useful for diagnostics and completion.
func Names() []string {
	names := make([]string, 0, len(namedPalette))
	for name := range namedPalette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
