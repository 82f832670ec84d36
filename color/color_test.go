package color_test

import (
	"testing"

	"github.com/fdcanvas/fd/color"
	"github.com/teleivo/assertive/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    color.RGBA
		wantErr bool
	}{
		{name: "six digit hex", literal: "#FF0000", want: color.RGBA{R: 0xFF, A: 0xFF}},
		{name: "lowercase hex", literal: "#00ff00", want: color.RGBA{G: 0xFF, A: 0xFF}},
		{name: "three digit hex", literal: "#00f", want: color.RGBA{B: 0xFF, A: 0xFF}},
		{name: "named color", literal: "black", want: color.RGBA{A: 0xFF}},
		{name: "named color case insensitive", literal: "Black", want: color.RGBA{A: 0xFF}},
		{name: "unknown literal", literal: "chartreuse", wantErr: true},
		{name: "bad hex length", literal: "#12345", wantErr: true},
		{name: "non hex digits", literal: "#zzzzzz", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := color.Parse(test.literal)
			if test.wantErr {
				assert.True(t, err != nil, "Parse(%q) expected an error", test.literal)
				return
			}
			assert.NoError(t, err)
			assert.Equals(t, got, test.want, "Parse(%q)", test.literal)
		})
	}
}

func TestHexRoundtrip(t *testing.T) {
	c, err := color.Parse("#a8f")
	assert.NoError(t, err)
	assert.Equals(t, c.Hex(), "#AA88FF", "Hex()")
}

func TestNamedHint(t *testing.T) {
	red, err := color.Parse("red")
	assert.NoError(t, err)

	name, ok := color.NamedHint(red)
	assert.True(t, ok, "NamedHint should find a match for the exact red swatch")
	assert.Equals(t, name, "red", "NamedHint name")

	_, ok = color.NamedHint(color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})
	assert.True(t, !ok, "NamedHint should not match an arbitrary color")
}

func TestLerp(t *testing.T) {
	a := color.RGBA{R: 0, A: 0xFF}
	b := color.RGBA{R: 200, A: 0xFF}

	got := color.Lerp(a, b, 0.5)
	assert.Equals(t, got.R, uint8(100), "Lerp midpoint red channel")

	got = color.Lerp(a, b, -1)
	assert.Equals(t, got, a, "Lerp clamps t below 0")

	got = color.Lerp(a, b, 2)
	assert.Equals(t, got, b, "Lerp clamps t above 1")
}
