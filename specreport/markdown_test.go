package specreport_test

import (
	"strings"
	"testing"

	"github.com/fdcanvas/fd/scene"
	"github.com/fdcanvas/fd/specreport"
	"github.com/teleivo/assertive/assert"
)

func TestBuildEmitsHeadingAndAcceptanceCheckboxes(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{
		ID:   "submit",
		Kind: scene.KindRect,
		Spec: &scene.SpecAnnotation{
			Description: "Primary submit button",
			Status:      "draft",
			Accept:      []string{"disabled while the form is invalid", "shows a spinner while saving"},
		},
	}))

	out := specreport.Build(g)
	assert.True(t, strings.Contains(out, "## @submit"), "expected a heading per node")
	assert.True(t, strings.Contains(out, "**Status:** draft"), "expected a bold field label")
	assert.True(t, strings.Contains(out, "- [ ] disabled while the form is invalid"), "expected an unchecked acceptance box")
}

func TestBuildSkipsNodesWithoutSpecBlock(t *testing.T) {
	g := scene.New()
	assert.NoError(t, g.Insert("", &scene.Node{ID: "plain", Kind: scene.KindRect}))

	out := specreport.Build(g)
	assert.Equals(t, out, "", "a node without a spec block should not appear in the report")
}

func TestRenderHTMLConvertsHeading(t *testing.T) {
	html, err := specreport.RenderHTML("## @submit\n\nPrimary submit button\n")
	assert.NoError(t, err)
	assert.True(t, strings.Contains(html, "<h2"), "expected goldmark to render the heading as HTML")
}
