package fd_test

import (
	"strings"
	"testing"

	fd "github.com/fdcanvas/fd"
	"github.com/fdcanvas/fd/ast"
	"github.com/teleivo/assertive/assert"
)

func TestParseSimpleRect(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { w: 100 h: 50 fill: #FF0000 }`))
	assert.NoError(t, err)
	doc, errs := p.Parse()

	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 1, "expected 1 top-level statement")
}

func TestParseAnonymousIDsAreSequentialPerKind(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect {} rect {} ellipse {}`))
	assert.NoError(t, err)
	doc, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 3, "expected 3 top-level statements")

	want := []string{"_rect_0", "_rect_1", "_ellipse_0"}
	for i, stmt := range doc.Stmts {
		n, ok := stmt.(*ast.NodeDecl)
		assert.True(t, ok, "statement %d should be a *ast.NodeDecl", i)
		assert.Equals(t, n.ID.ID, want[i], "synthesized id %d", i)
		assert.True(t, n.ID.Synthetic, "synthesized id %d should be marked Synthetic", i)
	}
}

func TestParseDuplicateIDReportsError(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a {} rect @a {}`))
	assert.NoError(t, err)
	_, errs := p.Parse()

	found := false
	for _, e := range errs {
		if e.Kind == fd.DuplicateID {
			found = true
		}
	}
	assert.True(t, found, "expected a DuplicateID error, got %v", errs)
}

func TestParseRecoversFromMalformedProperty(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { w 100 h: 50 }`))
	assert.NoError(t, err)
	doc, errs := p.Parse()

	assert.True(t, len(errs) > 0, "expected at least one recovered error")
	assert.Equals(t, len(doc.Stmts), 1, "parser should still produce the node despite the error")
}

func TestParseEdgeWithNodeAnchors(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`edge @e1 { from: @a to: @b }`))
	assert.NoError(t, err)
	doc, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 1, "expected 1 top-level statement")
}

func TestParseSpecBlockBraceForm(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { spec { "Submit button" status: draft } }`))
	assert.NoError(t, err)
	_, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
}

func TestParseSpecBlockStringForm(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { spec "a simple description" }`))
	assert.NoError(t, err)
	_, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
}

func TestParseWhenBlockWithAnimAlias(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { anim:hover { fill: #00FF00 } }`))
	assert.NoError(t, err)
	_, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
}

func TestParseImportDirective(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`use "shared.fd"`))
	assert.NoError(t, err)
	doc, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 1, "expected 1 top-level statement")
}

func TestParseConstraintLine(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`@a -> position: center`))
	assert.NoError(t, err)
	doc, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 1, "expected 1 top-level statement")
}

func TestParseKVPairValue(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { layout: column gap=10 }`))
	assert.NoError(t, err)
	_, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
}

func TestParseUnitSuffixIsSplitOff(t *testing.T) {
	p, err := fd.NewParser(strings.NewReader(`rect @a { w: 100px }`))
	assert.NoError(t, err)
	doc, errs := p.Parse()
	assert.Equals(t, len(errs), 0, "expected no parse errors, got %v", errs)
	assert.Equals(t, len(doc.Stmts), 1, "expected 1 top-level statement")
}
