package fd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fdcanvas/fd/ast"
	"github.com/fdcanvas/fd/internal/assert"
	"github.com/fdcanvas/fd/token"
)

// ErrorKind classifies a parse error, letting callers (editors, the sync engine's diagnostics
// message) filter or style errors without string-matching Msg.
type ErrorKind int

const (
	LexError ErrorKind = iota
	UnexpectedToken
	DuplicateID
	BadHex
	UnbalancedBraces
	UnknownProperty // Severity == Warning; neither the parser nor scene.Build reports this kind
)

// Severity distinguishes hard errors from advisory warnings (spec.md §4.1 "unknown properties are
// preserved and reported as warnings, not errors").
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Error is a single parse or scan error, positioned at the offending token.
type Error struct {
	Pos      token.Position
	Kind     ErrorKind
	Severity Severity
	Msg      string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser is an error-recovering recursive-descent parser for FD source. It always produces a
// *ast.Document, collecting every error along the way rather than stopping at the first one, so a
// host editor can show diagnostics for a whole file in one pass.
type Parser struct {
	scanner *Scanner
	cur     token.Token
	peek    token.Token
	errors  []Error

	anonCounters map[string]int
	seenIDs      map[string]token.Position
}

// NewParser creates a parser reading FD source from r. The returned error is non-nil only for
// terminal I/O failures initializing the scanner.
func NewParser(r io.Reader) (*Parser, error) {
	sc, err := NewScanner(r)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		scanner:      sc,
		anonCounters: make(map[string]int),
		seenIDs:      make(map[string]token.Position),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Errors returns every error and warning collected while parsing.
func (p *Parser) Errors() []Error {
	return p.errors
}

// advance skips comment tokens and shifts the lookahead window by one token. It always returns
// nil: a scanner failure is recorded as a LexError and the lookahead becomes EOF.
func (p *Parser) advance() error {
	var tok token.Token
	for {
		t, err := p.scanner.Next()
		if err != nil {
			p.errorAt(ScanErrorPosition(err), LexError, SeverityError, err.Error())
			tok = token.Token{Kind: token.EOF}
			break
		}
		if t.Kind == token.Comment {
			continue
		}
		tok = t
		break
	}
	p.cur = p.peek
	p.peek = tok
	return nil
}

// ScanErrorPosition extracts the source position from a scanner error, falling back to the zero
// Position when err does not carry one.
func ScanErrorPosition(err error) token.Position {
	if se, ok := err.(ScanError); ok {
		return se.Pos
	}
	return token.Position{}
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind&k != 0 }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind&k != 0 }

func (p *Parser) errorAt(pos token.Position, kind ErrorKind, sev Severity, msg string) {
	p.errors = append(p.errors, Error{Pos: pos, Kind: kind, Severity: sev, Msg: msg})
}

func (p *Parser) errorHere(kind ErrorKind, msg string) {
	p.errorAt(p.cur.Start, kind, SeverityError, msg)
}

// expect consumes the current token if it matches want, otherwise records an UnexpectedToken
// error and leaves the cursor in place so the caller can attempt recovery.
func (p *Parser) expect(want token.Kind, label string) (token.Token, bool) {
	if p.curIs(want) {
		tok := p.cur
		p.advance()
		return tok, true
	}
	p.errorHere(UnexpectedToken, fmt.Sprintf("unexpected %s, expected %s", p.cur.String(), label))
	return token.Token{}, false
}

// skipToSync advances past tokens until one of sync or EOF is reached; the skipped tokens are
// discarded without recording anything. Used after a malformed item
// inside a node/edge/theme body so a single typo does not abort parsing of the rest of the file.
func (p *Parser) skipToSync(sync token.Kind) {
	for !p.curIs(sync|token.EOF) {
		p.advance()
	}
}

// Parse parses the whole input and returns the document AST together with any errors. Parse
// always returns a non-nil *ast.Document, even in the presence of errors.
func (p *Parser) Parse() (*ast.Document, []Error) {
	doc := &ast.Document{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStmt()
		if stmt != nil {
			doc.Stmts = append(doc.Stmts, stmt)
		}
	}
	return doc, p.errors
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.curIs(token.KwTheme | token.KwStyle):
		return p.parseTheme()
	case p.curIs(token.KwNode):
		return p.parseNode()
	case p.curIs(token.KwEdge):
		return p.parseEdge()
	case p.curIs(token.KwUse):
		return p.parseImport()
	case p.curIs(token.NodeID) && p.peekIs(token.Arrow):
		return p.parseConstraint()
	default:
		p.errorHere(UnexpectedToken, fmt.Sprintf("unexpected %s at top level", p.cur.String()))
		p.advance()
		return nil
	}
}

func (p *Parser) parseTheme() *ast.ThemeDecl {
	start := p.cur.Start
	p.advance() // 'theme'/'style'

	name := ast.Ident{}
	if p.curIs(token.Ident) {
		name = ast.Ident{Name: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
	} else {
		p.errorHere(UnexpectedToken, "expected a theme name")
	}

	t := &ast.ThemeDecl{Name: name, StartPos: start}
	if _, ok := p.expect(token.LeftBrace, "{"); ok {
		for !p.curIs(token.RightBrace | token.EOF) {
			if !p.curIs(token.Ident) {
				p.errorHere(UnexpectedToken, "expected a property inside theme body")
				p.skipToSync(token.RightBrace)
				break
			}
			t.Props = append(t.Props, p.parseProperty())
		}
		end, _ := p.expect(token.RightBrace, "}")
		t.EndPos = end.End
	}
	if t.EndPos == (token.Position{}) {
		t.EndPos = p.cur.Start
	}
	return t
}

func (p *Parser) parseImport() *ast.ImportStmt {
	start := p.cur.Start
	p.advance() // 'use'
	i := &ast.ImportStmt{StartPos: start}
	tok, ok := p.expect(token.String, "a quoted path")
	if ok {
		i.Path = ast.StringLit{Value: tok.Literal, StartPos: tok.Start, EndPos: tok.End}
		i.EndPos = tok.End
	} else {
		i.EndPos = start
	}
	return i
}

func (p *Parser) parseConstraint() *ast.ConstraintStmt {
	idTok := p.cur
	p.advance() // NodeID
	c := &ast.ConstraintStmt{
		Target:   ast.NodeID{ID: idTok.Literal, StartPos: idTok.Start, EndPos: idTok.End},
		StartPos: idTok.Start,
	}
	p.advance() // '->'
	if p.curIs(token.Ident) {
		c.Name = ast.Ident{Name: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
	} else {
		p.errorHere(UnexpectedToken, "expected a constraint name")
	}
	if _, ok := p.expect(token.Colon, ":"); ok {
		c.Values = p.parseValueList()
	}
	if len(c.Values) > 0 {
		c.EndPos = c.Values[len(c.Values)-1].End()
	} else {
		c.EndPos = c.Name.End()
	}
	return c
}

// parseNode parses a shape/group/frame/text node declaration. Anonymous nodes (no `@id` given)
// receive a synthesized `_<kind>_<N>` id (spec.md §4.1 "Anonymous IDs").
func (p *Parser) parseNode() *ast.NodeDecl {
	assert.That(p.curIs(token.KwNode), "current token must be a node keyword, got %s", p.cur)
	kind := p.cur.Literal
	start := p.cur.Start
	p.advance() // shape keyword

	n := &ast.NodeDecl{Kind: kind, StartPos: start}

	if p.curIs(token.NodeID) {
		id := p.resolveNodeID(p.cur)
		n.ID = &id
		p.advance()
	} else {
		n.ID = p.synthesizeID(kind, start)
	}

	if p.curIs(token.String) {
		n.Label = &ast.StringLit{Value: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
	}

	if _, ok := p.expect(token.LeftBrace, "{"); ok {
		n.Items = p.parseItems()
		end, _ := p.expect(token.RightBrace, "}")
		n.EndPos = end.End
	}
	if n.EndPos == (token.Position{}) {
		n.EndPos = p.cur.Start
	}
	return n
}

// resolveNodeID turns a scanned NodeID token into an ast.NodeID, recording a DuplicateID error
// (spec.md invariant: ids must be unique) the second time an id is seen.
func (p *Parser) resolveNodeID(tok token.Token) ast.NodeID {
	if prior, seen := p.seenIDs[tok.Literal]; seen {
		p.errorAt(tok.Start, DuplicateID, SeverityError,
			fmt.Sprintf("duplicate id @%s, first declared at %s", tok.Literal, prior))
	} else {
		p.seenIDs[tok.Literal] = tok.Start
	}
	return ast.NodeID{ID: tok.Literal, StartPos: tok.Start, EndPos: tok.End}
}

func (p *Parser) synthesizeID(kind string, pos token.Position) *ast.NodeID {
	n := p.anonCounters[kind]
	p.anonCounters[kind] = n + 1
	id := fmt.Sprintf("_%s_%d", kind, n)
	p.seenIDs[id] = pos
	return &ast.NodeID{ID: id, Synthetic: true, StartPos: pos, EndPos: pos}
}

// parseItems parses the body of a node: a mix of properties, nested nodes, nested edges, when
// blocks, and a spec block, in any order (spec.md §4.1 item grammar).
func (p *Parser) parseItems() []ast.Item {
	var items []ast.Item
	for !p.curIs(token.RightBrace | token.EOF) {
		switch {
		case p.curIs(token.Ident):
			items = append(items, p.parseProperty())
		case p.curIs(token.KwNode):
			items = append(items, p.parseNode())
		case p.curIs(token.KwEdge):
			items = append(items, p.parseEdge())
		case p.curIs(token.KwWhen | token.KwAnim):
			items = append(items, p.parseWhen())
		case p.curIs(token.KwSpec):
			items = append(items, p.parseSpec())
		default:
			p.errorHere(UnexpectedToken, "expected a property, nested node, edge, when block, or spec block")
			p.skipToSync(token.RightBrace | token.KwNode | token.KwEdge | token.KwWhen | token.KwAnim | token.KwSpec | token.Ident)
		}
	}
	return items
}

func (p *Parser) parseWhen() *ast.WhenBlock {
	start := p.cur.Start
	p.advance() // 'when'/'anim'
	w := &ast.WhenBlock{StartPos: start}

	if _, ok := p.expect(token.Colon, ":"); ok {
		if p.curIs(token.Ident) {
			w.Trigger = ast.Ident{Name: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
			p.advance()
		} else {
			p.errorHere(UnexpectedToken, "expected a trigger name after when:")
		}
	}

	if _, ok := p.expect(token.LeftBrace, "{"); ok {
		for !p.curIs(token.RightBrace | token.EOF) {
			if !p.curIs(token.Ident) {
				p.errorHere(UnexpectedToken, "expected a property inside when body")
				p.skipToSync(token.RightBrace)
				break
			}
			w.Props = append(w.Props, p.parseProperty())
		}
		end, _ := p.expect(token.RightBrace, "}")
		w.EndPos = end.End
	}
	if w.EndPos == (token.Position{}) {
		w.EndPos = p.cur.Start
	}
	return w
}

// specKeys are the recognized `key: value` entries inside a brace-form spec block (spec.md §6).
var specKeys = map[string]bool{"accept": true, "status": true, "priority": true, "tag": true}

func (p *Parser) parseSpec() *ast.SpecBlock {
	start := p.cur.Start
	p.advance() // 'spec'
	s := &ast.SpecBlock{StartPos: start}

	if p.curIs(token.String) {
		s.Items = append(s.Items, ast.SpecItem{Text: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End})
		s.EndPos = p.cur.End
		p.advance()
		return s
	}

	if _, ok := p.expect(token.LeftBrace, "{ or a quoted description"); ok {
		for !p.curIs(token.RightBrace | token.EOF) {
			itemStart := p.cur.Start
			switch {
			case p.curIs(token.String):
				s.Items = append(s.Items, ast.SpecItem{Text: p.cur.Literal, StartPos: itemStart, EndPos: p.cur.End})
				p.advance()
			case p.curIs(token.Ident) && specKeys[p.cur.Literal]:
				key := p.cur.Literal
				p.advance()
				var text string
				end := itemStart
				if _, ok := p.expect(token.Colon, ":"); ok {
					if p.curIs(token.String) || p.curIs(token.Ident) {
						text = p.cur.Literal
						end = p.cur.End
						p.advance()
					} else {
						p.errorHere(UnexpectedToken, fmt.Sprintf("expected a value for spec.%s", key))
					}
				}
				s.Items = append(s.Items, ast.SpecItem{Key: key, Text: text, StartPos: itemStart, EndPos: end})
			default:
				p.errorHere(UnexpectedToken, "expected a description string or accept/status/priority/tag")
				p.skipToSync(token.RightBrace)
			}
		}
		end, _ := p.expect(token.RightBrace, "}")
		s.EndPos = end.End
	}
	if s.EndPos == (token.Position{}) {
		s.EndPos = p.cur.Start
	}
	return s
}

// parseEdge parses an `edge [@id] { from: ... to: ... ... }` statement, used both at the top
// level and nested inside a node body.
func (p *Parser) parseEdge() *ast.EdgeDecl {
	assert.That(p.curIs(token.KwEdge), "current token must be the edge keyword, got %s", p.cur)
	start := p.cur.Start
	p.advance() // 'edge'

	e := &ast.EdgeDecl{StartPos: start}
	if p.curIs(token.NodeID) {
		id := p.resolveNodeID(p.cur)
		e.ID = &id
		p.advance()
	}

	if _, ok := p.expect(token.LeftBrace, "{"); ok {
		for !p.curIs(token.RightBrace | token.EOF) {
			switch {
			case p.curIs(token.KwFrom):
				p.advance()
				p.expect(token.Colon, ":")
				e.From = p.parseEdgeAnchor()
			case p.curIs(token.KwTo):
				p.advance()
				p.expect(token.Colon, ":")
				e.To = p.parseEdgeAnchor()
			case p.curIs(token.Ident):
				e.Items = append(e.Items, p.parseProperty())
			case p.curIs(token.KwNode) && p.cur.Literal == "text":
				e.Items = append(e.Items, p.parseNode())
			default:
				p.errorHere(UnexpectedToken, "expected from:, to:, a property, or a text label inside edge body")
				p.skipToSync(token.RightBrace | token.KwFrom | token.KwTo | token.Ident)
			}
		}
		end, _ := p.expect(token.RightBrace, "}")
		e.EndPos = end.End
	}
	if e.EndPos == (token.Position{}) {
		e.EndPos = p.cur.Start
	}
	return e
}

func (p *Parser) parseEdgeAnchor() ast.EdgeAnchor {
	if p.curIs(token.NodeID) {
		id := ast.NodeID{ID: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
		return ast.EdgeAnchor{Node: &id}
	}
	if p.curIs(token.Number) {
		x := p.parseNumber()
		y := p.parseNumber()
		return ast.EdgeAnchor{Point: &ast.PointLit{X: x, Y: y}}
	}
	p.errorHere(UnexpectedToken, "expected a node id or an x y point for an edge endpoint")
	return ast.EdgeAnchor{}
}

// parseProperty parses `name: value value ...`, e.g. `fill: #FF0000` or `layout: column gap=10`.
func (p *Parser) parseProperty() *ast.Property {
	name := ast.Ident{Name: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
	start := p.cur.Start
	p.advance()

	prop := &ast.Property{Name: name, StartPos: start}
	if _, ok := p.expect(token.Colon, ":"); ok {
		prop.Values = p.parseValueList()
	}
	if len(prop.Values) > 0 {
		prop.EndPos = prop.Values[len(prop.Values)-1].End()
	} else {
		prop.EndPos = name.End()
	}
	return prop
}

// parseValueList parses a run of space-separated values terminated by a token that cannot start a
// value (closing brace, another property name followed by ':', EOF, ...).
func (p *Parser) parseValueList() []ast.Value {
	var values []ast.Value
	for p.curIs(token.Number | token.HexColor | token.String | token.Ident) {
		if p.curIs(token.Ident) && p.peekIs(token.Colon) {
			break // this identifier starts the next property, not a value
		}
		values = append(values, p.parseValue())
	}
	return values
}

func (p *Parser) parseValue() ast.Value {
	switch {
	case p.curIs(token.Number):
		n := p.parseNumber()
		return n
	case p.curIs(token.HexColor):
		h := ast.HexColorLit{Literal: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
		return h
	case p.curIs(token.String):
		s := ast.StringLit{Value: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
		return s
	case p.curIs(token.Ident):
		key := ast.Ident{Name: p.cur.Literal, StartPos: p.cur.Start, EndPos: p.cur.End}
		p.advance()
		if p.curIs(token.Equal) {
			p.advance()
			return ast.KVPair{Key: key, Value: p.parseValue()}
		}
		return key
	default:
		p.errorHere(UnexpectedToken, "expected a value")
		return ast.Ident{StartPos: p.cur.Start, EndPos: p.cur.Start}
	}
}

// parseNumber splits a scanned Number token's literal into its numeric value and any attached
// unit suffix (e.g. "100px" -> 100, "px").
func (p *Parser) parseNumber() ast.NumberLit {
	tok := p.cur
	p.advance()

	digits, unit := splitUnit(tok.Literal)
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		p.errorAt(tok.Start, UnexpectedToken, SeverityError, fmt.Sprintf("malformed number %q", tok.Literal))
	}
	return ast.NumberLit{Value: v, Unit: unit, Raw: tok.Literal, StartPos: tok.Start, EndPos: tok.End}
}

func splitUnit(literal string) (digits, unit string) {
	i := strings.IndexFunc(literal, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	if i < 0 {
		return literal, ""
	}
	return literal[:i], literal[i:]
}
