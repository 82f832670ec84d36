// Package ast contains the typed abstract syntax tree produced by the FD parser (spec.md §4.1).
//
// Grounded on the teacher's root-level ast/ast.go: typed nodes implementing a small Node
// interface (String/Start/End) plus marker interfaces per grammar category, rather than a
// generic concrete-syntax-tree of interchangeable nodes. FD's grammar (theme/node/edge/
// constraint/import at the top level; property/node/edge/when/spec inside a node body) maps
// directly onto that shape.
package ast

import (
	"strings"

	"github.com/fdcanvas/fd/token"
)

// Node is implemented by every AST node.
type Node interface {
	String() string
	Start() token.Position
	End() token.Position
}

// Stmt is a top-level document statement.
type Stmt interface {
	Node
	stmtNode()
}

// Item is a statement allowed inside a node body (property, nested node, nested edge, when block,
// spec block).
type Item interface {
	Node
	itemNode()
}

// Document is the root of an FD source file: an ordered sequence of top-level statements. Parse
// errors are returned separately by the parser, and comments are not kept.
type Document struct {
	Stmts []Stmt
}

func (d *Document) String() string {
	var out strings.Builder
	for i, s := range d.Stmts {
		if i > 0 {
			out.WriteRune('\n')
		}
		out.WriteString(s.String())
	}
	return out.String()
}

func (d *Document) Start() token.Position {
	if len(d.Stmts) == 0 {
		return token.Position{}
	}
	return d.Stmts[0].Start()
}

func (d *Document) End() token.Position {
	if len(d.Stmts) == 0 {
		return token.Position{}
	}
	return d.Stmts[len(d.Stmts)-1].End()
}

// Ident is a bare FD identifier.
type Ident struct {
	Name       string
	StartPos   token.Position
	EndPos     token.Position
}

func (id Ident) String() string       { return id.Name }
func (id Ident) Start() token.Position { return id.StartPos }
func (id Ident) End() token.Position   { return id.EndPos }

// NodeID is a stable `@id` reference, either parsed from source or synthesized for an anonymous
// node (spec.md §3.1, §4.1 "Anonymous IDs").
type NodeID struct {
	ID         string // without the leading '@'
	Synthetic  bool   // true if this id was generated (`_<kind>_<N>`), not written in source
	StartPos   token.Position
	EndPos     token.Position
}

func (n NodeID) String() string       { return "@" + n.ID }
func (n NodeID) Start() token.Position { return n.StartPos }
func (n NodeID) End() token.Position   { return n.EndPos }

// StringLit is a quoted string literal.
type StringLit struct {
	Value      string
	StartPos   token.Position
	EndPos     token.Position
}

func (s StringLit) String() string       { return `"` + s.Value + `"` }
func (s StringLit) Start() token.Position { return s.StartPos }
func (s StringLit) End() token.Position   { return s.EndPos }

// Value is implemented by every FD property value variant: NumberLit, HexColorLit, StringLit,
// Ident, KVPair. This is the "small value enum" called for by spec.md §9 ("Dynamic property
// values").
type Value interface {
	Node
	valueNode()
}

func (StringLit) valueNode() {}
func (Ident) valueNode()     {}

// NumberLit is a numeric value with an optional unit suffix (spec.md: "dimension units px are
// stripped").
type NumberLit struct {
	Value      float64
	Unit       string // e.g. "px"; empty if none
	Raw        string // original literal text, preserved for round-trip of integers vs decimals
	StartPos   token.Position
	EndPos     token.Position
}

func (n NumberLit) String() string {
	return n.Raw
}
func (n NumberLit) Start() token.Position { return n.StartPos }
func (n NumberLit) End() token.Position   { return n.EndPos }
func (NumberLit) valueNode()              {}

// HexColorLit is a `#rrggbb`/`#rgb` color literal.
type HexColorLit struct {
	Literal    string
	StartPos   token.Position
	EndPos     token.Position
}

func (h HexColorLit) String() string       { return h.Literal }
func (h HexColorLit) Start() token.Position { return h.StartPos }
func (h HexColorLit) End() token.Position   { return h.EndPos }
func (HexColorLit) valueNode()              {}

// KVPair is a `key=value` value, e.g. `layout: column gap=10`.
type KVPair struct {
	Key        Ident
	Value      Value
}

func (k KVPair) String() string       { return k.Key.String() + "=" + k.Value.String() }
func (k KVPair) Start() token.Position { return k.Key.Start() }
func (k KVPair) End() token.Position   { return k.Value.End() }
func (KVPair) valueNode()              {}

// Property is a `name: value value ...` statement, e.g. `fill: #FF0000` or `layout: column
// gap=10`.
type Property struct {
	Name       Ident
	Values     []Value
	StartPos   token.Position
	EndPos     token.Position
}

func (p *Property) String() string {
	var out strings.Builder
	out.WriteString(p.Name.Name)
	out.WriteString(": ")
	for i, v := range p.Values {
		if i > 0 {
			out.WriteRune(' ')
		}
		out.WriteString(v.String())
	}
	return out.String()
}
func (p *Property) Start() token.Position { return p.StartPos }
func (p *Property) End() token.Position   { return p.EndPos }
func (p *Property) itemNode()             {}

// ThemeDecl is a `theme`/`style` declaration (spec.md §3.1 "Theme").
type ThemeDecl struct {
	Name       Ident
	Props      []*Property
	StartPos   token.Position
	EndPos     token.Position
}

func (t *ThemeDecl) String() string {
	var out strings.Builder
	out.WriteString("theme ")
	out.WriteString(t.Name.Name)
	out.WriteString(" {")
	for _, p := range t.Props {
		out.WriteRune(' ')
		out.WriteString(p.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (t *ThemeDecl) Start() token.Position { return t.StartPos }
func (t *ThemeDecl) End() token.Position   { return t.EndPos }
func (t *ThemeDecl) stmtNode()             {}

// WhenBlock is a `when:trigger { ... }` / `anim:trigger { ... }` animation override block
// (spec.md §3.1 "animations").
type WhenBlock struct {
	Trigger    Ident
	Props      []*Property
	StartPos   token.Position
	EndPos     token.Position
}

func (w *WhenBlock) String() string {
	var out strings.Builder
	out.WriteString("when:")
	out.WriteString(w.Trigger.Name)
	out.WriteString(" {")
	for _, p := range w.Props {
		out.WriteRune(' ')
		out.WriteString(p.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (w *WhenBlock) Start() token.Position { return w.StartPos }
func (w *WhenBlock) End() token.Position   { return w.EndPos }
func (w *WhenBlock) itemNode()             {}

// SpecItem is a single entry inside a brace-form spec block: either a bare description string or
// a `key: value` pair (accept/status/priority/tag).
type SpecItem struct {
	Key        string // "accept", "status", "priority", "tag", or "" for a bare description string
	Text       string // value: the description, or the accept/status/priority/tag text
	StartPos   token.Position
	EndPos     token.Position
}

func (s SpecItem) String() string {
	if s.Key == "" {
		return `"` + s.Text + `"`
	}
	return s.Key + ": " + s.Text
}
func (s SpecItem) Start() token.Position { return s.StartPos }
func (s SpecItem) End() token.Position   { return s.EndPos }

// SpecBlock is a `spec "..."` or `spec { ... }` annotation (spec.md §3.1 "spec").
type SpecBlock struct {
	Items      []SpecItem
	StartPos   token.Position
	EndPos     token.Position
}

func (s *SpecBlock) String() string {
	var out strings.Builder
	out.WriteString("spec {")
	for _, it := range s.Items {
		out.WriteRune(' ')
		out.WriteString(it.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (s *SpecBlock) Start() token.Position { return s.StartPos }
func (s *SpecBlock) End() token.Position   { return s.EndPos }
func (s *SpecBlock) itemNode()             {}

// NodeDecl is a shape/group/frame/text node declaration. It doubles as an Item so nodes can nest
// (a group's children are NodeDecls/EdgeDecls inside its Items).
type NodeDecl struct {
	Kind       string // "group", "frame", "rect", "ellipse", "path", "text"
	ID         *NodeID
	Label      *StringLit // legacy inline string right after the kind, e.g. `text @t "Hello"`
	Items      []Item
	StartPos   token.Position
	EndPos     token.Position
}

func (n *NodeDecl) String() string {
	var out strings.Builder
	out.WriteString(n.Kind)
	if n.ID != nil {
		out.WriteRune(' ')
		out.WriteString(n.ID.String())
	}
	if n.Label != nil {
		out.WriteRune(' ')
		out.WriteString(n.Label.String())
	}
	out.WriteString(" {")
	for _, it := range n.Items {
		out.WriteRune(' ')
		out.WriteString(it.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (n *NodeDecl) Start() token.Position { return n.StartPos }
func (n *NodeDecl) End() token.Position   { return n.EndPos }
func (n *NodeDecl) stmtNode()             {}
func (n *NodeDecl) itemNode()             {}

// EdgeAnchor is either a NodeID reference or a free (x,y) point (spec.md §3.1 "EdgeAnchor").
type EdgeAnchor struct {
	Node   *NodeID
	Point  *PointLit
}

// PointLit is a literal `x y` point pair used as a free edge endpoint.
type PointLit struct {
	X, Y       NumberLit
}

func (p PointLit) String() string       { return p.X.String() + " " + p.Y.String() }
func (p PointLit) Start() token.Position { return p.X.Start() }
func (p PointLit) End() token.Position   { return p.Y.End() }

func (a EdgeAnchor) String() string {
	if a.Node != nil {
		return a.Node.String()
	}
	if a.Point != nil {
		return a.Point.String()
	}
	return ""
}

// EdgeDecl is an `edge [@id] { from: ... to: ... ... }` statement. It is both a Stmt (top-level
// edges) and an Item (edges nested inside a node body).
type EdgeDecl struct {
	ID         *NodeID
	From, To   EdgeAnchor
	Items      []Item // properties and a nested label text child
	StartPos   token.Position
	EndPos     token.Position
}

func (e *EdgeDecl) String() string {
	var out strings.Builder
	out.WriteString("edge")
	if e.ID != nil {
		out.WriteRune(' ')
		out.WriteString(e.ID.String())
	}
	out.WriteString(" { from: ")
	out.WriteString(e.From.String())
	out.WriteString(" to: ")
	out.WriteString(e.To.String())
	for _, it := range e.Items {
		out.WriteRune(' ')
		out.WriteString(it.String())
	}
	out.WriteString(" }")
	return out.String()
}
func (e *EdgeDecl) Start() token.Position { return e.StartPos }
func (e *EdgeDecl) End() token.Position   { return e.EndPos }
func (e *EdgeDecl) stmtNode()             {}
func (e *EdgeDecl) itemNode()             {}

// ConstraintStmt is a legacy top-level `@id -> constraint: values` line (spec.md grammar
// `constraint`). The canonical emission of constraints is as inline properties on the node, but
// the parser still accepts the legacy standalone form.
type ConstraintStmt struct {
	Target     NodeID
	Name       Ident
	Values     []Value
	StartPos   token.Position
	EndPos     token.Position
}

func (c *ConstraintStmt) String() string {
	var out strings.Builder
	out.WriteString(c.Target.String())
	out.WriteString(" -> ")
	out.WriteString(c.Name.Name)
	out.WriteString(":")
	for _, v := range c.Values {
		out.WriteRune(' ')
		out.WriteString(v.String())
	}
	return out.String()
}
func (c *ConstraintStmt) Start() token.Position { return c.StartPos }
func (c *ConstraintStmt) End() token.Position   { return c.EndPos }
func (c *ConstraintStmt) stmtNode()             {}

// ImportStmt is a `use "path"` directive. Resolution of the referenced file is out of scope
// (spec.md §1); the path is retained verbatim for round-trip.
type ImportStmt struct {
	Path       StringLit
	StartPos   token.Position
	EndPos     token.Position
}

func (i *ImportStmt) String() string       { return "use " + i.Path.String() }
func (i *ImportStmt) Start() token.Position { return i.StartPos }
func (i *ImportStmt) End() token.Position   { return i.EndPos }
func (i *ImportStmt) stmtNode()             {}
