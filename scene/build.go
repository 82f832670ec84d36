package scene

import (
	"fmt"
	"strings"

	"github.com/fdcanvas/fd/ast"
	"github.com/fdcanvas/fd/color"
	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/token"
)

// Warning is a non-fatal issue raised while lowering an *ast.Document into a Graph. An unknown
// property name raises no Warning: Build stores it verbatim in InlineStyle.
type Warning struct {
	Pos token.Position
	Msg string
}

// propertyAliases resolves legacy/alternate spellings to FD's canonical property names (spec.md
// §4.1 "Property-name aliases"). Resolved here, one layer above the parser, which stays a
// faithful syntactic pass over whatever name appears in source.
var propertyAliases = map[string]string{
	"background": "fill",
	"color":      "fill",
	"rounded":    "corner",
	"radius":     "corner",
}

// Builder lowers a parsed *ast.Document into a Graph, resolving property aliases, positioning
// constraints, and anonymous-id synthesis for node kinds the parser itself never assigns ids to
// (top-level and nested edges without an explicit `@id`).
type Builder struct {
	graph    *Graph
	warnings []Warning
	anonEdge int
}

// Build lowers doc into a fresh Graph. It never fails outright — a document with parse errors
// still lowers whatever structure was recovered, mirroring the parser's own "always return a
// document" philosophy (spec.md §7 ParseError: "the previous graph is retained" only applies to
// the caller's decision of whether to adopt this result, not to Build itself).
func Build(doc *ast.Document) (*Graph, []Warning) {
	b := &Builder{graph: New()}
	for _, stmt := range doc.Stmts {
		b.buildStmt(stmt)
	}
	return b.graph, b.warnings
}

func (b *Builder) warn(pos token.Position, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (b *Builder) buildStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ThemeDecl:
		b.graph.AddTheme(Theme{Name: s.Name.Name, Props: b.propsToMap(s.Props)})
	case *ast.ImportStmt:
		b.graph.AddImport(s.Path.Value)
	case *ast.ConstraintStmt:
		b.graph.AddLegacyConstraint(LegacyConstraint{
			Target: NodeID(s.Target.ID),
			Name:   s.Name.Name,
			Raw:    joinValues(s.Values),
		})
	case *ast.NodeDecl:
		b.buildNode(s, "")
	case *ast.EdgeDecl:
		b.buildEdge(s, "")
	default:
		b.warn(stmt.Start(), "unrecognized top-level statement %T", stmt)
	}
}

func joinValues(values []ast.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

// buildNode lowers a NodeDecl (and recursively its items) into the graph as a child of parent
// (""for top-level).
func (b *Builder) buildNode(decl *ast.NodeDecl, parent NodeID) NodeID {
	n := &Node{
		ID:          NodeID(decl.ID.ID),
		Kind:        Kind(decl.Kind),
		Anonymous:   decl.ID.Synthetic,
		InlineStyle: make(map[string]any),
		DeclLine:    decl.Start().Line,
		DeclEndLine: decl.End().Line,
	}
	if decl.Kind == string(KindText) && decl.Label != nil {
		n.Text = decl.Label.Value
	}

	if err := b.graph.Insert(parent, n); err != nil {
		b.warn(decl.Start(), "%v", err)
		return n.ID
	}

	// Items are applied after n is linked into the graph: nested node/edge items insert
	// themselves as n's children by looking n up as their parent, so n must already be present.
	for _, item := range decl.Items {
		b.applyItem(n, item)
	}
	return n.ID
}

func (b *Builder) buildEdge(decl *ast.EdgeDecl, parent NodeID) NodeID {
	id := NodeID("")
	anon := true
	if decl.ID != nil {
		id = NodeID(decl.ID.ID)
		anon = decl.ID.Synthetic
	} else {
		id = NodeID(fmt.Sprintf("_edge_%d", b.anonEdge))
		b.anonEdge++
	}

	n := &Node{
		ID:          id,
		Kind:        KindEdge,
		Anonymous:   anon,
		InlineStyle: make(map[string]any),
		From:        b.buildAnchor(decl.From),
		To:          b.buildAnchor(decl.To),
		DeclLine:    decl.Start().Line,
		DeclEndLine: decl.End().Line,
	}

	if err := b.graph.Insert(parent, n); err != nil {
		b.warn(decl.Start(), "%v", err)
		return n.ID
	}

	for _, item := range decl.Items {
		b.applyItem(n, item)
	}
	return n.ID
}

func (b *Builder) buildAnchor(a ast.EdgeAnchor) EdgeAnchor {
	if a.Node != nil {
		return EdgeAnchor{Node: NodeID(a.Node.ID)}
	}
	if a.Point != nil {
		pt := geom.Point{X: a.Point.X.Value, Y: a.Point.Y.Value}
		return EdgeAnchor{Point: &pt}
	}
	return EdgeAnchor{}
}

func (b *Builder) applyItem(n *Node, item ast.Item) {
	switch it := item.(type) {
	case *ast.Property:
		b.applyProperty(n, it)
	case *ast.NodeDecl:
		b.buildNode(it, n.ID)
	case *ast.EdgeDecl:
		b.buildEdge(it, n.ID)
	case *ast.WhenBlock:
		n.Animations = append(n.Animations, b.buildAnimation(it))
	case *ast.SpecBlock:
		n.Spec = b.buildSpec(it)
	default:
		b.warn(item.Start(), "unrecognized item %T", item)
	}
}

// applyProperty resolves one `name: value [kv...]` property onto n, routing it to a positioning
// constraint, intrinsic size, style reference list, or the generic InlineStyle map as
// appropriate (spec.md §4.2 "style and animation storage").
func (b *Builder) applyProperty(n *Node, prop *ast.Property) {
	name := prop.Name.Name
	if canon, ok := propertyAliases[name]; ok {
		name = canon
	}

	var primary ast.Value
	for _, v := range prop.Values {
		if kv, ok := v.(ast.KVPair); ok {
			n.InlineStyle[kv.Key.Name] = b.valueToAny(kv.Value)
			continue
		}
		if primary == nil {
			primary = v
		}
	}

	switch name {
	case "x":
		n.Constraint.Kind = "position"
		n.Constraint.X = numberOf(primary)
	case "y":
		n.Constraint.Kind = "position"
		n.Constraint.Y = numberOf(primary)
	case "w":
		n.HasIntrinsicSize = true
		n.IntrinsicW = numberOf(primary)
	case "h":
		n.HasIntrinsicSize = true
		n.IntrinsicH = numberOf(primary)
	case "offset":
		n.Constraint.Kind = "offset"
		if len(prop.Values) >= 2 {
			n.Constraint.DX = numberOf(prop.Values[0])
			n.Constraint.DY = numberOf(prop.Values[1])
		}
	case "center_in":
		n.Constraint.Kind = "center_in"
		if id, ok := identName(primary); ok && id != "canvas" {
			n.Constraint.Target = NodeID(id)
		}
	case "fill_parent":
		n.Constraint.Kind = "fill_parent"
	case "use":
		for _, v := range prop.Values {
			if id, ok := identName(v); ok {
				n.StyleRefs = append(n.StyleRefs, id)
			}
		}
	default:
		if primary != nil {
			n.InlineStyle[name] = b.valueToAny(primary)
		} else if len(prop.Values) == 0 {
			b.warn(prop.Start(), "property %q has no value", name)
		}
	}
}

func identName(v ast.Value) (string, bool) {
	if id, ok := v.(ast.Ident); ok {
		return id.Name, true
	}
	return "", false
}

func numberOf(v ast.Value) float64 {
	if n, ok := v.(ast.NumberLit); ok {
		return n.Value
	}
	return 0
}

func (b *Builder) valueToAny(v ast.Value) any {
	switch val := v.(type) {
	case ast.NumberLit:
		return val.Value
	case ast.HexColorLit:
		c, err := color.Parse(val.Literal)
		if err != nil {
			return val.Literal
		}
		return c
	case ast.StringLit:
		return val.Value
	case ast.Ident:
		return val.Name
	case ast.KVPair:
		return b.valueToAny(val.Value)
	default:
		return nil
	}
}

func (b *Builder) propsToMap(props []*ast.Property) map[string]any {
	out := make(map[string]any, len(props))
	for _, prop := range props {
		name := prop.Name.Name
		if canon, ok := propertyAliases[name]; ok {
			name = canon
		}
		for _, v := range prop.Values {
			if kv, ok := v.(ast.KVPair); ok {
				out[kv.Key.Name] = b.valueToAny(kv.Value)
				continue
			}
			out[name] = b.valueToAny(v)
		}
	}
	return out
}

func (b *Builder) buildAnimation(w *ast.WhenBlock) Animation {
	a := Animation{Trigger: w.Trigger.Name, Properties: make(map[string]any)}
	for _, prop := range w.Props {
		name := prop.Name.Name
		if canon, ok := propertyAliases[name]; ok {
			name = canon
		}
		var primary ast.Value
		for _, v := range prop.Values {
			if kv, ok := v.(ast.KVPair); ok {
				a.Properties[kv.Key.Name] = b.valueToAny(kv.Value)
				continue
			}
			if primary == nil {
				primary = v
			}
		}
		switch name {
		case "easing":
			if id, ok := identName(primary); ok {
				a.Easing = id
			}
		case "duration":
			a.DurationMS = int(numberOf(primary))
		default:
			if primary != nil {
				a.Properties[name] = b.valueToAny(primary)
			}
		}
	}
	return a
}

func (b *Builder) buildSpec(s *ast.SpecBlock) *SpecAnnotation {
	spec := &SpecAnnotation{}
	for _, item := range s.Items {
		switch item.Key {
		case "":
			spec.Description = item.Text
		case "status":
			spec.Status = item.Text
		case "priority":
			spec.Priority = item.Text
		case "accept":
			spec.Accept = append(spec.Accept, item.Text)
		case "tag":
			spec.Tags = append(spec.Tags, item.Text)
		}
	}
	return spec
}
