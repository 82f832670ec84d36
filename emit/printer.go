// Package emit canonicalizes a scene graph back into FD text (spec.md §4.4). The printer always
// regenerates output from the graph — it never preserves original source formatting — so a single
// document always emits identically regardless of how it was parsed or constructed.
//
// Grounded on the teacher's printer.go: a Printer carrying row/column/indent state and small
// printToken/printSpace/printNewline primitives built directly on an io.Writer. The teacher's
// printer re-interleaves original source comments at their recorded position; FD's printer has no
// such position to preserve (it prints straight from the graph), so that machinery is dropped:
// when a document has two or more sections, they are separated by a single blank line, and no
// separator comments are emitted.
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fdcanvas/fd/color"
	"github.com/fdcanvas/fd/geom"
	"github.com/fdcanvas/fd/scene"
)

// kindPriority orders top-level (and sibling) non-edge nodes for canonical emission (spec.md §4.4
// item 3): group/frame, then rect, ellipse, text, path, anything else.
var kindPriority = map[scene.Kind]int{
	scene.KindGroup:   0,
	scene.KindFrame:   0,
	scene.KindRect:    1,
	scene.KindEllipse: 2,
	scene.KindText:    3,
	scene.KindPath:    4,
}

func priorityOf(k scene.Kind) int {
	if p, ok := kindPriority[k]; ok {
		return p
	}
	return 5
}

// propertyOrder is the canonical order of well-known visual properties; anything else is emitted
// afterwards, sorted alphabetically, so round-trip of an unknown property stays deterministic.
var propertyOrder = []string{
	"x", "y", "w", "h",
	"fill", "stroke", "corner", "opacity", "shadow",
	"font", "font_weight", "font_size", "align",
	"layout", "gap", "gap_x", "gap_y", "pad", "columns",
	"curve", "arrow", "flow",
}

// propertyDefaults lists values elided on emit because they equal the documented default
// (spec.md §4.4 item 4).
var propertyDefaults = map[string]any{
	"opacity": float64(1),
	"corner":  float64(0),
	"stroke":  "none",
	"shadow":  "none",
	"layout":  "free",
	"align":   "left",
}

// fontWeightNames maps numeric CSS font weights back to the names FD emits them as (spec.md §4.1
// "font weights accept names... emitted as names", §4.4 item 6).
var fontWeightNames = map[float64]string{
	400: "regular",
	500: "medium",
	600: "semibold",
	700: "bold",
}

// Document renders g as canonical FD text.
func Document(g *scene.Graph) string {
	var b strings.Builder
	p := &printer{b: &b}

	var sections [][]func()
	themes := g.Themes()
	if len(themes) > 0 {
		sections = append(sections, []func(){func() { p.printThemes(themes) }})
	}
	imports := g.Imports()
	if len(imports) > 0 {
		sections = append(sections, []func(){func() { p.printImports(imports) }})
	}

	var shapeRoots, edgeRoots []*scene.Node
	for _, id := range g.Roots() {
		n, ok := g.Get(id)
		if !ok {
			continue
		}
		if n.Kind == scene.KindEdge {
			edgeRoots = append(edgeRoots, n)
		} else {
			shapeRoots = append(shapeRoots, n)
		}
	}
	sortByKindPriority(shapeRoots)
	if len(shapeRoots) > 0 {
		sections = append(sections, []func(){func() { p.printTopLevelNodes(g, shapeRoots) }})
	}

	legacy := g.LegacyConstraints()
	if len(legacy) > 0 {
		sections = append(sections, []func(){func() { p.printLegacyConstraints(legacy) }})
	}

	if len(edgeRoots) > 0 {
		sections = append(sections, []func(){func() { p.printTopLevelEdges(g, edgeRoots) }})
	}

	p.printSections(sections)
	return b.String()
}

// printer holds the minimal state needed for indentation; unlike the teacher's Printer it tracks
// no row/column position since FD's emitter never line-wraps.
type printer struct {
	b           *strings.Builder
	indentLevel int
}

func (p *printer) printSections(sections [][]func()) {
	multi := len(sections) >= 2
	for i, sec := range sections {
		if multi && i > 0 {
			p.b.WriteString("\n")
		}
		for _, fn := range sec {
			fn()
		}
	}
}

func (p *printer) indent() string { return strings.Repeat("  ", p.indentLevel) }

func (p *printer) printThemes(themes []scene.Theme) {
	for _, t := range themes {
		fmt.Fprintf(p.b, "theme %s {\n", t.Name)
		p.indentLevel++
		p.printPropertyMap(t.Props)
		p.indentLevel--
		p.b.WriteString("}\n")
	}
}

func (p *printer) printImports(paths []string) {
	for _, path := range paths {
		fmt.Fprintf(p.b, "use %q\n", path)
	}
}

func (p *printer) printLegacyConstraints(cs []scene.LegacyConstraint) {
	for _, c := range cs {
		fmt.Fprintf(p.b, "@%s -> %s: %s\n", c.Target, c.Name, c.Raw)
	}
}

func (p *printer) printTopLevelNodes(g *scene.Graph, nodes []*scene.Node) {
	for _, n := range nodes {
		p.printNode(g, n)
	}
}

func (p *printer) printTopLevelEdges(g *scene.Graph, edges []*scene.Node) {
	for _, n := range edges {
		p.printEdge(g, n)
	}
}

func sortByKindPriority(nodes []*scene.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return priorityOf(nodes[i].Kind) < priorityOf(nodes[j].Kind)
	})
}

func (p *printer) printNode(g *scene.Graph, n *scene.Node) {
	fmt.Fprint(p.b, string(n.Kind))
	if !n.Synthetic() {
		fmt.Fprintf(p.b, " @%s", n.ID)
	}
	if n.Kind == scene.KindText && n.Text != "" {
		fmt.Fprintf(p.b, " %s", quote(n.Text))
	}
	fmt.Fprint(p.b, " {\n")
	p.indentLevel++
	p.printSpec(n.Spec)
	p.printChildren(g, n)
	p.printVisualProperties(n)
	p.printWhenBlocks(n.Animations)
	p.indentLevel--
	fmt.Fprintf(p.b, "%s}\n", p.indent())
}

func (p *printer) printEdge(g *scene.Graph, n *scene.Node) {
	if n.Synthetic() {
		fmt.Fprint(p.b, "edge {\n")
	} else {
		fmt.Fprintf(p.b, "edge @%s {\n", n.ID)
	}
	p.indentLevel++
	fmt.Fprintf(p.b, "%sfrom: %s\n", p.indent(), formatAnchor(n.From))
	fmt.Fprintf(p.b, "%sto: %s\n", p.indent(), formatAnchor(n.To))
	p.printChildren(g, n)
	p.printVisualProperties(n)
	p.printWhenBlocks(n.Animations)
	p.indentLevel--
	fmt.Fprintf(p.b, "%s}\n", p.indent())
}

func formatAnchor(a scene.EdgeAnchor) string {
	if a.Point != nil {
		return fmt.Sprintf("%s %s", formatNumber(a.Point.X), formatNumber(a.Point.Y))
	}
	return "@" + string(a.Node)
}

func (p *printer) printChildren(g *scene.Graph, n *scene.Node) {
	for _, id := range n.Children {
		child, ok := g.Get(id)
		if !ok {
			continue
		}
		fmt.Fprint(p.b, p.indent())
		if child.Kind == scene.KindEdge {
			p.printEdge(g, child)
		} else {
			p.printNode(g, child)
		}
	}
}

func (p *printer) printSpec(s *scene.SpecAnnotation) {
	if s == nil {
		return
	}
	if s.Status == "" && s.Priority == "" && len(s.Accept) == 0 && len(s.Tags) == 0 {
		fmt.Fprintf(p.b, "%sspec %s\n", p.indent(), quote(s.Description))
		return
	}
	fmt.Fprintf(p.b, "%sspec {\n", p.indent())
	p.indentLevel++
	if s.Description != "" {
		fmt.Fprintf(p.b, "%s%s\n", p.indent(), quote(s.Description))
	}
	if s.Status != "" {
		fmt.Fprintf(p.b, "%sstatus: %s\n", p.indent(), s.Status)
	}
	if s.Priority != "" {
		fmt.Fprintf(p.b, "%spriority: %s\n", p.indent(), s.Priority)
	}
	for _, a := range s.Accept {
		fmt.Fprintf(p.b, "%saccept: %s\n", p.indent(), quote(a))
	}
	for _, t := range s.Tags {
		fmt.Fprintf(p.b, "%stag: %s\n", p.indent(), t)
	}
	p.indentLevel--
	fmt.Fprintf(p.b, "%s}\n", p.indent())
}

func (p *printer) printWhenBlocks(anims []scene.Animation) {
	for _, a := range anims {
		fmt.Fprintf(p.b, "%swhen: %s {\n", p.indent(), a.Trigger)
		p.indentLevel++
		p.printPropertyMap(a.Properties)
		if a.Easing != "" {
			fmt.Fprintf(p.b, "%seasing: %s\n", p.indent(), a.Easing)
		}
		if a.DurationMS != 0 {
			fmt.Fprintf(p.b, "%sduration: %dms\n", p.indent(), a.DurationMS)
		}
		p.indentLevel--
		fmt.Fprintf(p.b, "%s}\n", p.indent())
	}
}

func (p *printer) printVisualProperties(n *scene.Node) {
	if len(n.StyleRefs) > 0 {
		fmt.Fprintf(p.b, "%suse: %s\n", p.indent(), strings.Join(n.StyleRefs, ", "))
	}

	if n.HasIntrinsicSize {
		fmt.Fprintf(p.b, "%sw: %s\n", p.indent(), formatNumber(n.IntrinsicW))
		fmt.Fprintf(p.b, "%sh: %s\n", p.indent(), formatNumber(n.IntrinsicH))
	}

	switch n.Constraint.Kind {
	case "position":
		fmt.Fprintf(p.b, "%sx: %s\n", p.indent(), formatNumber(n.Constraint.X))
		fmt.Fprintf(p.b, "%sy: %s\n", p.indent(), formatNumber(n.Constraint.Y))
	case "offset":
		fmt.Fprintf(p.b, "%soffset: %s %s\n", p.indent(), formatNumber(n.Constraint.DX), formatNumber(n.Constraint.DY))
	case "center_in":
		target := "canvas"
		if n.Constraint.Target != "" {
			target = string(n.Constraint.Target)
		}
		fmt.Fprintf(p.b, "%scenter_in: %s\n", p.indent(), target)
	case "fill_parent":
		fmt.Fprintf(p.b, "%sfill_parent: true\n", p.indent())
	}

	p.printPropertyMap(n.InlineStyle)
}

// printPropertyMap prints props in propertyOrder, followed by any remaining keys sorted
// alphabetically so unknown properties round-trip deterministically (spec.md §7 UnknownProperty
// "stored verbatim for round-trip fidelity").
func (p *printer) printPropertyMap(props map[string]any) {
	if len(props) == 0 {
		return
	}
	seen := make(map[string]bool, len(props))
	for _, key := range propertyOrder {
		v, ok := props[key]
		if !ok {
			continue
		}
		seen[key] = true
		p.printProperty(key, v)
	}

	var rest []string
	for key := range props {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		p.printProperty(key, props[key])
	}
}

func (p *printer) printProperty(key string, v any) {
	if def, ok := propertyDefaults[key]; ok && def == v {
		return
	}
	fmt.Fprintf(p.b, "%s%s: %s\n", p.indent(), key, formatValue(key, v))
}

func formatValue(key string, v any) string {
	switch val := v.(type) {
	case color.RGBA:
		hex := val.Hex()
		if name, ok := color.NamedHint(val); ok {
			return fmt.Sprintf("%s # %s", hex, name)
		}
		return hex
	case float64:
		if (key == "font_weight") && fontWeightNames[val] != "" {
			return fontWeightNames[val]
		}
		return formatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		if isBareIdent(val) {
			return val
		}
		return quote(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(key, item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber rounds v to 2 decimal places and omits the decimal point entirely when v is a
// whole number (spec.md §4.4 item 7).
func formatNumber(v float64) string {
	v = geom.Round2(v)
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func quote(s string) string {
	return strconv.Quote(s)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStartRune(r) {
			return false
		}
		if i > 0 && !isIdentPartRune(r) {
			return false
		}
	}
	return true
}

func isIdentStartRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPartRune(r rune) bool {
	return isIdentStartRune(r) || (r >= '0' && r <= '9') || r == '-'
}
