package scene

// Theme is a named, reusable property mapping referenced by nodes via `use:` (spec.md §3.1
// "Theme"). Stored separately from nodes since a theme is not itself part of the node tree.
type Theme struct {
	Name  string
	Props map[string]any
}

// LegacyConstraint is a top-level `nodeId -> ident : valueList` constraint line (spec.md §4.1
// grammar rule `constraint`) that does not correspond to one of the four modern positioning
// constraints modeled by Node.Constraint. It is kept verbatim so round-tripping an older document
// does not silently drop it (spec.md invariant 3, "round-trip").
type LegacyConstraint struct {
	Target NodeID
	Name   string
	Raw    string // the unparsed value-list text, reprinted as-is
}

// Document-level metadata accompanying the node tree: theme definitions, import directives, and
// any legacy constraint lines, in declaration order.
type document struct {
	themes      []Theme
	imports     []string
	constraints []LegacyConstraint
}

// AddTheme appends a theme definition.
func (g *Graph) AddTheme(t Theme) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.themes = append(g.doc.themes, t)
}

// Themes returns the graph's theme definitions in declaration order.
func (g *Graph) Themes() []Theme {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Theme, len(g.doc.themes))
	copy(out, g.doc.themes)
	return out
}

// AddImport appends an import path.
func (g *Graph) AddImport(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.imports = append(g.doc.imports, path)
}

// Imports returns the graph's import paths in declaration order.
func (g *Graph) Imports() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.doc.imports))
	copy(out, g.doc.imports)
	return out
}

// AddLegacyConstraint appends a top-level legacy constraint line.
func (g *Graph) AddLegacyConstraint(c LegacyConstraint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.constraints = append(g.doc.constraints, c)
}

// LegacyConstraints returns the graph's top-level legacy constraint lines in declaration order.
func (g *Graph) LegacyConstraints() []LegacyConstraint {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]LegacyConstraint, len(g.doc.constraints))
	copy(out, g.doc.constraints)
	return out
}
