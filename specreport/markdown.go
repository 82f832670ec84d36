// Package specreport builds the "export spec" Markdown document spec.md §6 names explicitly:
// "## @<id> per node, - [ ] for acceptance criteria, bold field labels". Markdown generation is
// plain string building — goldmark itself has no markdown-generating renderer, only a
// markdown-to-HTML one — but that HTML renderer is put to use here too: cmd/fdwatch renders the
// generated report to HTML for its browser preview the same way dnswlt-swcat's ui.go renders
// catalog Markdown fields for display.
package specreport

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/fdcanvas/fd/scene"
)

// Build returns the Markdown spec report for every node in g carrying a spec block, ordered by
// node id for a stable diff-friendly export.
func Build(g *scene.Graph) string {
	var ids []scene.NodeID
	var walk func(scene.NodeID)
	walk = func(id scene.NodeID) {
		n, ok := g.Get(id)
		if !ok {
			return
		}
		if n.Spec != nil {
			ids = append(ids, id)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range g.Roots() {
		walk(root)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for _, id := range ids {
		n, _ := g.Get(id)
		writeNodeSection(&sb, n)
	}
	return sb.String()
}

func writeNodeSection(sb *strings.Builder, n *scene.Node) {
	fmt.Fprintf(sb, "## @%s\n\n", n.ID)
	s := n.Spec
	if s.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", s.Description)
	}
	if s.Status != "" {
		fmt.Fprintf(sb, "**Status:** %s\n\n", s.Status)
	}
	if s.Priority != "" {
		fmt.Fprintf(sb, "**Priority:** %s\n\n", s.Priority)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(sb, "**Tags:** %s\n\n", strings.Join(s.Tags, ", "))
	}
	if len(s.Accept) > 0 {
		sb.WriteString("**Acceptance criteria:**\n\n")
		for _, a := range s.Accept {
			fmt.Fprintf(sb, "- [ ] %s\n", a)
		}
		sb.WriteString("\n")
	}
}

// RenderHTML converts a Build report (or any Markdown) to HTML for preview, e.g. cmd/fdwatch's
// browser-facing spec view.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("specreport: render html: %w", err)
	}
	return buf.String(), nil
}
