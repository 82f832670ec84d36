// Package scene holds the in-memory scene graph: a stable-slot arena of Nodes with a dense
// id→index map, parent/child topology, z-order, and drill-down bookkeeping (spec.md §4.2).
//
// Grounded on katalvlaran-lvlath/graph/core's Graph (a mutex-guarded adjacency structure exposing
// AddVertex/RemoveVertex, package-level sentinel errors prefixed "scene: ..."). lvlath's own store
// is map-keyed, so deleting a vertex never disturbs other vertices' identity — but it has no
// notion of a stable *index*, which spec.md invariant 2/8 requires (live references must survive
// deletions without renumbering). The slot+tombstone allocator below is new code with no
// off-the-shelf analog in the example pack; it borrows lvlath's locking and sentinel-error idiom
// but the index-stability mechanism itself had to be designed for this package.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fdcanvas/fd/geom"
)

// NodeID is a scene node's stable textual identifier, without the leading '@'.
type NodeID string

// Kind enumerates the node variants (spec.md §3.1).
type Kind string

const (
	KindGroup   Kind = "group"
	KindFrame   Kind = "frame"
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindPath    Kind = "path"
	KindText    Kind = "text"
	KindEdge    Kind = "edge"
)

var (
	// ErrNotFound indicates an operation referenced a NodeID with no live node.
	ErrNotFound = errors.New("scene: node not found")
	// ErrAlreadyExists indicates Insert was called with an id already present.
	ErrAlreadyExists = errors.New("scene: node id already exists")
	// ErrCycle indicates a Reparent would create a cycle (spec.md invariant 8: parent relations
	// form a forest).
	ErrCycle = errors.New("scene: reparent would introduce a cycle")
	// ErrEdgeEndpoint indicates an edge endpoint referenced another edge (spec.md invariant 7).
	ErrEdgeEndpoint = errors.New("scene: an edge endpoint may not reference another edge")
)

// EdgeAnchor is either a NodeID reference or a free point.
type EdgeAnchor struct {
	Node   NodeID
	Point  *geom.Point
}

// Animation is one `(trigger, {property: target}, easing, duration)` entry (spec.md §3.1
// "animations").
type Animation struct {
	Trigger    string
	Properties map[string]any
	Easing     string
	DurationMS int
}

// SpecAnnotation is the optional `spec` block attached to a node (spec.md §3.1 "spec").
type SpecAnnotation struct {
	Description string
	Accept      []string
	Status      string
	Priority    string
	Tags        []string
}

// Constraint is a node's at-most-one active positioning constraint (spec.md invariant 4).
type Constraint struct {
	Kind   string // "position", "center_in", "offset", "fill_parent", or "" for none
	X, Y   float64
	Target NodeID // for CenterIn
	DX, DY float64
}

// Node is one scene-graph entity: a shape, group, frame, text run, or edge.
type Node struct {
	ID        NodeID
	Kind      Kind
	Parent    NodeID // zero value means top-level
	Children  []NodeID
	InlineStyle map[string]any
	StyleRefs []string
	Constraint Constraint
	IntrinsicW, IntrinsicH float64
	HasIntrinsicSize       bool
	Animations []Animation
	Spec       *SpecAnnotation
	Bounds     geom.Rect // resolved_bounds, cached after layout

	// Anonymous marks an id assigned by the `_<kind>_<n>` allocator (spec.md invariant 6) rather
	// than given explicitly in source as `@id`. The emitter omits `@id` for these so a document
	// that never named a node doesn't grow one on round-trip.
	Anonymous bool

	// DeclLine/DeclEndLine are the 1-based source line range this node's declaration spanned at
	// the last successful parse (spec.md §4.7 "the engine computes the enclosing symbol"). Zero
	// when the node did not come from a text parse (e.g. built purely via commands).
	DeclLine, DeclEndLine int

	// Edge-only fields, zero value for non-edge kinds.
	From, To EdgeAnchor

	// Text-only field.
	Text string
}

// Synthetic reports whether id was assigned by the anonymous-id allocator rather than given
// explicitly in source.
func (n *Node) Synthetic() bool {
	return n.Anonymous
}

type slot struct {
	node      *Node
	tombstone bool
}

// Graph is the stable-slot scene graph. All mutations are protected by an internal mutex so a
// host embedding FD in a concurrent editor (e.g. the sync engine debounce goroutine alongside a
// render loop) can share one Graph safely.
type Graph struct {
	mu    sync.RWMutex
	slots []slot
	index map[NodeID]int
	roots []NodeID // top-level node ids, in emit/z order
	doc   document
}

// New returns an empty scene graph.
func New() *Graph {
	return &Graph{index: make(map[NodeID]int)}
}

// Insert adds node as a child of parent (or as a top-level node if parent is ""), appending it to
// the parent's child list (new nodes start on top, per spec.md §4.2 "later children on top").
func (g *Graph) Insert(parent NodeID, node *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.index[node.ID]; exists {
		return fmt.Errorf("%w: @%s", ErrAlreadyExists, node.ID)
	}
	if parent != "" {
		if _, ok := g.lookupLocked(parent); !ok {
			return fmt.Errorf("%w: parent @%s", ErrNotFound, parent)
		}
	}

	node.Parent = parent
	g.allocateLocked(node)
	if parent == "" {
		g.roots = append(g.roots, node.ID)
	} else {
		p, _ := g.lookupLocked(parent)
		p.Children = append(p.Children, node.ID)
	}
	return nil
}

// allocateLocked places node into a tombstoned slot if one is free, otherwise appends a new slot,
// and records its index in g.index. Callers must hold g.mu.
func (g *Graph) allocateLocked(node *Node) int {
	for i, s := range g.slots {
		if s.tombstone {
			g.slots[i] = slot{node: node}
			g.index[node.ID] = i
			return i
		}
	}
	g.slots = append(g.slots, slot{node: node})
	idx := len(g.slots) - 1
	g.index[node.ID] = idx
	return idx
}

func (g *Graph) lookupLocked(id NodeID) (*Node, bool) {
	idx, ok := g.index[id]
	if !ok || g.slots[idx].tombstone {
		return nil, false
	}
	return g.slots[idx].node, true
}

// Get returns the node for id, or (nil, false) if it does not exist or was removed.
func (g *Graph) Get(id NodeID) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lookupLocked(id)
}

// Remove deletes id from the graph. Its children are detached to id's former parent (reparented
// in their existing order, spliced in at id's old position), per spec.md §4.2 "remove(id)
// (detaches children to parent, unless cascading delete)". The slot is tombstoned, not
// compacted, so any index other live code still holds for a different node remains valid.
func (g *Graph) Remove(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.lookupLocked(id)
	if !ok {
		return fmt.Errorf("%w: @%s", ErrNotFound, id)
	}

	siblings := g.childListLocked(n.Parent)
	pos := indexOf(*siblings, id)
	replacement := append(append([]NodeID{}, (*siblings)[:pos]...), n.Children...)
	replacement = append(replacement, (*siblings)[pos+1:]...)
	*siblings = replacement

	for _, childID := range n.Children {
		if child, ok := g.lookupLocked(childID); ok {
			child.Parent = n.Parent
		}
	}

	idx := g.index[id]
	g.slots[idx] = slot{tombstone: true}
	delete(g.index, id)
	return nil
}

// RemoveCascade deletes id and its entire subtree.
func (g *Graph) RemoveCascade(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.lookupLocked(id); !ok {
		return fmt.Errorf("%w: @%s", ErrNotFound, id)
	}

	siblings := g.childListLocked(g.mustNode(id).Parent)
	*siblings = removeID(*siblings, id)
	g.removeSubtreeLocked(id)
	return nil
}

// removeSubtreeLocked tombstones id and, recursively, everything beneath it. It assumes id has
// already been unlinked from its parent's child list. Callers must hold g.mu.
func (g *Graph) removeSubtreeLocked(id NodeID) {
	n := g.mustNode(id)
	for _, childID := range n.Children {
		g.removeSubtreeLocked(childID)
	}
	idx := g.index[id]
	g.slots[idx] = slot{tombstone: true}
	delete(g.index, id)
}

func (g *Graph) mustNode(id NodeID) *Node {
	n, _ := g.lookupLocked(id)
	return n
}

func (g *Graph) childListLocked(parent NodeID) *[]NodeID {
	if parent == "" {
		return &g.roots
	}
	p, _ := g.lookupLocked(parent)
	return &p.Children
}

func indexOf(ids []NodeID, target NodeID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

func removeID(ids []NodeID, target NodeID) []NodeID {
	i := indexOf(ids, target)
	if i < 0 {
		return ids
	}
	return append(append([]NodeID{}, ids[:i]...), ids[i+1:]...)
}

// Reparent moves id to become a child of newParent, appended at the end of its child list (or
// inserted at indexHint if >= 0 and in range). Rejects a move that would make id its own
// ancestor (spec.md invariant 8, no cycles).
func (g *Graph) Reparent(id, newParent NodeID, indexHint int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.lookupLocked(id)
	if !ok {
		return fmt.Errorf("%w: @%s", ErrNotFound, id)
	}
	if newParent != "" {
		if _, ok := g.lookupLocked(newParent); !ok {
			return fmt.Errorf("%w: new parent @%s", ErrNotFound, newParent)
		}
		if newParent == id || g.isAncestorOfLocked(id, newParent) {
			return ErrCycle
		}
	}

	oldSiblings := g.childListLocked(n.Parent)
	*oldSiblings = removeID(*oldSiblings, id)

	n.Parent = newParent
	newSiblings := g.childListLocked(newParent)
	if indexHint < 0 || indexHint > len(*newSiblings) {
		*newSiblings = append(*newSiblings, id)
	} else {
		out := append([]NodeID{}, (*newSiblings)[:indexHint]...)
		out = append(out, id)
		out = append(out, (*newSiblings)[indexHint:]...)
		*newSiblings = out
	}
	return nil
}

// Children returns id's children in insertion/z order, or all top-level nodes if id is "".
func (g *Graph) Children(id NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	list := g.childListLocked(id)
	out := make([]NodeID, len(*list))
	copy(out, *list)
	return out
}

// Ancestors returns id's ancestors, nearest first, up to (not including) the root.
func (g *Graph) Ancestors(id NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []NodeID
	n, ok := g.lookupLocked(id)
	if !ok {
		return nil
	}
	for n.Parent != "" {
		out = append(out, n.Parent)
		n, ok = g.lookupLocked(n.Parent)
		if !ok {
			break
		}
	}
	return out
}

// IsAncestorOf reports whether a is an ancestor of b.
func (g *Graph) IsAncestorOf(a, b NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isAncestorOfLocked(a, b)
}

func (g *Graph) isAncestorOfLocked(a, b NodeID) bool {
	n, ok := g.lookupLocked(b)
	if !ok {
		return false
	}
	for n.Parent != "" {
		if n.Parent == a {
			return true
		}
		n, ok = g.lookupLocked(n.Parent)
		if !ok {
			return false
		}
	}
	return false
}

// Roots returns the top-level node ids in z order.
func (g *Graph) Roots() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]NodeID, len(g.roots))
	copy(out, g.roots)
	return out
}
