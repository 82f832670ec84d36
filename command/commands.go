package command

import (
	"fmt"

	"github.com/fdcanvas/fd/scene"
)

// Command is one atomic graph mutation with an exact inverse (spec.md §4.5).
type Command interface {
	Apply(g *scene.Graph) error
	Inverse() Command
}

// AddNode inserts a new node as a child of Parent (root if empty).
type AddNode struct {
	Parent NodeID
	Node   *scene.Node
}

// NodeID aliases scene.NodeID so callers of this package don't need a second import for it.
type NodeID = scene.NodeID

func (c AddNode) Apply(g *scene.Graph) error {
	return g.Insert(c.Parent, c.Node)
}

func (c AddNode) Inverse() Command {
	return &RemoveNode{ID: c.Node.ID, snapshot: c.Node}
}

// RemoveNode deletes a node, splicing its children up to its former parent (spec.md §4.2
// remove semantics). snapshot, once populated by Inverse or by capturing the live node before
// Apply, lets undo restore the exact removed node including its own children list.
type RemoveNode struct {
	ID       scene.NodeID
	snapshot *scene.Node
	parent   scene.NodeID
}

func (c *RemoveNode) Apply(g *scene.Graph) error {
	if n, ok := g.Get(c.ID); ok {
		c.snapshot = n
		c.parent = n.Parent
	}
	return g.Remove(c.ID)
}

func (c *RemoveNode) Inverse() Command {
	if c.snapshot == nil {
		return noop{}
	}
	return AddNode{Parent: c.parent, Node: c.snapshot}
}

// MoveNode sets a node's absolute position constraint (spec.md §4.5 MoveNode; the drag gesture
// itself is bracketed in a Stack batch rather than pushing one MoveNode per frame).
type MoveNode struct {
	ID   scene.NodeID
	X, Y float64

	prev scene.Constraint
}

func (c *MoveNode) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: move %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prev = n.Constraint
	n.Constraint = scene.Constraint{Kind: "position", X: c.X, Y: c.Y}
	return nil
}

func (c *MoveNode) Inverse() Command {
	return &setConstraint{id: c.ID, value: c.prev}
}

// setConstraint is MoveNode/ResizeNode's shared inverse shape: restore a prior Constraint
// verbatim.
type setConstraint struct {
	id    scene.NodeID
	value scene.Constraint
}

func (c *setConstraint) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.id)
	if !ok {
		return fmt.Errorf("command: %w: @%s", scene.ErrNotFound, c.id)
	}
	n.Constraint = c.value
	return nil
}

func (c *setConstraint) Inverse() Command { return c }

// ResizeNode sets a node's intrinsic width/height, clamped to spec.md §8's minimum of 4 (resize
// handle drag boundary behaviour).
type ResizeNode struct {
	ID   scene.NodeID
	W, H float64

	prevW, prevH     float64
	prevHasIntrinsic bool
}

const minNodeSize = 4

func (c *ResizeNode) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: resize %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prevW, c.prevH, c.prevHasIntrinsic = n.IntrinsicW, n.IntrinsicH, n.HasIntrinsicSize
	n.IntrinsicW = clampMin(c.W, minNodeSize)
	n.IntrinsicH = clampMin(c.H, minNodeSize)
	n.HasIntrinsicSize = true
	return nil
}

func (c *ResizeNode) Inverse() Command {
	return &restoreSize{id: c.ID, w: c.prevW, h: c.prevH, has: c.prevHasIntrinsic}
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

type restoreSize struct {
	id  scene.NodeID
	w, h float64
	has bool
}

func (c *restoreSize) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.id)
	if !ok {
		return fmt.Errorf("command: %w: @%s", scene.ErrNotFound, c.id)
	}
	n.IntrinsicW, n.IntrinsicH, n.HasIntrinsicSize = c.w, c.h, c.has
	return nil
}

func (c *restoreSize) Inverse() Command { return c }

// SetStyle sets a single InlineStyle property, e.g. `SetStyle{ID: "a", Property: "fill", Value:
// color.RGBA{...}}` (spec.md §4.5 `SetStyle(property,value)`).
type SetStyle struct {
	ID       scene.NodeID
	Property string
	Value    any

	prev   any
	hadOld bool
}

func (c *SetStyle) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: set style %w: @%s", scene.ErrNotFound, c.ID)
	}
	if n.InlineStyle == nil {
		n.InlineStyle = make(map[string]any)
	}
	c.prev, c.hadOld = n.InlineStyle[c.Property]
	n.InlineStyle[c.Property] = c.Value
	return nil
}

func (c *SetStyle) Inverse() Command {
	return &unsetStyle{id: c.ID, property: c.Property, value: c.prev, hadOld: c.hadOld}
}

type unsetStyle struct {
	id       scene.NodeID
	property string
	value    any
	hadOld   bool
}

func (c *unsetStyle) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.id)
	if !ok {
		return fmt.Errorf("command: %w: @%s", scene.ErrNotFound, c.id)
	}
	if c.hadOld {
		n.InlineStyle[c.property] = c.value
	} else {
		delete(n.InlineStyle, c.property)
	}
	return nil
}

func (c *unsetStyle) Inverse() Command {
	return &SetStyle{ID: c.id, Property: c.property, Value: c.value, prev: nil}
}

// SetText replaces a text node's body.
type SetText struct {
	ID   scene.NodeID
	Text string

	prev string
}

func (c *SetText) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: set text %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prev = n.Text
	n.Text = c.Text
	return nil
}

func (c *SetText) Inverse() Command {
	return &SetText{ID: c.ID, Text: c.prev}
}

// SetAnimations replaces a node's when-block list wholesale.
type SetAnimations struct {
	ID         scene.NodeID
	Animations []scene.Animation

	prev []scene.Animation
}

func (c *SetAnimations) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: set animations %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prev = n.Animations
	n.Animations = c.Animations
	return nil
}

func (c *SetAnimations) Inverse() Command {
	return &SetAnimations{ID: c.ID, Animations: c.prev}
}

// SetAnnotations replaces a node's spec block wholesale.
type SetAnnotations struct {
	ID    scene.NodeID
	Spec  *scene.SpecAnnotation

	prev *scene.SpecAnnotation
}

func (c *SetAnnotations) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: set annotations %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prev = n.Spec
	n.Spec = c.Spec
	return nil
}

func (c *SetAnnotations) Inverse() Command {
	return &SetAnnotations{ID: c.ID, Spec: c.prev}
}

// ReparentNode moves a node to a new parent, rejecting a move that would create a cycle (spec.md
// invariant 8).
type ReparentNode struct {
	ID        scene.NodeID
	NewParent scene.NodeID
	IndexHint int

	prevParent scene.NodeID
	prevIndex  int
}

func (c *ReparentNode) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.ID)
	if !ok {
		return fmt.Errorf("command: reparent %w: @%s", scene.ErrNotFound, c.ID)
	}
	c.prevParent = n.Parent
	for i, id := range g.Children(n.Parent) {
		if id == c.ID {
			c.prevIndex = i
			break
		}
	}
	return g.Reparent(c.ID, c.NewParent, c.IndexHint)
}

func (c *ReparentNode) Inverse() Command {
	return &ReparentNode{ID: c.ID, NewParent: c.prevParent, IndexHint: c.prevIndex}
}

// GroupNodes creates a new group node under Parent containing Children, in their given order,
// and reparents each of them into it.
type GroupNodes struct {
	Parent    scene.NodeID
	GroupID   scene.NodeID
	Children  []scene.NodeID
	Anonymous bool
}

func (c *GroupNodes) Apply(g *scene.Graph) error {
	group := &scene.Node{ID: c.GroupID, Kind: scene.KindGroup, Anonymous: c.Anonymous, InlineStyle: make(map[string]any)}
	if err := g.Insert(c.Parent, group); err != nil {
		return err
	}
	for _, id := range c.Children {
		if err := g.Reparent(id, c.GroupID, -1); err != nil {
			return err
		}
	}
	return nil
}

func (c *GroupNodes) Inverse() Command {
	return &UngroupNode{GroupID: c.GroupID}
}

// UngroupNode reparents a group's children back to the group's own parent (in their existing
// order) and removes the now-empty group.
type UngroupNode struct {
	GroupID scene.NodeID

	parent   scene.NodeID
	children []scene.NodeID
}

func (c *UngroupNode) Apply(g *scene.Graph) error {
	n, ok := g.Get(c.GroupID)
	if !ok {
		return fmt.Errorf("command: ungroup %w: @%s", scene.ErrNotFound, c.GroupID)
	}
	c.parent = n.Parent
	c.children = append([]scene.NodeID{}, n.Children...)
	for _, id := range c.children {
		if err := g.Reparent(id, c.parent, -1); err != nil {
			return err
		}
	}
	return g.Remove(c.GroupID)
}

func (c *UngroupNode) Inverse() Command {
	return &GroupNodes{Parent: c.parent, GroupID: c.GroupID, Children: c.children}
}

// AddEdge inserts an edge node.
type AddEdge struct {
	Parent scene.NodeID
	Edge   *scene.Node
}

func (c AddEdge) Apply(g *scene.Graph) error {
	if c.Edge.From.Node != "" {
		if from, ok := g.Get(c.Edge.From.Node); ok && from.Kind == scene.KindEdge {
			return scene.ErrEdgeEndpoint
		}
	}
	if c.Edge.To.Node != "" {
		if to, ok := g.Get(c.Edge.To.Node); ok && to.Kind == scene.KindEdge {
			return scene.ErrEdgeEndpoint
		}
	}
	return g.Insert(c.Parent, c.Edge)
}

func (c AddEdge) Inverse() Command {
	return &RemoveEdge{ID: c.Edge.ID, snapshot: c.Edge, parent: c.Parent}
}

// RemoveEdge deletes an edge node and any nested label.
type RemoveEdge struct {
	ID       scene.NodeID
	snapshot *scene.Node
	parent   scene.NodeID
}

func (c *RemoveEdge) Apply(g *scene.Graph) error {
	if n, ok := g.Get(c.ID); ok {
		c.snapshot = n
		c.parent = n.Parent
	}
	return g.RemoveCascade(c.ID)
}

func (c *RemoveEdge) Inverse() Command {
	if c.snapshot == nil {
		return noop{}
	}
	return AddEdge{Parent: c.parent, Edge: c.snapshot}
}

// ZOrder reorders a node within its siblings.
type ZOrder struct {
	ID scene.NodeID
	Op scene.ZOrderOp

	prevIndex int
}

func (c *ZOrder) Apply(g *scene.Graph) error {
	for i, id := range g.Children(siblingsParentOf(g, c.ID)) {
		if id == c.ID {
			c.prevIndex = i
		}
	}
	return g.ZOrder(c.ID, c.Op)
}

func siblingsParentOf(g *scene.Graph, id scene.NodeID) scene.NodeID {
	n, ok := g.Get(id)
	if !ok {
		return ""
	}
	return n.Parent
}

func (c *ZOrder) Inverse() Command {
	return &restoreIndex{id: c.ID, index: c.prevIndex}
}

type restoreIndex struct {
	id    scene.NodeID
	index int
}

func (c *restoreIndex) Apply(g *scene.Graph) error {
	return g.Reparent(c.id, siblingsParentOf(g, c.id), c.index)
}

func (c *restoreIndex) Inverse() Command { return c }

// Rename changes a node's id, fixing up every reference to it (spec.md §4.5 Rename: "scope: all
// @old textual references").
type Rename struct {
	Old, New scene.NodeID
}

func (c Rename) Apply(g *scene.Graph) error {
	return g.Rename(c.Old, c.New)
}

func (c Rename) Inverse() Command {
	return Rename{Old: c.New, New: c.Old}
}

// noop is returned as an Inverse when a command never actually captured enough state to be
// undone (e.g. Apply failed before a snapshot was taken). Applying it is always a successful
// no-op so Undo/Redo's bookkeeping never errors on it.
type noop struct{}

func (noop) Apply(*scene.Graph) error { return nil }
func (noop) Inverse() Command         { return noop{} }
