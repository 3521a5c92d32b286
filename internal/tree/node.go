// Package tree holds the scanned filesystem hierarchy.
package tree

import (
	"path/filepath"
	"time"
)

// Node is one scanned filesystem entry.
//
// Children is the only owning link. Parent is a back pointer used for
// read-only ancestor walks; it never decides lifetime. A directory with
// HasChildren set and no Children has simply not been loaded yet.
type Node struct {
	Name         string
	Path         string
	Size         int64
	LastModified time.Time // zero when unknown
	LastAccessed time.Time // zero when unknown
	IsDirectory  bool
	Depth        int
	HasChildren  bool

	IsSelected         bool
	IsSelectionEnabled bool

	Children []*Node
	Parent   *Node
}

// NewRoot creates a depth-0 directory node with no parent.
func NewRoot(path string) *Node {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = path
	}
	return &Node{
		Name:               name,
		Path:               path,
		IsDirectory:        true,
		HasChildren:        true,
		IsSelectionEnabled: true,
	}
}

// NewChild creates a node one level below parent. The child inherits the
// parent's selection: under a selected parent it starts selected and its
// toggle is disabled. The child is not attached; see AddChild.
func NewChild(parent *Node, name string, isDir bool) *Node {
	child := &Node{
		Name:               name,
		Path:               filepath.Join(parent.Path, name),
		IsDirectory:        isDir,
		Depth:              parent.Depth + 1,
		Parent:             parent,
		IsSelectionEnabled: true,
	}
	if parent.IsSelected {
		child.IsSelected = true
		child.IsSelectionEnabled = false
	}
	return child
}

// AddChild appends child to n and fixes up its parent link and depth.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.Depth = n.Depth + 1
	n.Children = append(n.Children, child)
}

// SetChildren replaces the loaded children of n.
func (n *Node) SetChildren(children []*Node) {
	for _, child := range children {
		child.Parent = n
		child.Depth = n.Depth + 1
	}
	n.Children = children
}

// IsLoaded reports whether the children of n have been materialized.
func (n *Node) IsLoaded() bool {
	return !n.IsDirectory || !n.HasChildren || len(n.Children) > 0
}

// SetSelected toggles selection and propagates it to loaded descendants:
// selecting a directory covers its contents, so their toggles are disabled.
func (n *Node) SetSelected(selected bool) {
	n.IsSelected = selected
	for _, child := range n.Children {
		child.IsSelectionEnabled = !selected
		child.SetSelected(selected)
	}
}

// Walk visits n and every loaded descendant depth-first, parents before
// children. Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Descendants returns every loaded node below n.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, child := range n.Children {
		child.Walk(func(d *Node) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

// ParentPath returns the directory containing the node.
func (n *Node) ParentPath() string {
	if n.Parent != nil {
		return n.Parent.Path
	}
	return filepath.Dir(n.Path)
}
