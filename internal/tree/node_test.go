package tree

import (
	"path/filepath"
	"testing"
)

func TestNewChildDepthAndPath(t *testing.T) {
	root := NewRoot(filepath.FromSlash("/data"))
	dir := NewChild(root, "logs", true)
	root.AddChild(dir)
	file := NewChild(dir, "app.log", false)
	dir.AddChild(file)

	if root.Depth != 0 {
		t.Errorf("root depth = %d, want 0", root.Depth)
	}
	if dir.Depth != 1 || file.Depth != 2 {
		t.Errorf("depths = %d,%d, want 1,2", dir.Depth, file.Depth)
	}
	if file.Path != filepath.Join(root.Path, "logs", "app.log") {
		t.Errorf("unexpected path %q", file.Path)
	}
	if file.Parent != dir || dir.Parent != root {
		t.Error("AddChild should link parents")
	}
}

func TestNewChildInheritsSelection(t *testing.T) {
	root := NewRoot("/data")
	root.IsSelected = true

	child := NewChild(root, "a", false)
	if !child.IsSelected {
		t.Error("child of selected parent should start selected")
	}
	if child.IsSelectionEnabled {
		t.Error("child of selected parent should have its toggle disabled")
	}

	other := NewChild(NewRoot("/other"), "b", false)
	if other.IsSelected || !other.IsSelectionEnabled {
		t.Error("child of unselected parent should be unselected and enabled")
	}
}

func TestSetSelectedPropagates(t *testing.T) {
	root := NewRoot("/data")
	dir := NewChild(root, "dir", true)
	root.AddChild(dir)
	leaf := NewChild(dir, "leaf", false)
	dir.AddChild(leaf)

	dir.SetSelected(true)
	if !leaf.IsSelected || leaf.IsSelectionEnabled {
		t.Error("selecting a directory should select and lock its contents")
	}

	dir.SetSelected(false)
	if leaf.IsSelected || !leaf.IsSelectionEnabled {
		t.Error("deselecting should release the contents")
	}
}

func TestIsLoaded(t *testing.T) {
	root := NewRoot("/data")
	if root.IsLoaded() {
		t.Error("fresh root with HasChildren should not be loaded")
	}
	root.AddChild(NewChild(root, "x", false))
	if !root.IsLoaded() {
		t.Error("root with children should be loaded")
	}
}

func TestDescendants(t *testing.T) {
	root := NewRoot("/data")
	a := NewChild(root, "a", true)
	root.AddChild(a)
	a.AddChild(NewChild(a, "b", false))
	root.AddChild(NewChild(root, "c", false))

	if got := len(root.Descendants()); got != 3 {
		t.Errorf("len(Descendants) = %d, want 3", got)
	}
}
