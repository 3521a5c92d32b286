package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fenilsonani/tidytree/internal/tree"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

// PrintTree writes root and its loaded descendants, down to maxDepth levels
// below root (0 means no limit). Directories whose children were never
// loaded are marked with "…".
func PrintTree(w io.Writer, root *tree.Node, maxDepth int) {
	if root == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", DirStyle.Render(root.Path), sizeLabel(root))
	printChildren(w, root, "", 1, maxDepth)
}

func printChildren(w io.Writer, node *tree.Node, prefix string, level, maxDepth int) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1

		connector := "├── "
		next := prefix + "│   "
		if last {
			connector = "└── "
			next = prefix + "    "
		}

		name := FilePathStyle.Render(child.Name)
		if child.IsDirectory {
			name = DirStyle.Render(child.Name + "/")
			if !child.IsLoaded() && child.HasChildren {
				name += DimStyle.Render(" …")
			}
		}
		fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector, name, sizeLabel(child))

		if maxDepth > 0 && level >= maxDepth {
			continue
		}
		printChildren(w, child, next, level+1, maxDepth)
	}
}

func sizeLabel(n *tree.Node) string {
	if n.IsDirectory && n.Size == 0 {
		return ""
	}
	return FileSizeStyle.Render("(" + utils.FormatBytes(n.Size) + ")")
}

// SelectionList renders items as a bordered panel
func SelectionList(title string, paths []string, sizes []int64) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	for i, path := range paths {
		b.WriteString("\n")
		b.WriteString(SelectedStyle.Render("☑ "))
		b.WriteString(FilePathStyle.Render(path))
		if i < len(sizes) {
			b.WriteString(" ")
			b.WriteString(FileSizeStyle.Render(utils.FormatBytes(sizes[i])))
		}
	}
	return PanelStyle.Render(b.String())
}
