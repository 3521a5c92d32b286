package selection

import (
	"github.com/fenilsonani/tidytree/internal/pathutil"
	"github.com/fenilsonani/tidytree/internal/tree"
)

// TopLevelItems drops every node whose path lies beneath another node in the
// input, and repeated paths after their first occurrence. Input order is kept.
func TopLevelItems(nodes []*tree.Node) []*tree.Node {
	return topLevel(nodes, func(n *tree.Node) string {
		if n == nil {
			return ""
		}
		return n.Path
	})
}

func topLevel[T any](items []T, pathOf func(T) string) []T {
	keys := make([]string, len(items))
	present := make(map[string]struct{}, len(items))
	for i, item := range items {
		keys[i] = pathutil.Key(pathOf(item))
		if keys[i] != "" {
			present[keys[i]] = struct{}{}
		}
	}

	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		key := keys[i]
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		if hasAncestorIn(key, present) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func hasAncestorIn(key string, present map[string]struct{}) bool {
	for _, parent := range pathutil.Ancestors(key) {
		if _, ok := present[parent]; ok {
			return true
		}
	}
	return false
}
