// Package pathutil normalizes filesystem paths into comparison keys.
//
// Keys are slash-separated and never carry a trailing separator (except for a
// filesystem root), so "/parent/" and "/parent" map to the same key. Case is
// folded only where the filesystem ignores it (see CaseInsensitive). Ancestry is decided on whole path segments: "/test" is not an
// ancestor of "/testing".
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Key returns the normalized comparison key for p.
func Key(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	key := filepath.ToSlash(filepath.Clean(p))
	if CaseInsensitive {
		key = strings.ToLower(key)
	}
	for len(key) > 1 && strings.HasSuffix(key, "/") && !strings.HasSuffix(key, ":/") {
		key = strings.TrimSuffix(key, "/")
	}
	return key
}

// Parent returns the key of the directory containing key, or "" when key is a
// filesystem root.
func Parent(key string) string {
	if key == "" || key == "/" || strings.HasSuffix(key, ":/") {
		return ""
	}
	parent := path.Dir(key)
	if parent == "." || parent == key {
		return ""
	}
	if strings.HasSuffix(parent, ":") {
		parent += "/"
	}
	return parent
}

// Ancestors returns the strict ancestor keys of key, nearest first.
func Ancestors(key string) []string {
	var out []string
	for parent := Parent(key); parent != ""; parent = Parent(parent) {
		out = append(out, parent)
	}
	return out
}

// IsRoot reports whether key names a filesystem or volume root.
func IsRoot(key string) bool {
	return key == "/" || strings.HasSuffix(key, ":/")
}

// IsAncestor reports whether ancestor is a strict path-segment ancestor of p.
func IsAncestor(ancestor, p string) bool {
	a, d := Key(ancestor), Key(p)
	if a == "" || d == "" || a == d {
		return false
	}
	if IsRoot(a) {
		return strings.HasPrefix(d, a)
	}
	return strings.HasPrefix(d, a+"/")
}

// IsWithin reports whether p equals root or lies beneath it.
func IsWithin(root, p string) bool {
	return Equal(root, p) || IsAncestor(root, p)
}

// Equal reports whether a and b name the same path.
func Equal(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}
