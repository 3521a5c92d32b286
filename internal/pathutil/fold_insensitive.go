//go:build windows || darwin

package pathutil

// CaseInsensitive reports whether keys fold case. The default Windows and
// macOS filesystems compare names ignoring case.
const CaseInsensitive = true
