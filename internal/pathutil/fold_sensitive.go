//go:build !windows && !darwin

package pathutil

// CaseInsensitive reports whether keys fold case. Names on Linux and other
// Unix filesystems are case-sensitive, so "Data" and "data" stay distinct.
const CaseInsensitive = false
