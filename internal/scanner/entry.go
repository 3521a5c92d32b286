package scanner

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Entry wraps a filesystem entry for filter evaluation. Size is filled in
// lazily by the directory-size criterion so the scanner can reuse it.
type Entry struct {
	Path       string
	Name       string
	Info       fs.FileInfo
	AccessTime time.Time // zero when the platform does not expose it

	Size      int64
	SizeKnown bool
}

// NewEntry wraps info found at path
func NewEntry(path string, info fs.FileInfo) *Entry {
	e := &Entry{
		Path: path,
		Name: filepath.Base(path),
		Info: info,
	}
	if info != nil {
		e.AccessTime = accessTime(info)
		if !info.IsDir() {
			e.Size = info.Size()
			e.SizeKnown = true
		}
	}
	return e
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Info != nil && e.Info.IsDir()
}

// ModTime returns the last-modified time, zero when unknown
func (e *Entry) ModTime() time.Time {
	if e.Info == nil {
		return time.Time{}
	}
	return e.Info.ModTime()
}

// LastAccess returns the access time, falling back to the modification time
// on filesystems that do not record it.
func (e *Entry) LastAccess() time.Time {
	if !e.AccessTime.IsZero() {
		return e.AccessTime
	}
	return e.ModTime()
}
