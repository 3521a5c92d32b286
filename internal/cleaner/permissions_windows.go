//go:build windows

package cleaner

import "golang.org/x/sys/windows"

// canWriteDir treats a read-only directory attribute as not writable; ACLs
// are left for the delete itself to report.
func canWriteDir(dir string) bool {
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_READONLY == 0
}
