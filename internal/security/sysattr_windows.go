//go:build windows

package security

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/windows"
)

// hasSystemAttribute reports whether FILE_ATTRIBUTE_SYSTEM is set
func hasSystemAttribute(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		if errors.Is(err, windows.ERROR_FILE_NOT_FOUND) || errors.Is(err, windows.ERROR_PATH_NOT_FOUND) {
			return false, fs.ErrNotExist
		}
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_SYSTEM != 0, nil
}
