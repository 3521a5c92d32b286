//go:build windows

package cleaner

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func isInUse(errno syscall.Errno) bool {
	switch errno {
	case windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION, syscall.EBUSY:
		return true
	}
	return false
}
