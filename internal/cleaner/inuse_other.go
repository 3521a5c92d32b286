//go:build !windows

package cleaner

import "syscall"

func isInUse(errno syscall.Errno) bool {
	return errno == syscall.EBUSY || errno == syscall.ETXTBSY
}
