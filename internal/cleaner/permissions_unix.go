//go:build !windows

package cleaner

import "golang.org/x/sys/unix"

func canWriteDir(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}
