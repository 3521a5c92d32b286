//go:build !windows

package trash

import (
	"errors"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func crossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// mountTop returns the highest ancestor of path on the same device as path
func mountTop(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return "", err
	}
	dev := st.Dev

	dir := path
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir, nil
		}
		if err := unix.Stat(parent, &st); err != nil || st.Dev != dev {
			return dir, nil
		}
		dir = parent
	}
}
