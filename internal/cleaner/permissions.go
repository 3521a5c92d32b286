package cleaner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PermissionManager answers ownership questions about delete targets
type PermissionManager struct {
	isRoot bool
}

// NewPermissionManager creates a new PermissionManager
func NewPermissionManager() *PermissionManager {
	return &PermissionManager{
		isRoot: os.Geteuid() == 0,
	}
}

// IsRunningAsRoot checks if the current process is running as root
func (pm *PermissionManager) IsRunningAsRoot() bool {
	return pm.isRoot
}

// CanDelete reports whether the current user may remove path, which
// requires write access to its parent directory
func (pm *PermissionManager) CanDelete(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		return false, err
	}
	if pm.isRoot {
		return true, nil
	}
	return canWriteDir(filepath.Dir(path)), nil
}

// RequiresElevation checks if a path requires elevated permissions to delete
func (pm *PermissionManager) RequiresElevation(path string) bool {
	if pm.isRoot {
		return false
	}

	canDelete, err := pm.CanDelete(path)
	if err != nil {
		// If we can't even check, assume it needs elevation
		return true
	}

	return !canDelete
}

// checkSpecialFile refuses device, socket and pipe entries. Symlinks are
// fine: removing one never touches its target.
func checkSpecialFile(info fs.FileInfo) error {
	mode := info.Mode()

	switch {
	case mode&os.ModeCharDevice != 0:
		return fmt.Errorf("is a character device")
	case mode&os.ModeDevice != 0:
		return fmt.Errorf("is a device file")
	case mode&os.ModeSocket != 0:
		return fmt.Errorf("is a socket")
	case mode&os.ModeNamedPipe != 0:
		return fmt.Errorf("is a named pipe (FIFO)")
	case mode&os.ModeIrregular != 0:
		return fmt.Errorf("is an irregular file")
	}

	return nil
}
