//go:build !linux && !darwin && !windows

package security

import "os"

// hasSystemAttribute only checks existence on platforms without a system
// marker
func hasSystemAttribute(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		return false, err
	}
	return false, nil
}
