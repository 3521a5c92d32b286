//go:build darwin

package security

import "golang.org/x/sys/unix"

// BSD file flags from sys/stat.h
const (
	sfImmutable  = 0x00020000
	sfRestricted = 0x00080000
)

// hasSystemAttribute reports whether the system-immutable or SIP-restricted
// flag is set
func hasSystemAttribute(path string) (bool, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return false, err
	}
	return st.Flags&(sfImmutable|sfRestricted) != 0, nil
}
