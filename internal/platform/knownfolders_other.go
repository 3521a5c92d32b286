//go:build !windows

package platform

func knownFolders() map[string]string {
	return nil
}
