// Package platform detects the running OS and resolves its special and
// critical folders at runtime.
package platform

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Info contains platform-specific information and paths
type Info struct {
	OS       Platform
	HomeDir  string
	Username string

	// SpecialFolders may not be deleted themselves; their contents may be.
	SpecialFolders []string
	// CriticalFolders may not be deleted, and neither may anything inside.
	CriticalFolders []string

	DocumentsDir string
	DownloadsDir string
	// TrashDir is the user trash location, empty where the OS manages it.
	TrashDir string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information
func GetInfo() (*Info, error) {
	platform := Detect()

	// Get current user info
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	homeDir := currentUser.HomeDir
	username := currentUser.Username

	var info *Info

	switch platform {
	case MacOS:
		info = getMacOSInfo(homeDir, username)
	case Linux:
		info = getLinuxInfo(homeDir, username)
	case Windows:
		info = getWindowsInfo(homeDir, username)
	default:
		return nil, ErrUnsupportedPlatform
	}

	info.SpecialFolders = dedupe(info.SpecialFolders)
	info.CriticalFolders = dedupe(info.CriticalFolders)
	return info, nil
}

// xdgDir resolves an XDG base directory from env, falling back to home/rel
func xdgDir(env, homeDir, rel string) string {
	if dir := os.Getenv(env); dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(homeDir, rel)
}

// readUserDirs parses XDG user-dirs.dirs lines such as
// XDG_DOCUMENTS_DIR="$HOME/Documents".
func readUserDirs(path, homeDir string) map[string]string {
	dirs := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		return dirs
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok || !strings.HasPrefix(name, "XDG_") || !strings.HasSuffix(name, "_DIR") {
			continue
		}
		value = strings.Trim(value, `"`)
		value = strings.Replace(value, "$HOME", homeDir, 1)
		if !filepath.IsAbs(value) {
			continue
		}
		dirs[strings.TrimSuffix(strings.TrimPrefix(name, "XDG_"), "_DIR")] = filepath.Clean(value)
	}
	return dirs
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
