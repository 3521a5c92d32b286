package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:           MacOS,
		HomeDir:      homeDir,
		Username:     username,
		DocumentsDir: filepath.Join(homeDir, "Documents"),
		DownloadsDir: filepath.Join(homeDir, "Downloads"),
		TrashDir:     filepath.Join(homeDir, ".Trash"),
		SpecialFolders: []string{
			"/",
			"/Users",
			"/Library",
			"/Volumes",
			"/private",
			"/private/tmp",
			"/private/var",
			"/tmp",
			"/var",
			homeDir,
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Downloads"),
			filepath.Join(homeDir, "Library"),
			filepath.Join(homeDir, "Library/Application Support"),
			filepath.Join(homeDir, "Library/Caches"),
			filepath.Join(homeDir, "Library/Preferences"),
			filepath.Join(homeDir, "Movies"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Public"),
			filepath.Join(homeDir, ".Trash"),
		},
		CriticalFolders: []string{
			"/System",
			"/Applications",
			"/Library/Apple",
			"/Library/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/dev",
			"/cores",
			"/private/etc",
			"/private/var/db",
		},
	}
}
