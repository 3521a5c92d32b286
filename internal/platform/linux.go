package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	configDir := xdgDir("XDG_CONFIG_HOME", homeDir, ".config")
	dataDir := xdgDir("XDG_DATA_HOME", homeDir, ".local/share")
	cacheDir := xdgDir("XDG_CACHE_HOME", homeDir, ".cache")

	userDirs := readUserDirs(filepath.Join(configDir, "user-dirs.dirs"), homeDir)
	userDir := func(key, fallback string) string {
		if dir, ok := userDirs[key]; ok {
			return dir
		}
		return filepath.Join(homeDir, fallback)
	}

	documents := userDir("DOCUMENTS", "Documents")
	downloads := userDir("DOWNLOAD", "Downloads")

	return &Info{
		OS:           Linux,
		HomeDir:      homeDir,
		Username:     username,
		DocumentsDir: documents,
		DownloadsDir: downloads,
		TrashDir:     filepath.Join(dataDir, "Trash"),
		SpecialFolders: []string{
			"/",
			"/home",
			"/root",
			"/tmp",
			"/var",
			"/var/tmp",
			"/mnt",
			"/media",
			homeDir,
			configDir,
			dataDir,
			cacheDir,
			filepath.Join(homeDir, ".local"),
			documents,
			downloads,
			userDir("DESKTOP", "Desktop"),
			userDir("MUSIC", "Music"),
			userDir("PICTURES", "Pictures"),
			userDir("VIDEOS", "Videos"),
			userDir("TEMPLATES", "Templates"),
			userDir("PUBLICSHARE", "Public"),
			filepath.Join(dataDir, "Trash"),
		},
		CriticalFolders: []string{
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib32",
			"/lib64",
			"/libx32",
			"/opt",
			"/proc",
			"/run",
			"/sbin",
			"/snap",
			"/sys",
			"/usr",
			"/var/lib",
			"/var/db",
		},
	}
}
