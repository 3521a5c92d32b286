package platform

import (
	"os"
	"path/filepath"
)

// getWindowsInfo returns platform-specific information for Windows. Known
// folders come from the shell where available and from the environment
// otherwise.
func getWindowsInfo(homeDir, username string) *Info {
	folders := knownFolders()
	lookup := func(name, fallback string) string {
		if dir, ok := folders[name]; ok && dir != "" {
			return dir
		}
		return fallback
	}

	systemRoot := lookup("Windows", envOr("SystemRoot", `C:\Windows`))
	systemDrive := envOr("SystemDrive", filepath.VolumeName(systemRoot))
	programFiles := lookup("ProgramFiles", envOr("ProgramFiles", `C:\Program Files`))
	programFilesX86 := lookup("ProgramFilesX86", os.Getenv("ProgramFiles(x86)"))
	documents := lookup("Documents", filepath.Join(homeDir, "Documents"))
	downloads := lookup("Downloads", filepath.Join(homeDir, "Downloads"))

	return &Info{
		OS:           Windows,
		HomeDir:      homeDir,
		Username:     username,
		DocumentsDir: documents,
		DownloadsDir: downloads,
		SpecialFolders: []string{
			systemDrive + `\`,
			filepath.Dir(homeDir),
			homeDir,
			documents,
			downloads,
			lookup("Desktop", filepath.Join(homeDir, "Desktop")),
			lookup("Music", filepath.Join(homeDir, "Music")),
			lookup("Pictures", filepath.Join(homeDir, "Pictures")),
			lookup("Videos", filepath.Join(homeDir, "Videos")),
			lookup("Favorites", filepath.Join(homeDir, "Favorites")),
			lookup("RoamingAppData", envOr("APPDATA", filepath.Join(homeDir, `AppData\Roaming`))),
			lookup("LocalAppData", envOr("LOCALAPPDATA", filepath.Join(homeDir, `AppData\Local`))),
			lookup("ProgramData", envOr("ProgramData", filepath.Join(systemDrive+`\`, "ProgramData"))),
			lookup("Public", envOr("PUBLIC", filepath.Join(filepath.Dir(homeDir), "Public"))),
			lookup("StartMenu", ""),
			lookup("Startup", ""),
			lookup("Templates", ""),
		},
		CriticalFolders: []string{
			systemRoot,
			lookup("System", filepath.Join(systemRoot, "System32")),
			lookup("SystemX86", filepath.Join(systemRoot, "SysWOW64")),
			programFiles,
			programFilesX86,
			lookup("ProgramFilesCommon", filepath.Join(programFiles, "Common Files")),
			lookup("ProgramFilesCommonX86", ""),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
