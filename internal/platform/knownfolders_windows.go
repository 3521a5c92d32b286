//go:build windows

package platform

import "golang.org/x/sys/windows"

var knownFolderIDs = map[string]*windows.KNOWNFOLDERID{
	"Windows":               windows.FOLDERID_Windows,
	"System":                windows.FOLDERID_System,
	"SystemX86":             windows.FOLDERID_SystemX86,
	"ProgramFiles":          windows.FOLDERID_ProgramFiles,
	"ProgramFilesX86":       windows.FOLDERID_ProgramFilesX86,
	"ProgramFilesCommon":    windows.FOLDERID_ProgramFilesCommon,
	"ProgramFilesCommonX86": windows.FOLDERID_ProgramFilesCommonX86,
	"ProgramData":           windows.FOLDERID_ProgramData,
	"Documents":             windows.FOLDERID_Documents,
	"Downloads":             windows.FOLDERID_Downloads,
	"Desktop":               windows.FOLDERID_Desktop,
	"Music":                 windows.FOLDERID_Music,
	"Pictures":              windows.FOLDERID_Pictures,
	"Videos":                windows.FOLDERID_Videos,
	"Favorites":             windows.FOLDERID_Favorites,
	"RoamingAppData":        windows.FOLDERID_RoamingAppData,
	"LocalAppData":          windows.FOLDERID_LocalAppData,
	"Public":                windows.FOLDERID_Public,
	"StartMenu":             windows.FOLDERID_StartMenu,
	"Startup":               windows.FOLDERID_Startup,
	"Templates":             windows.FOLDERID_Templates,
}

// knownFolders resolves shell known folders for the current user. Folders
// the shell cannot resolve are left out.
func knownFolders() map[string]string {
	out := make(map[string]string, len(knownFolderIDs))
	for name, id := range knownFolderIDs {
		path, err := windows.KnownFolderPath(id, windows.KF_FLAG_DEFAULT)
		if err != nil {
			continue
		}
		out[name] = path
	}
	return out
}
