package trash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxNameAttempts = 10000

// Freedesktop implements the freedesktop.org trash in process: the entry is
// renamed into <dir>/files and described by <dir>/info/<name>.trashinfo.
// An entry on another filesystem than dir goes to $topdir/.Trash-$uid on
// its own mount instead, with a Path relative to that mount.
type Freedesktop struct {
	dir      string
	uid      int
	now      func() time.Time
	rename   func(oldpath, newpath string) error
	mountTop func(path string) (string, error)
}

// NewFreedesktop creates a trash rooted at dir
func NewFreedesktop(dir string) *Freedesktop {
	return &Freedesktop{
		dir:      dir,
		uid:      os.Getuid(),
		now:      time.Now,
		rename:   os.Rename,
		mountTop: mountTop,
	}
}

// Name returns the helper name
func (f *Freedesktop) Name() string {
	return FreedesktopName
}

// Dir returns the home trash root
func (f *Freedesktop) Dir() string {
	return f.dir
}

// Trash moves path into the trash
func (f *Freedesktop) Trash(ctx context.Context, path string) error {
	if f.dir == "" {
		return errors.New("no trash directory")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	err = f.moveInto(f.dir, abs, filepath.ToSlash(abs))
	if err == nil || !crossDevice(err) {
		return err
	}

	top, terr := f.mountTop(abs)
	if terr != nil {
		return fmt.Errorf("failed to find mount point of %s: %w", abs, terr)
	}
	rel, terr := filepath.Rel(top, abs)
	if terr != nil {
		return fmt.Errorf("failed to find mount point of %s: %w", abs, terr)
	}
	return f.moveInto(f.topdirTrash(top), abs, filepath.ToSlash(rel))
}

func (f *Freedesktop) topdirTrash(top string) string {
	return filepath.Join(top, fmt.Sprintf(".Trash-%d", f.uid))
}

// moveInto renames abs into the trash rooted at dir. infoPath is the value
// recorded as Path in the trashinfo file.
func (f *Freedesktop) moveInto(dir, abs, infoPath string) error {
	filesDir := filepath.Join(dir, "files")
	infoDir := filepath.Join(dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return fmt.Errorf("failed to create trash directory: %w", err)
		}
	}

	base := filepath.Base(abs)
	for i := 0; i < maxNameAttempts; i++ {
		name := trashName(base, i)
		info := filepath.Join(infoDir, name+".trashinfo")

		// The O_EXCL create of the info file reserves the name
		file, err := os.OpenFile(info, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create trash info: %w", err)
		}

		target := filepath.Join(filesDir, name)
		if _, err := os.Lstat(target); err == nil {
			file.Close()
			os.Remove(info)
			continue
		}

		_, werr := file.WriteString(f.trashInfo(infoPath))
		cerr := file.Close()
		if err := errors.Join(werr, cerr); err != nil {
			os.Remove(info)
			return fmt.Errorf("failed to write trash info: %w", err)
		}

		if err := f.rename(abs, target); err != nil {
			os.Remove(info)
			return fmt.Errorf("failed to move into trash: %w", err)
		}
		return nil
	}

	return fmt.Errorf("no free trash name for %s", base)
}

func (f *Freedesktop) trashInfo(path string) string {
	var b strings.Builder
	b.WriteString("[Trash Info]\n")
	fmt.Fprintf(&b, "Path=%s\n", (&url.URL{Path: path}).EscapedPath())
	fmt.Fprintf(&b, "DeletionDate=%s\n", f.now().Format("2006-01-02T15:04:05"))
	return b.String()
}

// trashName returns base for attempt 0 and "stem.N.ext" afterwards
func trashName(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(base, ext), attempt, ext)
}
