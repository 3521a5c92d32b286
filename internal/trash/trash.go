// Package trash moves files into the platform's recoverable trash.
package trash

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/logging"
)

// ErrTrashUnavailable is returned when no trash facility accepted a path
var ErrTrashUnavailable = errors.New("trash unavailable")

// Trasher moves a single path into a trash
type Trasher interface {
	Trash(ctx context.Context, path string) error
	Name() string
}

// FreedesktopName selects the in-process freedesktop.org trash in
// trash.commands
const FreedesktopName = "freedesktop"

// DefaultOrder returns the helper order used when trash.commands is empty
func DefaultOrder(goos string) []string {
	switch goos {
	case "windows":
		return nil
	case "darwin":
		return []string{"osascript", "trash"}
	default:
		return []string{"gio", "kioclient5", "trash-put", FreedesktopName}
	}
}

type options struct {
	goos     string
	trashDir string
}

// Option configures New
type Option func(*options)

// WithTrashDir sets the freedesktop trash root (the directory holding
// files/ and info/)
func WithTrashDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.trashDir = dir
		}
	}
}

// WithGOOS overrides the detected operating system
func WithGOOS(goos string) Option {
	return func(o *options) {
		o.goos = goos
	}
}

// New returns the trash strategy for the running platform. Windows uses the
// shell's recycle bin directly; elsewhere the configured helpers are tried
// in order and the first success wins.
func New(cfg config.TrashConfig, logger *logging.Logger, opts ...Option) Trasher {
	o := options{goos: runtime.GOOS, trashDir: defaultTrashDir()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.goos == runtime.GOOS {
		if native := nativeTrasher(); native != nil {
			return native
		}
	}

	names := cfg.Commands
	if len(names) == 0 {
		names = DefaultOrder(o.goos)
	}

	var trashers []Trasher
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case name == FreedesktopName:
			trashers = append(trashers, NewFreedesktop(o.trashDir))
		case builtinCommands[name] != nil:
			trashers = append(trashers, builtinCommand(name, cfg.Timeout))
		default:
			logger.Warn("Unknown trash helper %q ignored", name)
		}
	}

	return NewChain(logger, trashers...)
}

// Chain tries each Trasher in turn
type Chain struct {
	trashers []Trasher
	logger   *logging.Logger
}

// NewChain creates a Chain over trashers
func NewChain(logger *logging.Logger, trashers ...Trasher) *Chain {
	return &Chain{trashers: trashers, logger: logger}
}

// Name lists the helpers in order
func (c *Chain) Name() string {
	names := make([]string, len(c.trashers))
	for i, t := range c.trashers {
		names[i] = t.Name()
	}
	return strings.Join(names, ",")
}

// Trash moves path with the first helper that succeeds. When all fail the
// individual errors are joined and wrapped in ErrTrashUnavailable.
func (c *Chain) Trash(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range c.trashers {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := t.Trash(ctx, abs)
		if err == nil {
			c.logger.Debug("Moved %s to trash via %s", abs, t.Name())
			return nil
		}

		c.logger.Debug("Trash helper %s failed for %s: %v", t.Name(), abs, err)
		errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no trash helper configured"))
	}
	return fmt.Errorf("%w: %w", ErrTrashUnavailable, errors.Join(errs...))
}

// defaultTrashDir is $XDG_DATA_HOME/Trash, falling back to
// ~/.local/share/Trash
func defaultTrashDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
		return filepath.Join(dir, "Trash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "Trash")
}
