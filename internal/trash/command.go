package trash

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// argsFunc builds a helper's argument list for path
type argsFunc func(path string) []string

// builtinCommands are the external helpers known by name
var builtinCommands = map[string]argsFunc{
	"gio": func(path string) []string {
		return []string{"trash", path}
	},
	"kioclient5": func(path string) []string {
		return []string{"move", path, "trash:/"}
	},
	"trash-put": func(path string) []string {
		return []string{"--", path}
	},
	"osascript": func(path string) []string {
		return []string{"-e", fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, appleScriptQuote(path))}
	},
	"trash": func(path string) []string {
		return []string{path}
	},
}

func builtinCommand(name string, timeout time.Duration) *Command {
	return NewCommand(name, name, builtinCommands[name], timeout)
}

// Command trashes a path by running an external program
type Command struct {
	name    string
	program string
	args    argsFunc
	timeout time.Duration
}

// NewCommand creates a helper running program with args(path). A zero
// timeout leaves the run bounded only by the caller's context.
func NewCommand(name, program string, args func(path string) []string, timeout time.Duration) *Command {
	return &Command{
		name:    name,
		program: program,
		args:    args,
		timeout: timeout,
	}
}

// Name returns the helper name
func (c *Command) Name() string {
	return c.name
}

// Trash runs the helper and checks that path is gone afterwards
func (c *Command) Trash(ctx context.Context, path string) error {
	bin, err := exec.LookPath(c.program)
	if err != nil {
		return fmt.Errorf("%s not found: %w", c.program, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, c.args(path)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", c.program, ctx.Err())
		}
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", c.program, err, msg)
		}
		return fmt.Errorf("%s failed: %w", c.program, err)
	}

	// Some helpers exit 0 without doing anything
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%s exited successfully but %s still exists", c.program, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to verify %s: %w", path, err)
	}
	return nil
}

// appleScriptQuote escapes s for use inside an AppleScript string literal
func appleScriptQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
