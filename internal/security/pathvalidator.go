// Package security guards delete operations against OS-critical paths.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fenilsonani/tidytree/internal/pathutil"
	"github.com/fenilsonani/tidytree/internal/platform"
)

var (
	// ErrInvalidArgument is returned for empty or malformed paths
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSafetyViolation matches every *SafetyViolationError
	ErrSafetyViolation = errors.New("safety violation")
)

// Violation kinds
const (
	ReasonSpecialFolder   = "special folder"
	ReasonCriticalFolder  = "critical system folder"
	ReasonSystemAttribute = "system attribute"
)

// SafetyViolationError reports a blocked deletion
type SafetyViolationError struct {
	Path    string
	Reason  string
	Blocker string // the folder or ancestor that caused the block
}

func (e *SafetyViolationError) Error() string {
	if e.Blocker != "" && e.Blocker != e.Path {
		return fmt.Sprintf("refusing to delete %s: %s %s", e.Path, e.Reason, e.Blocker)
	}
	return fmt.Sprintf("refusing to delete %s: %s", e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrSafetyViolation) match
func (e *SafetyViolationError) Is(target error) bool {
	return target == ErrSafetyViolation
}

// AttributeReader reports whether path carries the OS "system" marker.
// An error wrapping fs.ErrNotExist means the path does not exist.
type AttributeReader func(path string) (bool, error)

// PathValidator handles secure path validation for file operations
type PathValidator struct {
	mu       sync.RWMutex
	special  map[string]string // key -> original path
	critical []string          // keys

	readAttr AttributeReader
	cache    *AttributeCache
}

// ValidatorOption configures a PathValidator
type ValidatorOption func(*PathValidator)

// WithAttributeReader replaces the OS attribute lookup
func WithAttributeReader(r AttributeReader) ValidatorOption {
	return func(pv *PathValidator) {
		pv.readAttr = r
	}
}

// WithAttributeCache replaces the default attribute cache
func WithAttributeCache(c *AttributeCache) ValidatorOption {
	return func(pv *PathValidator) {
		pv.cache = c
	}
}

// NewPathValidator creates a validator protecting the special and critical
// folders of info. A nil info protects nothing but still runs the
// attribute walk.
func NewPathValidator(info *platform.Info, opts ...ValidatorOption) *PathValidator {
	pv := &PathValidator{
		special:  make(map[string]string),
		readAttr: hasSystemAttribute,
		cache:    NewAttributeCache(10000, 5*time.Minute),
	}
	if info != nil {
		for _, dir := range info.SpecialFolders {
			pv.AddSpecialFolder(dir)
		}
		for _, dir := range info.CriticalFolders {
			pv.AddCriticalFolder(dir)
		}
	}
	for _, opt := range opts {
		opt(pv)
	}
	return pv
}

// AddSpecialFolder protects dir itself, not its contents
func (pv *PathValidator) AddSpecialFolder(dir string) {
	key := pathutil.Key(dir)
	if key == "" {
		return
	}
	pv.mu.Lock()
	defer pv.mu.Unlock()
	pv.special[key] = filepath.Clean(dir)
}

// AddCriticalFolder protects dir and everything below it
func (pv *PathValidator) AddCriticalFolder(dir string) {
	key := pathutil.Key(dir)
	if key == "" {
		return
	}
	pv.mu.Lock()
	defer pv.mu.Unlock()
	pv.critical = append(pv.critical, key)
}

// Validate returns nil when path may be deleted. Empty paths yield
// ErrInvalidArgument; blocked paths yield a *SafetyViolationError.
func (pv *PathValidator) Validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidArgument)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: path contains a NUL byte", ErrInvalidArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	abs = filepath.Clean(abs)

	if err := pv.checkFolders(abs); err != nil {
		return err
	}
	return pv.checkAttributes(abs)
}

// IsProtectedPath reports whether path is a special folder or lies within a
// critical one
func (pv *PathValidator) IsProtectedPath(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return pv.checkFolders(filepath.Clean(abs)) != nil
}

func (pv *PathValidator) checkFolders(abs string) error {
	key := pathutil.Key(abs)

	pv.mu.RLock()
	defer pv.mu.RUnlock()

	if _, ok := pv.special[key]; ok {
		return &SafetyViolationError{Path: abs, Reason: ReasonSpecialFolder}
	}
	for _, crit := range pv.critical {
		if pathutil.IsWithin(crit, key) {
			return &SafetyViolationError{Path: abs, Reason: ReasonCriticalFolder, Blocker: crit}
		}
	}
	return nil
}

// checkAttributes walks from abs toward the filesystem root, excluding the
// root itself. Paths that do not exist yet are skipped; an unreadable
// ancestor ends the walk without blocking.
func (pv *PathValidator) checkAttributes(abs string) error {
	for cur := abs; ; {
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil
		}

		system, err := pv.systemAttribute(cur)
		switch {
		case err == nil && system:
			return &SafetyViolationError{Path: abs, Reason: ReasonSystemAttribute, Blocker: cur}
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil
		}
		cur = parent
	}
}

func (pv *PathValidator) systemAttribute(path string) (bool, error) {
	if pv.cache != nil {
		if system, ok := pv.cache.Get(path); ok {
			return system, nil
		}
	}

	system, err := pv.readAttr(path)
	if err != nil {
		return false, err
	}
	if pv.cache != nil {
		pv.cache.Set(path, system)
	}
	return system, nil
}
