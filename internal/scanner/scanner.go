// Package scanner builds the scanned tree one level at a time and computes
// memoized directory sizes.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/logging"
	"github.com/fenilsonani/tidytree/internal/progress"
	"github.com/fenilsonani/tidytree/internal/tree"
)

// ErrNotDirectory is returned when a scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// peekBatch bounds how many names the has-children check reads at once
const peekBatch = 32

// Scanner loads tree nodes from the filesystem
type Scanner struct {
	sizes            *SizeCache
	logger           *logging.Logger
	progressReporter *progress.Reporter
	workers          int
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers bounds scan parallelism. n <= 0 means one worker per CPU.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger for skipped entries
func WithLogger(l *logging.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// WithProgressReporter publishes multi-root scan progress to r
func WithProgressReporter(r *progress.Reporter) Option {
	return func(s *Scanner) {
		s.progressReporter = r
	}
}

// WithSizeCache shares an existing size cache
func WithSizeCache(c *SizeCache) Option {
	return func(s *Scanner) {
		s.sizes = c
	}
}

// New creates a Scanner
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sizes == nil {
		s.sizes = NewSizeCache(s.logger)
	}
	return s
}

// SizeCache returns the cache shared by the scanner and its filters
func (s *Scanner) SizeCache() *SizeCache {
	return s.sizes
}

// Workers returns the parallelism bound
func (s *Scanner) Workers() int {
	return s.workers
}

// CreateRootNode stats path and returns a depth-0 node carrying the
// directory's recursive size.
func (s *Scanner) CreateRootNode(path string) (*tree.Node, error) {
	node, err := s.StatRoot(path)
	if err != nil {
		return nil, err
	}
	node.Size = s.sizes.CalculateDirectorySize(node.Path)
	return node, nil
}

// StatRoot is CreateRootNode without the size walk. LoadChildrenForRoots
// fills in the size, so roots headed there should start here.
func (s *Scanner) StatRoot(path string) (*tree.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	node := tree.NewRoot(abs)
	node.LastModified = info.ModTime()
	node.LastAccessed = accessTime(info)
	return node, nil
}

// LoadChildren loads exactly one level below node, replacing any children
// loaded before. Subdirectories come first, then files. Only a failure to
// list node itself is returned; unreadable entries are logged and skipped.
func (s *Scanner) LoadChildren(node *tree.Node, opts *config.ScanOptions) error {
	pred := NewFilterBuilder(s.sizes).Build(opts)
	return s.load(node, pred, includeFiles(opts))
}

// LoadChildrenForRoots performs the initial scan of many roots. The size
// cache is cleared once up front and each root's Size is recomputed from the
// fresh cache. Roots are processed in parallel; a root that cannot be listed
// maps to an empty slice. Children are also attached to each root node.
func (s *Scanner) LoadChildrenForRoots(roots []*tree.Node, opts *config.ScanOptions) map[string][]*tree.Node {
	s.sizes.Clear()

	pred := NewFilterBuilder(s.sizes).Build(opts)
	files := includeFiles(opts)

	results := make([][]*tree.Node, len(roots))
	start := time.Now()
	var done, found atomic.Int64

	s.reportScan(progress.PhaseScanning, "", len(roots), 0, 0, start)

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, root := range roots {
		g.Go(func() error {
			if err := s.load(root, pred, files); err != nil {
				s.logger.Warn("skipping root %s: %v", root.Path, err)
				root.SetChildren(nil)
				results[i] = []*tree.Node{}
			} else {
				results[i] = root.Children
			}
			root.Size = s.sizes.CalculateDirectorySize(root.Path)

			n := found.Add(int64(len(results[i])))
			d := done.Add(1)
			s.reportScan(progress.PhaseScanning, root.Path, len(roots), int(d), int(n), start)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]*tree.Node, len(roots))
	for i, root := range roots {
		out[root.Path] = results[i]
	}

	s.reportScan(progress.PhaseComplete, "", len(roots), len(roots), int(found.Load()), start)
	return out
}

// Expand loads directories below node down to depth further levels.
// Already loaded directories are descended into without reloading.
func (s *Scanner) Expand(node *tree.Node, opts *config.ScanOptions, depth int) error {
	pred := NewFilterBuilder(s.sizes).Build(opts)
	return s.expand(node, pred, includeFiles(opts), depth)
}

func (s *Scanner) expand(node *tree.Node, pred Predicate, files bool, depth int) error {
	if depth <= 0 || !node.IsDirectory {
		return nil
	}
	if len(node.Children) == 0 && node.HasChildren {
		if err := s.load(node, pred, files); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := s.expand(child, pred, files, depth-1); err != nil {
			s.logger.Warn("skipping %s: %v", child.Path, err)
		}
	}
	return nil
}

func (s *Scanner) load(node *tree.Node, pred Predicate, files bool) error {
	children, err := s.listChildren(node, pred, files)
	if err != nil {
		return err
	}
	node.SetChildren(children)
	node.HasChildren = len(children) > 0
	return nil
}

// listChildren builds the child nodes of parent. Subdirectories are sized
// in parallel, each worker writing only its own slot.
func (s *Scanner) listChildren(parent *tree.Node, pred Predicate, files bool) ([]*tree.Node, error) {
	entries, err := os.ReadDir(parent.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", parent.Path, err)
	}

	var dirs, regular []fs.DirEntry
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			dirs = append(dirs, entry)
		case entry.Type().IsRegular():
			regular = append(regular, entry)
		default:
			s.logger.Debug("skipping non-regular entry %s", filepath.Join(parent.Path, entry.Name()))
		}
	}

	dirSlots := make([]*tree.Node, len(dirs))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, d := range dirs {
		g.Go(func() error {
			dirSlots[i] = s.directoryChild(parent, d, pred, files)
			return nil
		})
	}
	_ = g.Wait()

	children := make([]*tree.Node, 0, len(dirs)+len(regular))
	for _, child := range dirSlots {
		if child != nil {
			children = append(children, child)
		}
	}
	for _, f := range regular {
		if child := s.fileChild(parent, f, pred); child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}

func (s *Scanner) directoryChild(parent *tree.Node, d fs.DirEntry, pred Predicate, files bool) *tree.Node {
	path := filepath.Join(parent.Path, d.Name())
	info, err := d.Info()
	if err != nil {
		s.logger.Warn("skipping %s: %v", path, err)
		return nil
	}

	entry := NewEntry(path, info)
	if pred != nil && !pred(entry) {
		return nil
	}
	if !entry.SizeKnown {
		entry.Size = s.sizes.CalculateDirectorySize(path)
	}

	child := tree.NewChild(parent, d.Name(), true)
	child.Size = entry.Size
	child.LastModified = info.ModTime()
	child.LastAccessed = entry.AccessTime
	child.HasChildren = hasChildren(path, files)
	return child
}

func (s *Scanner) fileChild(parent *tree.Node, f fs.DirEntry, pred Predicate) *tree.Node {
	path := filepath.Join(parent.Path, f.Name())
	info, err := f.Info()
	if err != nil {
		s.logger.Warn("skipping %s: %v", path, err)
		return nil
	}

	entry := NewEntry(path, info)
	if pred != nil && !pred(entry) {
		return nil
	}

	child := tree.NewChild(parent, f.Name(), false)
	child.Size = info.Size()
	child.LastModified = info.ModTime()
	child.LastAccessed = entry.AccessTime
	return child
}

// hasChildren stops at the first subdirectory, or the first file when files
// are shown, without reading the rest of the directory.
func hasChildren(dir string, files bool) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()

	for {
		entries, err := f.ReadDir(peekBatch)
		for _, entry := range entries {
			if entry.IsDir() || (files && entry.Type().IsRegular()) {
				return true
			}
		}
		if err == io.EOF || len(entries) == 0 {
			return false
		}
		if err != nil {
			return false
		}
	}
}

func includeFiles(opts *config.ScanOptions) bool {
	return opts == nil || opts.IncludeFiles
}

func (s *Scanner) reportScan(phase progress.Phase, root string, total, done, found int, start time.Time) {
	if s.progressReporter == nil {
		return
	}

	s.progressReporter.UpdateScanProgress(&progress.ScanProgress{
		Phase:        phase,
		CurrentRoot:  root,
		EntriesFound: found,
		RootsTotal:   total,
		RootsDone:    done,
		StartTime:    start,
	})
}
