// Package cleaner deletes selected entries, to the trash or permanently,
// one at a time with progress reporting and partial-failure tolerance.
package cleaner

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/history"
	"github.com/fenilsonani/tidytree/internal/logging"
	"github.com/fenilsonani/tidytree/internal/platform"
	"github.com/fenilsonani/tidytree/internal/progress"
	"github.com/fenilsonani/tidytree/internal/security"
	"github.com/fenilsonani/tidytree/internal/trash"
	"github.com/fenilsonani/tidytree/internal/tree"
)

// Mode selects the terminal action of a batch
type Mode int

const (
	ModeTrash Mode = iota
	ModePermanent
)

// String returns the mode as recorded in history
func (m Mode) String() string {
	if m == ModePermanent {
		return string(history.TypePermanent)
	}
	return string(history.TypeTrash)
}

// ProgressFunc receives one snapshot per item, before the item is touched
type ProgressFunc func(progress.DeleteProgress)

// HistoryRecorder stores successful deletions
type HistoryRecorder interface {
	AddEntry(ctx context.Context, entry *history.Entry) error
}

// Validator decides whether a path may be deleted
type Validator interface {
	Validate(path string) error
}

// ItemSet is the live collection a batch deletes from. Successfully deleted
// items are removed from it as the batch runs.
type ItemSet interface {
	Snapshot() []*tree.Node
	Remove(node *tree.Node)
}

// ItemList is a mutex-guarded ItemSet
type ItemList struct {
	mu    sync.Mutex
	items []*tree.Node
}

// NewItemList creates a list holding nodes
func NewItemList(nodes ...*tree.Node) *ItemList {
	return &ItemList{items: append([]*tree.Node(nil), nodes...)}
}

// Add appends nodes
func (l *ItemList) Add(nodes ...*tree.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, nodes...)
}

// Snapshot returns a copy of the current items
func (l *ItemList) Snapshot() []*tree.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*tree.Node(nil), l.items...)
}

// Remove drops the first occurrence of node
func (l *ItemList) Remove(node *tree.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if item == node {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of items
func (l *ItemList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// DeleteResult represents the result of a delete operation
type DeleteResult struct {
	Success      bool
	DeletedCount int
	FailedCount  int
	Errors       []*DeletionError
	BytesFreed   int64

	DeletedPaths []string
	Duration     time.Duration
}

// Deleter handles file deletion with safeguards
type Deleter struct {
	validator        Validator
	trasher          trash.Trasher
	history          HistoryRecorder
	permissions      *PermissionManager
	progressReporter *progress.Reporter
	logger           *logging.Logger
	retryDelays      []time.Duration
}

// Option configures a Deleter
type Option func(*Deleter)

// WithValidator replaces the platform path validator
func WithValidator(v Validator) Option {
	return func(d *Deleter) {
		d.validator = v
	}
}

// WithTrasher replaces the platform trash
func WithTrasher(t trash.Trasher) Option {
	return func(d *Deleter) {
		d.trasher = t
	}
}

// WithHistory records successful deletions in h
func WithHistory(h HistoryRecorder) Option {
	return func(d *Deleter) {
		d.history = h
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(d *Deleter) {
		d.logger = l
	}
}

// WithProgressReporter also publishes each progress snapshot to r
func WithProgressReporter(r *progress.Reporter) Option {
	return func(d *Deleter) {
		d.progressReporter = r
	}
}

// WithRetryDelays overrides the delays between permanent-delete retries
func WithRetryDelays(delays []time.Duration) Option {
	return func(d *Deleter) {
		d.retryDelays = delays
	}
}

// New creates a Deleter. Anything not set through opts is derived from cfg
// and the running platform.
func New(cfg *config.Config, opts ...Option) *Deleter {
	if cfg == nil {
		cfg = config.GetDefault()
	}

	d := &Deleter{
		permissions: NewPermissionManager(),
		retryDelays: cfg.Deletion.RetryDelays,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.validator == nil || d.trasher == nil {
		info, err := platform.GetInfo()
		if err != nil {
			d.logger.Warn("Platform folders unavailable: %v", err)
		}
		if d.validator == nil {
			d.validator = security.NewPathValidator(info)
		}
		if d.trasher == nil {
			var trashOpts []trash.Option
			if info != nil {
				trashOpts = append(trashOpts, trash.WithTrashDir(info.TrashDir))
			}
			d.trasher = trash.New(cfg.Trash, d.logger, trashOpts...)
		}
	}

	return d
}

// MoveToTrash moves every item of items into the trash
func (d *Deleter) MoveToTrash(ctx context.Context, items ItemSet, report ProgressFunc) (*DeleteResult, error) {
	return d.run(ctx, items, report, ModeTrash)
}

// DeletePermanently removes every item of items, directories recursively
func (d *Deleter) DeletePermanently(ctx context.Context, items ItemSet, report ProgressFunc) (*DeleteResult, error) {
	return d.run(ctx, items, report, ModePermanent)
}

// run processes items in snapshot order. A failed item is recorded and the
// batch moves on; cancellation aborts the batch with ctx.Err().
func (d *Deleter) run(ctx context.Context, items ItemSet, report ProgressFunc, mode Mode) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	var snapshot []*tree.Node
	if items != nil {
		snapshot = items.Snapshot()
	}
	total := len(snapshot)

	result := &DeleteResult{
		Errors:       []*DeletionError{},
		DeletedPaths: []string{},
	}

	d.logger.Info("Deleting %d items (%s)", total, mode)

	for i, node := range snapshot {
		if err := ctx.Err(); err != nil {
			d.logger.Info("Deletion cancelled after %d of %d items", i, total)
			return nil, err
		}

		d.reportProgress(report, progress.NewDeleteProgress(i+1, total, node.Path))

		size, isDir, delErr := d.deleteOne(ctx, node, mode)
		if delErr != nil {
			if err := ctx.Err(); err != nil {
				d.logger.Info("Deletion cancelled at %s", node.Path)
				return nil, err
			}
			d.logger.Warn("Failed to delete %s: %v", node.Path, delErr)
			result.Errors = append(result.Errors, delErr)
			result.FailedCount++
			continue
		}

		result.DeletedCount++
		result.BytesFreed += size
		result.DeletedPaths = append(result.DeletedPaths, node.Path)
		d.record(ctx, node, size, isDir, mode)
		items.Remove(node)
	}

	result.Success = result.FailedCount == 0
	result.Duration = time.Since(startTime)

	d.logger.Info("Deleted %d items, %d failed, %d bytes freed", result.DeletedCount, result.FailedCount, result.BytesFreed)
	return result, nil
}

func (d *Deleter) reportProgress(report ProgressFunc, p progress.DeleteProgress) {
	if report != nil {
		report(p)
	}
	if d.progressReporter != nil {
		d.progressReporter.UpdateDeleteProgress(p)
	}
}

// deleteOne validates and removes a single node
func (d *Deleter) deleteOne(ctx context.Context, node *tree.Node, mode Mode) (int64, bool, *DeletionError) {
	path := node.Path

	if err := d.validator.Validate(path); err != nil {
		return 0, false, CategorizeError(path, err)
	}

	// Lstat: a symlink is deleted as itself, never through its target
	info, err := os.Lstat(path)
	if err != nil {
		return 0, false, CategorizeError(path, err)
	}
	if err := checkSpecialFile(info); err != nil {
		return 0, false, &DeletionError{
			Path:     path,
			Message:  err.Error(),
			Reason:   ErrorInvalidPath,
			Original: err,
		}
	}

	switch mode {
	case ModePermanent:
		err = d.removeWithRetry(ctx, path, info.IsDir())
	default:
		err = d.trasher.Trash(ctx, path)
	}
	if err != nil {
		delErr := CategorizeError(path, err)
		if delErr.Reason == ErrorPermissionDenied {
			delErr.NeedsElevation = d.permissions.RequiresElevation(path)
		}
		return 0, false, delErr
	}

	return itemSize(node, info), info.IsDir(), nil
}

// removeWithRetry retries transient "in use" failures after each configured
// delay
func (d *Deleter) removeWithRetry(ctx context.Context, path string, isDir bool) error {
	for attempt := 0; ; attempt++ {
		var err error
		if isDir {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err == nil {
			return nil
		}

		if attempt >= len(d.retryDelays) || !CategorizeError(path, err).Retryable {
			return err
		}

		d.logger.Debug("Retrying %s in %s: %v", path, d.retryDelays[attempt], err)
		timer := time.NewTimer(d.retryDelays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// record writes a history entry; failures are logged and never fail the
// deletion
func (d *Deleter) record(ctx context.Context, node *tree.Node, size int64, isDir bool, mode Mode) {
	if d.history == nil {
		return
	}

	typ := history.TypeTrash
	if mode == ModePermanent {
		typ = history.TypePermanent
	}

	entry := history.NewEntry(node.Path, size, isDir, typ)
	if node.Name != "" {
		entry.Name = node.Name
	}
	entry.ParentPath = node.ParentPath()

	if err := d.history.AddEntry(ctx, entry); err != nil {
		d.logger.Warn("Failed to record history for %s: %v", node.Path, err)
	}
}

// itemSize prefers the scanned size, falling back to the file length
func itemSize(node *tree.Node, info os.FileInfo) int64 {
	if node.Size > 0 {
		return node.Size
	}
	if info.Mode().IsRegular() {
		return info.Size()
	}
	return 0
}
