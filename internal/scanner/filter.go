package scanner

import (
	"fmt"
	"time"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

// CriterionKind enumerates the filter criteria a scan can combine
type CriterionKind int

const (
	ModifiedBefore CriterionKind = iota
	AccessedBefore
	FileSizeAbove
	DirectorySizeAbove
	DirectoriesOnly
)

func (k CriterionKind) String() string {
	switch k {
	case ModifiedBefore:
		return "modified-before"
	case AccessedBefore:
		return "accessed-before"
	case FileSizeAbove:
		return "file-size-above"
	case DirectorySizeAbove:
		return "directory-size-above"
	case DirectoriesOnly:
		return "directories-only"
	default:
		return fmt.Sprintf("criterion(%d)", int(k))
	}
}

// Criterion is one compiled filter condition. Cutoff is used by the age
// kinds, Threshold (bytes) by the size kinds.
type Criterion struct {
	Kind      CriterionKind
	Cutoff    time.Time
	Threshold int64
}

// Match reports whether e satisfies the criterion. The directory-size kind
// resolves the recursive size through sizes and stores it on e.
func (c Criterion) Match(e *Entry, sizes *SizeCache) bool {
	switch c.Kind {
	case ModifiedBefore:
		return e.ModTime().Before(c.Cutoff)
	case AccessedBefore:
		return e.LastAccess().Before(c.Cutoff)
	case FileSizeAbove:
		if e.IsDir() {
			return true
		}
		return e.Size > c.Threshold
	case DirectorySizeAbove:
		if !e.IsDir() {
			return true
		}
		if !e.SizeKnown {
			e.Size = sizes.CalculateDirectorySize(e.Path)
			e.SizeKnown = true
		}
		return e.Size > c.Threshold
	case DirectoriesOnly:
		return e.IsDir()
	default:
		return false
	}
}

// Predicate returns true for entries that should be kept
type Predicate func(*Entry) bool

// FilterBuilder compiles scan options into a single predicate
type FilterBuilder struct {
	sizes    *SizeCache
	criteria []Criterion
	now      func() time.Time
}

// NewFilterBuilder creates a builder resolving directory sizes through sizes.
// A nil cache gets a private one.
func NewFilterBuilder(sizes *SizeCache) *FilterBuilder {
	if sizes == nil {
		sizes = NewSizeCache(nil)
	}
	return &FilterBuilder{
		sizes: sizes,
		now:   time.Now,
	}
}

// Clear drops every criterion collected so far
func (b *FilterBuilder) Clear() {
	b.criteria = nil
}

// Criteria returns a copy of the criteria from the last Build
func (b *FilterBuilder) Criteria() []Criterion {
	out := make([]Criterion, len(b.criteria))
	copy(out, b.criteria)
	return out
}

// Build compiles opts into a predicate. It returns nil when opts is nil or no
// criterion applies, meaning every entry passes.
func (b *FilterBuilder) Build(opts *config.ScanOptions) Predicate {
	b.Clear()
	if opts == nil {
		return nil
	}

	now := b.now()
	if opts.Age.UseModified {
		if cutoff, ok := opts.Age.ModifiedCutoff(now); ok {
			b.add(Criterion{Kind: ModifiedBefore, Cutoff: cutoff})
		}
	}
	if opts.Age.UseAccessed {
		if cutoff, ok := opts.Age.AccessedCutoff(now); ok {
			b.add(Criterion{Kind: AccessedBefore, Cutoff: cutoff})
		}
	}
	if opts.FileSize.Enabled {
		b.add(Criterion{Kind: FileSizeAbove, Threshold: utils.MegabytesToBytes(opts.FileSize.ThresholdMB)})
	}
	if opts.DirectorySize.Enabled {
		b.add(Criterion{Kind: DirectorySizeAbove, Threshold: utils.MegabytesToBytes(opts.DirectorySize.ThresholdMB)})
	}
	if !opts.IncludeFiles {
		b.add(Criterion{Kind: DirectoriesOnly})
	}

	if len(b.criteria) == 0 {
		return nil
	}

	criteria := b.Criteria()
	sizes := b.sizes
	return func(e *Entry) bool {
		for _, c := range criteria {
			if !c.Match(e, sizes) {
				return false
			}
		}
		return true
	}
}

func (b *FilterBuilder) add(c Criterion) {
	b.criteria = append(b.criteria, c)
}
