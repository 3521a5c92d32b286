package scanner

import (
	"os"
	"testing"
	"time"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/testutil"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

func entryFor(t *testing.T, path string) *Entry {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("lstat %s: %v", path, err)
	}
	return NewEntry(path, info)
}

func noCriteria() *config.ScanOptions {
	return &config.ScanOptions{IncludeFiles: true}
}

// =============================================================================
// Build Tests
// =============================================================================

func TestBuildNilOptions(t *testing.T) {
	if pred := NewFilterBuilder(nil).Build(nil); pred != nil {
		t.Error("expected nil predicate for nil options")
	}
}

func TestBuildNoActiveCriteria(t *testing.T) {
	opts := noCriteria()
	opts.Age.ModifiedMonths = 6 // flag off, ignored

	if pred := NewFilterBuilder(nil).Build(opts); pred != nil {
		t.Error("expected nil predicate when nothing is enabled")
	}
}

func TestBuildCollectsCriteria(t *testing.T) {
	cutoff := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		opts  config.ScanOptions
		kinds []CriterionKind
	}{
		{
			name:  "modified with explicit cutoff",
			opts:  config.ScanOptions{IncludeFiles: true, Age: config.AgeFilter{UseModified: true, ModifiedBefore: &cutoff}},
			kinds: []CriterionKind{ModifiedBefore},
		},
		{
			name:  "modified without resolvable cutoff",
			opts:  config.ScanOptions{IncludeFiles: true, Age: config.AgeFilter{UseModified: true}},
			kinds: nil,
		},
		{
			name:  "accessed by months",
			opts:  config.ScanOptions{IncludeFiles: true, Age: config.AgeFilter{UseAccessed: true, AccessedMonths: 2}},
			kinds: []CriterionKind{AccessedBefore},
		},
		{
			name: "everything",
			opts: config.ScanOptions{
				Age:           config.AgeFilter{UseModified: true, ModifiedMonths: 1, UseAccessed: true, AccessedMonths: 1},
				FileSize:      config.EntrySizeFilter{Enabled: true, ThresholdMB: 1},
				DirectorySize: config.EntrySizeFilter{Enabled: true, ThresholdMB: 2},
			},
			kinds: []CriterionKind{ModifiedBefore, AccessedBefore, FileSizeAbove, DirectorySizeAbove, DirectoriesOnly},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFilterBuilder(nil)
			pred := b.Build(&tt.opts)

			got := b.Criteria()
			if len(got) != len(tt.kinds) {
				t.Fatalf("got %d criteria, want %d", len(got), len(tt.kinds))
			}
			for i, k := range tt.kinds {
				if got[i].Kind != k {
					t.Errorf("criterion %d = %s, want %s", i, got[i].Kind, k)
				}
			}
			if (pred == nil) != (len(tt.kinds) == 0) {
				t.Errorf("predicate presence mismatch: nil=%v", pred == nil)
			}
		})
	}
}

func TestBuildConvertsThresholdToBytes(t *testing.T) {
	b := NewFilterBuilder(nil)
	b.Build(&config.ScanOptions{
		IncludeFiles: true,
		FileSize:     config.EntrySizeFilter{Enabled: true, ThresholdMB: 1.5},
	})

	c := b.Criteria()
	if len(c) != 1 || c[0].Threshold != int64(1.5*utils.MB) {
		t.Errorf("unexpected criteria %+v", c)
	}
}

func TestBuildClearsPreviousCriteria(t *testing.T) {
	b := NewFilterBuilder(nil)
	b.Build(&config.ScanOptions{FileSize: config.EntrySizeFilter{Enabled: true}})
	if len(b.Criteria()) != 2 {
		t.Fatalf("expected 2 criteria, got %d", len(b.Criteria()))
	}

	if pred := b.Build(noCriteria()); pred != nil {
		t.Error("expected nil predicate on second build")
	}
	if len(b.Criteria()) != 0 {
		t.Errorf("criteria leaked from previous build: %v", b.Criteria())
	}
}

func TestClear(t *testing.T) {
	b := NewFilterBuilder(nil)
	b.Build(&config.ScanOptions{})
	b.Clear()
	if len(b.Criteria()) != 0 {
		t.Error("expected no criteria after Clear")
	}
}

// =============================================================================
// Criterion Tests
// =============================================================================

func TestModifiedBeforeCriterion(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	old := f.CreateFileWithAge("old.txt", []byte("x"), 400*24*time.Hour)
	fresh := f.CreateFile("new.txt", []byte("x"))

	opts := noCriteria()
	opts.Age = config.AgeFilter{UseModified: true, ModifiedMonths: 6}
	pred := NewFilterBuilder(nil).Build(opts)

	if !pred(entryFor(t, old)) {
		t.Error("expected old file to pass")
	}
	if pred(entryFor(t, fresh)) {
		t.Error("expected new file to be filtered out")
	}
}

func TestAccessedBeforeCriterion(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	old := f.CreateFileWithAge("old.txt", []byte("x"), 400*24*time.Hour)

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	c := Criterion{Kind: AccessedBefore, Cutoff: cutoff}
	if !c.Match(entryFor(t, old), nil) {
		t.Error("expected old access time to match")
	}

	// Unknown access time falls back to the modification time
	e := &Entry{Info: entryFor(t, old).Info}
	if !c.Match(e, nil) {
		t.Error("expected fallback to modification time")
	}
}

func TestFileSizeCriterion(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	small := f.CreateSizedFile("small.bin", 1024)
	big := f.CreateSizedFile("big.bin", 4096)
	dir := f.CreateDir("dir")

	c := Criterion{Kind: FileSizeAbove, Threshold: 2048}

	if c.Match(entryFor(t, small), nil) {
		t.Error("small file should not pass")
	}
	if !c.Match(entryFor(t, big), nil) {
		t.Error("big file should pass")
	}
	if !c.Match(entryFor(t, dir), nil) {
		t.Error("directories always pass the file-size criterion")
	}
}

func TestFileSizeCriterionAtThreshold(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	exact := f.CreateSizedFile("exact.bin", 2048)

	c := Criterion{Kind: FileSizeAbove, Threshold: 2048}
	if c.Match(entryFor(t, exact), nil) {
		t.Error("a file exactly at the threshold is not above it")
	}
}

func TestDirectorySizeCriterionWritesBackSize(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	f.CreateSizedFile("big/a.bin", 3000)
	f.CreateSizedFile("small/a.bin", 10)
	file := f.CreateSizedFile("file.bin", 1)

	sizes := NewSizeCache(nil)
	c := Criterion{Kind: DirectorySizeAbove, Threshold: 1000}

	bigEntry := entryFor(t, f.Path("big"))
	if !c.Match(bigEntry, sizes) {
		t.Error("big directory should pass")
	}
	if !bigEntry.SizeKnown || bigEntry.Size != 3000 {
		t.Errorf("expected size 3000 written back, got %d (known=%v)", bigEntry.Size, bigEntry.SizeKnown)
	}
	if _, ok := sizes.Lookup(f.Path("big")); !ok {
		t.Error("expected directory size to be cached")
	}

	if c.Match(entryFor(t, f.Path("small")), sizes) {
		t.Error("small directory should not pass")
	}
	if !c.Match(entryFor(t, file), sizes) {
		t.Error("files always pass the directory-size criterion")
	}
}

func TestDirectoriesOnlyCriterion(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	file := f.CreateFile("a.txt", nil)
	dir := f.CreateDir("d")

	opts := &config.ScanOptions{IncludeFiles: false}
	pred := NewFilterBuilder(nil).Build(opts)

	if pred(entryFor(t, file)) {
		t.Error("files should be dropped")
	}
	if !pred(entryFor(t, dir)) {
		t.Error("directories should be kept")
	}
}

func TestPredicateIsConjunction(t *testing.T) {
	f := testutil.NewEmptyFixture(t)
	oldSmall := f.CreateFileWithAge("old-small.bin", make([]byte, 10), 400*24*time.Hour)
	oldBig := f.CreateFileWithAge("old-big.bin", make([]byte, 3*utils.MB), 400*24*time.Hour)
	newBig := f.CreateSizedFile("new-big.bin", 3*utils.MB)

	opts := &config.ScanOptions{
		IncludeFiles: true,
		Age:          config.AgeFilter{UseModified: true, ModifiedMonths: 6},
		FileSize:     config.EntrySizeFilter{Enabled: true, ThresholdMB: 1},
	}
	pred := NewFilterBuilder(nil).Build(opts)

	tests := []struct {
		path string
		want bool
	}{
		{oldSmall, false},
		{oldBig, true},
		{newBig, false},
	}
	for _, tt := range tests {
		if got := pred(entryFor(t, tt.path)); got != tt.want {
			t.Errorf("pred(%s) = %v, want %v", f.RelPath(tt.path), got, tt.want)
		}
	}
}
