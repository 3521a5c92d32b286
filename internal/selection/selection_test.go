package selection

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/pathutil"
	"github.com/fenilsonani/tidytree/internal/tree"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newRoot() *tree.Node {
	return tree.NewRoot(filepath.FromSlash("/data"))
}

func addNode(parent *tree.Node, name string, isDir bool, size int64, modified time.Time) *tree.Node {
	n := tree.NewChild(parent, name, isDir)
	n.Size = size
	n.LastModified = modified
	parent.AddChild(n)
	return n
}

func ageOnly(months int) *config.ScanOptions {
	return &config.ScanOptions{
		IncludeFiles: true,
		Age:          config.AgeFilter{UseModified: true, ModifiedMonths: months},
	}
}

func sizeOnly(fileMB, dirMB float64) *config.ScanOptions {
	return &config.ScanOptions{
		IncludeFiles:  true,
		FileSize:      config.EntrySizeFilter{Enabled: true, ThresholdMB: fileMB},
		DirectorySize: config.EntrySizeFilter{Enabled: true, ThresholdMB: dirMB},
	}
}

func scoreOf(t *testing.T, scored []ScoredNode, n *tree.Node) ScoredNode {
	t.Helper()
	for _, s := range scored {
		if s.Node == n {
			return s
		}
	}
	t.Fatalf("node %s not scored", n.Path)
	return ScoredNode{}
}

// =============================================================================
// Scorer Tests
// =============================================================================

func TestComputeScoresCoversSubtree(t *testing.T) {
	root := newRoot()
	a := addNode(root, "a", true, 10, testNow)
	addNode(a, "x.txt", false, 5, testNow)
	addNode(root, "b.txt", false, 5, testNow)

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, nil, config.DefaultScorerOptions())
	if len(scored) != 4 {
		t.Fatalf("expected 4 scored nodes, got %d", len(scored))
	}
	if scored[0].Node != root {
		t.Error("root should be scored first")
	}
}

func TestComputeScoresNilRoot(t *testing.T) {
	if got := NewScorer().ComputeScores(nil, nil, config.DefaultScorerOptions()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestDisabledDimensionsAreNeutral(t *testing.T) {
	root := newRoot()
	nodes := []*tree.Node{
		addNode(root, "ancient.bin", false, 50*utils.GB, testNow.AddDate(-10, 0, 0)),
		addNode(root, "fresh.bin", false, 1, testNow),
		addNode(root, "unknown.bin", false, 0, time.Time{}),
		addNode(root, "dir", true, 1*utils.GB, testNow.AddDate(-1, 0, 0)),
	}

	scan := &config.ScanOptions{IncludeFiles: true}
	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, scan, config.DefaultScorerOptions())

	for _, n := range nodes {
		s := scoreOf(t, scored, n)
		if s.AgeScore != NeutralScore {
			t.Errorf("%s age score = %v, want 0.5", n.Name, s.AgeScore)
		}
		if s.SizeScore != NeutralScore {
			t.Errorf("%s size score = %v, want 0.5", n.Name, s.SizeScore)
		}
	}
}

func TestAgeScoreAtCutoffIsNeutral(t *testing.T) {
	cutoff := testNow.AddDate(0, -6, 0)
	root := newRoot()
	n := addNode(root, "edge.txt", false, 1, cutoff)

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, ageOnly(6), config.DefaultScorerOptions())
	if got := scoreOf(t, scored, n).AgeScore; got != 0.5 {
		t.Errorf("age score at cutoff = %v, want 0.5", got)
	}
}

func TestAgeScoreMonotonic(t *testing.T) {
	root := newRoot()
	ages := []int{0, 90, 180, 200, 365, 730, 3650} // days before now
	var nodes []*tree.Node
	for _, d := range ages {
		nodes = append(nodes, addNode(root, fmt.Sprintf("f%d", d), false, 1, testNow.AddDate(0, 0, -d)))
	}

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, ageOnly(6), config.DefaultScorerOptions())

	prev := -1.0
	for i, n := range nodes {
		s := scoreOf(t, scored, n).AgeScore
		if s <= prev {
			t.Errorf("age score for %d days (%v) not above previous (%v)", ages[i], s, prev)
		}
		if s < 0 || s > 1 {
			t.Errorf("age score %v out of range", s)
		}
		prev = s
	}

	if s := scoreOf(t, scored, nodes[0]).AgeScore; s >= 0.5 {
		t.Errorf("a file newer than the cutoff should score below neutral, got %v", s)
	}
	if s := scoreOf(t, scored, nodes[len(nodes)-1]).AgeScore; s < 0.99 {
		t.Errorf("a very old file should approach 1, got %v", s)
	}
}

func TestAgeScoreNeutralCases(t *testing.T) {
	explicit := testNow.AddDate(-1, 0, 0)

	tests := []struct {
		name     string
		scan     *config.ScanOptions
		modified time.Time
	}{
		{"nil options", nil, testNow.AddDate(-5, 0, 0)},
		{"flag off", &config.ScanOptions{Age: config.AgeFilter{ModifiedBefore: &explicit}}, testNow.AddDate(-5, 0, 0)},
		{"no cutoff", &config.ScanOptions{Age: config.AgeFilter{UseModified: true}}, testNow.AddDate(-5, 0, 0)},
		{"unknown timestamp", ageOnly(6), time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot()
			n := addNode(root, "f", false, 1, tt.modified)
			scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, tt.scan, config.DefaultScorerOptions())
			if got := scoreOf(t, scored, n).AgeScore; got != NeutralScore {
				t.Errorf("age score = %v, want 0.5", got)
			}
		})
	}
}

func TestAgeScoreExplicitCutoffWins(t *testing.T) {
	explicit := testNow.AddDate(-2, 0, 0)
	root := newRoot()
	n := addNode(root, "f", false, 1, explicit)

	scan := &config.ScanOptions{Age: config.AgeFilter{UseModified: true, ModifiedBefore: &explicit, ModifiedMonths: 1}}
	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, scan, config.DefaultScorerOptions())
	if got := scoreOf(t, scored, n).AgeScore; got != 0.5 {
		t.Errorf("age score = %v, want 0.5 at the explicit cutoff", got)
	}
}

func TestSizeScore(t *testing.T) {
	root := newRoot()
	under := addNode(root, "under.bin", false, 50*utils.MB, testNow)
	at := addNode(root, "at.bin", false, 100*utils.MB, testNow)
	over := addNode(root, "over.bin", false, 150*utils.MB, testNow)
	far := addNode(root, "far.bin", false, 600*utils.MB, testNow)

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, sizeOnly(100, 500), config.DefaultScorerOptions())

	if s := scoreOf(t, scored, under).SizeScore; s != 0 {
		t.Errorf("below threshold = %v, want 0", s)
	}
	if s := scoreOf(t, scored, at).SizeScore; s != 0 {
		t.Errorf("at threshold = %v, want 0", s)
	}

	sOver := scoreOf(t, scored, over).SizeScore
	sFar := scoreOf(t, scored, far).SizeScore
	if sOver <= 0 {
		t.Errorf("above threshold should score > 0, got %v", sOver)
	}
	if sFar <= sOver {
		t.Errorf("600MB (%v) should outscore 150MB (%v)", sFar, sOver)
	}
	if sFar > 1 {
		t.Errorf("size score %v above 1", sFar)
	}
}

func TestSizeScoreUsesDirectoryThreshold(t *testing.T) {
	root := newRoot()
	d := addNode(root, "dir", true, 200*utils.MB, testNow)
	f := addNode(root, "file.bin", false, 200*utils.MB, testNow)

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, sizeOnly(100, 500), config.DefaultScorerOptions())

	if s := scoreOf(t, scored, d).SizeScore; s != 0 {
		t.Errorf("directory under its threshold = %v, want 0", s)
	}
	if s := scoreOf(t, scored, f).SizeScore; s <= 0 {
		t.Errorf("file above its threshold = %v, want > 0", s)
	}
}

func TestSizeScoreZeroThreshold(t *testing.T) {
	root := newRoot()
	empty := addNode(root, "empty", false, 0, testNow)
	tiny := addNode(root, "tiny", false, 1, testNow)

	scored := NewScorer(WithClock(fixedClock)).ComputeScores(root, sizeOnly(0, 0), config.DefaultScorerOptions())
	if s := scoreOf(t, scored, empty).SizeScore; s != 0 {
		t.Errorf("empty file = %v, want 0", s)
	}
	if s := scoreOf(t, scored, tiny).SizeScore; s <= 0 {
		t.Errorf("1 byte over a zero threshold = %v, want > 0", s)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		age  float64
		size float64
		opts config.ScorerOptions
		want float64
	}{
		{"equal weights", 1, 0, config.ScorerOptions{WeightAge: 0.5, WeightSize: 0.5}, 0.5},
		{"age heavy", 1, 0, config.ScorerOptions{WeightAge: 3, WeightSize: 1}, 0.75},
		{"size only", 0.2, 0.8, config.ScorerOptions{WeightAge: 0, WeightSize: 2}, 0.8},
		{"zero weights", 0.2, 0.6, config.ScorerOptions{}, 0.4},
		{"negative weight ignored", 0.9, 0.1, config.ScorerOptions{WeightAge: -1, WeightSize: 1}, 0.1},
		{"both negative", 0.9, 0.1, config.ScorerOptions{WeightAge: -1, WeightSize: -1}, 0.5},
		{"nan weight", 0.9, 0.1, config.ScorerOptions{WeightAge: math.NaN(), WeightSize: 1}, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := combine(tt.age, tt.size, tt.opts)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("combine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoresStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	weights := []config.ScorerOptions{
		{WeightAge: 0, WeightSize: 0},
		{WeightAge: 0.5, WeightSize: 0.5},
		{WeightAge: 100, WeightSize: 0.001},
		{WeightAge: -3, WeightSize: 7},
	}
	scans := []*config.ScanOptions{nil, ageOnly(6), sizeOnly(1, 10), {
		Age:           config.AgeFilter{UseModified: true, ModifiedMonths: 1},
		FileSize:      config.EntrySizeFilter{Enabled: true, ThresholdMB: 0.5},
		DirectorySize: config.EntrySizeFilter{Enabled: true, ThresholdMB: 2},
	}}

	root := newRoot()
	parents := []*tree.Node{root}
	for i := 0; i < 200; i++ {
		parent := parents[rng.Intn(len(parents))]
		isDir := rng.Intn(3) == 0
		var modified time.Time
		if rng.Intn(10) > 0 {
			modified = testNow.Add(-time.Duration(rng.Int63n(int64(20 * 365 * 24 * time.Hour))))
		}
		if rng.Intn(20) == 0 {
			modified = testNow.AddDate(1, 0, 0) // clock skew
		}
		n := addNode(parent, fmt.Sprintf("n%d", i), isDir, rng.Int63n(10*utils.GB), modified)
		if isDir {
			parents = append(parents, n)
		}
	}

	scorer := NewScorer(WithClock(fixedClock))
	for _, w := range weights {
		for _, scan := range scans {
			for _, s := range scorer.ComputeScores(root, scan, w) {
				for _, v := range []float64{s.AgeScore, s.SizeScore, s.CombinedScore} {
					if math.IsNaN(v) || v < 0 || v > 1 {
						t.Fatalf("score %v out of range for %s (weights %+v)", v, s.Node.Path, w)
					}
				}
			}
		}
	}
}

// =============================================================================
// Engine Tests
// =============================================================================

func TestSelectTakesTopShare(t *testing.T) {
	tests := []struct {
		name string
		n    int
		p    float64
		want int
	}{
		{"ten at forty percent", 10, 0.4, 4},
		{"one at ten percent", 1, 0.1, 1},
		{"ten at zero", 10, 0, 1},
		{"ten at full", 10, 1, 10},
		{"seven at half", 7, 0.5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRoot()
			for i := 0; i < tt.n; i++ {
				addNode(root, fmt.Sprintf("f%02d", i), false, int64(i+1)*utils.MB, testNow.AddDate(0, 0, -i*30))
			}

			opts := config.ScorerOptions{WeightAge: 0.5, WeightSize: 0.5, TopPercentage: tt.p}
			got := NewEngine(NewScorer(WithClock(fixedClock))).Select(root, ageOnly(6), opts)
			if len(got) != tt.want {
				t.Errorf("selected %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSelectNeverIncludesRoot(t *testing.T) {
	root := newRoot()
	root.Size = 100 * utils.GB
	root.LastModified = testNow.AddDate(-20, 0, 0)
	addNode(root, "only.txt", false, 1, testNow)

	opts := config.ScorerOptions{WeightAge: 1, WeightSize: 1, TopPercentage: 1}
	for _, n := range NewEngine(NewScorer(WithClock(fixedClock))).Select(root, sizeOnly(1, 1), opts) {
		if n == root {
			t.Fatal("root must never be selected")
		}
	}
}

func TestSelectSkipsExcludedPaths(t *testing.T) {
	root := newRoot()
	docs := addNode(root, "Documents", true, 50*utils.GB, testNow)
	old := addNode(docs, "old.zip", false, 2*utils.GB, testNow)
	addNode(root, "tiny.txt", false, 1, testNow)

	exclude := func(path string) bool { return pathutil.Equal(path, docs.Path) }
	engine := NewEngine(NewScorer(WithClock(fixedClock)), WithExclude(exclude))

	opts := config.ScorerOptions{WeightSize: 1, TopPercentage: 1}
	got := engine.Select(root, sizeOnly(1, 1), opts)

	if len(got) == 0 || got[0] != old {
		t.Fatalf("expected the file inside the excluded folder first, got %v", got)
	}
	for _, n := range got {
		if n == docs {
			t.Error("excluded folder was selected")
		}
	}
}

func TestSelectRootOnly(t *testing.T) {
	root := newRoot()
	if got := NewEngine(nil).Select(root, nil, config.DefaultScorerOptions()); len(got) != 0 {
		t.Errorf("expected empty selection, got %d", len(got))
	}
}

func TestSelectOrdersByScore(t *testing.T) {
	root := newRoot()
	small := addNode(root, "small.bin", false, 2*utils.MB, testNow)
	large := addNode(root, "large.bin", false, 5*utils.MB, testNow)
	medium := addNode(root, "medium.bin", false, 3*utils.MB, testNow)

	opts := config.ScorerOptions{WeightSize: 1, TopPercentage: 1}
	got := NewEngine(NewScorer(WithClock(fixedClock))).Select(root, sizeOnly(1, 1), opts)

	want := []*tree.Node{large, medium, small}
	if len(got) != len(want) {
		t.Fatalf("selected %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, want[i].Name)
		}
	}
}

func TestRankBreaksTiesByPath(t *testing.T) {
	root := newRoot()
	addNode(root, "c", false, 1, testNow)
	addNode(root, "a", false, 1, testNow)
	addNode(root, "b", false, 1, testNow)

	ranked := NewEngine(nil).Rank(root, nil, config.DefaultScorerOptions())
	var got []string
	for _, s := range ranked {
		got = append(got, s.Node.Name)
	}
	if fmt.Sprint(got) != "[a b c]" {
		t.Errorf("tie order = %v, want [a b c]", got)
	}
}

func TestSelectRemovesNestedDuplicates(t *testing.T) {
	root := newRoot()
	parent := addNode(root, "parent", true, 900*utils.MB, testNow)
	addNode(parent, "child.bin", false, 800*utils.MB, testNow)
	addNode(root, "tiny.txt", false, 1, testNow)
	addNode(root, "tiny2.txt", false, 1, testNow)

	opts := config.ScorerOptions{WeightSize: 1, TopPercentage: 0.5}
	got := NewEngine(NewScorer(WithClock(fixedClock))).Select(root, sizeOnly(1, 1), opts)

	if len(got) != 1 || got[0] != parent {
		var names []string
		for _, n := range got {
			names = append(names, n.Path)
		}
		t.Errorf("expected only parent, got %v", names)
	}
}

func TestSelectAllScoredAcrossRoots(t *testing.T) {
	outer := tree.NewRoot(filepath.FromSlash("/data"))
	inner := addNode(outer, "inner", true, 900*utils.MB, testNow)
	addNode(outer, "small.txt", false, 1, testNow)

	innerRoot := tree.NewRoot(inner.Path)
	addNode(innerRoot, "big.bin", false, 800*utils.MB, testNow)

	other := tree.NewRoot(filepath.FromSlash("/other"))
	addNode(other, "x.bin", false, 5*utils.MB, testNow)

	opts := config.ScorerOptions{WeightSize: 1, TopPercentage: 0.5}
	got := NewEngine(NewScorer(WithClock(fixedClock))).SelectAllScored([]*tree.Node{outer, innerRoot, other}, sizeOnly(1, 1), opts)

	var paths []string
	for _, s := range got {
		paths = append(paths, filepath.ToSlash(s.Node.Path))
	}
	if fmt.Sprint(paths) != "[/data/inner /other/x.bin]" {
		t.Errorf("SelectAllScored = %v", paths)
	}
}

func TestTakeCount(t *testing.T) {
	tests := []struct {
		n    int
		p    float64
		want int
	}{
		{0, 0.5, 0},
		{10, 0.4, 4},
		{1, 0.1, 1},
		{100, 0.29, 29},
		{10, -1, 1},
		{10, 2, 10},
		{10, math.NaN(), 1},
		{3, 0.99, 2},
	}
	for _, tt := range tests {
		if got := TakeCount(tt.n, tt.p); got != tt.want {
			t.Errorf("TakeCount(%d, %v) = %d, want %d", tt.n, tt.p, got, tt.want)
		}
	}
}

// =============================================================================
// TopLevelItems Tests
// =============================================================================

func nodesAt(paths ...string) []*tree.Node {
	out := make([]*tree.Node, len(paths))
	for i, p := range paths {
		out[i] = &tree.Node{Name: filepath.Base(p), Path: p}
	}
	return out
}

func pathsOf(nodes []*tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path
	}
	return out
}

func TestTopLevelItems(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"parent and child", []string{"/parent", "/parent/child"}, []string{"/parent"}},
		{"child listed first", []string{"/parent/child", "/parent"}, []string{"/parent"}},
		{"textual prefix is not an ancestor", []string{"/test", "/testing"}, []string{"/test", "/testing"}},
		{"trailing separator", []string{"/parent/", "/parent/child"}, []string{"/parent/"}},
		{"deep descendant", []string{"/a/b/c/d", "/a", "/x"}, []string{"/a", "/x"}},
		{"exact duplicates keep first", []string{"/a/b", "/a/b/", "/c"}, []string{"/a/b", "/c"}},
		{"filesystem root swallows everything", []string{"/x", "/", "/y/z"}, []string{"/"}},
		{"drive letters", []string{"C:/Users/me", "C:/Users/me/Downloads", "C:/Users/meow"}, []string{"C:/Users/me", "C:/Users/meow"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pathsOf(TopLevelItems(nodesAt(tt.in...)))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("TopLevelItems(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTopLevelItemsCaseVariants(t *testing.T) {
	in := []string{"/x/Data", "/x/data/f"}

	want := []string{"/x/Data", "/x/data/f"}
	if pathutil.CaseInsensitive {
		want = []string{"/x/Data"}
	}

	got := pathsOf(TopLevelItems(nodesAt(in...)))
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("TopLevelItems(%v) = %v, want %v", in, got, want)
	}
}

func TestTopLevelItemsNeverReturnsNestedPair(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	segments := []string{"a", "b", "ab", "a b", "B"}

	for round := 0; round < 50; round++ {
		var in []string
		for i := 0; i < 20; i++ {
			p := ""
			for d := 0; d <= rng.Intn(4); d++ {
				p += "/" + segments[rng.Intn(len(segments))]
			}
			in = append(in, p)
		}

		out := TopLevelItems(nodesAt(in...))
		for i := range out {
			for j := range out {
				if i == j {
					continue
				}
				if isStrictAncestor(out[i].Path, out[j].Path) {
					t.Fatalf("%s is an ancestor of %s in %v", out[i].Path, out[j].Path, pathsOf(out))
				}
			}
		}
	}
}

func isStrictAncestor(a, b string) bool {
	ka, kb := lowerSlash(a), lowerSlash(b)
	return len(kb) > len(ka) && kb[:len(ka)] == ka && kb[len(ka)] == '/'
}

func lowerSlash(p string) string {
	out := []rune{}
	for _, r := range filepath.ToSlash(p) {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func TestTopLevelItemsSkipsNil(t *testing.T) {
	in := []*tree.Node{nil, {Path: "/a"}}
	if got := TopLevelItems(in); len(got) != 1 || got[0].Path != "/a" {
		t.Errorf("unexpected result %v", got)
	}
}
