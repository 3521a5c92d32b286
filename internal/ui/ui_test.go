package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fenilsonani/tidytree/internal/progress"
	"github.com/fenilsonani/tidytree/internal/tree"
)

// =============================================================================
// Styles and Truncation
// =============================================================================

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 9, "abc...ijk"},
		{"abcdefghijk", 8, "ab...ijk"},
		{"abcdef", 3, "..."},
		{"äöüäöüäöü", 7, "äö...öü"},
	}
	for _, tt := range tests {
		if got := TruncateMiddle(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("TruncateMiddle(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		current, total, width int
		filled                int
	}{
		{0, 10, 10, 0},
		{5, 10, 10, 5},
		{10, 10, 10, 10},
		{15, 10, 10, 10},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.current, tt.total, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%d, %d) filled %d cells, want %d", tt.current, tt.total, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.width {
			t.Errorf("ProgressBar width = %d, want %d", got, tt.width)
		}
	}

	if ProgressBar(1, 0, 10) != "" {
		t.Error("expected empty bar for zero total")
	}
}

// =============================================================================
// Tree
// =============================================================================

func sampleTree() *tree.Node {
	root := tree.NewRoot("/data")
	logs := tree.NewChild(root, "logs", true)
	logs.HasChildren = true
	old := tree.NewChild(logs, "old.log", false)
	old.Size = 2048
	logs.SetChildren([]*tree.Node{old})

	cache := tree.NewChild(root, "cache", true)
	cache.HasChildren = true // never loaded

	readme := tree.NewChild(root, "README", false)
	readme.Size = 10

	root.SetChildren([]*tree.Node{logs, cache, readme})
	return root
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	PrintTree(&buf, sampleTree(), 0)
	out := buf.String()

	for _, want := range []string{
		"/data",
		"├── logs/",
		"│   └── old.log (2.0 KiB)",
		"├── cache/ …",
		"└── README (10 B)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTreeDepthLimit(t *testing.T) {
	var buf bytes.Buffer
	PrintTree(&buf, sampleTree(), 1)
	out := buf.String()

	if strings.Contains(out, "old.log") {
		t.Errorf("depth 1 should hide grandchildren:\n%s", out)
	}
	if !strings.Contains(out, "logs/") {
		t.Errorf("depth 1 should show children:\n%s", out)
	}
}

func TestPrintTreeNil(t *testing.T) {
	var buf bytes.Buffer
	PrintTree(&buf, nil, 0)
	if buf.Len() != 0 {
		t.Error("nil root should print nothing")
	}
}

func TestSelectionList(t *testing.T) {
	out := SelectionList("Proposed", []string{"/a", "/b"}, []int64{1024, 1})
	for _, want := range []string{"Proposed", "/a", "1.0 KiB", "/b", "1 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

// =============================================================================
// Confirm
// =============================================================================

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(tt.input), &out, "Delete?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Delete?") {
			t.Error("question should be printed")
		}
	}
}

// =============================================================================
// LiveProgress
// =============================================================================

func TestLiveProgressDisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLiveProgress(&buf)
	lp.UpdateDelete(progress.NewDeleteProgress(1, 1, "/x"))
	lp.Finish()

	if buf.Len() != 0 {
		t.Errorf("non-terminal writer should stay silent, got %q", buf.String())
	}
}

func TestLiveProgressEnabled(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLiveProgress(&buf)
	lp.SetEnabled(true)

	lp.UpdateDelete(progress.NewDeleteProgress(2, 2, "/tmp/done"))
	if !strings.Contains(buf.String(), "[2/2] /tmp/done") {
		t.Errorf("unexpected line %q", buf.String())
	}

	lp.UpdateScan(&progress.ScanProgress{Phase: progress.PhaseComplete, RootsDone: 1, RootsTotal: 1, EntriesFound: 7})
	if !strings.Contains(buf.String(), "7 entries") {
		t.Errorf("unexpected line %q", buf.String())
	}

	lp.Finish()
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Error("Finish should clear the line")
	}
}

func TestLiveProgressWatch(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLiveProgress(&buf)
	lp.SetEnabled(true)

	reporter := progress.NewReporter()
	stop := lp.Watch(reporter)
	reporter.UpdateDeleteProgress(progress.NewDeleteProgress(3, 3, "/last"))
	stop()

	if !strings.Contains(buf.String(), "/last") {
		t.Errorf("watched update not drawn: %q", buf.String())
	}
}

func TestLiveProgressWatchPlainSummary(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLiveProgress(&buf)

	reporter := progress.NewReporter()
	stop := lp.Watch(reporter)
	reporter.UpdateScanProgress(&progress.ScanProgress{Phase: progress.PhaseComplete, RootsDone: 2, RootsTotal: 2, EntriesFound: 9})
	reporter.UpdateDeleteProgress(progress.NewDeleteProgress(1, 2, "/half"))
	reporter.UpdateDeleteProgress(progress.NewDeleteProgress(2, 2, "/last"))

	if buf.Len() != 0 {
		t.Fatalf("nothing should be drawn while watching, got %q", buf.String())
	}
	stop()

	out := buf.String()
	if strings.Contains(out, "\r") {
		t.Errorf("plain output should not redraw: %q", out)
	}
	if !strings.Contains(out, "Scan complete: 2 roots, 9 entries") {
		t.Errorf("missing scan summary: %q", out)
	}
	if !strings.Contains(out, "[2/2] 100% /last\n") || strings.Contains(out, "/half") {
		t.Errorf("only the final delete state should be written: %q", out)
	}
}
