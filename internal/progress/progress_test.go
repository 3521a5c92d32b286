package progress

import (
	"strings"
	"testing"
	"time"
)

// ===== DeleteProgress Tests =====

func TestNewDeleteProgress(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		total     int
		want      float64
	}{
		{"first of four", 1, 4, 25},
		{"last of four", 4, 4, 100},
		{"empty batch", 0, 0, 0},
		{"one of three", 1, 3, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewDeleteProgress(tt.processed, tt.total, "/tmp/x")
			if p.Percentage != tt.want {
				t.Errorf("Percentage = %v, want %v", p.Percentage, tt.want)
			}
			if p.CurrentPath != "/tmp/x" {
				t.Errorf("CurrentPath = %q", p.CurrentPath)
			}
		})
	}
}

// ===== Reporter Tests =====

func TestReporterNotifiesSubscribers(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()

	r.UpdateDeleteProgress(NewDeleteProgress(1, 2, "/a"))

	select {
	case msg := <-ch:
		p, ok := msg.(DeleteProgress)
		if !ok {
			t.Fatalf("expected DeleteProgress, got %T", msg)
		}
		if p.Processed != 1 {
			t.Errorf("Processed = %d, want 1", p.Processed)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	if got := r.GetDeleteProgress(); got == nil || got.CurrentPath != "/a" {
		t.Errorf("GetDeleteProgress = %+v", got)
	}
}

func TestReporterDoesNotBlockOnFullListener(t *testing.T) {
	r := NewReporter()
	_ = r.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.UpdateScanProgress(&ScanProgress{Phase: PhaseScanning, RootsDone: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("UpdateScanProgress blocked on a full listener")
	}

	if got := r.GetScanProgress(); got == nil || got.RootsDone != 99 {
		t.Errorf("expected last scan progress to be kept, got %+v", got)
	}
}

func TestReporterUnsubscribe(t *testing.T) {
	r := NewReporter()
	ch := r.Subscribe()
	r.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}

	// No listeners left; must not panic
	r.UpdateDeleteProgress(DeleteProgress{})
}

// ===== Formatting Tests =====

func TestFormatScanProgress(t *testing.T) {
	if got := FormatScanProgress(nil); got != "Initializing..." {
		t.Errorf("nil progress = %q", got)
	}

	p := &ScanProgress{Phase: PhaseComplete, RootsTotal: 2, EntriesFound: 7, StartTime: time.Now()}
	if got := FormatScanProgress(p); !strings.Contains(got, "2 roots, 7 entries") {
		t.Errorf("unexpected complete message %q", got)
	}
}

func TestFormatDeleteProgress(t *testing.T) {
	got := FormatDeleteProgress(NewDeleteProgress(2, 4, "/data/old"))
	if got != "[2/4] 50% /data/old" {
		t.Errorf("FormatDeleteProgress = %q", got)
	}
	if got := FormatDeleteProgress(DeleteProgress{}); got != "Nothing to delete" {
		t.Errorf("empty batch = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + time.Minute, "2h1m0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
