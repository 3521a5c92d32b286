package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/fenilsonani/tidytree/internal/progress"
)

const (
	defaultWidth   = 80
	barWidth       = 20
	updateInterval = 100 * time.Millisecond
)

// LiveProgress redraws a single status line on a terminal. Other writers
// only get the final state as plain lines once watching stops.
type LiveProgress struct {
	mu         sync.Mutex
	out        io.Writer
	width      int
	enabled    bool
	drawn      bool
	lastUpdate time.Time
}

// NewLiveProgress creates a status line on out
func NewLiveProgress(out io.Writer) *LiveProgress {
	lp := &LiveProgress{out: out, width: defaultWidth}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		lp.enabled = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			lp.width = w
		}
	}

	return lp
}

// SetEnabled forces the display on or off
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// UpdateScan shows scan progress
func (lp *LiveProgress) UpdateScan(p *progress.ScanProgress) {
	if p == nil {
		return
	}
	lp.draw(progress.FormatScanProgress(p), p.Phase == progress.PhaseComplete)
}

// UpdateDelete shows delete progress
func (lp *LiveProgress) UpdateDelete(p progress.DeleteProgress) {
	line := fmt.Sprintf("%s %3.0f%% [%d/%d] %s",
		ProgressBar(p.Processed, p.Total, barWidth),
		p.Percentage, p.Processed, p.Total, p.CurrentPath)
	lp.draw(line, p.Processed == p.Total)
}

// Watch renders updates from a progress.Reporter until it is unsubscribed
func (lp *LiveProgress) Watch(reporter *progress.Reporter) (stop func()) {
	ch := reporter.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range ch {
			switch u := update.(type) {
			case *progress.ScanProgress:
				lp.UpdateScan(u)
			case progress.DeleteProgress:
				lp.UpdateDelete(u)
			}
		}
	}()

	return func() {
		reporter.Unsubscribe(ch)
		<-done
		lp.summarize(reporter)
	}
}

func (lp *LiveProgress) summarize(reporter *progress.Reporter) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.enabled {
		return
	}
	if p := reporter.GetScanProgress(); p != nil {
		fmt.Fprintln(lp.out, progress.FormatScanProgress(p))
	}
	if p := reporter.GetDeleteProgress(); p != nil {
		fmt.Fprintln(lp.out, progress.FormatDeleteProgress(*p))
	}
}

func (lp *LiveProgress) draw(line string, force bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Throttle to ten redraws per second
	now := time.Now()
	if !force && now.Sub(lp.lastUpdate) < updateInterval {
		return
	}
	lp.lastUpdate = now

	fmt.Fprintf(lp.out, "\r\033[K%s", TruncateMiddle(line, lp.width-1))
	lp.drawn = true
}

// Finish clears the status line
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.enabled && lp.drawn {
		fmt.Fprint(lp.out, "\r\033[K")
	}
	lp.drawn = false
}
