package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilsonani/tidytree/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseDeleting Phase = "deleting"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress represents progress during a multi-root scan
type ScanProgress struct {
	Phase        Phase
	CurrentRoot  string
	EntriesFound int
	RootsTotal   int
	RootsDone    int
	StartTime    time.Time
	Error        error
}

// DeleteProgress is a snapshot of batch deletion progress. It is reported
// before the item at CurrentPath is acted on.
type DeleteProgress struct {
	Processed   int
	Total       int
	CurrentPath string
	Percentage  float64
}

// NewDeleteProgress builds a snapshot with the percentage filled in
func NewDeleteProgress(processed, total int, currentPath string) DeleteProgress {
	pct := 0.0
	if total > 0 {
		pct = float64(processed) * 100 / float64(total)
	}
	return DeleteProgress{
		Processed:   processed,
		Total:       total,
		CurrentPath: currentPath,
		Percentage:  pct,
	}
}

// Reporter provides thread-safe progress reporting
type Reporter struct {
	scanProgress   *ScanProgress
	deleteProgress *DeleteProgress
	mu             sync.RWMutex
	listeners      []chan interface{}
}

// NewReporter creates a new progress reporter
func NewReporter() *Reporter {
	return &Reporter{
		listeners: make([]chan interface{}, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (r *Reporter) Subscribe() <-chan interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan interface{}, 10)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (r *Reporter) Unsubscribe(ch <-chan interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress updates scan progress and notifies listeners
func (r *Reporter) UpdateScanProgress(update *ScanProgress) {
	r.mu.Lock()
	r.scanProgress = update
	r.mu.Unlock()

	r.notify(update)
}

// UpdateDeleteProgress updates delete progress and notifies listeners
func (r *Reporter) UpdateDeleteProgress(update DeleteProgress) {
	r.mu.Lock()
	r.deleteProgress = &update
	r.mu.Unlock()

	r.notify(update)
}

func (r *Reporter) notify(update interface{}) {
	// The read lock keeps Unsubscribe from closing a channel mid-send
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Notify all listeners (non-blocking)
	for _, listener := range r.listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScanProgress returns the current scan progress
func (r *Reporter) GetScanProgress() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanProgress
}

// GetDeleteProgress returns the last delete progress snapshot
func (r *Reporter) GetDeleteProgress() *DeleteProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deleteProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning %s... %d/%d roots, %d entries [%s]",
			p.CurrentRoot,
			p.RootsDone,
			p.RootsTotal,
			p.EntriesFound,
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d roots, %d entries in %s",
			p.RootsTotal,
			p.EntriesFound,
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatDeleteProgress returns a human-readable delete progress string
func FormatDeleteProgress(p DeleteProgress) string {
	if p.Total == 0 {
		return "Nothing to delete"
	}
	return fmt.Sprintf("[%d/%d] %.0f%% %s", p.Processed, p.Total, p.Percentage, p.CurrentPath)
}

// FormatFreed summarizes a completed deletion
func FormatFreed(deleted int, bytesFreed int64, elapsed time.Duration) string {
	return fmt.Sprintf("Deleted %d items (%s) in %s",
		deleted,
		utils.FormatBytes(bytesFreed),
		FormatDuration(elapsed))
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
