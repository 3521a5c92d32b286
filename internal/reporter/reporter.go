// Package reporter renders selections, deletion results and history in the
// summary, table, json and yaml formats.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/tidytree/internal/cleaner"
	"github.com/fenilsonani/tidytree/internal/history"
	"github.com/fenilsonani/tidytree/internal/progress"
	"github.com/fenilsonani/tidytree/internal/selection"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat validates a format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

const (
	pathWidth   = 60
	ruleWidth   = 110
	summaryTopN = 10
)

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	now    func() time.Time
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		now:    time.Now,
	}
}

// ItemRecord is the serialized form of a proposed item
type ItemRecord struct {
	Path          string    `json:"path" yaml:"path"`
	Name          string    `json:"name" yaml:"name"`
	IsDirectory   bool      `json:"is_directory" yaml:"is_directory"`
	Size          int64     `json:"size" yaml:"size"`
	SizeFormatted string    `json:"size_formatted" yaml:"size_formatted"`
	LastModified  time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	AgeScore      float64   `json:"age_score" yaml:"age_score"`
	SizeScore     float64   `json:"size_score" yaml:"size_score"`
	Score         float64   `json:"score" yaml:"score"`
}

// ErrorRecord is the serialized form of a failed item
type ErrorRecord struct {
	Path    string `json:"path" yaml:"path"`
	Reason  string `json:"reason" yaml:"reason"`
	Message string `json:"message" yaml:"message"`
}

func itemRecords(items []selection.ScoredNode) []ItemRecord {
	records := make([]ItemRecord, 0, len(items))
	for _, item := range items {
		n := item.Node
		records = append(records, ItemRecord{
			Path:          n.Path,
			Name:          n.Name,
			IsDirectory:   n.IsDirectory,
			Size:          n.Size,
			SizeFormatted: utils.FormatBytes(n.Size),
			LastModified:  n.LastModified,
			AgeScore:      item.AgeScore,
			SizeScore:     item.SizeScore,
			Score:         item.CombinedScore,
		})
	}
	return records
}

func totalSize(items []selection.ScoredNode) int64 {
	sizes := make([]int64, len(items))
	for i, item := range items {
		sizes[i] = item.Node.Size
	}
	return utils.SumSizes(sizes)
}

// =============================================================================
// Selection
// =============================================================================

// ReportSelection renders the items proposed for deletion
func (r *Reporter) ReportSelection(items []selection.ScoredNode) error {
	switch r.format {
	case FormatTable:
		return r.selectionTable(items)
	case FormatJSON, FormatYAML:
		return r.encode(struct {
			Timestamp          string       `json:"timestamp" yaml:"timestamp"`
			TotalItems         int          `json:"total_items" yaml:"total_items"`
			TotalSize          int64        `json:"total_size" yaml:"total_size"`
			TotalSizeFormatted string       `json:"total_size_formatted" yaml:"total_size_formatted"`
			Items              []ItemRecord `json:"items" yaml:"items"`
		}{
			Timestamp:          r.now().Format(time.RFC3339),
			TotalItems:         len(items),
			TotalSize:          totalSize(items),
			TotalSizeFormatted: utils.FormatBytes(totalSize(items)),
			Items:              itemRecords(items),
		})
	case FormatSummary:
		return r.selectionSummary(items)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) selectionSummary(items []selection.ScoredNode) error {
	fmt.Fprintf(r.writer, "=== Cleanup Suggestions ===\n")
	fmt.Fprintf(r.writer, "Items: %d\n", len(items))
	fmt.Fprintf(r.writer, "Total Size: %s\n", utils.FormatBytes(totalSize(items)))

	if len(items) == 0 {
		fmt.Fprintf(r.writer, "\nNothing to clean up.\n")
		return nil
	}

	var dirs, files int
	for _, item := range items {
		if item.Node.IsDirectory {
			dirs++
		} else {
			files++
		}
	}
	fmt.Fprintf(r.writer, "  Directories: %d\n", dirs)
	fmt.Fprintf(r.writer, "  Files: %d\n", files)

	fmt.Fprintf(r.writer, "\nTop candidates:\n")
	for i, item := range items {
		if i == summaryTopN {
			fmt.Fprintf(r.writer, "  ... and %d more\n", len(items)-summaryTopN)
			break
		}
		fmt.Fprintf(r.writer, "  %.2f  %-10s %s\n", item.CombinedScore, utils.FormatBytes(item.Node.Size), item.Node.Path)
	}

	return nil
}

func (r *Reporter) selectionTable(items []selection.ScoredNode) error {
	fmt.Fprintf(r.writer, "%-*s | %-10s | %-5s | %s\n", pathWidth, "Path", "Size", "Score", "Modified")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", ruleWidth))

	for _, item := range items {
		n := item.Node
		modified := "unknown"
		if !n.LastModified.IsZero() {
			modified = humanize.RelTime(n.LastModified, r.now(), "ago", "from now")
		}
		fmt.Fprintf(r.writer, "%-*s | %-10s | %5.2f | %s\n",
			pathWidth, truncatePath(n.Path, pathWidth),
			utils.FormatBytes(n.Size),
			item.CombinedScore,
			modified)
	}

	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(r.writer, "Total: %d items, %s\n", len(items), utils.FormatBytes(totalSize(items)))

	return nil
}

// =============================================================================
// Deletion Result
// =============================================================================

// ReportResult renders the outcome of a deletion batch
func (r *Reporter) ReportResult(result *cleaner.DeleteResult) error {
	if result == nil {
		return fmt.Errorf("no result to report")
	}

	switch r.format {
	case FormatJSON, FormatYAML:
		errs := make([]ErrorRecord, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, ErrorRecord{Path: e.Path, Reason: e.Reason.String(), Message: e.Message})
		}
		return r.encode(struct {
			Timestamp           string        `json:"timestamp" yaml:"timestamp"`
			Success             bool          `json:"success" yaml:"success"`
			DeletedCount        int           `json:"deleted_count" yaml:"deleted_count"`
			FailedCount         int           `json:"failed_count" yaml:"failed_count"`
			BytesFreed          int64         `json:"bytes_freed" yaml:"bytes_freed"`
			BytesFreedFormatted string        `json:"bytes_freed_formatted" yaml:"bytes_freed_formatted"`
			Deleted             []string      `json:"deleted" yaml:"deleted"`
			Errors              []ErrorRecord `json:"errors" yaml:"errors"`
		}{
			Timestamp:           r.now().Format(time.RFC3339),
			Success:             result.Success,
			DeletedCount:        result.DeletedCount,
			FailedCount:         result.FailedCount,
			BytesFreed:          result.BytesFreed,
			BytesFreedFormatted: utils.FormatBytes(result.BytesFreed),
			Deleted:             result.DeletedPaths,
			Errors:              errs,
		})
	case FormatTable:
		for _, path := range result.DeletedPaths {
			fmt.Fprintf(r.writer, "deleted  %s\n", path)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(r.writer, "failed   %s (%s)\n", e.Path, e.Reason)
		}
		fmt.Fprintf(r.writer, "%s\n", progress.FormatFreed(result.DeletedCount, result.BytesFreed, result.Duration))
		return nil
	case FormatSummary:
		fmt.Fprintf(r.writer, "%s\n", progress.FormatFreed(result.DeletedCount, result.BytesFreed, result.Duration))
		if result.FailedCount > 0 {
			fmt.Fprintf(r.writer, "Failed: %d items\n", result.FailedCount)
			fmt.Fprint(r.writer, cleaner.FormatErrorSummary(result.Errors))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// =============================================================================
// History
// =============================================================================

// ReportHistory renders recorded deletions, newest first
func (r *Reporter) ReportHistory(entries []history.Entry) error {
	switch r.format {
	case FormatJSON, FormatYAML:
		if entries == nil {
			entries = []history.Entry{}
		}
		return r.encode(entries)
	case FormatTable, FormatSummary:
		if len(entries) == 0 {
			fmt.Fprintf(r.writer, "No deletions recorded.\n")
			return nil
		}
		var total int64
		for _, e := range entries {
			total += e.Size
			fmt.Fprintf(r.writer, "%-16s %-9s %10s  %s\n",
				humanize.RelTime(e.DeletedAt, r.now(), "ago", "from now"),
				e.Type,
				utils.FormatBytes(e.Size),
				e.Path)
		}
		fmt.Fprintf(r.writer, "\n%s deletions, %s freed\n", humanize.Comma(int64(len(entries))), utils.FormatBytes(total))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) encode(v interface{}) error {
	if r.format == FormatYAML {
		encoder := yaml.NewEncoder(r.writer)
		defer encoder.Close()
		return encoder.Encode(v)
	}
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// truncatePath keeps the tail of long paths
func truncatePath(path string, width int) string {
	runes := []rune(path)
	if len(runes) <= width {
		return path
	}
	return "..." + string(runes[len(runes)-(width-3):])
}

// SaveToFile writes a selection report to path
func SaveToFile(items []selection.ScoredNode, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.ReportSelection(items)
}
