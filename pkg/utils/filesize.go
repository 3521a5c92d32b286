package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// FormatBytes converts bytes to human-readable binary units (KiB, MiB, ...)
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(bytes))
}

// MegabytesToBytes converts a threshold expressed in MB into bytes.
// Negative and NaN thresholds become 0.
func MegabytesToBytes(mb float64) int64 {
	if mb <= 0 || math.IsNaN(mb) {
		return 0
	}
	if mb >= float64(math.MaxInt64)/MB {
		return math.MaxInt64
	}
	return int64(mb * MB)
}

// ParseSize converts a human-readable size to bytes. Units are binary, so
// "1KB" and "1KiB" are both 1024 bytes; a bare number is bytes.
func ParseSize(size string) (int64, error) {
	s := strings.TrimSpace(size)
	if s == "" {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	number, unit := s[:i], strings.ToUpper(strings.TrimSpace(s[i:]))
	if number == "" {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	switch unit {
	case "", "B":
		unit = "B"
	case "K", "KB", "KIB":
		unit = "KiB"
	case "M", "MB", "MIB":
		unit = "MiB"
	case "G", "GB", "GIB":
		unit = "GiB"
	case "T", "TB", "TIB":
		unit = "TiB"
	default:
		return 0, fmt.Errorf("unknown unit: %s", unit)
	}

	n, err := humanize.ParseBytes(number + " " + unit)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %q: %w", size, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size out of range: %q", size)
	}
	return int64(n), nil
}

// SumSizes adds up a slice of sizes
func SumSizes(sizes []int64) int64 {
	var total int64
	for _, size := range sizes {
		total += size
	}
	return total
}
