package utils

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"bytes", "1024", 1024},
		{"bytes unit", "10B", 10},
		{"1KB", "1KB", 1024},
		{"100MB", "100MB", 100 * MB},
		{"lowercase", "50mb", 50 * MB},
		{"IEC", "2GiB", 2 * GB},
		{"short unit", "1G", GB},
		{"whitespace", " 500MB ", 500 * MB},
		{"fraction", "1.5KB", 1536},
		{"zero", "0MB", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("ParseSize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, in := range []string{"", "MB", "10XB", "abc"} {
		if _, err := ParseSize(in); err == nil {
			t.Errorf("ParseSize(%q) should fail", in)
		}
	}
}

func TestMegabytesToBytes(t *testing.T) {
	tests := []struct {
		mb   float64
		want int64
	}{
		{0, 0},
		{-5, 0},
		{1, MB},
		{100, 100 * MB},
		{0.5, MB / 2},
	}

	for _, tt := range tests {
		if got := MegabytesToBytes(tt.mb); got != tt.want {
			t.Errorf("MegabytesToBytes(%v) = %d, want %d", tt.mb, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(-1); got != "0 B" {
		t.Errorf("FormatBytes(-1) = %q", got)
	}
	if got := FormatBytes(1024); got != "1.0 KiB" {
		t.Errorf("FormatBytes(1024) = %q, want 1.0 KiB", got)
	}
}
