package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name     string
		in       int64
		expected string
	}{
		{"bytes", 512, "512 B"},
		{"zero", 0, "0 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"fractional", 1536, "1.5 KB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatBytes(tt.in); got != tt.expected {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestRecordHeader(t *testing.T) {
	record := salesforce.LogRecord{
		ID:         "07L000000000001",
		Request:    "API",
		Operation:  "/services/data",
		Status:     "Success",
		DurationMs: 230,
		LogLength:  4096,
		StartTime:  salesforce.Timestamp{Time: time.Date(2024, 5, 3, 9, 15, 0, 0, time.UTC)},
	}

	header := recordHeader(record)
	for _, want := range []string{"2024-05-03 09:15:00", "Api", "/services/data", "Success", "230ms", "4.0 KB"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q: %s", want, header)
		}
	}
}
