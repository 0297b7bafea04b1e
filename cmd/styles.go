package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Sebasslaf/salesforce-debug-log-downloader/pkg/salesforce"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	matchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(1, 0, 0, 0)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

var titleCaser = cases.Title(language.English)

// recordHeader renders one log record's metadata on a single line.
func recordHeader(record salesforce.LogRecord) string {
	parts := []string{
		record.StartTime.Format("2006-01-02 15:04:05"),
		titleCaser.String(strings.ToLower(record.Request)),
		record.Operation,
		record.Status,
		fmt.Sprintf("%dms", record.DurationMs),
		formatBytes(record.LogLength),
	}
	return headerStyle.Render(strings.Join(parts, " | "))
}

// formatBytes renders a byte count in human-readable form.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
