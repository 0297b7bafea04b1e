// Package matcher implements line-oriented substring search over log bodies.
// It is pure and stateless: no indexing, no caching. Logs are bounded in
// size and fetched one at a time, so a linear scan per body is enough.
package matcher

import (
	"fmt"
	"strings"
)

// contextLines is the number of surrounding lines captured before and
// after each matching line.
const contextLines = 2

// Match is one matching line within a log body. LineNumber is 1-based.
// Context holds up to 2×contextLines surrounding lines, each trimmed and
// prefixed with its own 1-based line number; the matched line itself is
// never part of its own context.
type Match struct {
	LineNumber int      `json:"lineNumber"`
	Line       string   `json:"line"`
	Context    []string `json:"context,omitempty"`
}

// Search scans body line by line and returns every line containing pattern
// as a plain substring, in increasing line-number order. When caseSensitive
// is false both line and pattern are lowercased before comparison. The
// pattern is not a regular expression and matches anywhere within a line.
func Search(body, pattern string, caseSensitive bool) []Match {
	if pattern == "" {
		return nil
	}

	lines := strings.Split(body, "\n")

	needle := pattern
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}

	var matches []Match
	for i, line := range lines {
		haystack := line
		if !caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if !strings.Contains(haystack, needle) {
			continue
		}
		matches = append(matches, Match{
			LineNumber: i + 1,
			Line:       strings.TrimSpace(line),
			Context:    contextFor(lines, i),
		})
	}
	return matches
}

// contextFor collects the window of lines around index i, clipped at the
// document boundaries and excluding line i itself.
func contextFor(lines []string, i int) []string {
	start := max(i-contextLines, 0)
	end := min(i+contextLines, len(lines)-1)

	var ctx []string
	for j := start; j <= end; j++ {
		if j == i {
			continue
		}
		ctx = append(ctx, fmt.Sprintf("%d: %s", j+1, strings.TrimSpace(lines[j])))
	}
	return ctx
}
