package matcher

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSearchCaseInsensitiveWithContext(t *testing.T) {
	body := "a\nFOO\nb\nc\nd\nFOO\ne"

	matches := Search(body, "foo", false)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}

	first := matches[0]
	if first.LineNumber != 2 || first.Line != "FOO" {
		t.Errorf("unexpected first match: %+v", first)
	}
	wantCtx := []string{"1: a", "3: b", "4: c"}
	if !reflect.DeepEqual(first.Context, wantCtx) {
		t.Errorf("first match context = %v, want %v", first.Context, wantCtx)
	}

	second := matches[1]
	if second.LineNumber != 6 || second.Line != "FOO" {
		t.Errorf("unexpected second match: %+v", second)
	}
	wantCtx = []string{"4: c", "5: d", "7: e"}
	if !reflect.DeepEqual(second.Context, wantCtx) {
		t.Errorf("second match context = %v, want %v", second.Context, wantCtx)
	}
}

func TestSearchCaseSensitive(t *testing.T) {
	body := "error here\nERROR there\nno match"

	matches := Search(body, "ERROR", true)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].LineNumber != 2 {
		t.Errorf("expected match at line 2, got %d", matches[0].LineNumber)
	}

	matches = Search(body, "ERROR", false)
	if len(matches) != 2 {
		t.Fatalf("expected 2 case-insensitive matches, got %d", len(matches))
	}
}

func TestSearchOrderingAndUniqueness(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		if i%7 == 0 {
			fmt.Fprintf(&sb, "needle line %d\n", i)
		} else {
			fmt.Fprintf(&sb, "line %d\n", i)
		}
	}

	matches := Search(sb.String(), "needle", false)

	seen := make(map[int]bool)
	prev := 0
	for _, m := range matches {
		if seen[m.LineNumber] {
			t.Errorf("line %d reported twice", m.LineNumber)
		}
		seen[m.LineNumber] = true
		if m.LineNumber <= prev {
			t.Errorf("matches out of order: %d after %d", m.LineNumber, prev)
		}
		prev = m.LineNumber
	}
	if len(matches) != 8 {
		t.Errorf("expected 8 matches, got %d", len(matches))
	}
}

func TestContextWindowSize(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	lines[4] = "the needle"
	body := strings.Join(lines, "\n")

	matches := Search(body, "needle", false)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	// Interior match: full window of 2 before + 2 after.
	if len(matches[0].Context) != 4 {
		t.Errorf("expected 4 context lines, got %d: %v", len(matches[0].Context), matches[0].Context)
	}
	for _, c := range matches[0].Context {
		if strings.HasPrefix(c, "5:") {
			t.Errorf("context includes the matched line itself: %v", matches[0].Context)
		}
	}
}

func TestContextClippedAtBoundaries(t *testing.T) {
	matches := Search("needle\nb", "needle", false)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	want := []string{"2: b"}
	if !reflect.DeepEqual(matches[0].Context, want) {
		t.Errorf("context = %v, want %v", matches[0].Context, want)
	}
}

func TestSearchTrimsMatchedLine(t *testing.T) {
	matches := Search("   padded needle   \n", "needle", false)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Line != "padded needle" {
		t.Errorf("expected trimmed line, got %q", matches[0].Line)
	}
}

func TestSearchEmptyPattern(t *testing.T) {
	if matches := Search("a\nb\nc", "", false); matches != nil {
		t.Errorf("expected no matches for empty pattern, got %v", matches)
	}
}

func TestSearchNoMatches(t *testing.T) {
	if matches := Search("a\nb\nc", "zzz", false); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}
