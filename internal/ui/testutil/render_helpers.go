package testutil

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

// StripANSI drops terminal styling so views can be matched as plain text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// NormalizeWhitespace collapses runs of spaces and removes blank lines, so
// layout padding does not affect comparisons.
func NormalizeWhitespace(s string) string {
	var lines []string
	for line := range strings.Lines(s) {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// CompareViews asserts two views render the same text, ignoring styling
// and spacing.
func CompareViews(t *testing.T, expected, actual string) {
	t.Helper()
	assert.Equal(t,
		NormalizeWhitespace(StripANSI(expected)),
		NormalizeWhitespace(StripANSI(actual)),
		"views differ")
}

// CountOccurrences counts non-overlapping instances of substr in s.
func CountOccurrences(s, substr string) int {
	return strings.Count(s, substr)
}

// AssertContainsInOrder asserts that each string appears in view after
// the previous one.
func AssertContainsInOrder(t *testing.T, view string, ordered []string) {
	t.Helper()

	rest := view
	for _, want := range ordered {
		_, after, found := strings.Cut(rest, want)
		if !found {
			t.Errorf("%q not found in order %q.\nView:\n%s", want, ordered, view)
			return
		}
		rest = after
	}
}
