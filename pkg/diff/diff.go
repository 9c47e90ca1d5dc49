// Package diff produces unified diffs between two rendered documents, such
// as the same question rendered in two modes.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// SplitMarkup puts every element boundary and <br> on its own line so that
// single-line markup diffs element by element.
func SplitMarkup(text string) string {
	text = strings.ReplaceAll(text, "><", ">\n<")
	text = strings.ReplaceAll(text, "<br>", "<br>\n")
	return text
}

// Renders diffs two rendered texts after splitting them with SplitMarkup.
// It returns "" when both are identical.
func Renders(from, to, fromLabel, toLabel string) string {
	return GenerateUnifiedDiff([]byte(SplitMarkup(from)), []byte(SplitMarkup(to)), fromLabel, toLabel)
}

// GenerateUnifiedDiff generates a line-based unified diff of expected and actual.
// Returns empty string if content is identical.
// Truncates diffs exceeding 10,000 lines with a truncation marker.
func GenerateUnifiedDiff(expected, actual []byte, expectedLabel, actualLabel string) string {
	if bytes.Equal(expected, actual) {
		return ""
	}

	expectedStr := string(expected)
	actualStr := string(actual)

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(expectedStr, actualStr)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", expectedLabel)
	fmt.Fprintf(&buf, "+++ %s\n", actualLabel)
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", countLines(expectedStr), countLines(actualStr))

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return result
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func countLines(text string) int {
	return len(splitLines(text))
}
