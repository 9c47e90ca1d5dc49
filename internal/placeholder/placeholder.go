// Package placeholder locates and rewrites the bracketed markers embedded in
// question templates.
package placeholder

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Kind identifies which family of markers to look for.
type Kind string

const (
	KindInput      Kind = "input"
	KindValidation Kind = "validation"
	KindFeedback   Kind = "feedback"
)

var patterns = map[Kind]*regexp.Regexp{
	KindInput:      compile(KindInput),
	KindValidation: compile(KindValidation),
	KindFeedback:   compile(KindFeedback),
}

func compile(kind Kind) *regexp.Regexp {
	// Names stop at the first "]]" and never span lines.
	return regexp.MustCompile(`\[\[` + string(kind) + `:([^\r\n]+?)\]\]`)
}

// Extract returns the distinct names used by markers of the given kind,
// sorted ascending. Unknown kinds and templates without markers yield an
// empty, non-nil slice.
func Extract(template string, kind Kind) []string {
	re, ok := patterns[kind]
	if !ok {
		return []string{}
	}

	matches := re.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}

	slices.Sort(names)
	return slices.Compact(names)
}

// Marker renders the literal marker for kind and name.
func Marker(kind Kind, name string) string {
	return fmt.Sprintf("[[%s:%s]]", kind, name)
}

// Replace substitutes every occurrence of the marker for kind and name.
func Replace(template string, kind Kind, name, replacement string) string {
	return strings.ReplaceAll(template, Marker(kind, name), replacement)
}

// Hide removes every marker of kind for the supplied names.
func Hide(template string, kind Kind, names []string) string {
	for _, name := range names {
		template = Replace(template, kind, name, "")
	}
	return template
}

// Contains reports whether the marker for kind and name is still present.
func Contains(template string, kind Kind, name string) bool {
	return strings.Contains(template, Marker(kind, name))
}
