// Package mathdisplay normalizes TeX math delimiters so the typesetter in the
// host page only has to recognise \( \) and \[ \].
package mathdisplay

import "strings"

// Processor rewrites $...$ as \(...\) and $$...$$ as \[...\]. Escaped dollars
// and unmatched delimiters are kept verbatim, which makes the rewrite idempotent.
type Processor struct{}

// New returns a Processor.
func New() Processor {
	return Processor{}
}

// ProcessDisplay implements ports.DisplayProcessor.
func (Processor) ProcessDisplay(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)

	for i := 0; i < len(text); {
		switch {
		case text[i] == '\\' && i+1 < len(text):
			b.WriteString(text[i : i+2])
			i += 2
		case strings.HasPrefix(text[i:], "$$"):
			end := closing(text, i+2, "$$")
			if end < 0 {
				b.WriteByte('$')
				i++
				continue
			}
			b.WriteString(`\[`)
			b.WriteString(text[i+2 : end])
			b.WriteString(`\]`)
			i = end + 2
		case text[i] == '$':
			end := closing(text, i+1, "$")
			if end < 0 || end == i+1 {
				b.WriteByte('$')
				i++
				continue
			}
			b.WriteString(`\(`)
			b.WriteString(text[i+1 : end])
			b.WriteString(`\)`)
			i = end + 1
		default:
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}

// closing finds the next unescaped delim at or after from, or -1.
func closing(text string, from int, delim string) int {
	for i := from; i < len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(text[i:], delim) {
			return i
		}
	}
	return -1
}
