// Package widgets provides minimal input widgets for hosts that have no widget
// generator of their own: the CLI, the HTTP service and the preview TUI.
package widgets

import (
	"fmt"
	"html"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

// State is the parsed state of a fixture input.
type State struct {
	Contents  string
	Malformed bool
}

// Valid reports whether the state is well formed.
func (s *State) Valid() bool {
	return s != nil && !s.Malformed
}

func contents(state question.InputState) string {
	if s, ok := state.(*State); ok && s != nil {
		return s.Contents
	}
	return ""
}

type base struct {
	name string
}

// ReplaceValidationMarkers substitutes this input's validation marker with shell.
func (b base) ReplaceValidationMarkers(_ question.InputState, _ string, text, shell string) string {
	return placeholder.Replace(text, placeholder.KindValidation, b.name, shell)
}

func readonlyAttr(readOnly bool) string {
	if readOnly {
		return ` readonly="readonly"`
	}
	return ""
}

// Text is a single line answer box.
type Text struct {
	base
	Size int
}

// NewText returns a text widget for the named input.
func NewText(name string, size int) *Text {
	if size <= 0 {
		size = 15
	}
	return &Text{base: base{name: name}, Size: size}
}

// Render implements question.Widget.
func (w *Text) Render(state question.InputState, fieldID string, readOnly bool, _ string) string {
	id := html.EscapeString(fieldID)
	return fmt.Sprintf(`<input type="text" name="%s" id="%s" size="%d" value="%s"%s>`,
		id, id, w.Size, html.EscapeString(contents(state)), readonlyAttr(readOnly))
}

// RequiresValidation implements question.Widget.
func (w *Text) RequiresValidation() bool { return true }

// SuppressesOwnValidationUI implements question.Widget.
func (w *Text) SuppressesOwnValidationUI() bool { return false }

// Matrix is a grid of answer boxes. Contents are rows separated by ";" and
// cells separated by ",".
type Matrix struct {
	base
	Width  int
	Height int
}

// NewMatrix returns a width x height matrix widget for the named input.
func NewMatrix(name string, width, height int) *Matrix {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Matrix{base: base{name: name}, Width: width, Height: height}
}

// Render implements question.Widget.
func (w *Matrix) Render(state question.InputState, fieldID string, readOnly bool, _ string) string {
	rows := strings.Split(contents(state), ";")

	var b strings.Builder
	b.WriteString(`<table class="matrixtable"><tbody>`)
	for r := 0; r < w.Height; r++ {
		var cells []string
		if r < len(rows) {
			cells = strings.Split(rows[r], ",")
		}
		b.WriteString("<tr>")
		for c := 0; c < w.Width; c++ {
			value := ""
			if c < len(cells) {
				value = strings.TrimSpace(cells[c])
			}
			id := html.EscapeString(fmt.Sprintf("%s_sub_%d_%d", fieldID, r, c))
			fmt.Fprintf(&b, `<td><input type="text" name="%s" id="%s" size="5" value="%s"%s></td>`,
				id, id, html.EscapeString(value), readonlyAttr(readOnly))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// RequiresValidation implements question.Widget.
func (w *Matrix) RequiresValidation() bool { return true }

// SuppressesOwnValidationUI implements question.Widget.
func (w *Matrix) SuppressesOwnValidationUI() bool { return false }

// DisplayWidth implements question.MatrixWidget.
func (w *Matrix) DisplayWidth() int { return w.Width }

// DisplayHeight implements question.MatrixWidget.
func (w *Matrix) DisplayHeight() int { return w.Height }

// ChoiceStyle selects how a Choice widget is drawn.
type ChoiceStyle string

const (
	ChoiceRadio    ChoiceStyle = "radio"
	ChoiceDropdown ChoiceStyle = "dropdown"
	ChoiceCheckbox ChoiceStyle = "checkbox"
	ChoiceBoolean  ChoiceStyle = "boolean"
)

// Choice is a selection widget. It shows its own validation feedback, so
// it never gets a validation button or shell.
type Choice struct {
	base
	Style   ChoiceStyle
	Options []string
}

// NewChoice returns a choice widget. Boolean widgets ignore options.
func NewChoice(name string, style ChoiceStyle, options []string) *Choice {
	if style == ChoiceBoolean {
		options = []string{"true", "false"}
	}
	return &Choice{base: base{name: name}, Style: style, Options: options}
}

// Render implements question.Widget.
func (w *Choice) Render(state question.InputState, fieldID string, readOnly bool, _ string) string {
	selected := map[string]bool{}
	for _, v := range strings.Split(contents(state), ",") {
		if v = strings.TrimSpace(v); v != "" {
			selected[v] = true
		}
	}
	id := html.EscapeString(fieldID)
	disabled := ""
	if readOnly {
		disabled = ` disabled="disabled"`
	}

	var b strings.Builder
	switch w.Style {
	case ChoiceDropdown, ChoiceBoolean:
		fmt.Fprintf(&b, `<select name="%s" id="%s"%s>`, id, id, disabled)
		for _, opt := range w.Options {
			sel := ""
			if selected[opt] {
				sel = ` selected="selected"`
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, html.EscapeString(opt), sel, html.EscapeString(opt))
		}
		b.WriteString("</select>")
	default:
		kind := "radio"
		if w.Style == ChoiceCheckbox {
			kind = "checkbox"
		}
		b.WriteString(`<div class="answer">`)
		for i, opt := range w.Options {
			checked := ""
			if selected[opt] {
				checked = ` checked="checked"`
			}
			fmt.Fprintf(&b, `<label><input type="%s" name="%s" id="%s_%d" value="%s"%s%s> %s</label>`,
				kind, id, id, i, html.EscapeString(opt), checked, disabled, html.EscapeString(opt))
		}
		b.WriteString("</div>")
	}
	return b.String()
}

// RequiresValidation implements question.Widget.
func (w *Choice) RequiresValidation() bool { return false }

// SuppressesOwnValidationUI implements question.Widget.
func (w *Choice) SuppressesOwnValidationUI() bool { return true }

// New builds a widget from its type name. Unknown types fall back to Text.
func New(kind, name string, width, height int, options []string) question.Widget {
	switch kind {
	case "matrix":
		return NewMatrix(name, width, height)
	case string(ChoiceRadio), string(ChoiceDropdown), string(ChoiceCheckbox), string(ChoiceBoolean):
		return NewChoice(name, ChoiceStyle(kind), options)
	default:
		return NewText(name, width)
	}
}
