package render

import (
	"fmt"

	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

// FieldID is the form field identifier of an input.
func FieldID(questionID, name string) string {
	return "xqcas_" + questionID + "_" + name
}

// ValidationButton returns the button that triggers server-side validation of
// one input.
func ValidationButton(questionID, name string) string {
	return `<button style="height:1.8em;" class="xqcas" name="cmd[` + FieldID(questionID, name) + `]">` +
		`<span class="glyphicon glyphicon-ok" aria-hidden="true"></span></button>`
}

// ValidationShell returns the empty container the client fills with
// validation output. Matrix widgets also publish their dimensions.
func ValidationShell(questionID, name string, w question.Widget) string {
	shell := `<div class="xqcas_input_validation"><div id="validation_` + FieldID(questionID, name) + `"></div></div>`
	if m, ok := w.(question.MatrixWidget); ok {
		shell += fmt.Sprintf(`<div id="xqcas_input_matrix_width_%s" style="visibility: hidden">%d</div>`, name, m.DisplayWidth())
		shell += fmt.Sprintf(`<div id="xqcas_input_matrix_height_%s" style="visibility: hidden">%d</div>`, name, m.DisplayHeight())
	}
	return shell
}
