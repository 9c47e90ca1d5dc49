package render

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

// substituteInputs replaces input and validation markers according to the
// mode's source and returns the sorted names of inputs needing validation.
func (r *Renderer) substituteInputs(ctx context.Context, rep diagnostics.Reporter, j job, h *held, text string) (string, []string) {
	var toValidate []string

	switch j.mode.Source {
	case SourceLive, SourceSolution:
		var correct question.Response
		if j.mode.Source == SourceSolution && j.provider != nil {
			correct = j.provider.CorrectResponse()
		}
		for _, slot := range j.slots {
			text = r.substituteSlot(ctx, rep, j, h, slot, correct, text)
			if slot.Widget != nil && slot.Widget.RequiresValidation() {
				toValidate = append(toValidate, slot.Name)
			}
		}
	case SourceStored, SourceStoredCorrect:
		if j.stored == nil {
			break
		}
		for _, name := range j.stored.InputNames() {
			stored := j.stored.Inputs[name]
			display := stored.Display
			if j.mode.Source == SourceStoredCorrect {
				display = stored.CorrectDisplay
			}
			text = placeholder.Replace(text, placeholder.KindInput, name, h.put(r.opts.Display.ProcessDisplay(display)))
		}
	}

	sort.Strings(toValidate)
	return text, toValidate
}

func (r *Renderer) substituteSlot(ctx context.Context, rep diagnostics.Reporter, j job, h *held, slot question.InputSlot, correct question.Response, text string) string {
	fieldID := FieldID(j.questionID, slot.Name) + j.mode.FieldSuffix
	state := slot.State
	value := slot.Value
	readOnly := j.mode.ReadOnly

	if j.mode.Source == SourceSolution {
		value = correct[slot.Name]
		state = nil
		if j.provider != nil {
			state = j.provider.SolutionState(slot.Name, correct)
		}
	}

	if slot.Widget == nil || !question.ValidState(state) {
		rep.Report(ctx, diagnostics.MalformedInput(slot.Name))
		text = placeholder.Replace(text, placeholder.KindInput, slot.Name, h.put(diagnostics.InputError(slot.Name)))
		return placeholder.Replace(text, placeholder.KindValidation, slot.Name, "")
	}

	markup := slot.Widget.Render(state, fieldID, readOnly, value)
	showValidation := j.mode.ShowValidation && slot.ShowValidation && !slot.Widget.SuppressesOwnValidationUI()
	if !showValidation {
		text = placeholder.Replace(text, placeholder.KindInput, slot.Name, h.put(markup))
		return placeholder.Replace(text, placeholder.KindValidation, slot.Name, "")
	}

	if !r.opts.InstantValidation {
		markup += " " + ValidationButton(j.questionID, slot.Name)
	}
	text = placeholder.Replace(text, placeholder.KindInput, slot.Name, h.put(markup))

	shell := h.put(ValidationShell(j.questionID, slot.Name, slot.Widget))
	text = slot.Widget.ReplaceValidationMarkers(state, fieldID, text, shell)
	return placeholder.Replace(text, placeholder.KindValidation, slot.Name, shell)
}

// held keeps substituted fragments out of the text until every marker pass
// has run. Answer values and compiled feedback are then never read as
// markers themselves.
type held struct {
	prefix string
	values []string
}

func newHeld(text string) *held {
	prefix := "\x00held:"
	for strings.Contains(text, prefix) {
		prefix += "\x00"
	}
	return &held{prefix: prefix}
}

func (h *held) token(i int) string {
	return h.prefix + strconv.Itoa(i) + "\x00"
}

// put stores fragment and returns the token standing in for it.
func (h *held) put(fragment string) string {
	h.values = append(h.values, fragment)
	return h.token(len(h.values) - 1)
}

// release puts every held fragment back in a single pass.
func (h *held) release(text string) string {
	if len(h.values) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(h.values))
	for i, v := range h.values {
		pairs = append(pairs, h.token(i), v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
