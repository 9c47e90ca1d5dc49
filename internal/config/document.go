package config

import (
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/widgets"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

// Question builds the live question instance described by the document.
// Evaluation and response helpers are served by a fixture provider.
func (d *Document) Question() *question.Question {
	slots := make([]question.InputSlot, 0, len(d.Inputs))
	user := make(question.Response, len(d.Inputs))
	correct := make(question.Response, len(d.Inputs))

	for _, in := range d.Inputs {
		user[in.Name] = in.Response
		correct[in.Name] = in.Correct

		value := in.Value
		if value == "" {
			value = in.Response
		}
		show := true
		if in.ShowValidation != nil {
			show = *in.ShowValidation
		}

		slots = append(slots, question.InputSlot{
			Name:           in.Name,
			Value:          value,
			ShowValidation: show,
			Widget:         widgets.New(in.Type, in.Name, in.Width, in.Height, in.Options),
			State:          inputState(in),
		})
	}

	return &question.Question{
		ID:               d.ID,
		Text:             d.Text,
		SpecificFeedback: d.SpecificFeedback,
		GeneralFeedback:  d.GeneralFeedback,
		Messages:         d.messages(),
		Slots:            slots,
		Provider: &FixtureProvider{
			Outcomes:   buildEvaluation(d.Evaluation),
			User:       user,
			Correct:    correct,
			Validation: d.ValidationError,
		},
	}
}

// HasAttempt reports whether the document carries a stored attempt.
func (d *Document) HasAttempt() bool {
	return d.Attempt != nil
}

// StoredAttempt builds the stored attempt replayed by the result modes.
// Missing attempt fields fall back to the live parts of the document.
func (d *Document) StoredAttempt() (*question.Attempt, error) {
	if d.Attempt == nil {
		return nil, stackerrors.NewValidationError("attempt", "document has no stored attempt", nil)
	}
	a := d.Attempt

	text := a.Text
	if text == "" {
		text = d.Text
	}

	response := question.Response(a.Response)
	if response == nil {
		response = make(question.Response, len(d.Inputs))
		for _, in := range d.Inputs {
			response[in.Name] = in.Response
		}
	}

	inputs := make(map[string]question.StoredInput, len(a.Inputs))
	for name, in := range a.Inputs {
		inputs[name] = question.StoredInput{Display: in.Display, CorrectDisplay: in.CorrectDisplay}
	}
	if len(inputs) == 0 {
		for _, in := range d.Inputs {
			inputs[in.Name] = question.StoredInput{Display: response[in.Name], CorrectDisplay: in.Correct}
		}
	}

	empty := blank(response)
	if a.Empty != nil {
		empty = *a.Empty
	}

	prts := make(map[string]question.StoredPRT, len(a.PRTs))
	for name, p := range a.PRTs {
		prts[name] = question.StoredPRT{StatusRecorded: p.StatusRecorded, FeedbackRecorded: p.FeedbackRecorded}
	}

	eval := a.Evaluation
	if len(eval) == 0 {
		eval = d.Evaluation
	}

	return &question.Attempt{
		QuestionID:    d.ID,
		Text:          text,
		Messages:      d.messages(),
		Inputs:        inputs,
		Response:      response,
		EmptyResponse: empty,
		PRTs:          prts,
		Evaluation:    buildEvaluation(eval),
	}, nil
}

// FeedbackNames returns the names of the evaluated feedback units, sorted.
func (d *Document) FeedbackNames() []string {
	names := make([]string, 0, len(d.Evaluation))
	for name := range d.Evaluation {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Document) messages() question.Messages {
	return question.Messages{
		Correct:   d.Messages.Correct,
		Incorrect: d.Messages.Incorrect,
		Partial:   d.Messages.Partial,
	}
}

func inputState(in InputDoc) question.InputState {
	switch in.State {
	case "absent":
		return nil
	case "invalid":
		return &widgets.State{Contents: in.Response, Malformed: true}
	default:
		return &widgets.State{Contents: in.Response}
	}
}

func buildEvaluation(docs map[string]OutcomeDoc) question.Evaluation {
	if docs == nil {
		return nil
	}
	eval := make(question.Evaluation, len(docs))
	for name, o := range docs {
		outcome := question.Outcome{Status: question.ParseStatus(o.Status)}
		if o.State != "absent" {
			fragments := make([]question.Fragment, 0, len(o.Feedback))
			for _, f := range o.Feedback {
				frag := question.Fragment{Text: f.Text}
				if f.Format != nil {
					frag.Format = question.FormatPtr(question.Format(*f.Format))
				}
				fragments = append(fragments, frag)
			}
			outcome.State = &question.StaticState{Fragments: fragments, Variables: o.Variables}
		}
		eval[name] = outcome
	}
	return eval
}

func blank(resp question.Response) bool {
	for _, v := range resp {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// FixtureProvider serves a document's recorded evaluation to the renderer.
type FixtureProvider struct {
	Outcomes   question.Evaluation
	User       question.Response
	Correct    question.Response
	Validation string
}

var _ question.EvaluationProvider = (*FixtureProvider)(nil)

// Evaluation implements question.EvaluationProvider.
func (p *FixtureProvider) Evaluation() question.Evaluation { return p.Outcomes }

// CorrectResponse implements question.EvaluationProvider.
func (p *FixtureProvider) CorrectResponse() question.Response { return p.Correct }

// UserResponse implements question.EvaluationProvider.
func (p *FixtureProvider) UserResponse() question.Response { return p.User }

// IsEmptyResponse reports whether every slot's answer is blank. Without
// slots, every entry of resp is considered.
func (p *FixtureProvider) IsEmptyResponse(resp question.Response, slots []question.InputSlot) bool {
	if len(slots) == 0 {
		return blank(resp)
	}
	for _, s := range slots {
		if strings.TrimSpace(resp[s.Name]) != "" {
			return false
		}
	}
	return true
}

// ValidationError implements question.EvaluationProvider.
func (p *FixtureProvider) ValidationError(question.Response) string { return p.Validation }

// SolutionState parses the correct answer of one input.
func (p *FixtureProvider) SolutionState(name string, resp question.Response) question.InputState {
	return &widgets.State{Contents: resp[name]}
}
