package render

import (
	"context"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
)

type fakeState struct{ ok bool }

func (s fakeState) Valid() bool { return s.ok }

type fakeWidget struct {
	name      string
	markup    string
	validates bool
	suppress  bool
	echo      bool
	calls     []string
}

func (w *fakeWidget) Render(_ question.InputState, fieldID string, readOnly bool, value string) string {
	w.calls = append(w.calls, fieldID)
	if readOnly {
		return w.markup + "(ro:" + value + ")"
	}
	if w.echo {
		return w.markup + "(" + value + ")"
	}
	return w.markup
}

func (w *fakeWidget) RequiresValidation() bool        { return w.validates }
func (w *fakeWidget) SuppressesOwnValidationUI() bool { return w.suppress }

func (w *fakeWidget) ReplaceValidationMarkers(_ question.InputState, _ string, text, shell string) string {
	return placeholder.Replace(text, placeholder.KindValidation, w.name, shell)
}

type fakeMatrix struct {
	fakeWidget
	w, h int
}

func (m *fakeMatrix) DisplayWidth() int  { return m.w }
func (m *fakeMatrix) DisplayHeight() int { return m.h }

type fakeProvider struct {
	evaluation      question.Evaluation
	user            question.Response
	correct         question.Response
	validationError string
	solutionValid   bool
}

func (p *fakeProvider) Evaluation() question.Evaluation    { return p.evaluation }
func (p *fakeProvider) CorrectResponse() question.Response { return p.correct }
func (p *fakeProvider) UserResponse() question.Response    { return p.user }

func (p *fakeProvider) IsEmptyResponse(resp question.Response, _ []question.InputSlot) bool {
	for _, v := range resp {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (p *fakeProvider) ValidationError(question.Response) string { return p.validationError }

func (p *fakeProvider) SolutionState(string, question.Response) question.InputState {
	return fakeState{ok: p.solutionValid}
}

type recordingSink struct {
	texts   []string
	configs []ports.BootstrapConfig
	err     error
}

func (s *recordingSink) Bootstrap(_ context.Context, text string, cfg ports.BootstrapConfig) error {
	s.texts = append(s.texts, text)
	s.configs = append(s.configs, cfg)
	return s.err
}

func correctOutcome(text string, format question.Format) question.Outcome {
	return question.Outcome{
		Status: question.StatusCorrect,
		State:  &question.StaticState{Fragments: []question.Fragment{{Text: text, Format: question.FormatPtr(format)}}},
	}
}
