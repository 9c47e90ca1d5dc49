// Package question holds the per-render view of a question instance: its
// template, input slots, evaluation outcomes and stored attempts, together
// with the collaborator contracts the renderer consumes.
package question

import "strings"

// Format is the display format code attached to a feedback fragment.
type Format int

const (
	FormatPlain     Format = 0
	FormatDefault   Format = 1
	FormatRight     Format = 2
	FormatWrong     Format = 3
	FormatHint      Format = 4
	FormatExtraInfo Format = 5
	FormatPlot      Format = 6
)

// FormatPtr returns a pointer to f, for building fragments inline.
func FormatPtr(f Format) *Format {
	return &f
}

// Status is the scoring outcome of one evaluation unit.
type Status string

const (
	StatusCorrect          Status = "correct"
	StatusIncorrect        Status = "incorrect"
	StatusPartiallyCorrect Status = "partially_correct"
	StatusUnknown          Status = "unknown"
)

// ParseStatus maps free-form status text onto a Status, defaulting to unknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCorrect:
		return StatusCorrect
	case StatusIncorrect:
		return StatusIncorrect
	case StatusPartiallyCorrect, "partial":
		return StatusPartiallyCorrect
	default:
		return StatusUnknown
	}
}

// Fragment is one piece of feedback text. A nil Format means the fragment
// does not declare one.
type Fragment struct {
	Text   string
	Format *Format
}

// EvaluationState exposes the ordered feedback produced by the evaluation engine.
type EvaluationState interface {
	Feedback() []Fragment
}

// VariableSubstituter is implemented by evaluation states that can expand
// question variables inside the joined feedback body.
type VariableSubstituter interface {
	SubstituteVariables(text string) string
}

// Outcome is the result for one named evaluation unit. A nil State means the
// engine produced no evaluation state for it.
type Outcome struct {
	Status Status
	State  EvaluationState
}

// Evaluation maps feedback names to outcomes.
type Evaluation map[string]Outcome

// Lookup returns the outcome for name.
func (e Evaluation) Lookup(name string) (Outcome, bool) {
	if e == nil {
		return Outcome{}, false
	}
	o, ok := e[name]
	return o, ok
}

// Messages are the status prefixes shown ahead of compiled feedback.
type Messages struct {
	Correct   string
	Incorrect string
	Partial   string
}

// Prefix returns the message matching status, or "" for unknown statuses.
func (m Messages) Prefix(status Status) string {
	switch status {
	case StatusCorrect:
		return m.Correct
	case StatusIncorrect:
		return m.Incorrect
	case StatusPartiallyCorrect:
		return m.Partial
	default:
		return ""
	}
}

// Response maps input names to raw answer text.
type Response map[string]string

// StaticState is a ready-made evaluation state backed by a fragment list.
type StaticState struct {
	Fragments []Fragment
	Variables map[string]string
}

// Feedback returns the stored fragments.
func (s *StaticState) Feedback() []Fragment {
	if s == nil {
		return nil
	}
	return s.Fragments
}

// SubstituteVariables replaces {@name@} references with their stored values.
func (s *StaticState) SubstituteVariables(text string) string {
	if s == nil || len(s.Variables) == 0 {
		return text
	}
	pairs := make([]string, 0, len(s.Variables)*2)
	for name, value := range s.Variables {
		pairs = append(pairs, "{@"+name+"@}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
