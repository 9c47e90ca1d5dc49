// Package diagnostics builds the inline warning text emitted while rendering
// and the structured records handed to the host's diagnostic channel.
package diagnostics

import (
	"context"
	"fmt"
	"strings"
)

// Kind classifies a render-time condition. None of them abort rendering.
type Kind string

const (
	// KindMalformedInput marks an input whose state is absent or ill-formed.
	KindMalformedInput Kind = "malformed_input"
	// KindMissingEvaluationState marks a feedback unit without an outcome or
	// without an evaluation state.
	KindMissingEvaluationState Kind = "missing_evaluation_state"
	// KindInconsistentFeedbackFormat marks fragments that disagree on their
	// format code.
	KindInconsistentFeedbackFormat Kind = "inconsistent_feedback_format"
	// KindEmptyResponseSuppression records that feedback was hidden because the
	// response was empty. Informational only.
	KindEmptyResponseSuppression Kind = "empty_response_suppression"
)

// LineBreak terminates warning lines and separates the general validation error.
const LineBreak = "<br>"

// Diagnostic is one reported condition.
type Diagnostic struct {
	Kind    Kind
	Name    string
	Message string
	Context map[string]interface{}
}

func (d Diagnostic) String() string {
	if d.Name == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Name, d.Message)
}

// Warning reports whether the diagnostic should be surfaced as a warning.
func (d Diagnostic) Warning() bool {
	return d.Kind != KindEmptyResponseSuppression
}

// Reporter receives diagnostics as they are raised.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) {
	if f != nil {
		f(ctx, d)
	}
}

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(context.Context, Diagnostic) {})

// InputError is the inline text substituted for an input that cannot be rendered.
func InputError(name string) string {
	return "Error rendering input: " + name
}

// MissingEvaluation is the inline warning for a feedback unit without state.
func MissingEvaluation(name string) string {
	return "WARNING: No evaluation state for prt: " + name + LineBreak
}

// ValidationErrorLine renders the general validation error appended to a question.
func ValidationErrorLine(msg string) string {
	return LineBreak + msg
}

// MalformedInput builds the diagnostic for an unrenderable input.
func MalformedInput(name string) Diagnostic {
	return Diagnostic{
		Kind:    KindMalformedInput,
		Name:    name,
		Message: "input state is absent or malformed",
	}
}

// MissingState builds the diagnostic for a feedback unit without evaluation state.
func MissingState(name string, ctx map[string]interface{}) Diagnostic {
	return Diagnostic{
		Kind:    KindMissingEvaluationState,
		Name:    name,
		Message: "no evaluation state",
		Context: ctx,
	}
}

// InconsistentFormat builds the diagnostic for fragments with mixed formats.
func InconsistentFormat(name string, first, other int) Diagnostic {
	return Diagnostic{
		Kind:    KindInconsistentFeedbackFormat,
		Name:    name,
		Message: fmt.Sprintf("inconsistent feedback formats found: using %d, also saw %d", first, other),
		Context: map[string]interface{}{"format": first, "conflicting_format": other},
	}
}

// EmptyResponse builds the informational diagnostic for hidden feedback.
func EmptyResponse(names []string) Diagnostic {
	return Diagnostic{
		Kind:    KindEmptyResponseSuppression,
		Message: "response is empty; feedback hidden",
		Context: map[string]interface{}{"feedback": strings.Join(names, ",")},
	}
}

// Collector accumulates diagnostics and forwards them to an optional next reporter.
type Collector struct {
	next  Reporter
	items []Diagnostic
}

// NewCollector returns a Collector forwarding to next, which may be nil.
func NewCollector(next Reporter) *Collector {
	return &Collector{next: next}
}

// Report records d and forwards it.
func (c *Collector) Report(ctx context.Context, d Diagnostic) {
	c.items = append(c.items, d)
	if c.next != nil {
		c.next.Report(ctx, d)
	}
}

// Diagnostics returns the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), c.items...)
}

// Warnings returns only the recorded diagnostics that are warnings.
func (c *Collector) Warnings() []Diagnostic {
	out := make([]Diagnostic, 0, len(c.items))
	for _, d := range c.items {
		if d.Warning() {
			out = append(out, d)
		}
	}
	return out
}
