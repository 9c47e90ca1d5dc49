// Package feedback compiles the scored outcome of one evaluation unit into
// the styled text substituted for its [[feedback:<name>]] marker.
package feedback

import (
	"context"
	"slices"
	"strings"

	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
)

// Request describes one feedback unit to compile.
type Request struct {
	Name       string
	Evaluation question.Evaluation
	Messages   question.Messages
	Styles     style.Config
	// FeedbackNotStored is set when replaying an attempt whose feedback
	// field was never persisted.
	FeedbackNotStored bool
}

// Compiler turns outcomes into styled feedback text.
type Compiler struct {
	display  ports.DisplayProcessor
	resolver style.Resolver
}

// NewCompiler returns a Compiler. A nil display processor leaves text untouched.
func NewCompiler(display ports.DisplayProcessor, resolver style.Resolver) *Compiler {
	if display == nil {
		display = ports.IdentityDisplay
	}
	return &Compiler{display: display, resolver: resolver}
}

// Compile returns the fully resolved text for req.Name. Conditions that
// prevent compiling the body are reported to rep and rendered inline.
func (c *Compiler) Compile(ctx context.Context, rep diagnostics.Reporter, req Request) string {
	if rep == nil {
		rep = diagnostics.Discard
	}

	outcome, ok := req.Evaluation.Lookup(req.Name)
	if !ok {
		rep.Report(ctx, diagnostics.MissingState(req.Name, map[string]interface{}{"outcome": false}))
		return diagnostics.MissingEvaluation(req.Name)
	}

	prefix := req.Messages.Prefix(outcome.Status)
	if outcome.State == nil || req.FeedbackNotStored {
		rep.Report(ctx, diagnostics.MissingState(req.Name, map[string]interface{}{
			"outcome":           true,
			"state":             outcome.State != nil,
			"feedback_recorded": !req.FeedbackNotStored,
		}))
		return prefix + diagnostics.MissingEvaluation(req.Name)
	}

	return prefix + c.body(ctx, rep, req, outcome.State)
}

func (c *Compiler) body(ctx context.Context, rep diagnostics.Reporter, req Request, state question.EvaluationState) string {
	fragments := state.Feedback()
	if len(fragments) == 0 {
		return ""
	}

	format, conflicts := EffectiveFormat(fragments)
	for _, other := range conflicts {
		rep.Report(ctx, diagnostics.InconsistentFormat(req.Name, int(format), int(other)))
	}

	texts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		texts = append(texts, f.Text)
	}
	body := strings.Join(texts, " ")
	if sub, ok := state.(question.VariableSubstituter); ok {
		body = sub.SubstituteVariables(body)
	}

	text := c.display.ProcessDisplay(style.Wrap(format, body))
	return c.resolver.Resolve(text, req.Styles)
}

// EffectiveFormat returns the first declared format and every distinct
// declared format that disagrees with it, in order of appearance. Fragments
// without a declared format are ignored; with none declared the format is plain.
func EffectiveFormat(fragments []question.Fragment) (question.Format, []question.Format) {
	var (
		format    question.Format
		seen      bool
		conflicts []question.Format
	)
	for _, f := range fragments {
		if f.Format == nil {
			continue
		}
		if !seen {
			format, seen = *f.Format, true
			continue
		}
		if *f.Format != format && !slices.Contains(conflicts, *f.Format) {
			conflicts = append(conflicts, *f.Format)
		}
	}
	if !seen {
		return question.FormatPlain, nil
	}
	return format, conflicts
}

// Substitute replaces every [[feedback:<name>]] occurrence with text.
func Substitute(template, name, text string) string {
	return placeholder.Replace(template, placeholder.KindFeedback, name, text)
}
