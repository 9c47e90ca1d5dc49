// Package render expands question templates into final markup. All render
// modes share one pipeline:
//
//  1. extract input, validation and feedback names from the raw template
//  2. normalize math display over the whole template
//  3. substitute inputs and validation containers
//  4. substitute or hide feedback
//  5. append the general validation error (live mode)
//  6. run the final display pass, wrap specific feedback in its default
//     style and hand the text to the asset sink
package render

import (
	"context"
	"slices"

	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/feedback"
	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/question"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
)

// Options configures a Renderer. Every collaborator is optional.
type Options struct {
	Display           ports.DisplayProcessor
	Resolver          style.Resolver
	Reporter          diagnostics.Reporter
	Sink              ports.AssetSink
	Logger            ports.Logger
	InstantValidation bool
	ValidateURL       string
}

// Result is the outcome of one render call.
type Result struct {
	Mode             string
	Text             string
	Diagnostics      []diagnostics.Diagnostic
	InputsToValidate []string
	Bootstrap        ports.BootstrapConfig
}

// Warnings returns the diagnostics that should be surfaced to authors.
func (r Result) Warnings() []diagnostics.Diagnostic {
	out := make([]diagnostics.Diagnostic, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		if d.Warning() {
			out = append(out, d)
		}
	}
	return out
}

// Renderer is immutable after construction and safe for concurrent use.
type Renderer struct {
	opts     Options
	compiler *feedback.Compiler
	log      ports.Logger
}

// New returns a Renderer.
func New(opts Options) *Renderer {
	if opts.Display == nil {
		opts.Display = ports.IdentityDisplay
	}
	if opts.Resolver == (style.Resolver{}) {
		opts.Resolver = style.NewResolver()
	}
	if opts.Reporter == nil {
		opts.Reporter = diagnostics.Discard
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Renderer{
		opts:     opts,
		compiler: feedback.NewCompiler(opts.Display, opts.Resolver),
		log:      log.With("component", "renderer"),
	}
}

// job is the per-call input of the shared pipeline.
type job struct {
	mode            Mode
	questionID      string
	text            string
	slots           []question.InputSlot
	provider        question.EvaluationProvider
	stored          *question.Attempt
	evaluation      question.Evaluation
	messages        question.Messages
	prts            map[string]question.StoredPRT
	gated           bool
	emptyResponse   bool
	validationError string
	styles          style.Config
}

// RenderQuestion renders the live question. Feedback is shown only when
// showInlineFeedback is set and the user response is not empty.
func (r *Renderer) RenderQuestion(ctx context.Context, q *question.Question, styles style.Config, showInlineFeedback bool) Result {
	mode := ModeQuestion
	mode.ShowFeedback = showInlineFeedback

	j := r.liveJob(mode, q, styles)
	if j.provider != nil {
		resp := j.provider.UserResponse()
		j.emptyResponse = j.provider.IsEmptyResponse(resp, q.Slots)
		if !j.emptyResponse {
			j.validationError = j.provider.ValidationError(resp)
		}
	}
	return r.render(ctx, j)
}

// RenderBestSolution renders the reference solution with read-only widgets.
// Feedback and validation containers are never shown.
func (r *Renderer) RenderBestSolution(ctx context.Context, q *question.Question, styles style.Config) Result {
	return r.render(ctx, r.liveJob(ModeBestSolution, q, styles))
}

// RenderTestResult replays a stored attempt from its recorded display values.
// With showInlineFeedback, feedback units whose status was recorded are compiled
// from the stored evaluation.
func (r *Renderer) RenderTestResult(ctx context.Context, a *question.Attempt, styles style.Config, showInlineFeedback bool) Result {
	mode := ModeTestResult
	mode.ShowFeedback = showInlineFeedback
	return r.render(ctx, storedJob(mode, a, styles))
}

// RenderSolutionReplay replays the stored correct display values.
func (r *Renderer) RenderSolutionReplay(ctx context.Context, a *question.Attempt, styles style.Config) Result {
	return r.render(ctx, storedJob(ModeSolutionReplay, a, styles))
}

// RenderSpecificFeedback renders the specific feedback text of q from its
// live evaluation.
func (r *Renderer) RenderSpecificFeedback(ctx context.Context, q *question.Question, styles style.Config) Result {
	j := r.liveJob(ModeSpecificFeedback, q, styles)
	j.slots = nil
	if q != nil {
		j.text = q.SpecificFeedback
	}
	return r.render(ctx, j)
}

// RenderSpecificFeedbackForTest renders the specific feedback text of q for a
// stored attempt, honouring which fields the attempt recorded.
func (r *Renderer) RenderSpecificFeedbackForTest(ctx context.Context, q *question.Question, a *question.Attempt, styles style.Config) Result {
	j := r.liveJob(ModeSpecificFeedbackForTest, q, styles)
	j.slots = nil
	if q != nil {
		j.text = q.SpecificFeedback
	}
	j.gated = true
	if a != nil {
		j.prts = a.PRTs
		if a.Evaluation != nil {
			j.evaluation = a.Evaluation
		}
	}
	return r.render(ctx, j)
}

// RenderGeneralFeedback renders the general feedback text of q. The text
// carries no markers; it only passes through the display processor.
func (r *Renderer) RenderGeneralFeedback(ctx context.Context, q *question.Question) Result {
	res := Result{Mode: ModeGeneralFeedback.Name}
	if q == nil {
		return res
	}
	res.Text = r.opts.Display.ProcessDisplay(q.GeneralFeedback)
	res.Bootstrap = ports.BootstrapConfig{QuestionID: q.ID, Mode: res.Mode}

	if r.opts.Sink != nil {
		if err := r.opts.Sink.Bootstrap(ctx, res.Text, res.Bootstrap); err != nil {
			r.log.Warn(ctx, "asset bootstrap failed", "mode", res.Mode, "question_id", q.ID, "error", err)
		}
	}
	return res
}

// ValidationButton returns the validation button markup for one input.
func (r *Renderer) ValidationButton(questionID, name string) string {
	return ValidationButton(questionID, name)
}

func (r *Renderer) liveJob(mode Mode, q *question.Question, styles style.Config) job {
	j := job{mode: mode, styles: styles}
	if q == nil {
		j.emptyResponse = true
		return j
	}
	j.questionID = q.ID
	j.text = q.Text
	j.slots = q.SortedSlots()
	j.messages = q.Messages
	j.provider = q.Provider
	if q.Provider != nil {
		j.evaluation = q.Provider.Evaluation()
	} else {
		j.emptyResponse = mode.Source == SourceLive
	}
	return j
}

func storedJob(mode Mode, a *question.Attempt, styles style.Config) job {
	j := job{mode: mode, styles: styles, stored: a, gated: true}
	if a == nil {
		j.emptyResponse = true
		return j
	}
	j.questionID = a.QuestionID
	j.text = a.Text
	j.messages = a.Messages
	j.evaluation = a.Evaluation
	j.prts = a.PRTs
	j.emptyResponse = a.EmptyResponse
	return j
}

func (r *Renderer) render(ctx context.Context, j job) Result {
	collector := diagnostics.NewCollector(r.opts.Reporter)

	inputNames := placeholder.Extract(j.text, placeholder.KindInput)
	validationNames := placeholder.Extract(j.text, placeholder.KindValidation)
	feedbackNames := placeholder.Extract(j.text, placeholder.KindFeedback)

	text := r.opts.Display.ProcessDisplay(j.text)
	h := newHeld(text)

	text, toValidate := r.substituteInputs(ctx, collector, j, h, text)
	if !j.mode.ShowValidation {
		text = placeholder.Hide(text, placeholder.KindValidation, validationNames)
	}

	text = r.substituteFeedback(ctx, collector, j, h, text, feedbackNames)
	text = h.release(text)

	if j.mode.Source == SourceLive && !j.emptyResponse && j.validationError != "" {
		text += diagnostics.ValidationErrorLine(j.validationError)
	}

	text = r.opts.Display.ProcessDisplay(text)
	if j.mode.WrapDefault {
		text = r.opts.Resolver.WrapDefault(text, j.styles)
	}

	res := Result{
		Mode:             j.mode.Name,
		Text:             text,
		Diagnostics:      collector.Diagnostics(),
		InputsToValidate: toValidate,
		Bootstrap: ports.BootstrapConfig{
			QuestionID:       j.questionID,
			Mode:             j.mode.Name,
			ValidateURL:      r.opts.ValidateURL,
			Instant:          r.opts.InstantValidation,
			InputsToValidate: toValidate,
		},
	}

	if r.opts.Sink != nil {
		if err := r.opts.Sink.Bootstrap(ctx, res.Text, res.Bootstrap); err != nil {
			r.log.Warn(ctx, "asset bootstrap failed", "mode", j.mode.Name, "question_id", j.questionID, "error", err)
		}
	}

	r.log.Debug(ctx, "render completed",
		"mode", j.mode.Name,
		"question_id", j.questionID,
		"inputs", len(inputNames),
		"feedback", len(feedbackNames),
		"diagnostics", len(res.Diagnostics),
	)
	return res
}

func (r *Renderer) substituteFeedback(ctx context.Context, rep diagnostics.Reporter, j job, h *held, text string, raw []string) string {
	if !j.mode.ShowFeedback || j.emptyResponse {
		if j.mode.ShowFeedback && len(raw) > 0 {
			rep.Report(ctx, diagnostics.EmptyResponse(raw))
		}
		return placeholder.Hide(text, placeholder.KindFeedback, raw)
	}

	for _, name := range feedbackUnits(raw, j.evaluation, text) {
		if !placeholder.Contains(text, placeholder.KindFeedback, name) {
			continue
		}
		req := feedback.Request{
			Name:       name,
			Evaluation: j.evaluation,
			Messages:   j.messages,
			Styles:     j.styles,
		}
		if j.gated {
			prt, ok := j.prts[name]
			if !ok || !prt.StatusRecorded {
				text = feedback.Substitute(text, name, "")
				continue
			}
			req.FeedbackNotStored = !prt.FeedbackRecorded
		}
		text = feedback.Substitute(text, name, h.put(r.compiler.Compile(ctx, rep, req)))
	}

	return placeholder.Hide(text, placeholder.KindFeedback, raw)
}

// feedbackUnits lists every outcome together with every feedback marker of
// the raw and the normalized template, sorted and de-duplicated.
func feedbackUnits(raw []string, eval question.Evaluation, text string) []string {
	names := append([]string{}, raw...)
	for name := range eval {
		names = append(names, name)
	}
	names = append(names, placeholder.Extract(text, placeholder.KindFeedback)...)
	slices.Sort(names)
	return slices.Compact(names)
}
