// Package rendering is the application service shared by the CLI, the HTTP
// server and the preview TUI: it resolves styles for a scope, dispatches a
// question document to the requested render mode and publishes render events.
package rendering

import (
	"context"
	"errors"
	"time"

	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/mathdisplay"
	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/styles"
	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
	"github.com/alexisbeaulieu97/stackrender/internal/style"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

// Request names one render of a question document.
type Request struct {
	Mode     string
	Document *config.Document
	// Feedback enables inline feedback for the question and result modes.
	Feedback bool
	// Scope overrides the configured style scope.
	Scope string
}

// Options wires a Service.
type Options struct {
	Renderer *render.Renderer
	Styles   ports.StyleStore
	Scope    string
	Events   ports.EventPublisher
	Logger   ports.Logger
}

// Service renders question documents.
type Service struct {
	renderer *render.Renderer
	styles   ports.StyleStore
	scope    string
	events   ports.EventPublisher
	log      ports.Logger
}

// NewService constructs a Service. Missing collaborators get inert defaults.
func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	r := opts.Renderer
	if r == nil {
		r = render.New(render.Options{Logger: log})
	}
	scope := opts.Scope
	if scope == "" {
		scope = config.DefaultScope
	}
	return &Service{
		renderer: r,
		styles:   opts.Styles,
		scope:    scope,
		events:   opts.Events,
		log:      log.With("component", "rendering"),
	}
}

// NewFromConfig wires the full stack described by cfg: math display
// normalization, the configured style store, an event publisher acting as the
// diagnostic channel, and sink as the asset sink. The returned close function
// releases the style store.
func NewFromConfig(ctx context.Context, cfg *config.Config, log ports.Logger, sink ports.AssetSink) (*Service, *events.Publisher, func() error, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	store, closeFn, err := styles.Open(ctx, cfg.Styles, log)
	if err != nil {
		return nil, nil, closeFn, err
	}

	publisher := events.NewPublisher(log)
	resolver := style.NewResolver()
	if cfg.Rendering.ClassPrefix != "" {
		resolver.ClassPrefix = cfg.Rendering.ClassPrefix
	}
	if cfg.Rendering.ExtraClass != "" {
		resolver.ExtraClass = cfg.Rendering.ExtraClass
	}

	renderer := render.New(render.Options{
		Display:           mathdisplay.New(),
		Resolver:          resolver,
		Reporter:          publisher,
		Sink:              sink,
		Logger:            log,
		InstantValidation: cfg.Rendering.InstantValidation,
		ValidateURL:       cfg.Rendering.ValidateURL,
	})

	svc := NewService(Options{
		Renderer: renderer,
		Styles:   store,
		Scope:    cfg.Styles.Scope,
		Events:   publisher,
		Logger:   log,
	})
	return svc, publisher, closeFn, nil
}

// Render runs one request. Render-time problems inside the document end up
// in the result's diagnostics; only request-level failures return an error.
func (s *Service) Render(ctx context.Context, req Request) (render.Result, error) {
	mode, ok := render.ModeByName(req.Mode)
	if !ok {
		return render.Result{}, stackerrors.NewRenderError(req.Mode, docID(req.Document), stackerrors.ErrUnknownMode)
	}
	if req.Document == nil {
		return render.Result{}, stackerrors.NewRenderError(mode.Name, "", errors.New("no question document"))
	}

	cfg, err := s.Styles(ctx, req.Scope)
	if err != nil {
		return render.Result{}, stackerrors.NewRenderError(mode.Name, req.Document.ID, err)
	}

	s.publish(ctx, ports.EventRenderStarted, map[string]interface{}{
		"mode":        mode.Name,
		"question_id": req.Document.ID,
	})
	start := time.Now()

	res, err := s.dispatch(ctx, mode, req, cfg)
	if err != nil {
		return render.Result{}, stackerrors.NewRenderError(mode.Name, req.Document.ID, err)
	}

	s.publish(ctx, ports.EventRenderCompleted, map[string]interface{}{
		"mode":        mode.Name,
		"question_id": req.Document.ID,
		"warnings":    len(res.Warnings()),
		"bytes":       len(res.Text),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

func (s *Service) dispatch(ctx context.Context, mode render.Mode, req Request, cfg style.Config) (render.Result, error) {
	doc := req.Document

	switch mode.Name {
	case render.ModeQuestion.Name:
		return s.renderer.RenderQuestion(ctx, doc.Question(), cfg, req.Feedback), nil
	case render.ModeBestSolution.Name:
		return s.renderer.RenderBestSolution(ctx, doc.Question(), cfg), nil
	case render.ModeSpecificFeedback.Name:
		return s.renderer.RenderSpecificFeedback(ctx, doc.Question(), cfg), nil
	case render.ModeGeneralFeedback.Name:
		return s.renderer.RenderGeneralFeedback(ctx, doc.Question()), nil
	}

	attempt, err := doc.StoredAttempt()
	if err != nil {
		return render.Result{}, err
	}

	switch mode.Name {
	case render.ModeTestResult.Name:
		return s.renderer.RenderTestResult(ctx, attempt, cfg, req.Feedback), nil
	case render.ModeSolutionReplay.Name:
		return s.renderer.RenderSolutionReplay(ctx, attempt, cfg), nil
	default:
		return s.renderer.RenderSpecificFeedbackForTest(ctx, doc.Question(), attempt, cfg), nil
	}
}

// Styles fetches the style mapping for scope, or the configured scope when
// scope is empty. A scope the store does not know renders unstyled.
func (s *Service) Styles(ctx context.Context, scope string) (style.Config, error) {
	if scope == "" {
		scope = s.scope
	}
	if s.styles == nil {
		return style.Config{}, nil
	}

	cfg, err := s.styles.GetStyles(ctx, scope)
	if errors.Is(err, stackerrors.ErrStyleScopeNotFound) {
		s.log.Warn(ctx, "style scope not found, rendering unstyled", "scope", scope)
		return style.Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ports.EventStylesLoaded, map[string]interface{}{"scope": scope, "styles": len(cfg)})
	return cfg, nil
}

// Modes returns the modes a document supports, in the stable mode order.
// Replay modes need a stored attempt.
func Modes(doc *config.Document) []render.Mode {
	var out []render.Mode
	for _, m := range render.Modes() {
		if NeedsAttempt(m) && (doc == nil || !doc.HasAttempt()) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// NeedsAttempt reports whether m renders from a stored attempt.
func NeedsAttempt(m render.Mode) bool {
	switch m.Source {
	case render.SourceStored, render.SourceStoredCorrect:
		return true
	}
	return m.Name == render.ModeSpecificFeedbackForTest.Name
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ports.Event{Type: eventType, Data: data}); err != nil {
		s.log.Warn(ctx, "publish failed", "event_type", eventType, "error", err)
	}
}

func docID(doc *config.Document) string {
	if doc == nil {
		return ""
	}
	return doc.ID
}
