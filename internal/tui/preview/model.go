// Package preview is an interactive terminal previewer with one tab per
// render mode of a question document.
package preview

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

// Renderer is the subset of the rendering service the previewer needs.
type Renderer interface {
	Render(ctx context.Context, req rendering.Request) (render.Result, error)
}

// Model is the Bubbletea state of the previewer.
type Model struct {
	ctx      context.Context
	svc      Renderer
	doc      *config.Document
	modes    []render.Mode
	active   int
	feedback bool
	split    bool

	results map[string]render.Result
	errs    map[string]error
	loading map[string]bool

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// NewModel constructs a previewer for doc. Tabs cover every mode the
// document supports.
func NewModel(ctx context.Context, svc Renderer, doc *config.Document, feedback bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		svc:      svc,
		doc:      doc,
		modes:    rendering.Modes(doc),
		feedback: feedback,
		split:    true,
		results:  make(map[string]render.Result),
		errs:     make(map[string]error),
		loading:  make(map[string]bool),
		viewport: viewport.New(80, 20),
		spinner:  s,
	}
	if len(m.modes) > 0 {
		m.loading[m.modes[0].Name] = true
	}
	return m
}

// Init renders the first tab.
func (m Model) Init() tea.Cmd {
	if len(m.modes) == 0 {
		return nil
	}
	return tea.Batch(m.spinner.Tick, renderCmd(m.ctx, m.svc, m.doc, m.modes[0].Name, m.feedback))
}

// ActiveMode returns the name of the selected tab.
func (m Model) ActiveMode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.active].Name
}

// Result returns the cached result for mode.
func (m Model) Result(mode string) (render.Result, bool) {
	res, ok := m.results[mode]
	return res, ok
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

func renderCmd(ctx context.Context, svc Renderer, doc *config.Document, mode string, feedback bool) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Render(ctx, rendering.Request{Mode: mode, Document: doc, Feedback: feedback})
		return RenderedMsg{Mode: mode, Feedback: feedback, Result: res, Err: err}
	}
}
