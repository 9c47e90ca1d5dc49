package preview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

type fakeRenderer struct {
	err  error
	reqs []rendering.Request
}

func (f *fakeRenderer) Render(_ context.Context, req rendering.Request) (render.Result, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return render.Result{}, f.err
	}
	return render.Result{
		Mode: req.Mode,
		Text: "<p>" + req.Mode + "</p><p>body</p>",
		Diagnostics: []diagnostics.Diagnostic{
			diagnostics.MalformedInput("ans"),
		},
	}, nil
}

func newTestModel(t *testing.T, svc Renderer) Model {
	t.Helper()
	doc, err := config.DecodeDocument([]byte(`id: "7"
text: "[[input:ans]] [[validation:ans]]"
inputs:
  - name: ans
`), t.Name())
	require.NoError(t, err)
	return NewModel(context.Background(), svc, doc, true)
}

// run executes cmd and feeds any RenderedMsg it yields back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if rendered, ok := c().(RenderedMsg); ok {
				next, _ := m.Update(rendered)
				m = next.(Model)
			}
		}
		return m
	}
	if rendered, ok := msg.(RenderedMsg); ok {
		next, _ := m.Update(rendered)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	return run(t, next.(Model), cmd)
}

func TestModesWithoutAttempt(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeRenderer{})
	names := make([]string, 0, len(m.modes))
	for _, mode := range m.modes {
		names = append(names, mode.Name)
	}
	assert.Equal(t, []string{"question", "solution", "feedback", "general-feedback"}, names)
	assert.Equal(t, "question", m.ActiveMode())
}

func TestInitRendersFirstTab(t *testing.T) {
	t.Parallel()

	svc := &fakeRenderer{}
	m := newTestModel(t, svc)
	m = run(t, m, m.Init())

	require.Len(t, svc.reqs, 1)
	assert.Equal(t, "question", svc.reqs[0].Mode)
	assert.True(t, svc.reqs[0].Feedback)

	res, ok := m.Result("question")
	require.True(t, ok)
	assert.Equal(t, "<p>question</p><p>body</p>", res.Text)
	assert.Contains(t, m.body(), "<p>question</p>\n<p>body</p>")
}

func TestTabSwitchingRendersOnce(t *testing.T) {
	t.Parallel()

	svc := &fakeRenderer{}
	m := newTestModel(t, svc)
	m = run(t, m, m.Init())

	m = press(t, m, "tab")
	assert.Equal(t, "solution", m.ActiveMode())
	m = press(t, m, "shift+tab")
	assert.Equal(t, "question", m.ActiveMode())
	m = press(t, m, "h")
	assert.Equal(t, "general-feedback", m.ActiveMode(), "tabs wrap around")

	m = press(t, m, "l")
	assert.Equal(t, "question", m.ActiveMode())

	modes := make([]string, 0, len(svc.reqs))
	for _, r := range svc.reqs {
		modes = append(modes, r.Mode)
	}
	assert.Equal(t, []string{"question", "solution", "general-feedback"}, modes)
}

func TestToggleFeedbackRerenders(t *testing.T) {
	t.Parallel()

	svc := &fakeRenderer{}
	m := newTestModel(t, svc)
	m = run(t, m, m.Init())

	m = press(t, m, "f")
	require.Len(t, svc.reqs, 2)
	assert.False(t, svc.reqs[1].Feedback)
	assert.Contains(t, m.View(), "feedback (off)")

	_, ok := m.Result("question")
	assert.True(t, ok)
}

func TestStaleRenderIsIgnored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeRenderer{})
	next, _ := m.Update(RenderedMsg{Mode: "question", Feedback: false, Result: render.Result{Text: "stale"}})
	m = next.(Model)

	_, ok := m.Result("question")
	assert.False(t, ok)
}

func TestRenderErrorIsShown(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeRenderer{err: errors.New("boom")})
	m = run(t, m, m.Init())

	assert.Contains(t, m.body(), "render failed: boom")
}

func TestWarningsListed(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeRenderer{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	m = run(t, m, m.Init())

	assert.Contains(t, m.View(), "question (1)")
	assert.Contains(t, m.body(), diagnostics.MalformedInput("ans").String())
}

func TestSplitToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeRenderer{})
	m = run(t, m, m.Init())
	m = press(t, m, "s")

	assert.Contains(t, m.body(), "<p>question</p><p>body</p>")
}

func TestQuitKeys(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "ctrl+c"} {
		k := k
		t.Run(k, func(t *testing.T) {
			t.Parallel()

			m := newTestModel(t, &fakeRenderer{})
			next, cmd := m.Update(key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, next.(Model).Quitting())
			assert.Empty(t, strings.TrimSpace(next.(Model).View()))
		})
	}
}
