package preview

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

const chromeHeight = 7

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if len(m.loading) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RenderedMsg:
		// Results computed under a previous feedback setting are stale.
		if msg.Feedback != m.feedback {
			return m, nil
		}
		delete(m.loading, msg.Mode)
		if msg.Err != nil {
			m.errs[msg.Mode] = msg.Err
			delete(m.results, msg.Mode)
		} else {
			m.results[msg.Mode] = msg.Result
			delete(m.errs, msg.Mode)
		}
		if msg.Mode == m.ActiveMode() {
			m.refresh()
			m.viewport.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right", "l":
		return m.selectTab(m.active + 1)

	case "shift+tab", "left", "h":
		return m.selectTab(m.active - 1)

	case "f":
		m.feedback = !m.feedback
		m.results = make(map[string]render.Result)
		m.errs = make(map[string]error)
		m.loading = make(map[string]bool)
		return m.selectTab(m.active)

	case "s":
		m.split = !m.split
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// selectTab activates tab i (wrapping) and renders it when not cached.
func (m Model) selectTab(i int) (tea.Model, tea.Cmd) {
	if len(m.modes) == 0 {
		return m, nil
	}
	m.active = (i%len(m.modes) + len(m.modes)) % len(m.modes)
	mode := m.ActiveMode()
	m.refresh()

	_, cached := m.results[mode]
	_, failed := m.errs[mode]
	if cached || failed || m.loading[mode] {
		return m, nil
	}
	m.loading[mode] = true
	return m, tea.Batch(m.spinner.Tick, renderCmd(m.ctx, m.svc, m.doc, mode, m.feedback))
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.body())
}
