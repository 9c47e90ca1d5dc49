package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/stackrender/pkg/diff"
)

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := "stackrender preview"
	if m.doc != nil {
		title = fmt.Sprintf("stackrender preview • question %s", m.doc.ID)
	}

	sections := []string{
		titleStyle.Render(title),
		m.tabs(),
		m.viewport.View(),
		footerStyle.Render(m.footer()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) tabs() string {
	tabs := make([]string, 0, len(m.modes))
	for i, mode := range m.modes {
		label := mode.Name
		if m.loading[mode.Name] {
			label = m.spinner.View() + " " + label
		} else if res, ok := m.results[mode.Name]; ok && len(res.Warnings()) > 0 {
			label = fmt.Sprintf("%s (%d)", label, len(res.Warnings()))
		}
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// body is the viewport content for the active tab.
func (m Model) body() string {
	mode := m.ActiveMode()
	if mode == "" {
		return "no render modes available"
	}
	if err, ok := m.errs[mode]; ok {
		return errorStyle.Render("render failed: " + err.Error())
	}
	res, ok := m.results[mode]
	if !ok {
		return "rendering…"
	}

	text := res.Text
	if m.split {
		text = diff.SplitMarkup(text)
	}

	var b strings.Builder
	b.WriteString(text)
	if warnings := res.Warnings(); len(warnings) > 0 {
		b.WriteString("\n\n")
		for _, w := range warnings {
			b.WriteString(warningStyle.Render("⚠ " + w.String()))
			b.WriteString("\n")
		}
	}
	if len(res.InputsToValidate) > 0 {
		fmt.Fprintf(&b, "\ninputs to validate: %s", strings.Join(res.InputsToValidate, ", "))
	}
	return b.String()
}

func (m Model) footer() string {
	feedback := "off"
	if m.feedback {
		feedback = "on"
	}
	return fmt.Sprintf("tab/←→ switch mode • f feedback (%s) • s split markup • ↑↓ scroll • q quit", feedback)
}
