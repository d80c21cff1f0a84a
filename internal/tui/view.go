package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAddHabit:
		return docStyle.Render(m.form.View())
	case StateConfirmArchive:
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center,
				dangerStyle.Render("Archive this habit?"),
				"",
				"[y] Yes",
				"[n] No",
			),
		)
	}

	status := ""
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		status,
		m.help.View(m.keys),
	))
}
