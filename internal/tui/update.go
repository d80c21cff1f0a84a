package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/strideapp/stride/internal/constants"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-3)
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmArchive:
		return m.updateConfirmArchive(msg)
	default:
		return m.updateBoard(msg)
	}
}

func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		// Keep list filtering usable: only intercept our keys when the
		// filter input is not focused.
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit

			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil

			case key.Matches(msg, m.keys.Toggle):
				if habit, ok := m.selectedHabit(); ok {
					if habit.Type == constants.HabitQuit {
						m.status = "quit habits record slips; press s"
					} else if updated, err := m.tracker.ToggleHabit(habit.ID); err != nil {
						m.status = err.Error()
					} else {
						m.status = fmt.Sprintf("%s: streak %d", updated.Title, updated.Streak)
						m.reloadHabits()
					}
				}
				return m, nil

			case key.Matches(msg, m.keys.Slip):
				if habit, ok := m.selectedHabit(); ok {
					if updated, err := m.tracker.RecordSlip(habit.ID); err != nil {
						m.status = err.Error()
					} else {
						m.status = fmt.Sprintf("recorded slip for %q", updated.Title)
						m.reloadHabits()
					}
				}
				return m, nil

			case key.Matches(msg, m.keys.Add):
				m.newHabitForm()
				m.state = StateAddHabit
				return m, m.form.Init()

			case key.Matches(msg, m.keys.Archive):
				if habit, ok := m.selectedHabit(); ok {
					m.habitToArchiveID = habit.ID
					m.state = StateConfirmArchive
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.state = StateBoard
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitHabitForm()
		m.state = StateBoard
		m.form = nil
	}
	return m, cmd
}

func (m Model) updateConfirmArchive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y":
			if err := m.store.ArchiveHabit(m.habitToArchiveID); err != nil {
				m.status = err.Error()
			} else {
				m.status = "habit archived"
				m.reloadHabits()
			}
			m.habitToArchiveID = ""
			m.state = StateBoard
		case "n", "esc", "q":
			m.habitToArchiveID = ""
			m.state = StateBoard
		}
	}
	return m, nil
}
