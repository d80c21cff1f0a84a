package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/strideapp/stride/internal/calendar"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/tracker"
)

type SessionState int

const (
	StateBoard SessionState = iota
	StateAddHabit
	StateConfirmArchive
)

// heatmapDays is the width of the completion strip next to each habit.
const heatmapDays = 14

type HabitFormModel struct {
	Title     string
	Type      string
	Frequency string
	Days      []string
	Category  string
}

type habitItem struct {
	habit models.Habit
	cfg   calendar.Config
	today string
}

func (i habitItem) Title() string {
	title := i.habit.Title
	if i.habit.Icon != "" {
		title = i.habit.Icon + " " + title
	}
	for _, d := range i.habit.Marks() {
		if d == i.today {
			if i.habit.Type == constants.HabitQuit {
				return title + " (slipped today)"
			}
			return title + " ✓"
		}
	}
	return title
}

func (i habitItem) Description() string {
	return fmt.Sprintf("%s  streak %d · best %d  %s",
		heatmapStrip(i.habit, i.cfg, i.today), i.habit.Streak, i.habit.LongestStreak, i.habit.Frequency)
}

func (i habitItem) FilterValue() string { return i.habit.Title }

// heatmapStrip renders the last two weeks as one cell per day: filled for a
// satisfied day, hollow for a missed required day, a dot for off days.
func heatmapStrip(h models.Habit, cfg calendar.Config, today string) string {
	start, err := calendar.AddDays(today, -(heatmapDays - 1))
	if err != nil {
		return ""
	}
	required, err := cfg.ExpectedOccurrences(h, start, today)
	if err != nil {
		return ""
	}
	requiredSet := make(map[string]struct{}, len(required))
	for _, d := range required {
		requiredSet[d] = struct{}{}
	}
	markSet := make(map[string]struct{}, len(h.Marks()))
	for _, d := range h.Marks() {
		markSet[d] = struct{}{}
	}

	var b strings.Builder
	_ = calendar.EachDay(start, today, func(day string) {
		_, isRequired := requiredSet[day]
		_, isMarked := markSet[day]
		done := isMarked
		if h.Type == constants.HabitQuit {
			done = isRequired && !isMarked
		}
		switch {
		case done:
			b.WriteString(doneCellStyle.Render("▰"))
		case isRequired && day < today:
			b.WriteString(missedCellStyle.Render("▱"))
		case isRequired:
			b.WriteString(idleCellStyle.Render("▱"))
		default:
			b.WriteString(idleCellStyle.Render("·"))
		}
	})
	return b.String()
}

type Model struct {
	store            storage.Provider
	cfg              calendar.Config
	tracker          *tracker.Tracker
	state            SessionState
	keys             KeyMap
	help             help.Model
	list             list.Model
	form             *huh.Form
	habitForm        *HabitFormModel
	habitToArchiveID string
	status           string
	quitting         bool
	width            int
	height           int
}

func NewModel(store storage.Provider, cfg calendar.Config, trk *tracker.Tracker) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Habits"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	m := Model{
		store:   store,
		cfg:     cfg,
		tracker: trk,
		state:   StateBoard,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    l,
	}
	m.reloadHabits()
	return m
}

func (m *Model) reloadHabits() {
	habits, err := m.store.GetAllHabits(false)
	if err != nil {
		m.status = "failed to load habits: " + err.Error()
		return
	}

	today := m.cfg.Today(time.Now())
	items := make([]list.Item, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitItem{habit: habit, cfg: m.cfg, today: today})
	}
	m.list.SetItems(items)
}

func (m *Model) selectedHabit() (models.Habit, bool) {
	item, ok := m.list.SelectedItem().(habitItem)
	if !ok {
		return models.Habit{}, false
	}
	return item.habit, true
}

func (m *Model) newHabitForm() {
	m.habitForm = &HabitFormModel{Type: "build", Frequency: "daily"}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.habitForm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Build", "build"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&m.habitForm.Type),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly", "weekly"),
					huh.NewOption("Monthly", "monthly"),
				).
				Value(&m.habitForm.Frequency),
			huh.NewMultiSelect[string]().
				Title("Weekdays (weekly only)").
				Options(
					huh.NewOption("Sunday", "Sunday"),
					huh.NewOption("Monday", "Monday"),
					huh.NewOption("Tuesday", "Tuesday"),
					huh.NewOption("Wednesday", "Wednesday"),
					huh.NewOption("Thursday", "Thursday"),
					huh.NewOption("Friday", "Friday"),
					huh.NewOption("Saturday", "Saturday"),
				).
				Value(&m.habitForm.Days),
			huh.NewInput().
				Title("Category").
				Value(&m.habitForm.Category),
		),
	)
}

func (m *Model) submitHabitForm() {
	habit := models.Habit{
		Title:     strings.TrimSpace(m.habitForm.Title),
		Type:      constants.HabitType(m.habitForm.Type),
		Frequency: constants.Frequency(m.habitForm.Frequency),
		Category:  strings.TrimSpace(m.habitForm.Category),
	}
	if habit.Frequency == constants.FrequencyWeekly {
		habit.Days = m.habitForm.Days
	}

	created, err := m.tracker.CreateHabit(habit)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("added %q", created.Title)
	m.reloadHabits()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the habit board program.
func Run(store storage.Provider, cfg calendar.Config, trk *tracker.Tracker) error {
	_, err := tea.NewProgram(NewModel(store, cfg, trk), tea.WithAltScreen()).Run()
	return err
}
