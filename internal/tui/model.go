// Package tui is the interactive habit browser: a searchable list, a
// detail view per habit, and forms to add habits and set reminders.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/auth"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

type sessionState int

const (
	stateList sessionState = iota
	stateDetail
	stateAddHabit
	stateSetReminder
)

// Config holds what the browser needs. All fields are required.
type Config struct {
	Ctx       context.Context
	Session   models.Session
	Auth      *auth.Service
	Catalog   *habits.Catalog
	Reminders *reminder.Store
	Scheduler *reminder.Scheduler
}

type (
	habitsLoadedMsg struct {
		habits    []models.Habit
		reminders map[int64]bool
		warning   string
		err       error
	}
	reminderLoadedMsg struct {
		habitID  int64
		reminder models.Reminder
		found    bool
		err      error
	}
	reminderSavedMsg struct {
		reminder models.Reminder
		err      error
	}
	reminderCanceledMsg struct {
		canceled bool
		err      error
	}
	habitAddedMsg struct {
		habit models.Habit
		err   error
	}
	loggedOutMsg struct {
		err error
	}
)

type Model struct {
	cfg          Config
	state        sessionState
	keys         KeyMap
	help         help.Model
	habitList    habitlist.Model
	selected     models.Habit
	current      *models.Reminder
	form         *huh.Form
	reminderForm *ReminderFormModel
	habitForm    *HabitFormModel
	status       string
	warning      string
	errMsg       string
	loggedOut    bool
	quitting     bool
	width        int
	height       int
}

func NewModel(cfg Config) Model {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	return Model{
		cfg:       cfg,
		state:     stateList,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, nil, 0, 0),
	}
}

// LoggedOut reports whether the user logged out from inside the browser.
func (m Model) LoggedOut() bool {
	return m.loggedOut
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case stateDetail:
		return []key.Binding{m.keys.Back, m.keys.Reminder, m.keys.Cancel, m.keys.Quit}
	case stateList:
		return []key.Binding{m.keys.Enter, m.keys.Add, m.keys.Logout, m.keys.Quit, m.keys.Help}
	}
	return []key.Binding{m.keys.Back}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Enter, m.keys.Add, m.keys.Back},
		{m.keys.Reminder, m.keys.Cancel},
		{m.keys.Logout, m.keys.Quit, m.keys.Help},
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadHabits()
}

func (m Model) loadHabits() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		list, err := cfg.Catalog.List(cfg.Ctx)
		msg := habitsLoadedMsg{habits: list}
		if errors.Is(err, habits.ErrFetchFailed) {
			msg.warning = err.Error()
		} else if err != nil {
			msg.err = err
			return msg
		}

		saved, err := cfg.Reminders.List(cfg.Ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.reminders = make(map[int64]bool, len(saved))
		for _, r := range saved {
			msg.reminders[r.HabitID] = true
		}
		return msg
	}
}

func (m Model) loadReminder(habitID int64) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		r, found, err := cfg.Scheduler.Load(cfg.Ctx, habitID)
		return reminderLoadedMsg{habitID: habitID, reminder: r, found: found, err: err}
	}
}

func (m Model) saveReminder(habit models.Habit, fm ReminderFormModel) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		at, err := reminder.ParseTimeOfDay(fm.Time)
		if err != nil {
			return reminderSavedMsg{err: err}
		}
		r, err := cfg.Scheduler.Save(cfg.Ctx, reminder.SaveRequest{Habit: habit, Text: fm.Text, Time: at})
		return reminderSavedMsg{reminder: r, err: err}
	}
}

func (m Model) cancelReminder(habitID int64) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		canceled, err := cfg.Scheduler.Cancel(cfg.Ctx, habitID)
		return reminderCanceledMsg{canceled: canceled, err: err}
	}
}

func (m Model) addHabit(fm HabitFormModel) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		h, err := cfg.Catalog.Add(cfg.Ctx, fm.Name, fm.Description)
		return habitAddedMsg{habit: h, err: err}
	}
}

func (m Model) logout() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return loggedOutMsg{err: cfg.Auth.Logout(cfg.Ctx)}
	}
}
