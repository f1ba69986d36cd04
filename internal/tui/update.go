package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case habitsLoadedMsg:
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
			return m, nil
		}
		m.warning = msg.warning
		return m, m.habitList.SetHabits(msg.habits, msg.reminders)

	case habitlist.AddHabitMsg:
		m.clearMessages()
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = stateAddHabit
		return m, m.form.Init()

	case habitlist.OpenHabitMsg:
		m.clearMessages()
		m.selected = msg.Habit
		m.current = nil
		m.state = stateDetail
		return m, m.loadReminder(msg.Habit.ID)

	case reminderLoadedMsg:
		if msg.habitID != m.selected.ID {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
		} else if msg.found {
			r := msg.reminder
			m.current = &r
		}
		return m, nil

	case reminderSavedMsg:
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
			return m, nil
		}
		r := msg.reminder
		m.current = &r
		m.status = fmt.Sprintf("Reminder set for %s", r.TriggerTime.In(m.cfg.Scheduler.Location()).Format("Mon 15:04"))
		return m, m.loadHabits()

	case reminderCanceledMsg:
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
			return m, nil
		}
		m.current = nil
		if msg.canceled {
			m.status = "Reminder canceled"
		}
		return m, m.loadHabits()

	case habitAddedMsg:
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Added %q", msg.habit.Name)
		return m, m.loadHabits()

	case loggedOutMsg:
		if msg.err != nil {
			m.errMsg = apperrors.Format(msg.err)
			return m, nil
		}
		m.loggedOut = true
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateAddHabit, stateSetReminder:
		return m.updateForm(msg)
	case stateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m *Model) clearMessages() {
	m.status = ""
	m.errMsg = ""
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.habitList.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Logout):
			return m, m.logout()
		}
	}

	var cmd tea.Cmd
	m.habitList, cmd = m.habitList.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.clearMessages()
		m.state = stateList
	case key.Matches(keyMsg, m.keys.Reminder):
		m.clearMessages()
		m.reminderForm = &ReminderFormModel{}
		if m.current != nil {
			m.reminderForm.Text = m.current.Text
			m.reminderForm.Time = m.current.TriggerTime.In(m.cfg.Scheduler.Location()).Format("15:04")
		}
		m.form = NewReminderForm(m.selected.Name, m.reminderForm)
		m.state = stateSetReminder
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.clearMessages()
		if m.current != nil {
			return m, m.cancelReminder(m.selected.ID)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	back := stateList
	if m.state == stateSetReminder {
		back = stateDetail
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = back
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == stateSetReminder {
			cmds = append(cmds, m.saveReminder(m.selected, *m.reminderForm))
		} else {
			cmds = append(cmds, m.addHabit(*m.habitForm))
		}
		m.state = back
	case huh.StateAborted:
		m.state = back
	}
	return m, tea.Batch(cmds...)
}
