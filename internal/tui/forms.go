package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/reminder"
)

// ReminderFormModel holds the values edited by the reminder form.
type ReminderFormModel struct {
	Text string
	Time string
}

type HabitFormModel struct {
	Name        string
	Description string
}

func validateTimeOfDay(s string) error {
	if _, err := reminder.ParseTimeOfDay(s); err != nil {
		return fmt.Errorf("use HH:MM, for example 07:30")
	}
	return nil
}

// NewReminderForm asks for the reminder text and the time of day it fires.
func NewReminderForm(habitName string, fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Reminder for "+habitName).
				Description("Fires once, at the next occurrence of the chosen time."),
			huh.NewInput().
				Title("Reminder text").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("reminder text cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Time).
				Validate(validateTimeOfDay),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewHabitForm asks for the name and description of a new habit.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit description cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
