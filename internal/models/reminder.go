package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyReminderText  = errors.New("reminder text cannot be empty")
	ErrMissingTriggerTime = errors.New("reminder trigger time is required")
)

// Reminder is the single scheduled one-shot notification for a habit.
// TriggerTime is always stored in UTC.
type Reminder struct {
	HabitID     int64     `json:"habitId"`
	Text        string    `json:"text"`
	TriggerTime time.Time `json:"time"`
	AlarmID     string    `json:"alarmId,omitempty"` // platform alarm backing this reminder
}

// NewReminder builds a validated reminder with its trigger normalized to UTC.
func NewReminder(habitID int64, text string, trigger time.Time) (Reminder, error) {
	r := Reminder{
		HabitID:     habitID,
		Text:        text,
		TriggerTime: trigger.UTC(),
	}
	if err := r.Validate(); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (r Reminder) Validate() error {
	if r.HabitID <= 0 {
		return ErrInvalidHabitID
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyReminderText
	}
	if r.TriggerTime.IsZero() {
		return ErrMissingTriggerTime
	}
	return nil
}
