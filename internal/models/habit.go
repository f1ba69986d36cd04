package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyHabitName        = errors.New("habit name cannot be empty")
	ErrEmptyHabitDescription = errors.New("habit description cannot be empty")
	ErrInvalidHabitID        = errors.New("habit id must be positive")
)

// Habit is a user-tracked behavior. Remote habits carry server-assigned ids;
// locally added habits get a client-assigned, timestamp-derived id.
type Habit struct {
	ID          int64  `json:"id"`
	Name        string `json:"habitName"`
	Description string `json:"description"`
}

// NewHabit builds a validated habit. Name and description are trimmed.
func NewHabit(id int64, name, description string) (Habit, error) {
	h := Habit{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := h.Validate(); err != nil {
		return Habit{}, err
	}
	return h, nil
}

func (h Habit) Validate() error {
	if h.ID <= 0 {
		return ErrInvalidHabitID
	}
	if strings.TrimSpace(h.Name) == "" {
		return ErrEmptyHabitName
	}
	if strings.TrimSpace(h.Description) == "" {
		return ErrEmptyHabitDescription
	}
	return nil
}

// Matches reports whether the habit name contains query, ignoring case.
// An empty query matches every habit.
func (h Habit) Matches(query string) bool {
	return strings.Contains(strings.ToLower(h.Name), strings.ToLower(query))
}
