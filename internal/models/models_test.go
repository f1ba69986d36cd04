package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewHabit(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		habitName   string
		description string
		wantErr     error
	}{
		{"valid", 1, "Read", "Read 20 pages", nil},
		{"trims fields", 2, "  Walk ", " 10k steps ", nil},
		{"empty name", 3, "   ", "desc", ErrEmptyHabitName},
		{"empty description", 4, "Run", "", ErrEmptyHabitDescription},
		{"zero id", 0, "Run", "5k", ErrInvalidHabitID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHabit(tt.id, tt.habitName, tt.description)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewHabit() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (h.Name == "" || h.Name[0] == ' ') {
				t.Errorf("expected trimmed name, got %q", h.Name)
			}
		})
	}
}

func TestHabitMatches(t *testing.T) {
	h := Habit{ID: 1, Name: "Morning Run", Description: "5k"}

	for query, want := range map[string]bool{
		"":        true,
		"run":     true,
		"MORNING": true,
		"evening": false,
	} {
		if got := h.Matches(query); got != want {
			t.Errorf("Matches(%q) = %v, want %v", query, got, want)
		}
	}
}

func TestNewReminderNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	trigger := time.Date(2024, 1, 2, 9, 0, 0, 0, loc)

	r, err := NewReminder(7, "Stretch", trigger)
	if err != nil {
		t.Fatalf("NewReminder() error = %v", err)
	}
	if r.TriggerTime.Location() != time.UTC {
		t.Errorf("expected UTC trigger, got %v", r.TriggerTime.Location())
	}
	if !r.TriggerTime.Equal(trigger) {
		t.Errorf("trigger instant changed: %v != %v", r.TriggerTime, trigger)
	}
}

func TestNewReminderValidation(t *testing.T) {
	now := time.Now()
	if _, err := NewReminder(1, "  ", now); !errors.Is(err, ErrEmptyReminderText) {
		t.Errorf("expected ErrEmptyReminderText, got %v", err)
	}
	if _, err := NewReminder(1, "text", time.Time{}); !errors.Is(err, ErrMissingTriggerTime) {
		t.Errorf("expected ErrMissingTriggerTime, got %v", err)
	}
	if _, err := NewReminder(0, "text", now); !errors.Is(err, ErrInvalidHabitID) {
		t.Errorf("expected ErrInvalidHabitID, got %v", err)
	}
}

func TestAlarmIsDue(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	fired := now.Add(-time.Minute)

	tests := []struct {
		name  string
		alarm Alarm
		want  bool
	}{
		{"past pending", Alarm{FireAt: now.Add(-time.Second)}, true},
		{"exactly now", Alarm{FireAt: now}, true},
		{"future", Alarm{FireAt: now.Add(time.Second)}, false},
		{"already fired", Alarm{FireAt: now.Add(-time.Hour), FiredAt: &fired}, false},
		{"canceled", Alarm{FireAt: now.Add(-time.Hour), CanceledAt: &fired}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.alarm.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s.Timezone = "Not/AZone"
	if err := s.Validate(); err == nil {
		t.Error("expected invalid timezone error")
	}

	s = DefaultSettings()
	s.Channel = "pager"
	if err := s.Validate(); err == nil {
		t.Error("expected unknown channel error")
	}

	s = DefaultSettings()
	s.Channel = "telegram"
	if err := s.Validate(); err == nil {
		t.Error("expected telegram chat id error")
	}
}
