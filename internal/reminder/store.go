package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// record is the stored JSON form of a reminder.
type record struct {
	Text    string `json:"text"`
	Time    string `json:"time"`
	AlarmID string `json:"alarmId,omitempty"`
}

// Store keeps at most one reminder per habit under reminder-<habitId>.
type Store struct {
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

func Key(habitID int64) string {
	return constants.ReminderKeyPrefix + strconv.FormatInt(habitID, 10)
}

// Load returns found=false when no reminder has been set for the habit.
func (s *Store) Load(ctx context.Context, habitID int64) (models.Reminder, bool, error) {
	raw, found, err := s.kv.GetItem(ctx, Key(habitID))
	if err != nil {
		return models.Reminder{}, false, fmt.Errorf("failed to read reminder: %w", err)
	}
	if !found {
		return models.Reminder{}, false, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.Reminder{}, false, fmt.Errorf("failed to decode reminder for habit %d: %w", habitID, err)
	}
	trigger, err := time.Parse(time.RFC3339, rec.Time)
	if err != nil {
		return models.Reminder{}, false, fmt.Errorf("invalid reminder time for habit %d: %w", habitID, err)
	}

	return models.Reminder{
		HabitID:     habitID,
		Text:        rec.Text,
		TriggerTime: trigger.UTC(),
		AlarmID:     rec.AlarmID,
	}, true, nil
}

// Save replaces any existing reminder for the habit.
func (s *Store) Save(ctx context.Context, r models.Reminder) error {
	data, err := json.Marshal(record{
		Text:    r.Text,
		Time:    r.TriggerTime.UTC().Format(time.RFC3339),
		AlarmID: r.AlarmID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}
	if err := s.kv.SetItem(ctx, Key(r.HabitID), string(data)); err != nil {
		return fmt.Errorf("failed to write reminder: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, habitID int64) error {
	if err := s.kv.RemoveItem(ctx, Key(habitID)); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// List returns every stored reminder ordered by key.
func (s *Store) List(ctx context.Context) ([]models.Reminder, error) {
	keys, err := s.kv.ListKeys(ctx, constants.ReminderKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	var out []models.Reminder
	for _, key := range keys {
		id, err := strconv.ParseInt(key[len(constants.ReminderKeyPrefix):], 10, 64)
		if err != nil {
			continue
		}
		r, found, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, r)
		}
	}
	return out, nil
}
