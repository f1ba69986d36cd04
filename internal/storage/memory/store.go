// Package memory provides a process-local storage.Provider. Nothing survives
// the process, so it backs tests and --config memory:// dry runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	items  map[string]string
	alarms map[string]models.Alarm
}

func New() *Store {
	return &Store{
		items:  make(map[string]string),
		alarms: make(map[string]models.Alarm),
	}
}

func (s *Store) Init() error           { return nil }
func (s *Store) Load() error           { return nil }
func (s *Store) Close() error          { return nil }
func (s *Store) GetConfigPath() string { return "memory" }

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *Store) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) AddAlarm(_ context.Context, alarm models.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	alarm.FireAt = alarm.FireAt.UTC()
	s.alarms[alarm.ID] = alarm
	return nil
}

func (s *Store) GetAlarm(_ context.Context, id string) (models.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alarms[id]
	if !ok {
		return models.Alarm{}, storage.ErrAlarmNotFound
	}
	return a, nil
}

func (s *Store) GetDueAlarms(_ context.Context, now time.Time) ([]models.Alarm, error) {
	return s.filter(func(a models.Alarm) bool { return a.IsDue(now) }), nil
}

func (s *Store) GetPendingAlarms(_ context.Context) ([]models.Alarm, error) {
	return s.filter(models.Alarm.IsPending), nil
}

func (s *Store) MarkAlarmFired(_ context.Context, id string, at time.Time) error {
	return s.update(id, func(a *models.Alarm) { a.FiredAt = &at })
}

func (s *Store) CancelAlarm(_ context.Context, id string, at time.Time) error {
	return s.update(id, func(a *models.Alarm) { a.CanceledAt = &at })
}

func (s *Store) filter(keep func(models.Alarm) bool) []models.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Alarm
	for _, a := range s.alarms {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// update only touches pending alarms, matching the SQL backends
func (s *Store) update(id string, fn func(*models.Alarm)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[id]
	if !ok || !a.IsPending() {
		return storage.ErrAlarmNotFound
	}
	fn(&a)
	s.alarms[id] = a
	return nil
}
