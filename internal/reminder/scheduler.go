// Package reminder schedules the single one-shot reminder a habit may have.
//
// A save runs validate, compute trigger, permission, cancel previous alarm,
// register alarm, persist, feedback, in that order, stopping at the first
// failure. Validation failures touch nothing; a permission failure happens
// before any alarm or store write. A failure after the previous alarm was
// canceled also removes the previous record, so no stored reminder points
// at a withdrawn alarm.
package reminder

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

type Config struct {
	Store       *Store
	Permissions Permissions
	Dispatcher  Dispatcher
	Haptics     Haptics
	// Location is the zone the picked time of day is read in. Defaults to time.Local.
	Location *time.Location
	Sound    bool
	Now      func() time.Time
}

type Scheduler struct {
	store      *Store
	gate       *Gate
	dispatcher Dispatcher
	haptics    Haptics
	loc        *time.Location
	sound      bool
	now        func() time.Time
}

func NewScheduler(cfg Config) *Scheduler {
	s := &Scheduler{
		store:      cfg.Store,
		gate:       NewGate(cfg.Permissions),
		dispatcher: cfg.Dispatcher,
		haptics:    cfg.Haptics,
		loc:        cfg.Location,
		sound:      cfg.Sound,
		now:        cfg.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type SaveRequest struct {
	Habit models.Habit
	Text  string
	// Time is the picked time of day; its date is ignored.
	Time time.Time
}

// Save schedules the reminder for req.Habit, replacing any earlier one.
// Errors are always *Error.
func (s *Scheduler) Save(ctx context.Context, req SaveRequest) (models.Reminder, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.Reminder{}, newError(KindValidation, ErrEmptyText)
	}
	if req.Habit.ID <= 0 {
		return models.Reminder{}, newError(KindValidation, models.ErrInvalidHabitID)
	}

	trigger := NextTrigger(s.now(), req.Time, s.loc)

	if err := s.gate.Ensure(ctx); err != nil {
		return models.Reminder{}, newError(KindPermission, err)
	}

	// the permission prompt can outlast a time picked moments ahead
	if now := s.now(); !trigger.After(now) {
		trigger = NextTrigger(now, req.Time, s.loc)
	}

	canceled, err := s.cancelPrevious(ctx, req.Habit.ID)
	if err != nil {
		return models.Reminder{}, newError(KindDispatch, err)
	}

	fail := func(kind Kind, err error) (models.Reminder, error) {
		if canceled {
			s.dropStale(ctx, req.Habit.ID)
		}
		return models.Reminder{}, newError(kind, err)
	}

	title := constants.ReminderTitle
	if req.Habit.Name != "" {
		title = req.Habit.Name
	}
	alarmID, err := s.dispatcher.Schedule(ctx, Notification{
		Content: Content{Title: title, Body: text, Sound: s.sound},
		Trigger: Trigger{Date: trigger},
	})
	if err != nil {
		return fail(KindDispatch, err)
	}

	r, err := models.NewReminder(req.Habit.ID, text, trigger)
	if err != nil {
		s.compensate(ctx, alarmID)
		return fail(KindValidation, err)
	}
	r.AlarmID = alarmID

	if err := s.store.Save(ctx, r); err != nil {
		s.compensate(ctx, alarmID)
		return fail(KindStorage, err)
	}

	logger.Info("reminder scheduled", "habit", req.Habit.ID, "trigger", trigger.Format(time.RFC3339), "alarm", alarmID)
	acknowledge(s.haptics)
	return r, nil
}

// cancelPrevious cancels the alarm behind the habit's stored reminder and
// reports whether a stored record now refers to a withdrawn alarm. An alarm
// that already fired or is gone is not an error. A record that cannot be
// read is logged and treated as absent.
func (s *Scheduler) cancelPrevious(ctx context.Context, habitID int64) (bool, error) {
	prev, found, err := s.store.Load(ctx, habitID)
	if err != nil {
		logger.Warn("could not read previous reminder", "habit", habitID, "error", err)
		return false, nil
	}
	if !found || prev.AlarmID == "" {
		return false, nil
	}
	if err := s.dispatcher.Cancel(ctx, prev.AlarmID); err != nil {
		if errors.Is(err, storage.ErrAlarmNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// dropStale removes the previous record once its alarm is withdrawn and the
// replacement could not be saved.
func (s *Scheduler) dropStale(ctx context.Context, habitID int64) {
	if err := s.store.Delete(ctx, habitID); err != nil {
		logger.Error("failed to remove reminder whose alarm was canceled", "habit", habitID, "error", err)
		return
	}
	logger.Warn("previous reminder removed after failed save", "habit", habitID)
}

// compensate withdraws an alarm registered by a save that then failed.
func (s *Scheduler) compensate(ctx context.Context, alarmID string) {
	if err := s.dispatcher.Cancel(ctx, alarmID); err != nil {
		logger.Error("failed to cancel alarm after failed save, it may fire without a stored reminder", "alarm", alarmID, "error", err)
	}
}

// Load returns the stored reminder for pre-filling an edit. found is false
// when none has been set.
func (s *Scheduler) Load(ctx context.Context, habitID int64) (models.Reminder, bool, error) {
	r, found, err := s.store.Load(ctx, habitID)
	if err != nil {
		return models.Reminder{}, false, newError(KindStorage, err)
	}
	return r, found, nil
}

// Cancel withdraws the habit's reminder and its alarm. It reports false if
// the habit had no reminder.
func (s *Scheduler) Cancel(ctx context.Context, habitID int64) (bool, error) {
	r, found, err := s.store.Load(ctx, habitID)
	if err != nil {
		return false, newError(KindStorage, err)
	}
	if !found {
		return false, nil
	}
	if r.AlarmID != "" {
		if err := s.dispatcher.Cancel(ctx, r.AlarmID); err != nil && !errors.Is(err, storage.ErrAlarmNotFound) {
			return false, newError(KindDispatch, err)
		}
	}
	if err := s.store.Delete(ctx, habitID); err != nil {
		return false, newError(KindStorage, err)
	}
	return true, nil
}

// Location is the zone picked times are interpreted in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}
