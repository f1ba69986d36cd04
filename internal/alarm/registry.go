// Package alarm is the local platform alarm service: a registry of one-shot
// alarms kept in storage and a runner that fires them when they come due.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	// ErrPastFireTime is returned when an alarm would fire at or before the current time
	ErrPastFireTime = errors.New("alarm fire time must be in the future")
	ErrEmptyBody    = errors.New("alarm body cannot be empty")
)

type Option func(*Registry)

// WithClock overrides the registry's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

type Registry struct {
	store storage.AlarmStore
	now   func() time.Time
}

func NewRegistry(store storage.AlarmStore, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schedule registers a one-shot alarm and returns it with its generated id.
func (r *Registry) Schedule(ctx context.Context, title, body string, sound bool, fireAt time.Time) (models.Alarm, error) {
	if strings.TrimSpace(body) == "" {
		return models.Alarm{}, ErrEmptyBody
	}
	now := r.now().UTC()
	if !fireAt.After(now) {
		return models.Alarm{}, fmt.Errorf("%w: %s", ErrPastFireTime, fireAt.UTC().Format(time.RFC3339))
	}

	a := models.Alarm{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Sound:     sound,
		FireAt:    fireAt.UTC(),
		CreatedAt: now,
	}
	if err := r.store.AddAlarm(ctx, a); err != nil {
		return models.Alarm{}, fmt.Errorf("failed to register alarm: %w", err)
	}
	return a, nil
}

// Cancel stops a pending alarm from firing. It returns storage.ErrAlarmNotFound
// when the alarm does not exist or has already fired or been canceled.
func (r *Registry) Cancel(ctx context.Context, id string) error {
	if err := r.store.CancelAlarm(ctx, id, r.now().UTC()); err != nil {
		if errors.Is(err, storage.ErrAlarmNotFound) {
			return err
		}
		return fmt.Errorf("failed to cancel alarm %s: %w", id, err)
	}
	return nil
}

func (r *Registry) Get(ctx context.Context, id string) (models.Alarm, error) {
	return r.store.GetAlarm(ctx, id)
}

// Pending lists alarms that have neither fired nor been canceled, soonest first.
func (r *Registry) Pending(ctx context.Context) ([]models.Alarm, error) {
	return r.store.GetPendingAlarms(ctx)
}
