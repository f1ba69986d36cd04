package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrAlarmNotFound is returned when no alarm exists for an id
	ErrAlarmNotFound = errors.New("alarm not found")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// KV is a string-keyed item store. GetItem reports absence with found=false
// rather than an error. SetItem replaces any existing value atomically.
type KV interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// AlarmStore persists one-shot alarms for the platform alarm service.
type AlarmStore interface {
	AddAlarm(ctx context.Context, alarm models.Alarm) error
	GetAlarm(ctx context.Context, id string) (models.Alarm, error)
	// GetDueAlarms returns pending alarms whose fire time is at or before now, oldest first.
	GetDueAlarms(ctx context.Context, now time.Time) ([]models.Alarm, error)
	// GetPendingAlarms returns every alarm that has neither fired nor been canceled.
	GetPendingAlarms(ctx context.Context) ([]models.Alarm, error)
	MarkAlarmFired(ctx context.Context, id string, at time.Time) error
	CancelAlarm(ctx context.Context, id string, at time.Time) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	KV
	AlarmStore

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by backends with a migrated schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
