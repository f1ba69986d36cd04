package reminder

import (
	"context"
	"time"

	"github.com/julianstephens/habitual/internal/alarm"
)

type Content struct {
	Title string
	Body  string
	Sound bool
}

type Trigger struct {
	Date time.Time
}

// Notification is a one-shot registration request.
type Notification struct {
	Content Content
	Trigger Trigger
}

// Dispatcher registers notifications with the platform alarm service.
type Dispatcher interface {
	Schedule(ctx context.Context, n Notification) (alarmID string, err error)
	Cancel(ctx context.Context, alarmID string) error
}

// AlarmDispatcher registers notifications with the local alarm registry.
type AlarmDispatcher struct {
	registry *alarm.Registry
}

var _ Dispatcher = (*AlarmDispatcher)(nil)

func NewAlarmDispatcher(registry *alarm.Registry) *AlarmDispatcher {
	return &AlarmDispatcher{registry: registry}
}

func (d *AlarmDispatcher) Schedule(ctx context.Context, n Notification) (string, error) {
	a, err := d.registry.Schedule(ctx, n.Content.Title, n.Content.Body, n.Content.Sound, n.Trigger.Date)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

func (d *AlarmDispatcher) Cancel(ctx context.Context, alarmID string) error {
	return d.registry.Cancel(ctx, alarmID)
}
