package alarm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Sender delivers a fired alarm through a notification channel.
type Sender interface {
	Send(ctx context.Context, a models.Alarm) error
}

type SenderFunc func(ctx context.Context, a models.Alarm) error

func (f SenderFunc) Send(ctx context.Context, a models.Alarm) error { return f(ctx, a) }

// Runner periodically fires due alarms.
type Runner struct {
	mu       sync.RWMutex
	store    storage.AlarmStore
	sender   Sender
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRunner(store storage.AlarmStore, sender Sender, interval time.Duration) *Runner {
	return &Runner{
		store:    store,
		sender:   sender,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the runner loop. Alarms already due are fired immediately.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (r *Runner) Stop() {
	r.mu.RLock()
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Runner) tick(ctx context.Context) {
	if _, err := r.FireDue(ctx); err != nil {
		logger.Error("alarm runner: fire due alarms", "error", err)
	}
}

// FireDue sends every alarm due at the current time and marks it fired.
// An alarm whose send fails stays pending and is retried on the next call.
func (r *Runner) FireDue(ctx context.Context) (int, error) {
	now := r.now().UTC()
	due, err := r.store.GetDueAlarms(ctx, now)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, a := range due {
		if ctx.Err() != nil {
			return fired, ctx.Err()
		}
		if err := r.sender.Send(ctx, a); err != nil {
			logger.Warn("alarm runner: send failed", "id", a.ID, "error", err)
			continue
		}
		if err := r.store.MarkAlarmFired(ctx, a.ID, now); err != nil {
			// canceled between query and send
			if errors.Is(err, storage.ErrAlarmNotFound) {
				continue
			}
			logger.Error("alarm runner: mark fired", "id", a.ID, "error", err)
			continue
		}
		logger.Info("alarm fired", "id", a.ID, "body", a.Body)
		fired++
	}
	return fired, nil
}
