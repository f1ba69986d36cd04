package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/memory"
)

// countingKV wraps the memory store and records every call.
type countingKV struct {
	inner   *memory.Store
	gets    int
	sets    int
	removes int
	setErr  error
	getErr  error
}

func newCountingKV() *countingKV {
	return &countingKV{inner: memory.New()}
}

func (k *countingKV) calls() int { return k.gets + k.sets + k.removes }

func (k *countingKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	k.gets++
	if k.getErr != nil {
		return "", false, k.getErr
	}
	return k.inner.GetItem(ctx, key)
}

func (k *countingKV) SetItem(ctx context.Context, key, value string) error {
	k.sets++
	if k.setErr != nil {
		return k.setErr
	}
	return k.inner.SetItem(ctx, key, value)
}

func (k *countingKV) RemoveItem(ctx context.Context, key string) error {
	k.removes++
	return k.inner.RemoveItem(ctx, key)
}

func (k *countingKV) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return k.inner.ListKeys(ctx, prefix)
}

type fakePermissions struct {
	status       Status
	requestTo    Status
	statusCalls  int
	requestCalls int
	// onRequest runs while the request is outstanding.
	onRequest func()
}

func (p *fakePermissions) Status(context.Context) (Status, error) {
	p.statusCalls++
	return p.status, nil
}

func (p *fakePermissions) Request(context.Context) (Status, error) {
	p.requestCalls++
	if p.onRequest != nil {
		p.onRequest()
	}
	p.status = p.requestTo
	return p.requestTo, nil
}

func (p *fakePermissions) calls() int { return p.statusCalls + p.requestCalls }

// fakeDispatcher tracks live alarms the way the platform would.
type fakeDispatcher struct {
	scheduled   []Notification
	canceled    []string
	live        map[string]bool
	scheduleErr error
	cancelErr   error
	next        int
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{live: map[string]bool{}}
}

func (d *fakeDispatcher) Schedule(_ context.Context, n Notification) (string, error) {
	if d.scheduleErr != nil {
		return "", d.scheduleErr
	}
	d.next++
	id := fmt.Sprintf("alarm-%d", d.next)
	d.scheduled = append(d.scheduled, n)
	d.live[id] = true
	return id, nil
}

func (d *fakeDispatcher) Cancel(_ context.Context, id string) error {
	if d.cancelErr != nil {
		return d.cancelErr
	}
	if !d.live[id] {
		return storage.ErrAlarmNotFound
	}
	delete(d.live, id)
	d.canceled = append(d.canceled, id)
	return nil
}

func (d *fakeDispatcher) calls() int { return len(d.scheduled) + len(d.canceled) }

type fakeHaptics struct {
	successErr error
	vibrateErr error
	pulseErr   error
	calls      []string
}

func (h *fakeHaptics) Success() error {
	h.calls = append(h.calls, "success")
	return h.successErr
}

func (h *fakeHaptics) Vibrate([]time.Duration) error {
	h.calls = append(h.calls, "vibrate")
	return h.vibrateErr
}

func (h *fakeHaptics) Pulse(time.Duration) error {
	h.calls = append(h.calls, "pulse")
	return h.pulseErr
}

var errUnavailable = errors.New("unavailable")
