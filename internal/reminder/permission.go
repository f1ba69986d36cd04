package reminder

import (
	"context"
	"fmt"
)

type Status string

const (
	StatusGranted      Status = "granted"
	StatusDenied       Status = "denied"
	StatusUndetermined Status = "undetermined"
)

// Permissions is the notification channel's permission API.
type Permissions interface {
	Status(ctx context.Context) (Status, error)
	Request(ctx context.Context) (Status, error)
}

// Gate asks for notification permission at most once per check.
type Gate struct {
	perms Permissions
}

func NewGate(perms Permissions) *Gate {
	return &Gate{perms: perms}
}

// Ensure returns nil when permission is granted, requesting it once if
// needed. Any other outcome returns an error wrapping ErrPermissionDenied.
func (g *Gate) Ensure(ctx context.Context) error {
	status, err := g.perms.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if status == StatusGranted {
		return nil
	}

	status, err = g.perms.Request(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if status != StatusGranted {
		return fmt.Errorf("%w (status %s)", ErrPermissionDenied, status)
	}
	return nil
}
