package reminder

import (
	"errors"
	"fmt"
)

// Kind classifies a failed save so the caller can report it.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindPermission Kind = "PERMISSION_DENIED"
	KindDispatch   Kind = "DISPATCH_ERROR"
	KindStorage    Kind = "STORAGE_ERROR"
)

var (
	ErrEmptyText        = errors.New("reminder text cannot be empty")
	ErrPermissionDenied = errors.New("notification permission denied")
)

// Error is returned by Scheduler operations. Every failure of a save
// attempt is reported as exactly one Error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Alert is the single line shown to the user for this failure.
func (e *Error) Alert() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("Please enter reminder text (%v)", e.Err)
	case KindPermission:
		return "Notifications are not allowed. Enable them for habitual and try again."
	case KindDispatch:
		return fmt.Sprintf("Could not schedule the reminder: %v", e.Err)
	case KindStorage:
		return fmt.Sprintf("Could not save the reminder: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of err, or "" if err is not a reminder error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
