package models

import "time"

// Alarm is a one-shot notification registered with the platform alarm service.
type Alarm struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Sound      bool       `json:"sound"`
	FireAt     time.Time  `json:"fire_at"` // UTC
	CreatedAt  time.Time  `json:"created_at"`
	FiredAt    *time.Time `json:"fired_at,omitempty"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
}

// IsPending reports whether the alarm has neither fired nor been canceled.
func (a Alarm) IsPending() bool {
	return a.FiredAt == nil && a.CanceledAt == nil
}

// IsDue reports whether a pending alarm should fire at now.
func (a Alarm) IsDue(now time.Time) bool {
	return a.IsPending() && !a.FireAt.After(now)
}
