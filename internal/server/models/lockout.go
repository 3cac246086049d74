package models

import "time"

type Lockout struct {
	ClientID  string
	ExpiresAt time.Time
}

// Active reports whether the lockout is still in force at now.
func (l Lockout) Active(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}
