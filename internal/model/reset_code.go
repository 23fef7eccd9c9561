package model

import "time"

// ResetCode is a one-time password reset code issued to an email address.
type ResetCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	// Attempts counts wrong guesses against this code.
	Attempts int
}

// Expired reports whether the code is no longer usable at now.
func (r *ResetCode) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
