package domain

import "time"

// EmailVerification is a single-use, time-limited token mailed to a user
// after registration. A user may accumulate several rows if they request
// resends; only unused, unexpired tokens are honored.
type EmailVerification struct {
	Id        int64
	UserId    UserId
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (v EmailVerification) Used() bool {
	return v.UsedAt != nil
}

func (v EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
