package model

import "time"

// Session is the decoded content of a session token. It is never persisted.
type Session struct {
	AccountID int64     `json:"account_id"`
	IssuedAt  time.Time `json:"issued_at"`
	NotBefore time.Time `json:"not_before"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidAt reports whether t falls inside [NotBefore, ExpiresAt).
func (s *Session) ValidAt(t time.Time) bool {
	return !t.Before(s.NotBefore) && t.Before(s.ExpiresAt)
}
