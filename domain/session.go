package domain

import "time"

// Session represents the live authentication capability bound to one
// account. Only the account ID is stored; readers re-resolve the account
// through the directory so administrative changes take effect immediately.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
