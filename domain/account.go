package domain

import "time"

// Role classifies what an account is allowed to do on the platform.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account represents one user of the intelligence platform.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Tier           Tier      `json:"subscription"`
	Active         bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	LastLoginAt    time.Time `json:"last_login,omitempty"`
	CreditsUsed    int       `json:"daily_credits_used"`
	CreditsLimit   int       `json:"daily_credits_limit"`
	CredentialHash string    `json:"-"`
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// CanAuthenticate reports whether the account may open a session.
func (a *Account) CanAuthenticate() bool {
	return a != nil && a.Active
}

// HasUnlimitedCredits reports whether the account's tier carries no daily quota.
func (a *Account) HasUnlimitedCredits() bool {
	return a != nil && a.CreditsLimit == UnlimitedCredits
}

// CreditsRemaining returns how many lookups the account may still perform
// today. UnlimitedCredits is returned for unmetered tiers; the result never
// goes below zero.
func (a *Account) CreditsRemaining() int {
	if a == nil {
		return 0
	}
	if a.HasUnlimitedCredits() {
		return UnlimitedCredits
	}
	remaining := a.CreditsLimit - a.CreditsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ClampCredits pulls the used counter back inside the limit. Records written
// by older builds could carry an overflowed counter.
func (a *Account) ClampCredits() {
	if a == nil || a.HasUnlimitedCredits() {
		return
	}
	if a.CreditsUsed > a.CreditsLimit {
		a.CreditsUsed = a.CreditsLimit
	}
	if a.CreditsUsed < 0 {
		a.CreditsUsed = 0
	}
}
