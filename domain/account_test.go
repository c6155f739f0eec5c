package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountCreditsRemaining(t *testing.T) {
	tests := []struct {
		name string
		acc  *Account
		want int
	}{
		{name: "nil account", acc: nil, want: 0},
		{name: "untouched metered quota", acc: &Account{CreditsLimit: 100}, want: 100},
		{name: "partially spent", acc: &Account{CreditsUsed: 57, CreditsLimit: 100}, want: 43},
		{name: "exhausted", acc: &Account{CreditsUsed: 100, CreditsLimit: 100}, want: 0},
		{name: "overflowed counter never goes negative", acc: &Account{CreditsUsed: 130, CreditsLimit: 100}, want: 0},
		{name: "unlimited tier", acc: &Account{CreditsUsed: 9999, CreditsLimit: UnlimitedCredits}, want: UnlimitedCredits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.acc.CreditsRemaining())
		})
	}
}

func TestAccountClampCredits(t *testing.T) {
	acc := &Account{CreditsUsed: 130, CreditsLimit: 100}
	acc.ClampCredits()
	assert.Equal(t, 100, acc.CreditsUsed)

	acc = &Account{CreditsUsed: -3, CreditsLimit: 100}
	acc.ClampCredits()
	assert.Equal(t, 0, acc.CreditsUsed)

	acc = &Account{CreditsUsed: 9999, CreditsLimit: UnlimitedCredits}
	acc.ClampCredits()
	assert.Equal(t, 9999, acc.CreditsUsed)
}

func TestAccountRoleAndActivation(t *testing.T) {
	admin := &Account{Role: RoleAdmin, Active: true}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CanAuthenticate())

	inactive := &Account{Role: RoleUser, Active: false}
	assert.False(t, inactive.IsAdmin())
	assert.False(t, inactive.CanAuthenticate())

	var missing *Account
	assert.False(t, missing.IsAdmin())
	assert.False(t, missing.CanAuthenticate())
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	live := &Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.IsExpired(now))

	dead := &Session{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, dead.IsExpired(now))

	boundary := &Session{ExpiresAt: now}
	assert.True(t, boundary.IsExpired(now))

	var missing *Session
	assert.True(t, missing.IsExpired(now))
}

func TestModuleCatalogGating(t *testing.T) {
	discord, ok := ModuleByID("discord")
	assert.True(t, ok)
	assert.Equal(t, TierPro, discord.RequiredTier)
	assert.True(t, discord.AcceptsSearchType("user_id"))
	assert.False(t, discord.AcceptsSearchType("ip"))

	snusbase, ok := ModuleByID("snusbase")
	assert.True(t, ok)
	assert.Equal(t, TierEnterprise, snusbase.RequiredTier)

	_, ok = ModuleByID("maltego")
	assert.False(t, ok)

	assert.Len(t, Modules(), 6)
}
