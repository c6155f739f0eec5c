package bolt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axsec/backend/domain"
)

func TestSessionSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(openTestDB(t), time.Hour)

	now := time.Now()
	session := &domain.Session{
		ID:        "sess-1",
		AccountID: "acc-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionSaveFillsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(openTestDB(t), 2*time.Hour)

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "sess-1", AccountID: "acc-1"}))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, got.CreatedAt.Add(2*time.Hour), got.ExpiresAt, time.Second)
}

func TestSessionDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(openTestDB(t), time.Hour)

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "sess-1", AccountID: "acc-1"}))
	require.NoError(t, repo.Delete(ctx, "sess-1"))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(openTestDB(t), time.Hour)

	now := time.Now()
	require.NoError(t, repo.Save(ctx, &domain.Session{
		ID: "live", AccountID: "acc-1",
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, &domain.Session{
		ID: "dead-1", AccountID: "acc-1",
		CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, &domain.Session{
		ID: "dead-2", AccountID: "acc-2",
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))

	dropped, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)

	_, err = repo.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.Get(ctx, "dead-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
