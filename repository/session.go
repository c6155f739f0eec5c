package repository

import (
	"context"

	"github.com/axsec/backend/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	// Delete is idempotent; removing an absent session is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions past their expiry and reports how many
	// were dropped. Stores with native TTL expiry may return (0, nil).
	DeleteExpired(ctx context.Context) (int, error)
}
