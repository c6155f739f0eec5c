package repository

import (
	"context"

	"github.com/axsec/backend/domain"
)

// AccountRepository is the authoritative store of the account directory.
// List returns accounts in insertion order. Implementations must make every
// write all-or-nothing.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByLogin resolves a case-insensitive username or email match.
	FindByLogin(ctx context.Context, identifier string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
