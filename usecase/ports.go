package usecase

import (
	"context"

	"github.com/axsec/backend/domain"
)

// SearchHistory abstracts the per-account lookup history so use cases stay
// storage-agnostic.
type SearchHistory interface {
	Record(ctx context.Context, result domain.SearchResult) error
	Recent(ctx context.Context, accountID string, limit int) ([]domain.SearchResult, error)
}

// Source abstracts the upstream intelligence source a module search is
// dispatched to. Lookup fills Status, Source and Data only.
type Source interface {
	Lookup(ctx context.Context, moduleID, query string) (*domain.SearchResult, error)
}

// CreditGate spends one lookup credit for the account and returns the
// remaining allowance (domain.UnlimitedCredits for unmetered tiers).
type CreditGate interface {
	ConsumeCredit(ctx context.Context, accountID string) (int, error)
}
