package services

import (
	"context"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/history"
	"github.com/axsec/backend/usecase"
)

// HistoryBridge adapts the bolt history store to the use-case port.
type HistoryBridge struct {
	store *history.Store
}

func NewHistoryBridge(store *history.Store) *HistoryBridge {
	return &HistoryBridge{store: store}
}

func (b *HistoryBridge) Record(ctx context.Context, result domain.SearchResult) error {
	if b.store == nil {
		return domain.ErrInvalidPayload
	}
	return b.store.Append(result)
}

func (b *HistoryBridge) Recent(ctx context.Context, accountID string, limit int) ([]domain.SearchResult, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.Recent(accountID, limit)
}

var _ usecase.SearchHistory = (*HistoryBridge)(nil)
