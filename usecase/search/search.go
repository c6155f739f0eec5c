package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/usecase"
)

// UseCase runs module lookups: tier gating, credit consumption, dispatch to
// the simulated source, and history recording.
type UseCase struct {
	source  usecase.Source
	credits usecase.CreditGate
	history usecase.SearchHistory
	logger  *zap.Logger
}

func New(source usecase.Source, credits usecase.CreditGate, history usecase.SearchHistory, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		source:  source,
		credits: credits,
		history: history,
		logger:  logger,
	}
}

// ModuleView is a catalog entry annotated for one actor.
type ModuleView struct {
	domain.Module
	Locked bool `json:"locked"`
}

// Catalog returns every module with a per-actor locked flag.
func (uc *UseCase) Catalog(actor *domain.Account) []ModuleView {
	modules := domain.Modules()
	views := make([]ModuleView, 0, len(modules))
	for _, m := range modules {
		locked := actor == nil || !actor.Tier.Covers(m.RequiredTier)
		views = append(views, ModuleView{Module: m, Locked: locked})
	}
	return views
}

// Run performs one lookup for the actor. A credit is spent before the
// dispatch; cancelling the context aborts the simulated wait without
// corrupting state (the credit stays spent, matching a real upstream call).
func (uc *UseCase) Run(ctx context.Context, actor *domain.Account, moduleID, searchType, query string) (*domain.SearchResult, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "query must not be empty")
	}

	module, ok := domain.ModuleByID(moduleID)
	if !ok || !module.Active {
		return nil, domain.ErrModuleNotFound
	}
	if !actor.Tier.Covers(module.RequiredTier) {
		return nil, domain.ErrModuleLocked
	}
	if searchType != "" && !module.AcceptsSearchType(searchType) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unsupported search type for this module")
	}

	remaining, err := uc.credits.ConsumeCredit(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	result, err := uc.source.Lookup(ctx, module.ID, query)
	if err != nil {
		return nil, err
	}

	result.ID = uuid.NewString()
	result.AccountID = actor.ID
	result.Module = module.ID
	result.Query = query
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	if uc.history != nil {
		if err := uc.history.Record(ctx, *result); err != nil {
			uc.logger.Warn("failed to record search result", zap.Error(err))
		}
	}

	uc.logger.Info("module search completed",
		zap.String("module", module.ID),
		zap.String("account_id", actor.ID),
		zap.String("status", string(result.Status)),
		zap.Int("credits_remaining", remaining))
	return result, nil
}

// Recent returns the actor's lookup history, newest first.
func (uc *UseCase) Recent(ctx context.Context, actor *domain.Account, limit int) ([]domain.SearchResult, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if uc.history == nil {
		return nil, nil
	}
	return uc.history.Recent(ctx, actor.ID, limit)
}
