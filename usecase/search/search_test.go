package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axsec/backend/domain"
)

type stubSource struct {
	result *domain.SearchResult
	err    error
	calls  int
}

func (s *stubSource) Lookup(ctx context.Context, moduleID, query string) (*domain.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.result
	return &out, nil
}

type stubCredits struct {
	remaining int
	err       error
	calls     int
}

func (s *stubCredits) ConsumeCredit(ctx context.Context, accountID string) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.remaining, nil
}

type memHistory struct {
	mu      sync.Mutex
	records []domain.SearchResult
	err     error
}

func (h *memHistory) Record(ctx context.Context, result domain.SearchResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, result)
	return nil
}

func (h *memHistory) Recent(ctx context.Context, accountID string, limit int) ([]domain.SearchResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.SearchResult
	for i := len(h.records) - 1; i >= 0 && len(out) < limit; i-- {
		if h.records[i].AccountID == accountID {
			out = append(out, h.records[i])
		}
	}
	return out, nil
}

func proActor() *domain.Account {
	return &domain.Account{
		ID:           "acc-1",
		Username:     "analyst",
		Role:         domain.RoleUser,
		Tier:         domain.TierPro,
		Active:       true,
		CreditsLimit: 100,
	}
}

func okResult() *domain.SearchResult {
	return &domain.SearchResult{
		Status: domain.SearchSuccess,
		Source: "Cache",
		Data:   map[string]interface{}{"result": "found"},
	}
}

func TestRunFillsAttribution(t *testing.T) {
	source := &stubSource{result: okResult()}
	credits := &stubCredits{remaining: 99}
	history := &memHistory{}
	uc := New(source, credits, history, nil)

	result, err := uc.Run(context.Background(), proActor(), "discord", "user_id", "123")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "acc-1", result.AccountID)
	assert.Equal(t, "discord", result.Module)
	assert.Equal(t, "123", result.Query)
	assert.False(t, result.Timestamp.IsZero())
	assert.Equal(t, 1, credits.calls)
	require.Len(t, history.records, 1)
	assert.Equal(t, result.ID, history.records[0].ID)
}

func TestRunRejectsLockedModule(t *testing.T) {
	source := &stubSource{result: okResult()}
	credits := &stubCredits{remaining: 99}
	uc := New(source, credits, &memHistory{}, nil)

	_, err := uc.Run(context.Background(), proActor(), "snusbase", "email", "a@b.c")
	assert.ErrorIs(t, err, domain.ErrModuleLocked)
	assert.Zero(t, credits.calls)
	assert.Zero(t, source.calls)
}

func TestRunValidation(t *testing.T) {
	source := &stubSource{result: okResult()}
	credits := &stubCredits{remaining: 99}
	uc := New(source, credits, &memHistory{}, nil)
	ctx := context.Background()

	_, err := uc.Run(ctx, nil, "discord", "user_id", "123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Run(ctx, proActor(), "discord", "user_id", "   ")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.Run(ctx, proActor(), "no-such-module", "user_id", "123")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)

	_, err = uc.Run(ctx, proActor(), "discord", "ip", "1.2.3.4")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	assert.Zero(t, credits.calls)
}

func TestRunStopsWhenCreditsExhausted(t *testing.T) {
	source := &stubSource{result: okResult()}
	credits := &stubCredits{err: domain.ErrCreditsExhausted}
	uc := New(source, credits, &memHistory{}, nil)

	_, err := uc.Run(context.Background(), proActor(), "discord", "user_id", "123")
	assert.ErrorIs(t, err, domain.ErrCreditsExhausted)
	assert.Zero(t, source.calls)
}

func TestRunSurvivesHistoryFailure(t *testing.T) {
	source := &stubSource{result: okResult()}
	credits := &stubCredits{remaining: 99}
	history := &memHistory{err: domain.NewError(domain.ErrCodeInternal, "disk full")}
	uc := New(source, credits, history, nil)

	result, err := uc.Run(context.Background(), proActor(), "discord", "user_id", "123")
	require.NoError(t, err)
	assert.Equal(t, domain.SearchSuccess, result.Status)
}

func TestCatalogLocksByTier(t *testing.T) {
	uc := New(&stubSource{result: okResult()}, &stubCredits{}, &memHistory{}, nil)

	views := uc.Catalog(proActor())
	require.Len(t, views, len(domain.Modules()))
	byID := make(map[string]ModuleView, len(views))
	for _, v := range views {
		byID[v.Module.ID] = v
	}
	assert.False(t, byID["discord"].Locked)
	assert.True(t, byID["snusbase"].Locked)
	assert.True(t, byID["shodan"].Locked)

	enterprise := proActor()
	enterprise.Tier = domain.TierEnterprise
	for _, v := range uc.Catalog(enterprise) {
		assert.False(t, v.Locked, v.Module.ID)
	}

	for _, v := range uc.Catalog(nil) {
		assert.True(t, v.Locked, v.Module.ID)
	}
}

func TestRecentFiltersByActor(t *testing.T) {
	history := &memHistory{records: []domain.SearchResult{
		{ID: "r1", AccountID: "acc-1"},
		{ID: "r2", AccountID: "acc-2"},
		{ID: "r3", AccountID: "acc-1"},
	}}
	uc := New(&stubSource{result: okResult()}, &stubCredits{}, history, nil)

	results, err := uc.Recent(context.Background(), proActor(), 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r3", results[0].ID)
	assert.Equal(t, "r1", results[1].ID)

	_, err = uc.Recent(context.Background(), nil, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
