package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axsec/backend/domain"
)

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newMemAccountRepo(accounts ...domain.Account) *memAccountRepo {
	repo := &memAccountRepo{accounts: make(map[string]domain.Account)}
	for _, acc := range accounts {
		repo.accounts[acc.ID] = acc
	}
	return repo
}

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &acc, nil
}

func (r *memAccountRepo) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if strings.EqualFold(acc.Username, identifier) || strings.EqualFold(acc.Email, identifier) {
			found := acc
			return &found, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (r *memAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return domain.ErrDuplicateAccount
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts), nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *memSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var dropped int
	for id, s := range r.sessions {
		if s.IsExpired(now) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped, nil
}

func activeAccount() domain.Account {
	return domain.Account{
		ID:           "acc-1",
		Username:     "admin",
		Email:        "admin@axsec.test",
		Role:         domain.RoleAdmin,
		Tier:         domain.TierEnterprise,
		Active:       true,
		CreditsLimit: domain.UnlimitedCredits,
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, MinLengthVerifier{Min: 4}, time.Hour, nil)

	session, account, err := uc.Authenticate(ctx, "admin", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "acc-1", session.AccountID)
	assert.Equal(t, "acc-1", account.ID)
	assert.False(t, account.LastLoginAt.IsZero())

	gotSession, gotAccount, err := uc.Current(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, gotSession.ID)
	assert.Equal(t, "admin", gotAccount.Username)
}

func TestAuthenticateCaseInsensitiveIdentifier(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	uc := New(accounts, newMemSessionRepo(), nil, time.Hour, nil)

	for _, identifier := range []string{"ADMIN", "Admin@Axsec.Test"} {
		session, _, err := uc.Authenticate(ctx, identifier, "hunter2")
		require.NoError(t, err, identifier)
		assert.Equal(t, "acc-1", session.AccountID)
	}
}

func TestAuthenticateFailuresAreOpaque(t *testing.T) {
	ctx := context.Background()
	inactive := activeAccount()
	inactive.ID = "acc-2"
	inactive.Username = "ghost"
	inactive.Email = "ghost@axsec.test"
	inactive.Active = false

	accounts := newMemAccountRepo(activeAccount(), inactive)
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, MinLengthVerifier{Min: 4}, time.Hour, nil)

	tests := []struct {
		name       string
		identifier string
		secret     string
	}{
		{name: "unknown identifier", identifier: "nobody", secret: "hunter2"},
		{name: "inactive account", identifier: "ghost", secret: "hunter2"},
		{name: "secret below minimum length", identifier: "admin", secret: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Authenticate(ctx, tt.identifier, tt.secret)
			assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
		})
	}

	// No sessions were opened by any of the failed attempts.
	assert.Empty(t, sessions.sessions)
}

func TestBcryptVerifierMode(t *testing.T) {
	ctx := context.Background()
	hash, err := HashSecret("correct horse")
	require.NoError(t, err)

	acc := activeAccount()
	acc.CredentialHash = hash
	accounts := newMemAccountRepo(acc)
	uc := New(accounts, newMemSessionRepo(), BcryptVerifier{}, time.Hour, nil)

	_, _, err = uc.Authenticate(ctx, "admin", "correct horse")
	require.NoError(t, err)

	_, _, err = uc.Authenticate(ctx, "admin", "wrong horse")
	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
}

func TestCurrentDestroysExpiredSession(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, nil, time.Hour, nil)

	expired := &domain.Session{
		ID:        "sess-1",
		AccountID: "acc-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, sessions.Save(ctx, expired))

	_, _, err := uc.Current(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, sessions.sessions)
}

func TestCurrentForcesSignOutWhenAccountRemoved(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, nil, time.Hour, nil)

	session, _, err := uc.Authenticate(ctx, "admin", "hunter2")
	require.NoError(t, err)

	require.NoError(t, accounts.Delete(ctx, "acc-1"))

	_, _, err = uc.Current(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, sessions.sessions)
}

func TestCurrentForcesSignOutWhenAccountDeactivated(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, nil, time.Hour, nil)

	session, account, err := uc.Authenticate(ctx, "admin", "hunter2")
	require.NoError(t, err)

	account.Active = false
	require.NoError(t, accounts.Update(ctx, account))

	_, _, err = uc.Current(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, sessions.sessions)
}

func TestSignOutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccountRepo(activeAccount())
	sessions := newMemSessionRepo()
	uc := New(accounts, sessions, nil, time.Hour, nil)

	session, _, err := uc.Authenticate(ctx, "admin", "hunter2")
	require.NoError(t, err)

	require.NoError(t, uc.SignOut(ctx, session.ID))
	require.NoError(t, uc.SignOut(ctx, session.ID))
	require.NoError(t, uc.SignOut(ctx, ""))

	_, _, err = uc.Current(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMinLengthVerifierBoundary(t *testing.T) {
	v := MinLengthVerifier{Min: 4}
	assert.Error(t, v.Verify("abc", ""))
	assert.NoError(t, v.Verify("abcd", ""))
	assert.NoError(t, MinLengthVerifier{}.Verify("abcd", ""))
}
