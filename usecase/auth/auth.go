package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/repository"
)

// UseCase is the session manager: it authenticates actors against the
// account directory and owns the resulting session capability.
type UseCase struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	verifier CredentialVerifier
	ttl      time.Duration
	logger   *zap.Logger

	// mu serializes authentication attempts so racing logins cannot write
	// conflicting last-login timestamps onto the same account record.
	mu sync.Mutex
}

func New(accounts repository.AccountRepository, sessions repository.SessionRepository, verifier CredentialVerifier, ttl time.Duration, logger *zap.Logger) *UseCase {
	if verifier == nil {
		verifier = MinLengthVerifier{Min: 4}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts: accounts,
		sessions: sessions,
		verifier: verifier,
		ttl:      ttl,
		logger:   logger,
	}
}

// Authenticate resolves a case-insensitive username-or-email match, checks
// the active flag and the credential, and opens a session. Every failure
// collapses into domain.ErrAuthenticationFailed; the precise cause is only
// logged here. No state changes on failure.
func (uc *UseCase) Authenticate(ctx context.Context, identifier, secret string) (*domain.Session, *domain.Account, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	account, err := uc.accounts.FindByLogin(ctx, identifier)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Info("authentication rejected", zap.String("identifier", identifier), zap.String("cause", "unknown identifier"))
			return nil, nil, domain.ErrAuthenticationFailed
		}
		return nil, nil, err
	}

	if !account.CanAuthenticate() {
		uc.logger.Info("authentication rejected", zap.String("account_id", account.ID), zap.String("cause", "inactive account"))
		return nil, nil, domain.ErrAuthenticationFailed
	}

	if err := uc.verifier.Verify(secret, account.CredentialHash); err != nil {
		uc.logger.Info("authentication rejected", zap.String("account_id", account.ID), zap.String("cause", "credential mismatch"))
		return nil, nil, domain.ErrAuthenticationFailed
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	account.LastLoginAt = now
	if err := uc.accounts.Update(ctx, account); err != nil {
		// roll the half-open session back so failure leaves no trace
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, nil, err
	}

	uc.logger.Info("session opened", zap.String("account_id", account.ID), zap.String("session_id", session.ID))
	return session, account, nil
}

// Current returns the active session and its re-resolved account. Expired
// sessions, and sessions whose account was deleted or deactivated by an
// administrator, are destroyed on read (forced sign-out).
func (uc *UseCase) Current(ctx context.Context, sessionID string) (*domain.Session, *domain.Account, error) {
	if sessionID == "" {
		return nil, nil, domain.ErrSessionNotFound
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, nil, domain.ErrSessionNotFound
	}

	account, err := uc.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			_ = uc.sessions.Delete(ctx, sessionID)
			uc.logger.Info("session invalidated", zap.String("session_id", sessionID), zap.String("cause", "account deleted"))
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, err
	}
	if !account.Active {
		_ = uc.sessions.Delete(ctx, sessionID)
		uc.logger.Info("session invalidated", zap.String("session_id", sessionID), zap.String("cause", "account deactivated"))
		return nil, nil, domain.ErrSessionNotFound
	}

	return session, account, nil
}

// SignOut destroys the session. Signing out an unknown or already-removed
// session is a no-op, not an error.
func (uc *UseCase) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	return nil
}
