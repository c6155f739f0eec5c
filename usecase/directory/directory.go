package directory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/repository"
)

// UseCase is the directory manager: authoritative CRUD over the account
// collection plus tier and credit administration. Authorization is enforced
// here, not at the transport layer. Every operation requires the acting
// account to hold the admin role, except ConsumeCredit which meters the
// acting account itself.
type UseCase struct {
	accounts repository.AccountRepository
	logger   *zap.Logger

	// mu serializes read-modify-write sequences that span repository calls.
	mu sync.Mutex
}

func New(accounts repository.AccountRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts: accounts,
		logger:   logger,
	}
}

// CreateInput carries the administrative fields for a new account.
type CreateInput struct {
	Username string
	Email    string
	Role     domain.Role
	Tier     domain.Tier
	// CredentialHash is optional; empty accounts authenticate under the
	// legacy minimum-length policy.
	CredentialHash string
}

// UpdatePatch is a partial merge over the mutable account fields. Nil
// pointers are left untouched.
type UpdatePatch struct {
	Username     *string
	Email        *string
	Role         *domain.Role
	Active       *bool
	CreditsUsed  *int
	CreditsLimit *int
}

// List returns every account in insertion order. Like the mutating
// operations, listing the directory is admin-only.
func (uc *UseCase) List(ctx context.Context, actorID string) ([]domain.Account, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return uc.accounts.List(ctx)
}

// Create registers a new account. Username and email are required and must
// be unique case-insensitively; credits start at zero with the tier's
// default limit.
func (uc *UseCase) Create(ctx context.Context, actorID string, input CreateInput) (*domain.Account, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and email are required")
	}
	if !input.Role.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown role")
	}
	limits, ok := input.Tier.Limits()
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown subscription tier")
	}

	if err := uc.checkDuplicate(ctx, username, ""); err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, email, ""); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		Role:           input.Role,
		Tier:           input.Tier,
		Active:         true,
		CreatedAt:      time.Now(),
		CreditsUsed:    0,
		CreditsLimit:   limits.DailyCredits,
		CredentialHash: input.CredentialHash,
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.logger.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("username", account.Username),
		zap.String("tier", string(account.Tier)))
	return account, nil
}

// Update applies a partial merge over mutable fields. Identifier and
// creation timestamp are immutable; the transport layer rejects patches
// carrying them before this point.
func (uc *UseCase) Update(ctx context.Context, actorID, id string, patch UpdatePatch) (*domain.Account, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "username must not be empty")
		}
		if !strings.EqualFold(username, account.Username) {
			if err := uc.checkDuplicate(ctx, username, id); err != nil {
				return nil, err
			}
		}
		account.Username = username
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "email must not be empty")
		}
		if !strings.EqualFold(email, account.Email) {
			if err := uc.checkDuplicate(ctx, email, id); err != nil {
				return nil, err
			}
		}
		account.Email = email
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown role")
		}
		account.Role = *patch.Role
	}
	if patch.Active != nil {
		if !*patch.Active && id == actorID {
			return nil, domain.ErrSelfDeactivation
		}
		account.Active = *patch.Active
	}
	if patch.CreditsLimit != nil {
		if *patch.CreditsLimit < 0 && *patch.CreditsLimit != domain.UnlimitedCredits {
			return nil, domain.NewError(domain.ErrCodeInvalid, "credits limit must be non-negative or the unlimited sentinel")
		}
		account.CreditsLimit = *patch.CreditsLimit
	}
	if patch.CreditsUsed != nil {
		if *patch.CreditsUsed < 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "credits used must not be negative")
		}
		account.CreditsUsed = *patch.CreditsUsed
	}
	if account.CreditsLimit != domain.UnlimitedCredits && account.CreditsUsed > account.CreditsLimit {
		return nil, domain.NewError(domain.ErrCodeInvalid, "credits used exceeds the daily limit")
	}

	if err := uc.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account. An actor may never delete the account bound to
// its own session.
func (uc *UseCase) Delete(ctx context.Context, actorID, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if id == actorID {
		return domain.ErrSelfDeletion
	}
	if err := uc.accounts.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("account deleted", zap.String("account_id", id), zap.String("actor_id", actorID))
	return nil
}

// SetActive flips the active flag. Deactivating one's own account is
// rejected; reactivation carries no self-protection rule.
func (uc *UseCase) SetActive(ctx context.Context, actorID, id string, active bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if !active && id == actorID {
		return domain.ErrSelfDeactivation
	}

	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	account.Active = active
	return uc.accounts.Update(ctx, account)
}

// ChangeTier moves the account to a new tier, resetting the used counter and
// adopting the tier's default limit. The reset is destructive: the current
// day's partial usage tracking is forfeited.
func (uc *UseCase) ChangeTier(ctx context.Context, actorID, id string, tier domain.Tier) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	limits, ok := tier.Limits()
	if !ok {
		return domain.NewError(domain.ErrCodeInvalid, "unknown subscription tier")
	}

	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	account.Tier = tier
	account.CreditsUsed = 0
	account.CreditsLimit = limits.DailyCredits

	if err := uc.accounts.Update(ctx, account); err != nil {
		return err
	}
	uc.logger.Info("tier changed", zap.String("account_id", id), zap.String("tier", string(tier)))
	return nil
}

// ResetCredits zeroes the used counter without touching tier or limit.
func (uc *UseCase) ResetCredits(ctx context.Context, actorID, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	account.CreditsUsed = 0
	return uc.accounts.Update(ctx, account)
}

// ConsumeCredit spends one lookup credit for the account and returns the
// remaining allowance. Unmetered tiers always pass; metered tiers are
// rejected at the limit and the counter never exceeds it.
func (uc *UseCase) ConsumeCredit(ctx context.Context, id string) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if account.HasUnlimitedCredits() {
		account.CreditsUsed++
		if err := uc.accounts.Update(ctx, account); err != nil {
			return 0, err
		}
		return domain.UnlimitedCredits, nil
	}

	if account.CreditsUsed >= account.CreditsLimit {
		return 0, domain.ErrCreditsExhausted
	}
	account.CreditsUsed++
	if err := uc.accounts.Update(ctx, account); err != nil {
		return 0, err
	}
	return account.CreditsRemaining(), nil
}

// ResetAllCredits zeroes every account's used counter. Invoked by the
// maintenance scheduler at the daily boundary.
func (uc *UseCase) ResetAllCredits(ctx context.Context) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	accounts, err := uc.accounts.List(ctx)
	if err != nil {
		return 0, err
	}

	var reset int
	for i := range accounts {
		if accounts[i].CreditsUsed == 0 {
			continue
		}
		accounts[i].CreditsUsed = 0
		if err := uc.accounts.Update(ctx, &accounts[i]); err != nil {
			return reset, err
		}
		reset++
	}
	return reset, nil
}

func (uc *UseCase) requireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return domain.ErrUnauthorized
	}
	actor, err := uc.accounts.GetByID(ctx, actorID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrAdminRequired
	}
	return nil
}

// checkDuplicate rejects a username or email already held by a different
// account.
func (uc *UseCase) checkDuplicate(ctx context.Context, identifier, selfID string) error {
	existing, err := uc.accounts.FindByLogin(ctx, identifier)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.ErrDuplicateAccount
}
