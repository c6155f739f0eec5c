package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/repository"
	"github.com/axsec/backend/usecase/auth"
)

type demoAccount struct {
	username string
	email    string
	role     domain.Role
	tier     domain.Tier
	secret   string
	active   bool
}

var demoAccounts = []demoAccount{
	{username: "admin", email: "admin@axsec.test", role: domain.RoleAdmin, tier: domain.TierEnterprise, secret: "admin", active: true},
	{username: "operator", email: "operator@axsec.test", role: domain.RoleUser, tier: domain.TierPro, secret: "operator", active: true},
	{username: "ghost", email: "ghost@axsec.test", role: domain.RoleUser, tier: domain.TierPro, secret: "ghost", active: false},
}

// Demo populates an empty directory with demonstration accounts. A non-empty
// store is left untouched.
func Demo(ctx context.Context, accounts repository.AccountRepository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	count, err := accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: counting accounts: %w", err)
	}
	if count > 0 {
		logger.Debug("directory already populated, skipping seed", zap.Int("accounts", count))
		return nil
	}

	now := time.Now()
	for _, demo := range demoAccounts {
		limits, _ := demo.tier.Limits()
		hash, err := auth.HashSecret(demo.secret)
		if err != nil {
			return fmt.Errorf("seed: hashing secret for %s: %w", demo.username, err)
		}

		account := &domain.Account{
			ID:             uuid.NewString(),
			Username:       demo.username,
			Email:          demo.email,
			Role:           demo.role,
			Tier:           demo.tier,
			Active:         demo.active,
			CreatedAt:      now,
			CreditsUsed:    0,
			CreditsLimit:   limits.DailyCredits,
			CredentialHash: hash,
		}
		if err := accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("seed: creating %s: %w", demo.username, err)
		}
		logger.Info("seeded demo account",
			zap.String("username", demo.username),
			zap.String("role", string(demo.role)),
			zap.String("tier", string(demo.tier)))
	}
	return nil
}
