package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
	boltRepo "github.com/axsec/backend/repository/bolt"
)

func TestDemoSeedsEmptyDirectory(t *testing.T) {
	ctx := context.Background()
	db, err := boltstore.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := boltRepo.NewAccountRepository(db)

	require.NoError(t, Demo(ctx, repo, nil))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	admin := accounts[0]
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, domain.TierEnterprise, admin.Tier)
	assert.Equal(t, domain.UnlimitedCredits, admin.CreditsLimit)
	assert.True(t, admin.Active)
	assert.NotEmpty(t, admin.CredentialHash)

	operator := accounts[1]
	assert.Equal(t, "operator", operator.Username)
	assert.Equal(t, domain.TierPro, operator.Tier)
	assert.Equal(t, 100, operator.CreditsLimit)

	ghost := accounts[2]
	assert.Equal(t, "ghost", ghost.Username)
	assert.False(t, ghost.Active)
}

func TestDemoSkipsPopulatedDirectory(t *testing.T) {
	ctx := context.Background()
	db, err := boltstore.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := boltRepo.NewAccountRepository(db)

	existing := &domain.Account{ID: "acc-1", Username: "existing", Email: "existing@axsec.test", Role: domain.RoleUser, Tier: domain.TierPro, Active: true, CreditsLimit: 100}
	require.NoError(t, repo.Create(ctx, existing))

	require.NoError(t, Demo(ctx, repo, nil))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "existing", accounts[0].Username)
}
