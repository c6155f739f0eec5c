package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := boltstore.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func result(id, accountID string, ts time.Time) domain.SearchResult {
	return domain.SearchResult{
		ID:        id,
		AccountID: accountID,
		Module:    "discord",
		Query:     "q",
		Status:    domain.SearchSuccess,
		Source:    "Cache",
		Timestamp: ts,
	}
}

func TestAppendAndRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(result(fmt.Sprintf("r%d", i), "acc-1", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.Append(result("other", "acc-2", base)))

	results, err := store.Recent("acc-1", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "r4", results[0].ID)
	assert.Equal(t, "r3", results[1].ID)
	assert.Equal(t, "r2", results[2].ID)
}

func TestRecentUnknownAccountIsEmpty(t *testing.T) {
	store := openTestStore(t)

	results, err := store.Recent("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAppendRequiresIdentity(t *testing.T) {
	store := openTestStore(t)

	assert.ErrorIs(t, store.Append(domain.SearchResult{ID: "r1"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, store.Append(domain.SearchResult{AccountID: "acc-1"}), domain.ErrInvalidPayload)
}

func TestCleanupDropsOldEntries(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.Append(result("old", "acc-1", now.Add(-48*time.Hour))))
	require.NoError(t, store.Append(result("fresh", "acc-1", now)))
	require.NoError(t, store.Append(result("old-2", "acc-2", now.Add(-72*time.Hour))))

	require.NoError(t, store.Cleanup(now.Add(-24*time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	results, err := store.Recent("acc-1", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].ID)
}

func TestClosedStoreIsRejected(t *testing.T) {
	var nilStore *Store
	assert.ErrorIs(t, nilStore.Append(result("r1", "acc-1", time.Now())), bolt.ErrDatabaseNotOpen)
	_, err := nilStore.Recent("acc-1", 1)
	assert.ErrorIs(t, err, bolt.ErrDatabaseNotOpen)
}
