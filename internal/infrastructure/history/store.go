package history

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
)

// Store keeps completed module lookups per account, newest kept longest.
// Each account gets a nested bucket keyed by timestamp so cursors walk
// results in chronological order.
type Store struct {
	db *bolt.DB
}

// New wraps the shared bolt database.
func New(db *bolt.DB) *Store {
	return &Store{db: db}
}

// Append records one search result.
func (s *Store) Append(result domain.SearchResult) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if result.AccountID == "" || result.ID == "" {
		return domain.ErrInvalidPayload
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		account, err := tx.Bucket(boltstore.BucketHistory).CreateBucketIfNotExists([]byte(result.AccountID))
		if err != nil {
			return err
		}
		return account.Put([]byte(buildKey(result)), payload)
	})
}

// Recent returns up to limit results for the account, newest first.
func (s *Store) Recent(accountID string, limit int) ([]domain.SearchResult, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 20
	}

	var results []domain.SearchResult
	err := s.db.View(func(tx *bolt.Tx) error {
		account := tx.Bucket(boltstore.BucketHistory).Bucket([]byte(accountID))
		if account == nil {
			return nil
		}
		c := account.Cursor()
		for k, v := c.Last(); k != nil && len(results) < limit; k, v = c.Prev() {
			var result domain.SearchResult
			if err := json.Unmarshal(v, &result); err != nil {
				continue
			}
			results = append(results, result)
		}
		return nil
	})
	return results, err
}

// Cleanup removes results older than the provided timestamp across all accounts.
func (s *Store) Cleanup(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(boltstore.BucketHistory)
		return root.ForEachBucket(func(name []byte) error {
			c := root.Bucket(name).Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var result domain.SearchResult
				if err := json.Unmarshal(v, &result); err != nil {
					continue
				}
				if result.Timestamp.Before(olderThan) {
					if err := c.Delete(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

// Size returns the total number of stored results.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(boltstore.BucketHistory)
		return root.ForEachBucket(func(name []byte) error {
			count += root.Bucket(name).Stats().KeyN
			return nil
		})
	})
	return count, err
}

func buildKey(result domain.SearchResult) string {
	return fmt.Sprintf("%020d_%s", result.Timestamp.UnixNano(), result.ID)
}
