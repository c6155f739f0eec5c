package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
	"github.com/axsec/backend/repository"
)

// accountRecord wraps the account with the bucket sequence number so List
// can return insertion order.
type accountRecord struct {
	Seq     uint64         `json:"seq"`
	Account domain.Account `json:"account"`
}

type accountRepository struct {
	db *bolt.DB
}

// NewAccountRepository creates a Bolt-backed account repository.
func NewAccountRepository(db *bolt.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltstore.BucketAccounts).Get([]byte(id))
		if raw == nil {
			return domain.ErrAccountNotFound
		}
		var rec accountRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		account = &rec.Account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltstore.BucketAccounts).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec accountRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			if strings.EqualFold(rec.Account.Username, identifier) || strings.EqualFold(rec.Account.Email, identifier) {
				account = &rec.Account
				return nil
			}
		}
		return domain.ErrAccountNotFound
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var records []accountRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltstore.BucketAccounts).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec accountRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})

	accounts := make([]domain.Account, 0, len(records))
	for _, rec := range records {
		accounts = append(accounts, rec.Account)
	}
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account == nil || account.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltstore.BucketAccounts)
		if bucket.Get([]byte(account.ID)) != nil {
			return domain.ErrDuplicateAccount
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		payload, err := json.Marshal(accountRecord{Seq: seq, Account: *account})
		if err != nil {
			return err
		}
		return bucket.Put([]byte(account.ID), payload)
	})
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	if account == nil || account.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltstore.BucketAccounts)
		raw := bucket.Get([]byte(account.ID))
		if raw == nil {
			return domain.ErrAccountNotFound
		}
		var rec accountRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		rec.Account = *account
		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(account.ID), payload)
	})
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltstore.BucketAccounts)
		if bucket.Get([]byte(id)) == nil {
			return domain.ErrAccountNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(boltstore.BucketAccounts).Stats().KeyN
		return nil
	})
	return count, err
}
