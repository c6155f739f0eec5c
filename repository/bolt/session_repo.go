package bolt

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/axsec/backend/domain"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
	"github.com/axsec/backend/repository"
)

type sessionRepository struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewSessionRepository creates a Bolt-backed session repository. Expired
// sessions linger until the maintenance sweep removes them; Get filters
// them out in the meantime.
func NewSessionRepository(db *bolt.DB, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionRepository{db: db, ttl: ttl}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session *domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltstore.BucketSessions).Get([]byte(id))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		var s domain.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltstore.BucketSessions).Put([]byte(session.ID), payload)
	})
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltstore.BucketSessions).Delete([]byte(id))
	})
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	now := time.Now()
	var dropped int
	err := r.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltstore.BucketSessions).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var s domain.Session
			if err := json.Unmarshal(v, &s); err != nil {
				continue
			}
			if s.IsExpired(now) {
				if err := c.Delete(); err != nil {
					return err
				}
				dropped++
			}
		}
		return nil
	})
	return dropped, err
}
