package boltstore

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names shared by every bolt-backed component. A single file is the
// single source of truth for both managers.
var (
	BucketAccounts = []byte("accounts")
	BucketSessions = []byte("sessions")
	BucketHistory  = []byte("history")
)

// Open initializes the BoltDB file and ensures all buckets exist.
func Open(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{BucketAccounts, BucketSessions, BucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
