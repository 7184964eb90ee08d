package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var bucketEntries = []byte("entries")

// BoltStore persists entries in a single bucket of a Bolt file.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if needed) the Bolt file at path.
func NewBoltStore(path string, logger *zap.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("opened bolt file", zap.String("path", path))
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	var (
		val string
		ok  bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction
		val, ok = string(raw), true
		return nil
	})
	return val, ok, err
}

func (b *BoltStore) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), []byte(value))
	})
}

func (b *BoltStore) Remove(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete([]byte(key))
	})
}

// Ping verifies the file is still open.
func (b *BoltStore) Ping(context.Context) error {
	if b == nil || b.db == nil {
		return errors.New("bolt store not configured")
	}
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketEntries) == nil {
			return errors.New("bolt bucket missing")
		}
		return nil
	})
}

// Close releases the file lock.
func (b *BoltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
