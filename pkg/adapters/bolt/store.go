// Package bolt implements ports.RunStore on a BoltDB file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	bolt "go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// Store keeps run records as JSON values in a single bucket keyed by run ID.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at filename.
func Open(filename string) (*Store, error) {
	db, err := bolt.Open(filename, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create runs bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the record.
func (s *Store) Save(ctx context.Context, rec *domain.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(rec.ID), data)
	})
}

// Load retrieves a record.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunRecord, error) {
	var rec *domain.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(runsBucket).Get([]byte(id))
		if v == nil {
			return domain.ErrRunNotFound
		}
		rec = &domain.RunRecord{}
		// v is only valid inside the transaction; Unmarshal copies it.
		return json.Unmarshal(v, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Delete([]byte(id))
	})
}

// List returns stored run IDs in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return ids, nil
}
