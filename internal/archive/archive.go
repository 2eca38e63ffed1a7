package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Package archive keeps rendered digests in a local BoltDB file for later
// inspection. Write-only from the pipeline's point of view: no run ever reads
// a previous run's digest, so runs stay independent of each other.

const digestBucket = "digests"

// Archive is a BoltDB-backed digest store keyed by generation timestamp.
type Archive struct {
	db *bolt.DB
}

// Open initializes the archive file, creating parent directories as needed.
func Open(path string) (*Archive, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(digestBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Put stores one rendered digest under the given key.
func (a *Archive) Put(key string, html []byte) error {
	if a == nil || a.db == nil {
		return fmt.Errorf("archive is not open")
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(digestBucket))
		if bucket == nil {
			return fmt.Errorf("digest bucket missing")
		}
		return bucket.Put([]byte(key), html)
	})
}

// Get returns the digest stored under key, or nil when absent.
func (a *Archive) Get(key string) ([]byte, error) {
	if a == nil || a.db == nil {
		return nil, fmt.Errorf("archive is not open")
	}
	var out []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(digestBucket))
		if bucket == nil {
			return fmt.Errorf("digest bucket missing")
		}
		if v := bucket.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Key formats the canonical archive key for a digest generated at t.
func Key(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
