// Package database provides response persistence using BoltDB.
package database

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "cache.db"

	// Entries are stored as an 8-byte unix-nano timestamp followed by the body
	stampSize = 8
)

var responsesBucket = []byte("responses")

// StoredResponse is a serialized API response with the time it was produced.
type StoredResponse struct {
	Key       string
	Body      []byte
	CreatedAt time.Time
}

// Database defines the interface for response persistence operations.
type Database interface {
	// GetResponse returns the stored response for key, or nil if there is none
	GetResponse(key string) (*StoredResponse, error)
	// StoreResponse stores or replaces the response for key
	StoreResponse(key string, body []byte) error
	// DeleteOlderThan removes responses older than the given age and returns how many
	DeleteOlderThan(age time.Duration) (int, error)
	// Close closes the database connection
	Close() error
}

// BoltDB implements the Database interface using bbolt.
type BoltDB struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBolt creates a new BoltDB database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(responsesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create responses bucket: %w", err)
	}

	return &BoltDB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// GetResponse retrieves a stored response by key.
// Returns nil if not found, without error.
func (b *BoltDB) GetResponse(key string) (*StoredResponse, error) {
	var resp *StoredResponse
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(responsesBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		created, body, err := decodeEntry(raw)
		if err != nil {
			return err
		}
		resp = &StoredResponse{Key: key, Body: body, CreatedAt: created}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get response %s: %w", key, err)
	}
	return resp, nil
}

// StoreResponse stores a response body stamped with the current time.
func (b *BoltDB) StoreResponse(key string, body []byte) error {
	entry := encodeEntry(b.now(), body)
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(responsesBucket).Put([]byte(key), entry)
	})
	if err != nil {
		return fmt.Errorf("failed to store response %s: %w", key, err)
	}
	return nil
}

// DeleteOlderThan removes every response created before now minus age.
func (b *BoltDB) DeleteOlderThan(age time.Duration) (int, error) {
	cutoff := b.now().Add(-age)
	deleted := 0

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(responsesBucket)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			created, _, err := decodeEntry(v)
			if err != nil || created.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete old responses: %w", err)
	}
	return deleted, nil
}

func encodeEntry(created time.Time, body []byte) []byte {
	buf := make([]byte, stampSize+len(body))
	binary.BigEndian.PutUint64(buf, uint64(created.UnixNano()))
	copy(buf[stampSize:], body)
	return buf
}

// decodeEntry copies the body out since bbolt memory is only valid inside the transaction.
func decodeEntry(raw []byte) (time.Time, []byte, error) {
	if len(raw) < stampSize {
		return time.Time{}, nil, fmt.Errorf("corrupt entry of %d bytes", len(raw))
	}
	created := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:stampSize])))
	body := append([]byte(nil), raw[stampSize:]...)
	return created, body, nil
}
