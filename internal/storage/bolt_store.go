package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	restaurantBucket = "restaurants"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
// Values are an 8-byte big-endian unix expiry followed by the digest bytes.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(restaurantBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Unchanged checks whether key was remembered with digest and is still live.
func (b *boltStore) Unchanged(key, digest string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var same bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(restaurantBucket))
		if bucket == nil {
			return fmt.Errorf("restaurant bucket missing")
		}

		k := []byte(key)
		value := bucket.Get(k)
		if value == nil {
			return nil
		}

		expiry, stored, ok := decodeEntry(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(k)
		}

		same = stored == digest
		return nil
	})
	return same, err
}

// Remember records digest as the last delivered version of key.
func (b *boltStore) Remember(key, digest string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(restaurantBucket))
		if bucket == nil {
			return fmt.Errorf("restaurant bucket missing")
		}
		return bucket.Put([]byte(key), encodeEntry(now.Add(b.entryTTL), digest))
	})
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(restaurantBucket))
		if bucket == nil {
			return fmt.Errorf("restaurant bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeEntry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeEntry(expiry time.Time, digest string) []byte {
	buf := make([]byte, expiryValueBytes+len(digest))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], digest)
	return buf
}

// decodeEntry splits a stored value into its expiry and digest.
func decodeEntry(value []byte) (time.Time, string, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, "", false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, "", false
	}
	return time.Unix(unix, 0), string(value[expiryValueBytes:]), true
}
