package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Version, timestamps, vault ID, password check - unencrypted
	IndexBucket  = []byte("index")  // Public item list for ls/status - unencrypted
	ItemsBucket  = []byte("items")  // Envelope strings keyed by item name
)

// Config keys
var (
	ConfigVersion       = []byte("version")
	ConfigCreated       = []byte("created")
	ConfigModified      = []byte("modified")
	ConfigVaultID       = []byte("vault_id")
	ConfigPasswordCheck = []byte("password_check")
)

const FormatVersion = "1"

var (
	ErrNotFound       = errors.New("item not found")
	ErrNotInitialized = errors.New("store not initialized")
)

// Store provides BBolt-based storage for textvault. A single Store is
// shared by all callers in a process; every method holds mu for its
// duration.
type Store struct {
	mu sync.Mutex
	db *bolt.DB
}

// Open opens or creates a textvault database
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Path()
}

// Initialize creates the bucket structure for a new vault
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, IndexBucket, ItemsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte(FormatVersion)); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Store) IsInitialized() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// Put stores data under name and records it in the index. Both writes
// happen in one transaction.
func (s *Store) Put(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		items, index, config, err := writeBuckets(tx)
		if err != nil {
			return err
		}

		now := time.Now()
		entry := IndexEntry{Name: name, Size: int64(len(data)), Created: now, Modified: now}
		if prev := index.Get([]byte(name)); prev != nil {
			var old IndexEntry
			if err := old.UnmarshalBinary(prev); err == nil {
				entry.Created = old.Created
			}
		}

		if err := items.Put([]byte(name), data); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		encoded, err := entry.MarshalBinary()
		if err != nil {
			return err
		}
		if err := index.Put([]byte(name), encoded); err != nil {
			return fmt.Errorf("failed to index %s: %w", name, err)
		}
		return touch(config, now)
	})
}

// Rewrite replaces the data of existing items and the password check in a
// single transaction. Index sizes are refreshed, creation times kept.
func (s *Store) Rewrite(items map[string][]byte, passwordCheck []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		itemsBucket, index, config, err := writeBuckets(tx)
		if err != nil {
			return err
		}

		now := time.Now()
		for name, data := range items {
			var entry IndexEntry
			if prev := index.Get([]byte(name)); prev == nil || entry.UnmarshalBinary(prev) != nil {
				entry = IndexEntry{Name: name, Created: now}
			}
			entry.Size = int64(len(data))
			entry.Modified = now

			if err := itemsBucket.Put([]byte(name), data); err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
			encoded, err := entry.MarshalBinary()
			if err != nil {
				return err
			}
			if err := index.Put([]byte(name), encoded); err != nil {
				return fmt.Errorf("failed to index %s: %w", name, err)
			}
		}

		if err := config.Put(ConfigPasswordCheck, passwordCheck); err != nil {
			return err
		}
		return touch(config, now)
	})
}

// Get retrieves the data stored under name
func (s *Store) Get(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		items := tx.Bucket(ItemsBucket)
		if items == nil {
			return ErrNotInitialized
		}
		v := items.Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// Delete removes an item and its index entry
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		items, index, config, err := writeBuckets(tx)
		if err != nil {
			return err
		}
		if items.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err := items.Delete([]byte(name)); err != nil {
			return err
		}
		if err := index.Delete([]byte(name)); err != nil {
			return err
		}
		return touch(config, time.Now())
	})
}

// Index returns all index entries ordered by name
func (s *Store) Index() ([]IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []IndexEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return ErrNotInitialized
		}
		return index.ForEach(func(k, v []byte) error {
			var entry IndexEntry
			if err := entry.UnmarshalBinary(v); err != nil {
				return fmt.Errorf("corrupt index entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

// IndexEntry returns the index entry for name, or nil if it is not stored
func (s *Store) IndexEntry(name string) (*IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entry *IndexEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return ErrNotInitialized
		}
		data := index.Get([]byte(name))
		if data == nil {
			return nil
		}
		entry = &IndexEntry{}
		return entry.UnmarshalBinary(data)
	})
	return entry, err
}

// Names returns all stored item names in key order
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		items := tx.Bucket(ItemsBucket)
		if items == nil {
			return nil
		}
		return items.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// SetPasswordCheck stores the password verification envelope
func (s *Store) SetPasswordCheck(envelope []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		return config.Put(ConfigPasswordCheck, envelope)
	})
}

// GetPasswordCheck retrieves the password verification envelope
func (s *Store) GetPasswordCheck() ([]byte, error) {
	return s.getConfig(ConfigPasswordCheck)
}

// GetCreated retrieves the creation timestamp
func (s *Store) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Store) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

// UpdateModified updates the last modified timestamp
func (s *Store) UpdateModified() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		return touch(config, time.Now())
	})
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Store) GetVaultID() (string, error) {
	data, err := s.getConfig(ConfigVaultID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Store) GetOrCreateVaultID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vaultID string
	err := s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		if v := config.Get(ConfigVaultID); v != nil {
			vaultID = string(v)
			return nil
		}
		vaultID = uuid.NewString()
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", fmt.Errorf("failed to get vault ID: %w", err)
	}
	return vaultID, nil
}

func (s *Store) getConfig(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		v := config.Get(key)
		if v == nil {
			return fmt.Errorf("%s not found", key)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *Store) getTime(key []byte) (time.Time, error) {
	var t time.Time
	data, err := s.getConfig(key)
	if err != nil {
		return t, err
	}
	err = t.UnmarshalBinary(data)
	return t, err
}

func writeBuckets(tx *bolt.Tx) (items, index, config *bolt.Bucket, err error) {
	items = tx.Bucket(ItemsBucket)
	index = tx.Bucket(IndexBucket)
	config = tx.Bucket(ConfigBucket)
	if items == nil || index == nil || config == nil {
		return nil, nil, nil, ErrNotInitialized
	}
	return items, index, config, nil
}

func touch(config *bolt.Bucket, now time.Time) error {
	modified, _ := now.MarshalBinary()
	return config.Put(ConfigModified, modified)
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting items or changing the password.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
