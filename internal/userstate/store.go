// Package userstate persists everything the user owns in a single
// versioned document: owned loose parts, tracked sets, preferences, and the
// analysis cache with its content hashes. The document is read and written
// whole so a save can never leave fragments disagreeing with each other.
package userstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// DocumentKey is the single key the unified document lives under.
const DocumentKey = "lego_unified_data_v2"

// Legacy fragment keys left behind by pre-2.0 installations. They are read
// only once, during migration.
const (
	LegacyInventoryKey = "lego_personal_inventory"
	LegacySetsKey      = "lego_sets_data"
	LegacyDarkModeKey  = "darkMode"
	LegacyAPIKeyKey    = "rebrickable_api_key"
)

var (
	bucketDocuments = []byte("documents")
	bucketLegacy    = []byte("legacy")
)

// DocStore is the bbolt-backed blob store for the unified document. Each
// key holds one JSON value; a Put replaces the value atomically.
type DocStore struct {
	db  *bolt.DB
	log zerolog.Logger
}

// OpenDocStore opens (creating if needed) the user-state database under
// dataDir.
func OpenDocStore(dataDir string, logger zerolog.Logger) (*DocStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &types.StorageError{Op: "create data dir", Err: err}
	}

	dbPath := filepath.Join(dataDir, "userstate.db")
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &types.StorageError{Op: "open userstate db", Err: err}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketDocuments, bucketLegacy} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &types.StorageError{Op: "create buckets", Err: err}
	}

	logger.Debug().Str("path", dbPath).Msg("user-state store opened")
	return &DocStore{db: db, log: logger}, nil
}

func (s *DocStore) Close() error {
	return s.db.Close()
}

func (s *DocStore) get(bucket []byte, key string, dest any) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return false, &types.StorageError{Op: "read " + key, Err: err}
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, &types.StorageError{Op: "decode " + key, Err: err}
	}
	return true, nil
}

func (s *DocStore) put(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &types.StorageError{Op: "encode " + key, Err: err}
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
	if err != nil {
		return &types.StorageError{Op: "write " + key, Err: err}
	}
	return nil
}

// LoadDocument reads the unified document. The second return is false when
// no document has ever been saved.
func (s *DocStore) LoadDocument() (*types.UnifiedDocument, bool, error) {
	var doc types.UnifiedDocument
	ok, err := s.get(bucketDocuments, DocumentKey, &doc)
	if err != nil || !ok {
		return nil, false, err
	}
	return &doc, true, nil
}

// SaveDocument replaces the stored document in a single write.
func (s *DocStore) SaveDocument(doc *types.UnifiedDocument) error {
	return s.put(bucketDocuments, DocumentKey, doc)
}

// DeleteDocument removes the stored document. Used by import when the
// incoming payload fails validation part way through.
func (s *DocStore) DeleteDocument() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).Delete([]byte(DocumentKey))
	})
	if err != nil {
		return &types.StorageError{Op: "delete " + DocumentKey, Err: err}
	}
	return nil
}

// LegacyFragments is the pre-2.0 state, read once for migration.
type LegacyFragments struct {
	Inventory []LegacyInventoryItem
	Sets      []LegacySet
	DarkMode  bool
	APIKey    string
}

// legacySetsBlob matches the old on-disk shape of the sets fragment, which
// wrapped the set list in an object.
type legacySetsBlob struct {
	Sets []LegacySet `json:"sets"`
}

// Empty reports whether no legacy state exists at all.
func (f LegacyFragments) Empty() bool {
	return len(f.Inventory) == 0 && len(f.Sets) == 0 && !f.DarkMode && f.APIKey == ""
}

// LoadLegacyFragments reads whatever pre-2.0 fragments are present. Missing
// fragments are simply zero-valued.
func (s *DocStore) LoadLegacyFragments() (LegacyFragments, error) {
	var frags LegacyFragments
	if _, err := s.get(bucketLegacy, LegacyInventoryKey, &frags.Inventory); err != nil {
		return frags, err
	}
	var blob legacySetsBlob
	if _, err := s.get(bucketLegacy, LegacySetsKey, &blob); err != nil {
		return frags, err
	}
	frags.Sets = blob.Sets
	if _, err := s.get(bucketLegacy, LegacyDarkModeKey, &frags.DarkMode); err != nil {
		return frags, err
	}
	if _, err := s.get(bucketLegacy, LegacyAPIKeyKey, &frags.APIKey); err != nil {
		return frags, err
	}
	return frags, nil
}

// SaveLegacyFragments writes pre-2.0 fragments. Only import uses this, to
// stage legacy payloads for the regular migration path.
func (s *DocStore) SaveLegacyFragments(frags LegacyFragments) error {
	if len(frags.Inventory) > 0 {
		if err := s.put(bucketLegacy, LegacyInventoryKey, frags.Inventory); err != nil {
			return err
		}
	}
	if len(frags.Sets) > 0 {
		if err := s.put(bucketLegacy, LegacySetsKey, legacySetsBlob{Sets: frags.Sets}); err != nil {
			return err
		}
	}
	return nil
}

// ClearLegacyFragments drops all pre-2.0 keys after a successful migration.
func (s *DocStore) ClearLegacyFragments() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLegacy)
		for _, key := range []string{LegacyInventoryKey, LegacySetsKey, LegacyDarkModeKey, LegacyAPIKeyKey} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &types.StorageError{Op: "clear legacy fragments", Err: err}
	}
	return nil
}

// Path of the database backing this store, for status display.
func (s *DocStore) Path() string {
	return s.db.Path()
}
