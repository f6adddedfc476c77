// Metadata accessors: a generic key/value table for counters, timestamps,
// file dates, and the serialized analysis cache.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// GetMetadata returns the value stored under key. The second return is
// false when the key is absent.
func (s *Store) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return "", false, err
	}

	var value string
	err = db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &types.StorageError{Op: "get metadata", Err: err}
	}
	return value, true, nil
}

// SetMetadata upserts key → value.
func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataLocked(ctx, key, value)
}

func (s *Store) setMetadataLocked(ctx context.Context, key, value string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return &types.StorageError{Op: "set metadata", Err: err}
	}
	return nil
}

// GetMetadataInt reads an integer counter; absent or unparsable keys read
// as zero.
func (s *Store) GetMetadataInt(ctx context.Context, key string) (int, error) {
	value, ok, err := s.GetMetadata(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// TableCount returns the row count recorded by the last load of table.
func (s *Store) TableCount(ctx context.Context, table string) (int, error) {
	return s.GetMetadataInt(ctx, table+"_count")
}

// SetFileDate records the upstream dump date for a table.
func (s *Store) SetFileDate(ctx context.Context, table, date string) error {
	return s.SetMetadata(ctx, table+"_file_date", date)
}

// FileDate returns the upstream dump date recorded for a table, if any.
func (s *Store) FileDate(ctx context.Context, table string) (string, bool, error) {
	return s.GetMetadata(ctx, table+"_file_date")
}

// PartSetCount returns the precomputed number of distinct inventories
// referencing a part number.
func (s *Store) PartSetCount(ctx context.Context, partNum string) (int, error) {
	return s.GetMetadataInt(ctx, "part_"+partNum+"_set_count")
}

// CategorySetCount returns the precomputed number of distinct inventories
// referencing parts of a category.
func (s *Store) CategorySetCount(ctx context.Context, categoryID int) (int, error) {
	return s.GetMetadataInt(ctx, "category_"+strconv.Itoa(categoryID)+"_set_count")
}
