package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// DBFileName is the SQLite file created inside the data directory.
const DBFileName = "catalog.db"

// Store is the versioned catalogue store. All methods are safe for
// concurrent use; writes serialize on the internal mutex.
type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the store at dataDir and brings the schema to the
// fixed version. An existing store missing tables gets exactly one repair
// pass: the version counter is bumped by one and only the missing tables
// and their indexes are created; present tables keep their data. A failure
// of the repair transaction itself is fatal and surfaces as a StorageError.
func Open(dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &types.StorageError{Op: "create data dir", Err: err}
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &types.StorageError{Op: "open", Err: err}
	}

	s := &Store{db: db, log: logger}
	if err := s.openOrUpgrade(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// openOrUpgrade verifies the schema and performs the constrained upgrade
// when tables are missing. A fresh database is created in full at
// schemaVersion; a populated one with missing tables gets version+1 and the
// missing DDL only.
func (s *Store) openOrUpgrade() error {
	version, err := s.userVersion()
	if err != nil {
		return &types.StorageError{Op: "read schema version", Err: err}
	}

	missing, err := s.missingTables()
	if err != nil {
		return &types.StorageError{Op: "inspect schema", Err: err}
	}

	if version == 0 && len(missing) == len(types.StandardTableNames) {
		// Fresh database: create everything at the fixed version.
		if err := s.createTables(missing, schemaVersion); err != nil {
			return &types.StorageError{Op: "create schema", Err: err}
		}
		s.log.Info().Int("version", schemaVersion).Msg("catalogue schema created")
		return nil
	}

	if len(missing) == 0 {
		return nil
	}

	s.log.Warn().Strs("tables", missing).Msg("repairing catalogue schema")
	if err := s.createTables(missing, version+1); err != nil {
		return &types.StorageError{Op: "repair schema", Err: err}
	}
	s.log.Info().Int("version", version+1).Msg("catalogue schema repaired")
	return nil
}

func (s *Store) userVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// missingTables returns the standard table names absent from sqlite_master.
func (s *Store) missingTables() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range types.StandardTableNames {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// createTables creates the named tables and their indexes in one
// transaction and records newVersion in user_version.
func (s *Store) createTables(names []string, newVersion int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		ddl, ok := tableDDL[name]
		if !ok {
			return fmt.Errorf("no DDL for table %s", name)
		}
		if _, err := tx.Exec(ddl.create); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		for _, idx := range ddl.indexes {
			if _, err := tx.Exec(idx); err != nil {
				return fmt.Errorf("index %s: %w", name, err)
			}
		}
	}

	// PRAGMA does not support placeholders.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", newVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// conn returns the handle or ErrStoreClosed. Callers hold the read lock.
func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}

// DeleteAll clears every catalogue table including metadata. The schema and
// version are preserved.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &types.StorageError{Op: "delete all", Err: err}
	}
	defer tx.Rollback()

	for _, table := range types.StandardTableNames {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return &types.StorageError{Op: "clear " + table, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &types.StorageError{Op: "delete all", Err: err}
	}
	return nil
}
