package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed store at dbPath, creating parent
// directories and applying embedded migrations as needed.
func NewSQLiteStore(dbPath string) (Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := ensureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	initMigrations()

	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}

	goose.SetTableName("filetail_db_version")

	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(fingerprint string) (int64, bool, error) {
	row := s.db.QueryRow(
		`SELECT offset FROM positions WHERE fingerprint = ?`,
		fingerprint)

	var offset int64
	if err := row.Scan(&offset); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load position: %w", err)
	}
	return offset, true, nil
}

func (s *sqliteStore) Set(fingerprint string, offset int64) error {
	_, err := s.db.Exec(
		`INSERT INTO positions (fingerprint, offset, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(fingerprint) DO UPDATE SET
		 offset = excluded.offset,
		 updated_at = CURRENT_TIMESTAMP`,
		fingerprint, offset)
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

func (s *sqliteStore) Delete(fingerprint string) error {
	_, err := s.db.Exec(
		`DELETE FROM positions WHERE fingerprint = ?`,
		fingerprint)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// ensureDir makes sure a directory exists
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
