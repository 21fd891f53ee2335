package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// InitDB opens the durable client storage. driver is "sqlite" for a local
// file or "mysql" for a shared kiosk database.
func InitDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver == "sqlite" && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", driver, err)
	}
	switch driver {
	case "sqlite":
		// one writer; also keeps ":memory:" on a single connection
		db.SetMaxOpenConns(1)
	case "mysql":
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s storage: %w", driver, err)
	}
	return db, nil
}

// KV is a string key/value table shared by the sqlite and mysql backends.
type KV struct {
	db *sql.DB
}

// NewKV creates the backing table when it does not exist yet.
func NewKV(ctx context.Context, db *sql.DB) (*KV, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS client_storage (
			storage_key   VARCHAR(191) NOT NULL PRIMARY KEY,
			storage_value TEXT NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("create client_storage: %w", err)
	}
	return &KV{db: db}, nil
}

// Get returns ok=false when the key is absent.
func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT storage_value FROM client_storage WHERE storage_key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx,
		"REPLACE INTO client_storage (storage_key, storage_value) VALUES (?, ?)", key, value,
	); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for missing keys.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM client_storage WHERE storage_key = ?", key,
	); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
