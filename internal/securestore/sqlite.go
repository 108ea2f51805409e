package securestore

import (
	"alcyxob/liftlog/internal/securestore/migrations"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on top of a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates it.
// Values are sealed with key, which must be 16, 24 or 32 bytes.
func OpenSQLite(ctx context.Context, dsn string, key []byte) (*SQLiteStore, error) {
	if len(key) == 0 {
		return nil, ErrNoPassphrase
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var nonce, ciphertext []byte
	err := s.db.QueryRowContext(ctx, `SELECT nonce, value FROM secure_kv WHERE key = ?`, key).Scan(&nonce, &ciphertext)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get secure_kv[%s]: %w", key, err)
	}

	plaintext, err := decrypt(ciphertext, nonce, s.key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decrypt secure_kv[%s]: %w", key, err)
	}
	return plaintext, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	ciphertext, nonce, err := encrypt(value, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secure_kv[%s]: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secure_kv (key, nonce, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET nonce = excluded.nonce, value = excluded.value, updated_at = excluded.updated_at
	`, key, nonce, ciphertext)
	if err != nil {
		return fmt.Errorf("failed to set secure_kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM secure_kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete secure_kv[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
