// Package securestore keeps small per-user blobs (weekly plan, completed days,
// measurements) encrypted at rest in a local SQLite file.
package securestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNoPassphrase = errors.New("securestore: passphrase is required")

// Store is an encrypted key/value store. Get reports found=false for keys that
// were never written.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value stored under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// UserKey namespaces key for one user.
func UserKey(userID, key string) string {
	return userID + "/" + key
}
