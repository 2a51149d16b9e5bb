// Package cache stores rendered slides keyed by a hash of the normalised request.
//
// Backends:
//   - null: caching disabled
//   - file: one JSON file per entry, for the CLI
//   - redis: shared cache for multi-instance servers
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a cache key of the form prefix:sha256(json(v)).
func Key(prefix string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return prefix + ":" + Hash(data), nil
}
