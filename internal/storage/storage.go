// Package storage provides the key/value persistence adapter the store
// is built on: string keys mapping to JSON blobs, with interchangeable
// backends (sqlite, redis, in-memory).
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Well-known keys. Each holds one JSON blob for a whole collection;
// writes replace the blob, never patch it.
const (
	KeyUser        = "resq_user"
	KeySession     = "resq_session"
	KeyDisasters   = "resq_disasters"
	KeyDangerZones = "resq_danger_zones"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

type Adapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// GetJSON loads key and unmarshals it into v. Reads never fail the
// caller: a missing key, a backend error, or a malformed payload all
// leave v at its caller-supplied default and return false. Backend
// errors and parse failures are logged and swallowed.
func GetJSON(ctx context.Context, a Adapter, key string, v any) bool {
	raw, err := a.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("storage read failed, using default", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("malformed storage payload, using default", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key. Writes do fail loudly,
// unlike reads.
func SetJSON(ctx context.Context, a Adapter, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.Set(ctx, key, raw)
}
