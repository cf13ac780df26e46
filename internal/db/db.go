package db

import (
	"context"
	"errors"
	"strings"
)

// KV is the key-value persistence the calendar writes through.
// Values are opaque strings; Delete on a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrNotFound = errors.New("not found")

// Open returns a KV based on a URL: mem:// for a process-local map,
// sqlite://<path> (or a bare path) for a SQLite file.
func Open(ctx context.Context, url string) (KV, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "" || strings.HasPrefix(url, "mem://"):
		return NewMem(), nil
	default:
		return openSQLite(ctx, url)
	}
}
