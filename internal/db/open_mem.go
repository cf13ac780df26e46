//go:build mem

package db

import "context"

// openSQLite fallback: use in-memory store when built with the mem tag.
func openSQLite(ctx context.Context, dsn string) (KV, error) {
	return NewMem(), nil
}
