// Package store persists the shop collections as opaque blobs, one per key.
//
// Open picks a backend from a URL:
//
//	tienda-data            a directory, one <key>.json file per collection
//	file:///var/tienda     same
//	sqlite:///var/tienda.db a SQLite database (pure Go driver)
//	redis://localhost:6379/0 a Redis server, keys prefixed with "tienda:"
//	mem://                  in memory, lost on Close
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("blob not found")

// Store is a key-value store of blobs.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, blob []byte) error
	Close() error
}

// Open opens the store described by location.
func Open(ctx context.Context, location string) (Store, error) {
	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return OpenDir(location)
	}
	switch scheme {
	case "file":
		return OpenDir(rest)
	case "sqlite":
		return OpenSQLite(ctx, rest)
	case "redis", "rediss":
		return OpenRedis(ctx, location)
	case "mem":
		return NewMem(), nil
	default:
		return nil, fmt.Errorf("unsupported store %q", redact(location))
	}
}

// redact hides credentials in a store location before it is printed.
func redact(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Redacted()
}
