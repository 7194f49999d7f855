package app

import (
	"context"
	"fmt"
	"strings"

	"casa-nova-rsvp/internal/storage"
	"casa-nova-rsvp/internal/storage/postgres"
	"casa-nova-rsvp/internal/storage/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ParseDatabaseURL picks the storage backend for url and returns the
// backend-specific location: a file path for SQLite, a postgres:// URL for
// Postgres. Scheme suffixes such as "+aiosqlite" or "+asyncpg" are ignored.
//
// For SQLite both sqlite://./x.db and sqlite:///./x.db name a relative file;
// an absolute path needs four slashes, as in sqlite:////var/lib/x.db.
func ParseDatabaseURL(url string) (driver, location string, err error) {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return "", "", fmt.Errorf("invalid database url %q: missing scheme", url)
	}
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			return "", "", fmt.Errorf("invalid database url %q: missing file path", url)
		}
		return DriverSQLite, path, nil
	case "postgres", "postgresql":
		return DriverPostgres, "postgres://" + rest, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// OpenStore opens the backend named by url and makes sure its schema exists.
func OpenStore(ctx context.Context, url string) (storage.Store, error) {
	driver, location, err := ParseDatabaseURL(url)
	if err != nil {
		return nil, err
	}

	if driver == DriverPostgres {
		store, err := postgres.Open(ctx, location)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := sqlite.New(location)
	if err != nil {
		return nil, err
	}
	return store, nil
}
