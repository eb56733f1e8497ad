package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Store persists generated descriptions
type Store interface {
	// EnsureSchema creates the descriptions table and its indexes if missing
	EnsureSchema(ctx context.Context) error
	SaveDescription(ctx context.Context, d *Description) error
	// GetDescription returns nil, nil when no record has the given ID
	GetDescription(ctx context.Context, id uuid.UUID) (*Description, error)
	// ListRecentDescriptions returns records newest first
	ListRecentDescriptions(ctx context.Context, limit int) ([]Description, error)
	// DeleteDescription reports whether a record was removed
	DeleteDescription(ctx context.Context, id uuid.UUID) (bool, error)
	// ClearDescriptions removes every record and returns how many were removed
	ClearDescriptions(ctx context.Context) (int64, error)
	Close() error
}

// Open connects to the store named by url. postgres:// and postgresql:// URLs use
// PostgreSQL; sqlite://path and file: URLs use a local SQLite file.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Connect(ctx, url)
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "sqlite3://"), strings.HasPrefix(url, "file:"):
		return OpenSQLite(ctx, sqliteDSN(url))
	case url == "":
		return nil, fmt.Errorf("database URL is required")
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", redact(url))
	}
}

// sqliteDSN converts sqlite:// URLs into a go-sqlite3 DSN; file: DSNs pass through
func sqliteDSN(url string) string {
	for _, prefix := range []string{"sqlite://", "sqlite3://"} {
		if rest, ok := strings.CutPrefix(url, prefix); ok {
			return rest
		}
	}
	return url
}

// redact hides anything after the scheme so credentials never reach logs
func redact(url string) string {
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		return scheme + "://..."
	}
	if len(url) > 8 {
		return url[:8] + "..."
	}
	return url
}
