package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the Store used for local history files
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at dsn
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer at a time; also keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{`PRAGMA journal_mode=WAL;`, `PRAGMA busy_timeout=5000;`} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error { return s.db.Close() }

// EnsureSchema creates the descriptions table and indexes
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveDescription inserts a description record
func (s *SQLiteStore) SaveDescription(ctx context.Context, d *Description) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO property_descriptions (`+descriptionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		descriptionArgs(d)...,
	)
	if err != nil {
		return fmt.Errorf("failed to save description: %w", err)
	}
	return nil
}

// GetDescription retrieves a description by ID
func (s *SQLiteStore) GetDescription(ctx context.Context, id uuid.UUID) (*Description, error) {
	d, err := scanDescription(s.db.QueryRowContext(ctx,
		`SELECT `+descriptionColumns+` FROM property_descriptions WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get description: %w", err)
	}
	return d, nil
}

// ListRecentDescriptions retrieves the most recent descriptions
func (s *SQLiteStore) ListRecentDescriptions(ctx context.Context, limit int) ([]Description, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+descriptionColumns+` FROM property_descriptions
		 ORDER BY created_at DESC LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptions: %w", err)
	}
	defer rows.Close()

	var descriptions []Description
	for rows.Next() {
		d, err := scanDescription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan description: %w", err)
		}
		descriptions = append(descriptions, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list descriptions: %w", err)
	}
	return descriptions, nil
}

// DeleteDescription removes a description by ID
func (s *SQLiteStore) DeleteDescription(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM property_descriptions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete description: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete description: %w", err)
	}
	return n > 0, nil
}

// ClearDescriptions removes every description
func (s *SQLiteStore) ClearDescriptions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM property_descriptions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear descriptions: %w", err)
	}
	return res.RowsAffected()
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLiteStore)(nil)
)
