// Package db persists the history of generated listing descriptions in PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the PostgreSQL Store backed by a connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// EnsureSchema creates the descriptions table and indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveDescription inserts a description record
func (db *DB) SaveDescription(ctx context.Context, d *Description) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO property_descriptions (`+descriptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		descriptionArgs(d)...,
	)
	if err != nil {
		return fmt.Errorf("failed to save description: %w", err)
	}
	return nil
}

// GetDescription retrieves a description by ID
func (db *DB) GetDescription(ctx context.Context, id uuid.UUID) (*Description, error) {
	d, err := scanDescription(db.pool.QueryRow(ctx,
		`SELECT `+descriptionColumns+` FROM property_descriptions WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get description: %w", err)
	}
	return d, nil
}

// ListRecentDescriptions retrieves the most recent descriptions
func (db *DB) ListRecentDescriptions(ctx context.Context, limit int) ([]Description, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+descriptionColumns+` FROM property_descriptions
		 ORDER BY created_at DESC LIMIT $1`,
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
func (db *DB) DeleteDescription(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM property_descriptions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete description: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearDescriptions removes every description
func (db *DB) ClearDescriptions(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM property_descriptions`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear descriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
