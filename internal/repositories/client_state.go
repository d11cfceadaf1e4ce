package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/passport/internal/session"
)

var _ session.Storage = (*ClientStateRepository)(nil)

// ClientStateRepository stores client state entries in the client_state table.
type ClientStateRepository struct {
	db *sql.DB
}

// NewClientStateRepository creates a new ClientStateRepository with the given database connection
func NewClientStateRepository(db *sql.DB) *ClientStateRepository {
	return &ClientStateRepository{db: db}
}

// Get returns the value for key and whether it exists.
func (r *ClientStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query client state: %w", err)
	}
	return value, true, nil
}

// SetMany upserts all entries in one transaction.
func (r *ClientStateRepository) SetMany(ctx context.Context, entries map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now()
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, query, k, v, now); err != nil {
			return fmt.Errorf("failed to write client state %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit client state: %w", err)
	}
	return nil
}

// DeleteMany removes all keys in one transaction. Missing keys are ignored.
func (r *ClientStateRepository) DeleteMany(ctx context.Context, keys ...string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, "DELETE FROM client_state WHERE key = ?", k); err != nil {
			return fmt.Errorf("failed to delete client state %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit client state: %w", err)
	}
	return nil
}
