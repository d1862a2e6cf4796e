package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// StateRepository mirrors the vault's non-ledger state as key -> JSONB rows,
// the server-side equivalent of the key-value local store.
type StateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository creates a new PostgreSQL state repository
func NewStateRepository(pool *pgxpool.Pool) *StateRepository {
	return &StateRepository{pool: pool}
}

// Get reads one state key. Returns vault.ErrKeyNotFound for keys that were
// never written.
func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM vault_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, vault.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get state key %q: %w", key, err)
	}

	return value, nil
}

// Set upserts one state key
func (r *StateRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO vault_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set state key %q: %w", key, err)
	}

	return nil
}
