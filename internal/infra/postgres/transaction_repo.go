package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// TransactionRepository mirrors the vault's ledger in PostgreSQL. The seq
// column preserves insertion order, which the portfolio fold depends on.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Save inserts a transaction into the mirror
func (r *TransactionRepository) Save(ctx context.Context, tx ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, date, symbol, type, quantity, price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.Date,
		tx.Symbol,
		string(tx.Type),
		tx.Quantity,
		tx.Price,
		tx.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// Update rewrites a mirrored transaction in place, keeping its seq
func (r *TransactionRepository) Update(ctx context.Context, tx ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $2, symbol = $3, type = $4, quantity = $5, price = $6, notes = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.Date,
		tx.Symbol,
		string(tx.Type),
		tx.Quantity,
		tx.Price,
		tx.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// Delete removes a mirrored transaction
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

// List returns the full mirrored ledger in insertion order
func (r *TransactionRepository) List(ctx context.Context) ([]ledger.Transaction, error) {
	query := `
		SELECT id, date, symbol, type, quantity, price, notes
		FROM transactions
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction
	for rows.Next() {
		var tx ledger.Transaction
		var txType string
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Symbol, &txType, &tx.Quantity, &tx.Price, &tx.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = ledger.TransactionType(txType)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return txs, nil
}
