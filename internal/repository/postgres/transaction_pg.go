// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly; no connection is held here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (account_id, kind, amount, timestamp, description)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.AccountID,
		transaction.Kind,
		transaction.Amount,
		transaction.Timestamp,
		transaction.Description,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByAccountID retrieves an account's ledger entries, newest first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, q repository.DBExecutor, accountID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, account_id, kind, amount, timestamp, description
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp DESC`
	err := q.SelectContext(ctx, &transactions, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	return transactions, nil
}

// GetTransactionsByAccountIDInStorageOrder retrieves an account's ledger
// entries in insertion order, as used by the CSV export.
func (r *TransactionRepository) GetTransactionsByAccountIDInStorageOrder(ctx context.Context, q repository.DBExecutor, accountID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, account_id, kind, amount, timestamp, description
		FROM transactions
		WHERE account_id = $1
		ORDER BY id`
	err := q.SelectContext(ctx, &transactions, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	return transactions, nil
}
