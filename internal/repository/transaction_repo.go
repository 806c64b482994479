// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"pivon-bank/internal/domain"
)

// TransactionRepository defines the interface for ledger entry operations.
type TransactionRepository interface {
	// CreateTransaction appends a new ledger entry using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByAccountID retrieves an account's ledger entries, newest first.
	GetTransactionsByAccountID(ctx context.Context, q DBExecutor, accountID int64) ([]domain.Transaction, error)
	// GetTransactionsByAccountIDInStorageOrder retrieves an account's ledger
	// entries in insertion order, as used by the CSV export.
	GetTransactionsByAccountIDInStorageOrder(ctx context.Context, q DBExecutor, accountID int64) ([]domain.Transaction, error)
}
