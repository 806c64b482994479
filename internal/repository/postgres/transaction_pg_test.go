// internal/repository/postgres/transaction_pg_test.go
package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivon-bank/internal/domain"
)

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "account_id", "kind", "amount", "timestamp", "description"})
}

func TestCreateTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	transaction := domain.NewTransaction(1, domain.TransactionKindDeposit, decimal.NewFromFloat(50.00), nil)

	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(int64(1), domain.TransactionKindDeposit, transaction.Amount, transaction.Timestamp, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	err := repo.CreateTransaction(context.Background(), db, transaction)

	require.NoError(t, err)
	assert.Equal(t, int64(10), transaction.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsByAccountID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM transactions\s+WHERE account_id = \$1\s+ORDER BY timestamp DESC`).
		WithArgs(int64(1)).
		WillReturnRows(transactionRows().
			AddRow(int64(2), int64(1), "Withdrawal", "20.00", now, nil).
			AddRow(int64(1), int64(1), "Deposit", "50.00", now.Add(-time.Hour), nil))

	transactions, err := repo.GetTransactionsByAccountID(context.Background(), db, 1)

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, domain.TransactionKindWithdrawal, transactions[0].Kind)
	assert.True(t, decimal.NewFromFloat(50.00).Equal(transactions[1].Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsByAccountIDInStorageOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM transactions\s+WHERE account_id = \$1\s+ORDER BY id`).
		WithArgs(int64(1)).
		WillReturnRows(transactionRows().
			AddRow(int64(1), int64(1), "Deposit", "50.00", now.Add(-time.Hour), nil).
			AddRow(int64(2), int64(1), "Withdrawal", "20.00", now, nil))

	transactions, err := repo.GetTransactionsByAccountIDInStorageOrder(context.Background(), db, 1)

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(1), transactions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
