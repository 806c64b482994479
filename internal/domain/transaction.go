// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "Deposit"
	TransactionKindWithdrawal TransactionKind = "Withdrawal"
	TransactionKindSent       TransactionKind = "Sent"
	TransactionKindReceived   TransactionKind = "Received"
)

// Transaction is an immutable ledger entry owned by a single account.
// A transfer produces two entries: Sent on the sender, Received on the recipient.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	AccountID   int64           `db:"account_id" json:"account_id"` // Owning account
	Kind        TransactionKind `db:"kind" json:"kind"`
	Amount      decimal.Decimal `db:"amount" json:"amount"` // Always positive, NUMERIC(20, 2) in DB
	Timestamp   time.Time       `db:"timestamp" json:"timestamp"`
	Description *string         `db:"description" json:"description"` // Optional
}

// NewTransaction creates a new ledger entry stamped with the current server time.
func NewTransaction(accountID int64, kind TransactionKind, amount decimal.Decimal, description *string) *Transaction {
	return &Transaction{
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Timestamp:   time.Now().UTC(),
		Description: description,
	}
}
