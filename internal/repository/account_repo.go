// internal/repository/account_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"pivon-bank/internal/domain"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount adds a new account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its internal ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// GetAccountByUsername retrieves an account by its unique username.
	GetAccountByUsername(ctx context.Context, q DBExecutor, username string) (*domain.Account, error)
	// GetAccountByNumber retrieves an account by its human-facing account number.
	GetAccountByNumber(ctx context.Context, q DBExecutor, accountNumber string) (*domain.Account, error)
	// GetAccountByIDForUpdate retrieves an account and locks its row for the
	// duration of the surrounding transaction.
	GetAccountByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// AccountNumberExists reports whether an account number is already taken.
	AccountNumberExists(ctx context.Context, q DBExecutor, accountNumber string) (bool, error)
	// AddToBalance applies a signed delta to an account's balance.
	AddToBalance(ctx context.Context, q DBExecutor, accountID int64, delta decimal.Decimal) error
	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, q DBExecutor, accountID int64, passwordHash string) error
	// UpdateProfile overwrites the account's profile fields.
	UpdateProfile(ctx context.Context, q DBExecutor, accountID int64, profile domain.Profile) error
	// DeleteAccount removes an account; owned ledger entries cascade.
	DeleteAccount(ctx context.Context, q DBExecutor, accountID int64) error
}
