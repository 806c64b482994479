// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/repository"
	"pivon-bank/internal/util"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct {
	// Methods receive a DBExecutor directly; no connection is held here.
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &AccountRepository{}
}

const accountColumns = `id, username, password_hash, account_number, balance, full_name, id_number, email, address, phone_number, created_at, updated_at`

// CreateAccount inserts a new account using the provided DBExecutor.
// A duplicate username surfaces as util.ErrDuplicateUsername.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (username, password_hash, account_number, balance,
	              full_name, id_number, email, address, phone_number, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.AccountNumber,
		account.Balance,
		account.FullName,
		account.IDNumber,
		account.Email,
		account.Address,
		account.PhoneNumber,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return util.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its internal ID.
func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by its unique username.
func (r *AccountRepository) GetAccountByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	err := q.GetContext(ctx, &account, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by username '%s': %w", username, err)
	}
	return &account, nil
}

// GetAccountByNumber retrieves an account by its human-facing account number.
func (r *AccountRepository) GetAccountByNumber(ctx context.Context, q repository.DBExecutor, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	err := q.GetContext(ctx, &account, query, accountNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by number '%s': %w", accountNumber, err)
	}
	return &account, nil
}

// GetAccountByIDForUpdate retrieves an account and locks its row until the
// surrounding transaction ends.
func (r *AccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return &account, nil
}

// AccountNumberExists reports whether an account number is already taken.
func (r *AccountRepository) AccountNumberExists(ctx context.Context, q repository.DBExecutor, accountNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`
	err := q.GetContext(ctx, &exists, query, accountNumber)
	if err != nil {
		return false, fmt.Errorf("failed to check account number '%s': %w", accountNumber, err)
	}
	return exists, nil
}

// AddToBalance applies a signed delta to an account's balance.
func (r *AccountRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, accountID int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balance for account %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential hash.
func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, q repository.DBExecutor, accountID int64, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, passwordHash, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update password for account %d: %w", accountID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating password for account %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpdateProfile overwrites the account's profile fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, q repository.DBExecutor, accountID int64, profile domain.Profile) error {
	query := `UPDATE accounts
              SET full_name = $1, id_number = $2, email = $3, address = $4, phone_number = $5, updated_at = $6
              WHERE id = $7`
	result, err := q.ExecContext(ctx, query,
		profile.FullName,
		profile.IDNumber,
		profile.Email,
		profile.Address,
		profile.PhoneNumber,
		time.Now().UTC(),
		accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile for account %d: %w", accountID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating profile for account %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account. Ledger entries cascade via the
// transactions.account_id foreign key.
func (r *AccountRepository) DeleteAccount(ctx context.Context, q repository.DBExecutor, accountID int64) error {
	query := `DELETE FROM accounts WHERE id = $1`
	result, err := q.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", accountID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting account %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
