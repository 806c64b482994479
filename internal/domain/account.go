// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer account in the bank.
type Account struct {
	ID            int64           `db:"id" json:"id"`                         // Primary key, BIGSERIAL in DB
	Username      string          `db:"username" json:"username"`             // Unique login name
	PasswordHash  string          `db:"password_hash" json:"-"`               // bcrypt hash, never exposed
	AccountNumber string          `db:"account_number" json:"account_number"` // Human-facing number, e.g. PV-12-34
	Balance       decimal.Decimal `db:"balance" json:"balance"`               // Current balance, NUMERIC(20, 2) in DB
	FullName      string          `db:"full_name" json:"full_name"`
	IDNumber      string          `db:"id_number" json:"id_number"`
	Email         string          `db:"email" json:"email"`
	Address       string          `db:"address" json:"address"`
	PhoneNumber   string          `db:"phone_number" json:"phone_number"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Profile holds the mutable profile fields of an account.
type Profile struct {
	FullName    string
	IDNumber    string
	Email       string
	Address     string
	PhoneNumber string
}

// NewAccount creates a new Account with a zero balance.
func NewAccount(username, passwordHash, accountNumber string, profile Profile) *Account {
	now := time.Now().UTC()
	return &Account{
		Username:      username,
		PasswordHash:  passwordHash,
		AccountNumber: accountNumber,
		Balance:       decimal.Zero,
		FullName:      profile.FullName,
		IDNumber:      profile.IDNumber,
		Email:         profile.Email,
		Address:       profile.Address,
		PhoneNumber:   profile.PhoneNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
