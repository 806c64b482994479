// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/repository"
	"pivon-bank/internal/util"
	"pivon-bank/pkg/db"
)

// accountNumberPrefix is the two-letter prefix of every generated account number.
const accountNumberPrefix = "PV"

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string `validate:"required,min=3,max=150"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required"`
	FullName        string `validate:"required"`
	IDNumber        string `validate:"required"`
	Email           string `validate:"required,email"`
	Address         string
	PhoneNumber     string `validate:"required"`
}

// AuthService defines the interface for authentication and credential management.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID int64, current, newPassword, confirm string) error
	DeleteAccount(ctx context.Context, accountID int64) error
}

// authService implements the AuthService interface.
type authService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accountRepo repository.AccountRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AuthService {
	return &authService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// generateAccountNumber produces a candidate account number: the two-letter
// prefix plus four random digits, grouped in pairs with separators
// (e.g. "PV-12-34"). Uniqueness is enforced by the collision loop in Register.
func generateAccountNumber() string {
	digits := make([]byte, 4)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	raw := accountNumberPrefix + string(digits)

	pairs := make([]string, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		pairs = append(pairs, raw[i:i+2])
	}
	return strings.Join(pairs, "-")
}

// Register creates a new account with a zero balance and a unique account number.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if input.Password != input.ConfirmPassword {
		return nil, util.ErrPasswordMismatch
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	_, err = s.accountRepo.GetAccountByUsername(ctx, txExecutor, input.Username)
	if err == nil {
		return nil, util.ErrDuplicateUsername
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing username: %w", err)
	}

	// Regenerate on collision until the number is free.
	accountNumber := generateAccountNumber()
	for {
		taken, err := s.accountRepo.AccountNumberExists(ctx, txExecutor, accountNumber)
		if err != nil {
			return nil, fmt.Errorf("register: failed to check account number: %w", err)
		}
		if !taken {
			break
		}
		accountNumber = generateAccountNumber()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	account := domain.NewAccount(input.Username, string(hash), accountNumber, domain.Profile{
		FullName:    input.FullName,
		IDNumber:    input.IDNumber,
		Email:       input.Email,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	})
	if err := s.accountRepo.CreateAccount(ctx, txExecutor, account); err != nil {
		return nil, fmt.Errorf("register: failed to create account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	return account, nil
}

// Login validates credentials and returns the matching account.
// Unknown usernames and hash mismatches both surface as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	return account, nil
}

// ChangePassword replaces the stored credential hash after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, accountID int64, current, newPassword, confirm string) error {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return fmt.Errorf("change password: failed to get account %d: %w", accountID, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
		return util.ErrIncorrectPassword
	}
	if newPassword != confirm {
		return util.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: failed to hash password: %w", err)
	}

	if err := s.accountRepo.UpdatePasswordHash(ctx, s.dbExecutor, accountID, string(hash)); err != nil {
		return fmt.Errorf("change password: failed to update password for account %d: %w", accountID, err)
	}
	return nil
}

// DeleteAccount removes the account; its ledger entries cascade.
func (s *authService) DeleteAccount(ctx context.Context, accountID int64) error {
	if err := s.accountRepo.DeleteAccount(ctx, s.dbExecutor, accountID); err != nil {
		return fmt.Errorf("delete account: failed to delete account %d: %w", accountID, err)
	}
	return nil
}
