// internal/service/bank_service.go
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/repository"
	"pivon-bank/internal/util"
	"pivon-bank/pkg/db"
)

// csvTimestampLayout is the timestamp format used in exported ledger rows.
const csvTimestampLayout = "2006-01-02 15:04:05"

// BankService defines the interface for balance mutations and reporting.
type BankService interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error)
	Transfer(ctx context.Context, senderID int64, recipientAccountNumber string, amount decimal.Decimal) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	History(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ExportCSV(ctx context.Context, accountID int64) ([]byte, error)
	UpdateProfile(ctx context.Context, accountID int64, profile domain.Profile) error
}

// bankService implements the BankService interface.
type bankService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewBankService creates a new instance of BankService.
func NewBankService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BankService {
	return &bankService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Deposit adds money to an account and appends one Deposit ledger entry.
func (s *bankService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	if _, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, accountID); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to get account %d: %w", accountID, err)
	}

	if err := s.accountRepo.AddToBalance(ctx, txExecutor, accountID, amount); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to update balance: %w", err)
	}

	transaction := domain.NewTransaction(accountID, domain.TransactionKindDeposit, amount, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to create ledger entry: %w", err)
	}

	updatedAccount, err := s.accountRepo.GetAccountByID(ctx, txExecutor, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to re-fetch updated account %d: %w", accountID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	return updatedAccount, transaction, nil
}

// Withdraw removes money from an account and appends one Withdrawal ledger entry.
// Withdrawing the full balance is permitted; anything beyond it fails with
// ErrInsufficientFunds and leaves the balance unchanged.
func (s *bankService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	account, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to get account %d: %w", accountID, err)
	}

	if account.Balance.LessThan(amount) {
		return nil, nil, util.ErrInsufficientFunds
	}

	if err := s.accountRepo.AddToBalance(ctx, txExecutor, accountID, amount.Neg()); err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to update balance: %w", err)
	}

	transaction := domain.NewTransaction(accountID, domain.TransactionKindWithdrawal, amount, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to create ledger entry: %w", err)
	}

	updatedAccount, err := s.accountRepo.GetAccountByID(ctx, txExecutor, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to re-fetch updated account %d: %w", accountID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	return updatedAccount, transaction, nil
}

// Transfer moves money between two accounts. The two balance updates and the
// two ledger entries (Sent on the sender, Received on the recipient) commit as
// one atomic unit; any failure rolls everything back.
func (s *bankService) Transfer(ctx context.Context, senderID int64, recipientAccountNumber string, amount decimal.Decimal) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	sender, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, senderID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to get sender account %d: %w", senderID, err)
	}

	if sender.Balance.LessThan(amount) {
		return nil, util.ErrInsufficientFunds
	}

	recipient, err := s.accountRepo.GetAccountByNumber(ctx, txExecutor, recipientAccountNumber)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUnknownAccount
		}
		return nil, fmt.Errorf("transfer: failed to get recipient account '%s': %w", recipientAccountNumber, err)
	}

	if recipient.ID != sender.ID {
		if _, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, recipient.ID); err != nil {
			return nil, fmt.Errorf("transfer: failed to lock recipient account %d: %w", recipient.ID, err)
		}
	}

	if err := s.accountRepo.AddToBalance(ctx, txExecutor, sender.ID, amount.Neg()); err != nil {
		return nil, fmt.Errorf("transfer: failed to debit sender: %w", err)
	}
	if err := s.accountRepo.AddToBalance(ctx, txExecutor, recipient.ID, amount); err != nil {
		return nil, fmt.Errorf("transfer: failed to credit recipient: %w", err)
	}

	sent := domain.NewTransaction(sender.ID, domain.TransactionKindSent, amount, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, sent); err != nil {
		return nil, fmt.Errorf("transfer: failed to create sender ledger entry: %w", err)
	}
	received := domain.NewTransaction(recipient.ID, domain.TransactionKindReceived, amount, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, received); err != nil {
		return nil, fmt.Errorf("transfer: failed to create recipient ledger entry: %w", err)
	}

	updatedSender, err := s.accountRepo.GetAccountByID(ctx, txExecutor, sender.ID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to re-fetch updated sender %d: %w", sender.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	return updatedSender, nil
}

// GetAccount returns the current state of an account.
func (s *bankService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: failed to get account %d: %w", accountID, err)
	}
	return account, nil
}

// History returns the account's own ledger entries, newest first.
func (s *bankService) History(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactionsByAccountID(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// ExportCSV renders the account's ledger as CSV with a Date,Type,Amount header,
// one row per entry in storage order.
func (s *bankService) ExportCSV(ctx context.Context, accountID int64) ([]byte, error) {
	transactions, err := s.transactionRepo.GetTransactionsByAccountIDInStorageOrder(ctx, s.dbExecutor, accountID)
	if err != nil {
		return nil, fmt.Errorf("export csv: failed to fetch transactions: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Type", "Amount"}); err != nil {
		return nil, fmt.Errorf("export csv: failed to write header: %w", err)
	}
	for _, t := range transactions {
		record := []string{
			t.Timestamp.Format(csvTimestampLayout),
			string(t.Kind),
			t.Amount.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export csv: failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: failed to flush: %w", err)
	}
	return buf.Bytes(), nil
}

// UpdateProfile overwrites the account's profile fields.
func (s *bankService) UpdateProfile(ctx context.Context, accountID int64, profile domain.Profile) error {
	if err := s.accountRepo.UpdateProfile(ctx, s.dbExecutor, accountID, profile); err != nil {
		return fmt.Errorf("update profile: failed to update account %d: %w", accountID, err)
	}
	return nil
}
