// internal/service/auth_service_test.go
package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/util"
	"pivon-bank/pkg/db"
)

// authServiceMocks bundles the mocks behind an AuthService under test.
type authServiceMocks struct {
	accountRepo  *MockAccountRepository
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
}

func newAuthServiceWithMocks() (AuthService, *authServiceMocks) {
	m := &authServiceMocks{
		accountRepo:  new(MockAccountRepository),
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}

	svc := NewAuthService(
		m.dbBeginner,
		m.dbExecutor,
		m.accountRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
	)
	return svc, m
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FullName:        "Alice Smith",
		IDNumber:        "123456",
		Email:           "alice@example.com",
		Address:         "12 High Street",
		PhoneNumber:     "555-0100",
	}
}

func TestGenerateAccountNumber(t *testing.T) {
	// Two-letter prefix plus four digits, grouped in pairs with separators.
	format := regexp.MustCompile(`^PV-\d{2}-\d{2}$`)
	for i := 0; i < 100; i++ {
		number := generateAccountNumber()
		assert.Regexp(t, format, number)
	}
}

func TestRegister(t *testing.T) {
	t.Run("SuccessfulRegistration", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()
		input := validRegisterInput()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		m.accountRepo.On("AccountNumberExists", ctx, mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
		m.accountRepo.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				account := args.Get(2).(*domain.Account)
				account.ID = 1
				// Balance starts at zero; only a salted hash is stored.
				assert.True(t, account.Balance.IsZero())
				assert.NotEqual(t, input.Password, account.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)))
			}).Return(nil).Once()

		account, err := svc.Register(ctx, input)

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(1), account.ID)
		assert.Regexp(t, `^PV-\d{2}-\d{2}$`, account.AccountNumber)
		m.accountRepo.AssertExpectations(t)
		m.txController.AssertExpectations(t)
	})

	t.Run("PasswordMismatch", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()
		input := validRegisterInput()
		input.ConfirmPassword = "different"

		account, err := svc.Register(ctx, input)

		assert.ErrorIs(t, err, util.ErrPasswordMismatch)
		assert.Nil(t, account)
		m.accountRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()
		input := validRegisterInput()

		existing := &domain.Account{ID: 7, Username: "alice"}
		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(existing, nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		account, err := svc.Register(ctx, input)

		assert.ErrorIs(t, err, util.ErrDuplicateUsername)
		assert.Nil(t, account)
		m.accountRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
		m.txController.AssertNotCalled(t, "Commit")
	})

	t.Run("AccountNumberCollisionRegenerates", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()
		input := validRegisterInput()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		// First candidate collides, second is free.
		m.accountRepo.On("AccountNumberExists", ctx, mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
		m.accountRepo.On("AccountNumberExists", ctx, mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
		m.accountRepo.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil).Once()

		account, err := svc.Register(ctx, input)

		require.NoError(t, err)
		require.NotNil(t, account)
		m.accountRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.Account{ID: 1, Username: "alice", PasswordHash: string(hash)}

	t.Run("SuccessfulLogin", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(stored, nil).Once()

		account, err := svc.Login(ctx, "alice", "secret123")

		require.NoError(t, err)
		assert.Equal(t, int64(1), account.ID)
		m.accountRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(stored, nil).Once()

		account, err := svc.Login(ctx, "alice", "wrong")

		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		assert.Nil(t, account)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByUsername", ctx, mock.Anything, "nobody").Return(nil, util.ErrNotFound).Once()

		account, err := svc.Login(ctx, "nobody", "secret123")

		// Unknown user and bad password are indistinguishable to the caller.
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		assert.Nil(t, account)
	})
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.Account{ID: 1, Username: "alice", PasswordHash: string(hash)}

	t.Run("SuccessfulChange", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByID", ctx, mock.Anything, int64(1)).Return(stored, nil).Once()
		m.accountRepo.On("UpdatePasswordHash", ctx, mock.Anything, int64(1), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash := args.Get(3).(string)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newpass123")))
			}).Return(nil).Once()

		err := svc.ChangePassword(ctx, 1, "oldpass123", "newpass123", "newpass123")

		require.NoError(t, err)
		m.accountRepo.AssertExpectations(t)
	})

	t.Run("IncorrectCurrentPassword", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByID", ctx, mock.Anything, int64(1)).Return(stored, nil).Once()

		err := svc.ChangePassword(ctx, 1, "wrong", "newpass123", "newpass123")

		assert.ErrorIs(t, err, util.ErrIncorrectPassword)
		m.accountRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NewPasswordMismatch", func(t *testing.T) {
		ctx := context.Background()
		svc, m := newAuthServiceWithMocks()

		m.accountRepo.On("GetAccountByID", ctx, mock.Anything, int64(1)).Return(stored, nil).Once()

		err := svc.ChangePassword(ctx, 1, "oldpass123", "newpass123", "different")

		assert.ErrorIs(t, err, util.ErrPasswordMismatch)
		m.accountRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc, m := newAuthServiceWithMocks()

	m.accountRepo.On("DeleteAccount", ctx, mock.Anything, int64(1)).Return(nil).Once()

	err := svc.DeleteAccount(ctx, 1)

	require.NoError(t, err)
	m.accountRepo.AssertExpectations(t)
}
