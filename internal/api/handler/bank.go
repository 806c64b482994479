// internal/api/handler/bank.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"pivon-bank/internal/domain"
	"pivon-bank/internal/service"
	"pivon-bank/internal/util"
)

// BankHandler handles balance mutations, reporting, and profile requests.
type BankHandler struct {
	service service.BankService
	logger  *slog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(svc service.BankService, logger *slog.Logger) *BankHandler {
	return &BankHandler{
		service: svc,
		logger:  logger,
	}
}

// parseAmount reads and validates the amount form field.
func parseAmount(r *http.Request) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.PostFormValue("amount"))
	if err != nil {
		return decimal.Zero, util.ErrInvalidInput
	}
	return amount, nil
}

// Home returns the logged-in account's current state.
// GET /home
func (h *BankHandler) Home(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}

	account, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"username":       account.Username,
		"full_name":      account.FullName,
		"account_number": account.AccountNumber,
		"balance":        account.Balance,
	})
}

// Deposit adds money to the logged-in account.
// POST /deposit — amount
func (h *BankHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	account, transaction, err := h.service.Deposit(r.Context(), claims.AccountID, amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Deposit successful",
		"new_balance":    account.Balance,
		"transaction_id": transaction.ID,
	})
}

// Withdraw removes money from the logged-in account.
// POST /withdraw — amount
func (h *BankHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	account, transaction, err := h.service.Withdraw(r.Context(), claims.AccountID, amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Withdrawal successful",
		"new_balance":    account.Balance,
		"transaction_id": transaction.ID,
	})
}

// Transfer moves money from the logged-in account to another account.
// POST /transfer — account_number, amount
func (h *BankHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	recipientNumber := r.PostFormValue("account_number")
	if recipientNumber == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	account, err := h.service.Transfer(r.Context(), claims.AccountID, recipientNumber, amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":     "Sent successfully",
		"new_balance": account.Balance,
	})
}

// History returns the logged-in account's ledger entries, newest first.
// GET /transaction_history
func (h *BankHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}

	transactions, err := h.service.History(r.Context(), claims.AccountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"data": transactions,
	})
}

// DownloadHistory streams the ledger as a CSV attachment.
// GET /transaction_history/download
func (h *BankHandler) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}

	data, err := h.service.ExportCSV(r.Context(), claims.AccountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=transaction_history.csv`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UpdateProfile overwrites the logged-in account's profile fields.
// POST /profile — full_name, id_number, email, address, phone_number
func (h *BankHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	profile := domain.Profile{
		FullName:    r.PostFormValue("full_name"),
		IDNumber:    r.PostFormValue("id_number"),
		Email:       r.PostFormValue("email"),
		Address:     r.PostFormValue("address"),
		PhoneNumber: r.PostFormValue("phone_number"),
	}
	if err := h.service.UpdateProfile(r.Context(), claims.AccountID, profile); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{
		"message": "Details updated successfully",
	})
}

// ProfileInfo returns the logged-in account's profile fields.
// GET /profile_info
func (h *BankHandler) ProfileInfo(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}

	account, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"username":       account.Username,
		"account_number": account.AccountNumber,
		"full_name":      account.FullName,
		"id_number":      account.IDNumber,
		"email":          account.Email,
		"address":        account.Address,
		"phone_number":   account.PhoneNumber,
	})
}
