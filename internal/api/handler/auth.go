// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"pivon-bank/internal/auth"
	"pivon-bank/internal/service"
	"pivon-bank/internal/util"
)

var validate = validator.New()

// AuthHandler handles registration, login, and credential management requests.
type AuthHandler struct {
	service service.AuthService
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register handles new account creation.
// POST /register — username, password, confirm_password, full_name, id_number,
// email, address, phone_number. A successful registration logs the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	input := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		FullName:        r.PostFormValue("full_name"),
		IDNumber:        r.PostFormValue("id_number"),
		Email:           r.PostFormValue("email"),
		Address:         r.PostFormValue("address"),
		PhoneNumber:     r.PostFormValue("phone_number"),
	}
	if err := validate.Struct(input); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	account, err := h.service.Register(r.Context(), input)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	h.establishSession(w, account.ID, account.Username)
	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"message":        "Account created successfully",
		"account_number": account.AccountNumber,
		"username":       account.Username,
	})
}

// Login handles credential validation and session establishment.
// POST /login — username, password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	account, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	h.establishSession(w, account.ID, account.Username)
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":  "Logged in successfully",
		"username": account.Username,
	})
}

// Logout clears the session. Idempotent.
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

// ChangePassword replaces the stored credential hash.
// POST /change_password — current_password, new_password, confirm_password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	err := h.service.ChangePassword(r.Context(),
		claims.AccountID,
		r.PostFormValue("current_password"),
		r.PostFormValue("new_password"),
		r.PostFormValue("confirm_password"),
	)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// DeleteAccount removes the account, its ledger entries, and the session.
// POST /delete_account
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrNotAuthenticated)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), claims.AccountID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	clearSessionCookie(w)
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{
		"message": "Account deleted",
	})
}

// establishSession mints a session token and sets the cookie.
func (h *AuthHandler) establishSession(w http.ResponseWriter, accountID int64, username string) {
	token, err := h.tokens.Generate(accountID, username)
	if err != nil {
		h.logger.Error("Failed to generate session token", "error", err)
		return
	}
	setSessionCookie(w, token, h.tokens.Expiry())
}
