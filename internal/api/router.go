// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pivon-bank/internal/api/handler"
	"pivon-bank/internal/auth"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(authHandler *handler.AuthHandler, bankHandler *handler.BankHandler, tokens *auth.TokenManager, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Session-protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireSession(tokens, logger))

		r.Get("/logout", authHandler.Logout)
		r.Get("/home", bankHandler.Home)
		r.Post("/deposit", bankHandler.Deposit)
		r.Post("/withdraw", bankHandler.Withdraw)
		r.Post("/transfer", bankHandler.Transfer)
		r.Get("/transaction_history", bankHandler.History)
		r.Get("/transaction_history/download", bankHandler.DownloadHistory)
		r.Post("/change_password", authHandler.ChangePassword)
		r.Post("/delete_account", authHandler.DeleteAccount)
		r.Post("/profile", bankHandler.UpdateProfile)
		r.Get("/profile_info", bankHandler.ProfileInfo)
	})

	return r
}
