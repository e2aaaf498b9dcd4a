package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paperie/shop-backend/internal/auth"
)

// LoginResponse — JWT для админ-панели.
type LoginResponse struct {
	Token string `json:"token"`
}

// AdminLoginHandler обрабатывает POST /admin/login: обменивает Basic-учётку
// на токен, чтобы панель не хранила пароль в браузере.
func AdminLoginHandler(log *slog.Logger, admin *auth.Admin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminLoginHandler"
		logger := log.With(slog.String("op", op))

		user, pass, ok := r.BasicAuth()
		if !ok || !admin.Verify(user, pass) {
			logger.Warn("invalid admin credentials")
			w.Header().Set("WWW-Authenticate", `Basic realm="Admin Area"`)
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}

		token, err := admin.NewToken()
		if err != nil {
			logger.Error("failed to generate token", slog.Any("error", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
