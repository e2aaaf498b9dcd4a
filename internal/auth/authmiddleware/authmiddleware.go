package authmiddleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/paperie/shop-backend/internal/auth"
)

// AdminOnly пропускает запрос с валидной Basic-учёткой или Bearer-токеном,
// выданным через /admin/login.
func AdminOnly(admin *auth.Admin) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if err := admin.VerifyToken(token); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || !admin.Verify(user, pass) {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DeliveryKey проверяет общий ключ курьерской компании в заголовке x-api-key.
func DeliveryKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-api-key")
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				http.Error(w, "unauthorized: invalid api key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Admin Area"`)
	http.Error(w, "authentication required", http.StatusUnauthorized)
}
