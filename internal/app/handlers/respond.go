package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paperie/shop-backend/internal/service"
	"github.com/paperie/shop-backend/internal/storage"
)

var validate = validator.New()

// Постраничная выдача для списков и поиска
const (
	defaultLimit = 50
	maxLimit     = 200
)

// ErrorResponse — единый формат ошибок API.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus отображает таксономию ошибок сервиса на HTTP-коды.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrCouponNotFound),
		errors.Is(err, storage.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrUnsupportedPayment),
		errors.Is(err, service.ErrTotalMismatch),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrRatingOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errorStatus(err)
	logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// firstViolation возвращает сообщение о первом нарушенном поле.
func firstViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return "validation error"
}

// pagination читает limit/offset из query с дефолтом и верхней границей.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
