package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/service"
)

// OrderRequest — входной JSON формы заказа с тегами валидации.
// Схема повторяет публичный контракт: обязателен контакт и хотя бы одна позиция.
type OrderRequest struct {
	Customer         string             `json:"customer" validate:"required,min=2"`
	Email            string             `json:"email" validate:"required,email"`
	Phone            string             `json:"phone" validate:"required,len=11,numeric"`
	Address          string             `json:"address" validate:"required,min=5"`
	Items            []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total            *float64           `json:"total" validate:"required,gte=0"`
	Payment          string             `json:"payment" validate:"required,oneof=cod instapay vodafone"`
	Notes            string             `json:"notes"`
	Government       string             `json:"government"`
	Country          string             `json:"country"`
	Mobile2          string             `json:"mobile2"`
	TransactionImage string             `json:"transaction_image"`
	Coupon           string             `json:"coupon"`
	CreatedAt        string             `json:"createdAt"` // игнорируется, время ставит сервер
}

type OrderItemRequest struct {
	ID       int64   `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// StatusUpdateRequest — тело PATCH-запросов смены статуса.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// CreateOrderHandler обрабатывает POST /orders.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}

		// Валидация структуры запроса, наружу уходит первое нарушенное поле
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: firstViolation(err)})
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, models.OrderItem{
				ID:       it.ID,
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}
		order := &models.Order{
			Customer:         req.Customer,
			Email:            req.Email,
			Phone:            req.Phone,
			Phone2:           req.Mobile2,
			Address:          req.Address,
			Government:       req.Government,
			Country:          req.Country,
			Notes:            req.Notes,
			Items:            items,
			Total:            *req.Total,
			Payment:          req.Payment,
			TransactionImage: req.TransactionImage,
			Coupon:           req.Coupon,
		}

		created, err := orderService.Create(r.Context(), order)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		// Публичный ответ: внутренний id наружу не отдаём, только tracker_code
		writeJSON(w, http.StatusCreated, created.Public())
	}
}

// TrackOrderHandler обрабатывает GET /orders/track/{tracker_code}.
func TrackOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TrackOrderHandler"
		logger := log.With(slog.String("op", op))

		code := chi.URLParam(r, "tracker_code")
		if code == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "tracker_code is required"})
			return
		}

		order, err := orderService.TrackByCode(r.Context(), code)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, order.Public())
	}
}

// OrderHistoryHandler обрабатывает GET /orders/history?query= —
// публичный поиск по подстроке email или телефона.
func OrderHistoryHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderHistoryHandler"
		logger := log.With(slog.String("op", op))

		query := r.URL.Query().Get("query")
		if query == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "query is required"})
			return
		}

		limit, offset := pagination(r)
		orders, err := orderService.SearchByContact(r.Context(), query, limit, offset)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		public := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			public = append(public, o.Public())
		}
		writeJSON(w, http.StatusOK, public)
	}
}

// AdminListOrdersHandler обрабатывает GET /orders (админ).
func AdminListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListOrdersHandler"
		logger := log.With(slog.String("op", op))

		limit, offset := pagination(r)
		orders, err := orderService.List(r.Context(), limit, offset)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// AdminUpdateStatusHandler обрабатывает PATCH /orders/{id} (админ).
func AdminUpdateStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminUpdateStatusHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
			return
		}

		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "status is required"})
			return
		}

		order, err := orderService.AdminUpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// DeliveryUpdateStatusHandler обрабатывает PATCH /orders/update-status/{tracker_code}.
// Ключ курьерской компании проверяет middleware, здесь только тело запроса.
func DeliveryUpdateStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeliveryUpdateStatusHandler"
		logger := log.With(slog.String("op", op))

		code := chi.URLParam(r, "tracker_code")

		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "status is required"})
			return
		}

		order, err := orderService.DeliveryUpdateStatus(r.Context(), code, req.Status)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// CompanyUpdateRequest — тело эмуляции вызова курьерской компании:
// ключ передаётся в теле, а не в заголовке.
type CompanyUpdateRequest struct {
	TrackerCode string `json:"tracker_code"`
	Status      string `json:"status"`
	APIKey      string `json:"apiKey"`
}

type CompanyUpdateResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

// CompanyUpdateOrderHandler обрабатывает POST /company-api/update-order.
func CompanyUpdateOrderHandler(log *slog.Logger, orderService service.OrderService, apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CompanyUpdateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CompanyUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}
		if req.APIKey != apiKey {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized: invalid api key"})
			return
		}
		if req.TrackerCode == "" || req.Status == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "tracker_code and status are required"})
			return
		}

		order, err := orderService.DeliveryUpdateStatus(r.Context(), req.TrackerCode, req.Status)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, CompanyUpdateResponse{
			Message: "order status updated by company",
			Order:   order,
		})
	}
}
