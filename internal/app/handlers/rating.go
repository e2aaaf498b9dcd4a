package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/service"
)

// RatingRequest — входной JSON оценки, все четыре поля обязательны.
type RatingRequest struct {
	ProductName  string `json:"product_name" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"required"`
}

// SubmitRatingHandler обрабатывает POST /ratings.
func SubmitRatingHandler(log *slog.Logger, ratingService service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitRatingHandler"
		logger := log.With(slog.String("op", op))

		var req RatingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: firstViolation(err)})
			return
		}

		rating := &models.Rating{
			ProductName:  req.ProductName,
			CustomerName: req.CustomerName,
			Rating:       req.Rating,
			Comment:      req.Comment,
		}
		created, err := ratingService.Submit(r.Context(), rating)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// ListProductRatingsHandler обрабатывает GET /ratings/{product_name}.
func ListProductRatingsHandler(log *slog.Logger, ratingService service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductRatingsHandler"
		logger := log.With(slog.String("op", op))

		productName := chi.URLParam(r, "product_name")
		if productName == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "product_name is required"})
			return
		}

		limit, offset := pagination(r)
		ratings, err := ratingService.ListByProduct(r.Context(), productName, limit, offset)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		if ratings == nil {
			ratings = []*models.Rating{}
		}
		writeJSON(w, http.StatusOK, ratings)
	}
}

// AdminListRatingsHandler обрабатывает GET /ratings/all (админ).
func AdminListRatingsHandler(log *slog.Logger, ratingService service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListRatingsHandler"
		logger := log.With(slog.String("op", op))

		limit, offset := pagination(r)
		ratings, err := ratingService.List(r.Context(), limit, offset)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		if ratings == nil {
			ratings = []*models.Rating{}
		}
		writeJSON(w, http.StatusOK, ratings)
	}
}
