package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/service"
)

// ListProductsHandler обрабатывает GET /products.
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.List(r.Context())
		if err != nil {
			respondError(w, logger, err)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}
		writeJSON(w, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает GET /products/{id}.
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
			return
		}

		product, err := productService.GetByID(r.Context(), id)
		if err != nil {
			respondError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}
