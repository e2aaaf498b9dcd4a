package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/service"
)

// ListCouponsHandler обрабатывает GET /coupons — активные купоны для формы заказа.
func ListCouponsHandler(log *slog.Logger, couponService service.CouponService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCouponsHandler"
		logger := log.With(slog.String("op", op))

		coupons, err := couponService.ListActive(r.Context())
		if err != nil {
			respondError(w, logger, err)
			return
		}
		if coupons == nil {
			coupons = []*models.Coupon{}
		}
		writeJSON(w, http.StatusOK, coupons)
	}
}
