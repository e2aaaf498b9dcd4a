package handlers

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/paperie/shop-backend/internal/service"
)

// OrdersCSVHandler обрабатывает GET /orders/export-csv (админ).
// Позиции и история статусов сериализуются в ячейку как JSON.
func OrdersCSVHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersCSVHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.Export(r.Context())
		if err != nil {
			respondError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)

		cw := csv.NewWriter(w)
		header := []string{"id", "tracker_code", "customer", "email", "phone", "mobile2", "address", "government", "country", "notes", "items", "total", "payment", "status", "status_history", "transaction_image", "coupon", "createdAt"}
		if err := cw.Write(header); err != nil {
			logger.Error("failed to write csv header", slog.Any("error", err))
			return
		}
		for _, o := range orders {
			itemsRaw, _ := json.Marshal(o.Items)
			historyRaw, _ := json.Marshal(o.StatusHistory)
			record := []string{
				strconv.FormatInt(o.ID, 10),
				o.TrackerCode,
				o.Customer,
				o.Email,
				o.Phone,
				o.Phone2,
				o.Address,
				o.Government,
				o.Country,
				o.Notes,
				string(itemsRaw),
				strconv.FormatFloat(o.Total, 'f', -1, 64),
				o.Payment,
				o.Status.String(),
				string(historyRaw),
				o.TransactionImage,
				o.Coupon,
				o.CreatedAt.Format(time.RFC3339),
			}
			if err := cw.Write(record); err != nil {
				logger.Error("failed to write csv record", slog.Any("error", err))
				return
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			logger.Error("csv writer error", slog.Any("error", err))
		}
	}
}

// RatingsCSVHandler обрабатывает GET /ratings/export-csv (админ).
func RatingsCSVHandler(log *slog.Logger, ratingService service.RatingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RatingsCSVHandler"
		logger := log.With(slog.String("op", op))

		ratings, err := ratingService.Export(r.Context())
		if err != nil {
			respondError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ratings.csv"`)

		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "product_name", "customer_name", "rating", "comment", "createdAt"}); err != nil {
			logger.Error("failed to write csv header", slog.Any("error", err))
			return
		}
		for _, rt := range ratings {
			record := []string{
				strconv.FormatInt(rt.ID, 10),
				rt.ProductName,
				rt.CustomerName,
				strconv.Itoa(rt.Rating),
				rt.Comment,
				rt.CreatedAt.Format(time.RFC3339),
			}
			if err := cw.Write(record); err != nil {
				logger.Error("failed to write csv record", slog.Any("error", err))
				return
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			logger.Error("csv writer error", slog.Any("error", err))
		}
	}
}
