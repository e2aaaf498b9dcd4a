package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/pkg/errors"

	"github.com/paperie/shop-backend/internal/app"
	"github.com/paperie/shop-backend/internal/app/handlers"
	"github.com/paperie/shop-backend/internal/auth"
	"github.com/paperie/shop-backend/internal/auth/authmiddleware"
	"github.com/paperie/shop-backend/internal/config"
	"github.com/paperie/shop-backend/internal/filestore"
	"github.com/paperie/shop-backend/internal/lib/logger"
	"github.com/paperie/shop-backend/internal/lib/logger/handlers/urllog"
	"github.com/paperie/shop-backend/internal/service"
	"github.com/paperie/shop-backend/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	admin, err := auth.NewAdmin(cfg.Admin, cfg.JWT)
	if err != nil {
		log.Error("failed to initialize admin auth", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize admin auth"))
	}

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	// грубый лимит по адресу клиента, одинаковый для всех эндпоинтов
	router.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))

	// реализация слоев по работе с БД по каждому направлению
	orderRepo := storage.NewOrderRepository(application.DB)
	couponRepo := storage.NewCouponRepository(application.DB)
	ratingRepo := storage.NewRatingRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)

	pricingService := service.NewPricingService(application.Logger, productRepo, couponRepo, cfg.Pricing)
	orderService := service.NewOrderService(application.Logger, orderRepo, pricingService)
	couponService := service.NewCouponService(application.Logger, couponRepo)
	ratingService := service.NewRatingService(application.Logger, ratingRepo)
	productService := service.NewProductService(application.Logger, productRepo)

	imageStore := filestore.NewSupabaseStore(cfg.Storage)

	// публичные эндпоинты
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("API is running..."))
	})
	router.Post("/orders", handlers.CreateOrderHandler(application.Logger, orderService))
	router.Get("/orders/track/{tracker_code}", handlers.TrackOrderHandler(application.Logger, orderService))
	router.Get("/orders/history", handlers.OrderHistoryHandler(application.Logger, orderService))
	router.Get("/coupons", handlers.ListCouponsHandler(application.Logger, couponService))
	router.Get("/products", handlers.ListProductsHandler(application.Logger, productService))
	router.Get("/products/{id}", handlers.GetProductHandler(application.Logger, productService))
	router.Post("/ratings", handlers.SubmitRatingHandler(application.Logger, ratingService))
	router.Get("/ratings/{product_name}", handlers.ListProductRatingsHandler(application.Logger, ratingService))
	router.Post("/upload-transaction-image", handlers.UploadTransactionImageHandler(application.Logger, imageStore))
	// эмуляция вызова курьерской компании, ключ в теле запроса
	router.Post("/company-api/update-order", handlers.CompanyUpdateOrderHandler(application.Logger, orderService, cfg.Delivery.APIKey))
	// обмен Basic-учётки на токен админ-панели
	router.Post("/admin/login", handlers.AdminLoginHandler(application.Logger, admin))

	// эндпоинт курьерской компании, ключ в заголовке x-api-key
	router.With(authmiddleware.DeliveryKey(cfg.Delivery.APIKey)).
		Patch("/orders/update-status/{tracker_code}", handlers.DeliveryUpdateStatusHandler(application.Logger, orderService))

	// админские эндпоинты
	router.Group(func(r chi.Router) {
		r.Use(authmiddleware.AdminOnly(admin))
		r.Get("/orders", handlers.AdminListOrdersHandler(application.Logger, orderService))
		r.Patch("/orders/{id}", handlers.AdminUpdateStatusHandler(application.Logger, orderService))
		r.Get("/orders/export-csv", handlers.OrdersCSVHandler(application.Logger, orderService))
		r.Get("/ratings/all", handlers.AdminListRatingsHandler(application.Logger, ratingService))
		r.Get("/ratings/export-csv", handlers.RatingsCSVHandler(application.Logger, ratingService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
