package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/storage"
)

// CouponService отдаёт активные купоны и резолвит код в процент скидки.
type CouponService interface {
	ListActive(ctx context.Context) ([]*models.Coupon, error)
	// Resolve возвращает скидку по коду; регистр не важен, сравнение после
	// приведения к верхнему регистру.
	Resolve(ctx context.Context, code string) (int, error)
}

type couponService struct {
	log        *slog.Logger
	couponRepo storage.CouponStorage
}

func NewCouponService(log *slog.Logger, couponRepo storage.CouponStorage) CouponService {
	return &couponService{log: log, couponRepo: couponRepo}
}

func (s *couponService) ListActive(ctx context.Context) ([]*models.Coupon, error) {
	const op = "service.CouponService.ListActive"
	coupons, err := s.couponRepo.ListActiveCoupons(ctx)
	if err != nil {
		s.log.Error("failed to list coupons", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return coupons, nil
}

func (s *couponService) Resolve(ctx context.Context, code string) (int, error) {
	const op = "service.CouponService.Resolve"
	coupon, err := s.couponRepo.GetActiveCouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return coupon.Discount, nil
}
