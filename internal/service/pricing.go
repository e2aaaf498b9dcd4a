package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/paperie/shop-backend/internal/config"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/storage"
)

var (
	ErrTotalMismatch = errors.New("total does not match catalog pricing")
	ErrUnknownItem   = errors.New("item not found in catalog")
)

// PricingService пересчитывает сумму заказа по авторитетному каталогу и купону.
// В режиме enforce расхождение отклоняет заказ, иначе только пишется в лог:
// старый клиент присылает сумму, посчитанную на своей стороне.
type PricingService interface {
	VerifyTotal(ctx context.Context, order *models.Order) error
}

type pricingService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	couponRepo  storage.CouponStorage
	shippingFee float64
	enforce     bool
}

func NewPricingService(log *slog.Logger, productRepo storage.ProductStorage, couponRepo storage.CouponStorage, cfg config.PricingConfig) PricingService {
	return &pricingService{
		log:         log,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		shippingFee: cfg.ShippingFee,
		enforce:     cfg.Enforce,
	}
}

// VerifyTotal считает ожидаемую сумму: round((каталожная стоимость + доставка) * (1 - скидка/100)).
// Формула повторяет форму заказа: скидка применяется к сумме вместе с доставкой.
func (s *pricingService) VerifyTotal(ctx context.Context, order *models.Order) error {
	const op = "service.PricingService.VerifyTotal"
	logger := s.log.With(slog.String("op", op))

	var subtotal float64
	for _, item := range order.Items {
		product, err := s.productRepo.GetProductByID(ctx, item.ID)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				if s.enforce {
					return fmt.Errorf("%s: %w: item %d", op, ErrUnknownItem, item.ID)
				}
				logger.Warn("order item not in catalog, using submitted price",
					slog.Int64("itemID", item.ID), slog.String("name", item.Name))
				subtotal += item.Price * float64(item.Quantity)
				continue
			}
			return fmt.Errorf("%s: failed to get product: %w", op, err)
		}
		subtotal += product.Price * float64(item.Quantity)
	}

	var discount int
	if order.Coupon != "" {
		coupon, err := s.couponRepo.GetActiveCouponByCode(ctx, order.Coupon)
		if err != nil {
			if errors.Is(err, storage.ErrCouponNotFound) {
				// Неизвестный купон не блокирует заказ, просто без скидки
				logger.Warn("unknown or inactive coupon", slog.String("coupon", order.Coupon))
			} else {
				return fmt.Errorf("%s: failed to get coupon: %w", op, err)
			}
		} else {
			discount = coupon.Discount
		}
	}

	expected := math.Round((subtotal + s.shippingFee) * (1 - float64(discount)/100))
	if math.Abs(expected-order.Total) > 0.01 {
		if s.enforce {
			return fmt.Errorf("%s: %w: got %.2f, expected %.2f", op, ErrTotalMismatch, order.Total, expected)
		}
		logger.Warn("client total does not match catalog pricing",
			slog.Float64("got", order.Total),
			slog.Float64("expected", expected),
			slog.String("coupon", order.Coupon),
		)
	}
	return nil
}
