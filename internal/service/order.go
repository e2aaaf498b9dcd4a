package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/storage"
)

var (
	ErrUnknownStatus      = errors.New("unknown status")
	ErrInvalidTransition  = errors.New("transition not allowed")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
)

// Сколько раз повторяем условный UPDATE статуса при конфликте версий,
// прежде чем отдать ошибку наверх.
const statusUpdateRetries = 3

// OrderService определяет жизненный цикл заказа: создание, трекинг и смену статусов
// тремя акторами (админ, курьерская компания, публичные выборки).
type OrderService interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	TrackByCode(ctx context.Context, code string) (*models.Order, error)
	// AdminUpdateStatus применяет статус, запрошенный админом, по внутреннему id.
	// Особый случай: Pending + запрошенный Approved превращается в New Order.
	AdminUpdateStatus(ctx context.Context, id int64, requested string) (*models.Order, error)
	// DeliveryUpdateStatus — то же для курьерской компании, по tracker_code и без коэрции.
	DeliveryUpdateStatus(ctx context.Context, trackerCode, requested string) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	SearchByContact(ctx context.Context, query string, limit, offset int) ([]*models.Order, error)
	Export(ctx context.Context) ([]*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	pricing   PricingService
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, pricing PricingService) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		pricing:   pricing,
	}
}

// NewTrackerCode генерирует публичный код отслеживания: первый сегмент uuid
// в верхнем регистре. Коллизия при ожидаемых объёмах пренебрежимо маловероятна,
// уникальность дополнительно страхует индекс в БД.
func NewTrackerCode() string {
	return strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
}

// Create валидирует бизнес-часть заказа, назначает начальный статус по способу
// оплаты, выдаёт tracker_code и сохраняет заказ.
func (s *orderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	const op = "service.OrderService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("payment", order.Payment))

	switch order.Payment {
	case models.PaymentCOD:
		order.Status = models.StatusNew
	case models.PaymentInstapay, models.PaymentVodafone:
		order.Status = models.StatusPending
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedPayment, order.Payment)
	}

	order.Coupon = strings.ToUpper(strings.TrimSpace(order.Coupon))

	if err := s.pricing.VerifyTotal(ctx, order); err != nil {
		logger.Error("pricing check failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order.TrackerCode = NewTrackerCode()
	// История пустая: она растёт с первой смены статуса, начальный статус в ней не дублируется
	order.StatusHistory = nil

	created, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	logger.Info("order created",
		slog.Int64("orderID", created.ID),
		slog.String("trackerCode", created.TrackerCode),
		slog.String("status", created.Status.String()),
	)
	return created, nil
}

func (s *orderService) TrackByCode(ctx context.Context, code string) (*models.Order, error) {
	const op = "service.OrderService.TrackByCode"
	order, err := s.orderRepo.GetOrderByTrackerCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *orderService) AdminUpdateStatus(ctx context.Context, id int64, requested string) (*models.Order, error) {
	const op = "service.OrderService.AdminUpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", id), slog.String("requested", requested))

	status, ok := models.ParseStatus(requested)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownStatus, requested)
	}

	fetch := func(ctx context.Context) (*models.Order, error) {
		return s.orderRepo.GetOrderByID(ctx, id)
	}
	order, err := s.applyStatus(ctx, logger, fetch, status, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("order status updated by admin", slog.String("status", order.Status.String()))
	return order, nil
}

func (s *orderService) DeliveryUpdateStatus(ctx context.Context, trackerCode, requested string) (*models.Order, error) {
	const op = "service.OrderService.DeliveryUpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.String("trackerCode", trackerCode), slog.String("requested", requested))

	status, ok := models.ParseStatus(requested)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownStatus, requested)
	}

	fetch := func(ctx context.Context) (*models.Order, error) {
		return s.orderRepo.GetOrderByTrackerCode(ctx, trackerCode)
	}
	order, err := s.applyStatus(ctx, logger, fetch, status, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("order status updated by delivery company", slog.String("status", order.Status.String()))
	return order, nil
}

// applyStatus перечитывает заказ, проверяет переход по таблице и пишет новый
// статус условным UPDATE. При конфликте версий повторяет цикл целиком:
// после перечитывания переход валидируется заново.
func (s *orderService) applyStatus(ctx context.Context, logger *slog.Logger, fetch func(context.Context) (*models.Order, error), requested models.Status, coerce bool) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < statusUpdateRetries; attempt++ {
		order, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		effective := requested
		// Одобрение предоплаченного заказа сразу ставит его в очередь исполнения
		if coerce && order.Status == models.StatusPending && requested == models.StatusApproved {
			effective = models.StatusNew
		}

		if !order.Status.CanTransitionTo(effective) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, effective)
		}

		history := append(order.StatusHistory, models.StatusChange{
			Status:    effective,
			ChangedAt: time.Now().UTC(),
		})

		err = s.orderRepo.UpdateOrderStatus(ctx, order.ID, effective, history, order.Version)
		if err == nil {
			order.Status = effective
			order.StatusHistory = history
			order.Version++
			return order, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		logger.Warn("order version conflict, retrying", slog.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

func (s *orderService) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "service.OrderService.List"
	orders, err := s.orderRepo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) SearchByContact(ctx context.Context, query string, limit, offset int) ([]*models.Order, error) {
	const op = "service.OrderService.SearchByContact"
	orders, err := s.orderRepo.SearchOrdersByContact(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) Export(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.Export"
	orders, err := s.orderRepo.AllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
