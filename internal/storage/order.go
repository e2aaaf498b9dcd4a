package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paperie/shop-backend/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrVersionConflict — условный UPDATE не прошёл: заказ успел измениться
	// между чтением и записью.
	ErrVersionConflict = errors.New("order version conflict")
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет новый заказ и возвращает его с проставленными id и created_at.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByTrackerCode(ctx context.Context, code string) (*models.Order, error)
	// ListOrders возвращает заказы новые-первыми, постранично.
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	// SearchOrdersByContact ищет по подстроке в email или phone без учёта регистра.
	SearchOrdersByContact(ctx context.Context, query string, limit, offset int) ([]*models.Order, error)
	// AllOrders — полная выгрузка для CSV-экспорта.
	AllOrders(ctx context.Context) ([]*models.Order, error)
	// UpdateOrderStatus записывает новый статус и историю условно по version.
	// Если строка с указанной версией не найдена — ErrVersionConflict.
	UpdateOrderStatus(ctx context.Context, id int64, status models.Status, history []models.StatusChange, version int64) error
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = `id, tracker_code, customer, email, phone, phone2, address, government, country, notes, items, total, payment, status, status_history, transaction_image, coupon, created_at, version`

// scanOrder разбирает одну строку выборки; items и status_history лежат в jsonb.
func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	order := &models.Order{}
	var (
		status       string
		itemsRaw     []byte
		historyRaw   []byte
		phone2       sql.NullString
		government   sql.NullString
		country      sql.NullString
		notes        sql.NullString
		txImage      sql.NullString
		coupon       sql.NullString
	)
	if err := row.Scan(
		&order.ID, &order.TrackerCode, &order.Customer, &order.Email, &order.Phone,
		&phone2, &order.Address, &government, &country, &notes,
		&itemsRaw, &order.Total, &order.Payment, &status, &historyRaw,
		&txImage, &coupon, &order.CreatedAt, &order.Version,
	); err != nil {
		return nil, err
	}
	order.Phone2 = phone2.String
	order.Government = government.String
	order.Country = country.String
	order.Notes = notes.String
	order.TransactionImage = txImage.String
	order.Coupon = coupon.String
	order.Status = models.Status(status)
	if err := json.Unmarshal(itemsRaw, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if len(historyRaw) > 0 {
		if err := json.Unmarshal(historyRaw, &order.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status history: %w", err)
		}
	}
	return order, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	itemsRaw, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}
	historyRaw, err := json.Marshal(order.StatusHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status history: %w", err)
	}

	query := `INSERT INTO orders (tracker_code, customer, email, phone, phone2, address, government, country, notes, items, total, payment, status, status_history, transaction_image, coupon, created_at, version)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), 1)
	          RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query,
		order.TrackerCode, order.Customer, order.Email, order.Phone, order.Phone2,
		order.Address, order.Government, order.Country, order.Notes,
		itemsRaw, order.Total, order.Payment, string(order.Status), historyRaw,
		order.TransactionImage, order.Coupon,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.Version = 1
	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderByTrackerCode(ctx context.Context, code string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE tracker_code = $1", code)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) SearchOrdersByContact(ctx context.Context, query string, limit, offset int) ([]*models.Order, error) {
	q := "SELECT " + orderColumns + ` FROM orders
		WHERE email ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) AllOrders(ctx context.Context) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.Status, history []models.StatusChange, version int64) error {
	historyRaw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal status history: %w", err)
	}
	query := `UPDATE orders SET status = $1, status_history = $2, version = version + 1 WHERE id = $3 AND version = $4`
	res, err := r.db.ExecContext(ctx, query, string(status), historyRaw, id, version)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
