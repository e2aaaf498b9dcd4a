package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paperie/shop-backend/internal/domain/models"
)

var ErrCouponNotFound = errors.New("coupon not found")

// CouponStorage описывает чтение купонов. Запись здесь не нужна:
// купоны заводятся напрямую в БД.
type CouponStorage interface {
	// ListActiveCoupons возвращает только активные купоны.
	ListActiveCoupons(ctx context.Context) ([]*models.Coupon, error)
	// GetActiveCouponByCode ищет активный купон по коду (код хранится в верхнем регистре).
	GetActiveCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type couponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) CouponStorage {
	return &couponRepository{db: db}
}

func (r *couponRepository) ListActiveCoupons(ctx context.Context) ([]*models.Coupon, error) {
	query := "SELECT id, code, discount, active FROM coupons WHERE active = TRUE"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*models.Coupon
	for rows.Next() {
		coupon := &models.Coupon{}
		if err := rows.Scan(&coupon.ID, &coupon.Code, &coupon.Discount, &coupon.Active); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepository) GetActiveCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	coupon := &models.Coupon{}
	query := "SELECT id, code, discount, active FROM coupons WHERE code = $1 AND active = TRUE"
	row := r.db.QueryRowContext(ctx, query, code)
	if err := row.Scan(&coupon.ID, &coupon.Code, &coupon.Discount, &coupon.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}
