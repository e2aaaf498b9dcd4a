package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paperie/shop-backend/internal/domain/models"
)

// RatingStorage описывает методы для работы с оценками товаров.
type RatingStorage interface {
	// CreateRating вставляет оценку и возвращает её с id и created_at.
	CreateRating(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	// ListRatingsByProduct возвращает оценки товара новые-первыми, точное совпадение имени.
	ListRatingsByProduct(ctx context.Context, productName string, limit, offset int) ([]*models.Rating, error)
	ListRatings(ctx context.Context, limit, offset int) ([]*models.Rating, error)
	// AllRatings — полная выгрузка для CSV-экспорта.
	AllRatings(ctx context.Context) ([]*models.Rating, error)
}

type ratingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) RatingStorage {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) CreateRating(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	query := `INSERT INTO ratings (product_name, customer_name, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, NOW()) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		rating.ProductName, rating.CustomerName, rating.Rating, rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return rating, nil
}

func (r *ratingRepository) ListRatingsByProduct(ctx context.Context, productName string, limit, offset int) ([]*models.Rating, error) {
	query := `SELECT id, product_name, customer_name, rating, comment, created_at
	          FROM ratings WHERE product_name = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, productName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	return collectRatings(rows)
}

func (r *ratingRepository) ListRatings(ctx context.Context, limit, offset int) ([]*models.Rating, error) {
	query := `SELECT id, product_name, customer_name, rating, comment, created_at
	          FROM ratings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	return collectRatings(rows)
}

func (r *ratingRepository) AllRatings(ctx context.Context) ([]*models.Rating, error) {
	query := `SELECT id, product_name, customer_name, rating, comment, created_at
	          FROM ratings ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	return collectRatings(rows)
}

func collectRatings(rows *sql.Rows) ([]*models.Rating, error) {
	var ratings []*models.Rating
	for rows.Next() {
		rating := &models.Rating{}
		if err := rows.Scan(&rating.ID, &rating.ProductName, &rating.CustomerName, &rating.Rating, &rating.Comment, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}
