package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paperie/shop-backend/internal/domain/models"
	"github.com/paperie/shop-backend/internal/storage"
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// RatingService принимает и отдаёт оценки товаров. Привязка к доставленным
// заказам остаётся на совести UI, сервер её не проверяет.
type RatingService interface {
	Submit(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	ListByProduct(ctx context.Context, productName string, limit, offset int) ([]*models.Rating, error)
	List(ctx context.Context, limit, offset int) ([]*models.Rating, error)
	Export(ctx context.Context) ([]*models.Rating, error)
}

type ratingService struct {
	log        *slog.Logger
	ratingRepo storage.RatingStorage
}

func NewRatingService(log *slog.Logger, ratingRepo storage.RatingStorage) RatingService {
	return &ratingService{log: log, ratingRepo: ratingRepo}
}

func (s *ratingService) Submit(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	const op = "service.RatingService.Submit"
	logger := s.log.With(slog.String("op", op), slog.String("product", rating.ProductName))

	// Раньше диапазон никто не проверял, форма могла прислать что угодно
	if rating.Rating < 1 || rating.Rating > 5 {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrRatingOutOfRange, rating.Rating)
	}

	created, err := s.ratingRepo.CreateRating(ctx, rating)
	if err != nil {
		logger.Error("failed to create rating", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create rating: %w", op, err)
	}
	logger.Info("rating submitted", slog.Int("rating", created.Rating))
	return created, nil
}

func (s *ratingService) ListByProduct(ctx context.Context, productName string, limit, offset int) ([]*models.Rating, error) {
	const op = "service.RatingService.ListByProduct"
	ratings, err := s.ratingRepo.ListRatingsByProduct(ctx, productName, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ratings, nil
}

func (s *ratingService) List(ctx context.Context, limit, offset int) ([]*models.Rating, error) {
	const op = "service.RatingService.List"
	ratings, err := s.ratingRepo.ListRatings(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ratings, nil
}

func (s *ratingService) Export(ctx context.Context) ([]*models.Rating, error) {
	const op = "service.RatingService.Export"
	ratings, err := s.ratingRepo.AllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ratings, nil
}
