package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("not the review owner")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// ReviewService owns the review set and the product rating aggregate derived
// from it. Every review mutation recomputes the aggregate, writes it onto the
// product, and invalidates product and review caches. The stored aggregate
// must always reflect the current review set.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	cache       *cache.Store
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, store *cache.Store) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo, cache: store}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	key := cache.ReviewsKey(productID)
	if cached, ok := s.cache.Get(key); ok {
		var reviews []model.Review
		if json.Unmarshal(cached, &reviews) == nil {
			return reviews, nil
		}
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	if data, err := json.Marshal(reviews); err == nil {
		s.cache.Set(key, data)
	}
	return reviews, nil
}

// Upsert creates the user's review for the product, or overwrites rating and
// comment if one already exists. One review per (user, product) is enforced
// by this lookup, not by a storage constraint. Returns true when an existing
// review was updated.
func (s *ReviewService) Upsert(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return false, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("find review: %w", err)
	}

	updated := existing != nil
	if updated {
		existing.Rating = rating
		existing.Comment = comment
		if err := s.reviewRepo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("update review: %w", err)
		}
	} else {
		review := &model.Review{UserID: userID, ProductID: productID, Rating: rating, Comment: comment}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return false, fmt.Errorf("create review: %w", err)
		}
	}

	// The review row is already written, so the cached list and product are
	// stale no matter what happens to the aggregate. Invalidate before
	// surfacing any refresh error.
	aggErr := s.refreshAggregate(ctx, productID)
	s.cache.Invalidate(cache.Invalidation{
		Product:    true,
		Admin:      true,
		Review:     true,
		ProductIDs: []uuid.UUID{productID},
	})
	return updated, aggErr
}

func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != userID {
		return ErrNotReviewOwner
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	aggErr := s.refreshAggregate(ctx, review.ProductID)
	s.cache.Invalidate(cache.Invalidation{
		Product:    true,
		Admin:      true,
		Review:     true,
		ProductIDs: []uuid.UUID{review.ProductID},
	})
	return aggErr
}

// Recompute derives the product's mean rating and review count from its full
// current review set: the mean is rounded to one decimal, zero when there are
// no reviews. Idempotent: it reads, never writes.
func (s *ReviewService) Recompute(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	sum, count, err := s.reviewRepo.Aggregate(ctx, productID)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	if count == 0 {
		return 0, 0, nil
	}

	mean := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(count))).
		Round(1).
		InexactFloat64()
	return mean, count, nil
}

func (s *ReviewService) refreshAggregate(ctx context.Context, productID uuid.UUID) error {
	ratings, count, err := s.Recompute(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.UpdateRating(ctx, productID, ratings, count); err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}
