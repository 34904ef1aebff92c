package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/types"
)

// ReviewService handles review operations and owns the recipe rating
// aggregate: it is the only writer of average_rating and total_ratings.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new ReviewService instance
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// RatingCount is one row of the rating distribution aggregation.
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// CreateReview posts a review on a recipe. Authors may not review their own
// recipes, and each user gets at most one review per recipe.
func (s *ReviewService) CreateReview(ctx context.Context, userID, recipeID uuid.UUID, req *types.ReviewRequest) (*models.Review, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if recipe.AuthorID == userID {
		return nil, ErrOwnRecipe
	}

	var existing models.Review
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := models.Review{
		RecipeID: recipeID,
		UserID:   userID,
		Rating:   req.Rating,
		Title:    req.Title,
		Comment:  req.Comment,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		// The unique index is the backstop for concurrent double-submits.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	s.RecomputeRating(ctx, recipeID)
	return &review, nil
}

// UpdateReview replaces the mutable fields of an already-authorized review.
func (s *ReviewService) UpdateReview(ctx context.Context, review *models.Review, req *types.ReviewRequest) (*models.Review, error) {
	review.Rating = req.Rating
	review.Title = req.Title
	review.Comment = req.Comment
	if err := s.db.WithContext(ctx).Save(review).Error; err != nil {
		return nil, err
	}

	s.RecomputeRating(ctx, review.RecipeID)
	return review, nil
}

// DeleteReview removes an already-authorized review.
func (s *ReviewService) DeleteReview(ctx context.Context, review *models.Review) error {
	if err := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
		return err
	}

	s.RecomputeRating(ctx, review.RecipeID)
	return nil
}

// RecomputeRating rewrites a recipe's average_rating and total_ratings from
// the full live review set. Always a recompute from scratch, never an
// incremental adjustment, so the aggregate cannot drift from ground truth.
// The review write it follows has already committed, so failures here are
// logged and dropped; the next review mutation repairs the aggregate.
func (s *ReviewService) RecomputeRating(ctx context.Context, recipeID uuid.UUID) {
	var result struct {
		Average float64
		Total   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Where("recipe_id = ?", recipeID).
		Scan(&result).Error
	if err != nil {
		log.Printf("failed to aggregate ratings for recipe %s: %v", recipeID, err)
		return
	}

	average := 0.0
	if result.Total > 0 {
		// Round half-up to one decimal place.
		average = math.Floor(result.Average*10+0.5) / 10
	}

	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_ratings":  result.Total,
		}).Error
	if err != nil {
		log.Printf("failed to update rating for recipe %s: %v", recipeID, err)
	}
}

// GetReview fetches a review by id.
func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// ListForRecipe returns a recipe's reviews plus the rating distribution.
// sortBy is one of "recent", "rating", "helpful".
func (s *ReviewService) ListForRecipe(ctx context.Context, recipeID uuid.UUID, sortBy string, page, limit int) ([]models.Review, []RatingCount, int64, error) {
	if _, err := s.recipeExists(ctx, recipeID); err != nil {
		return nil, nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	order := "created_at DESC"
	switch sortBy {
	case "rating":
		order = "rating DESC"
	case "helpful":
		order = "helpful_votes DESC"
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("recipe_id = ?", recipeID).
		Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order(order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, nil, 0, err
	}

	var distribution []RatingCount
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) as count").
		Where("recipe_id = ?", recipeID).
		Group("rating").
		Order("rating DESC").
		Scan(&distribution).Error; err != nil {
		return nil, nil, 0, err
	}

	return reviews, distribution, total, nil
}

// ListForUser returns a user's reviews, newest first.
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

// MarkHelpful increments a review's helpful vote counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + 1")).Error; err != nil {
		return nil, err
	}
	review.HelpfulVotes++
	return review, nil
}

// HasReviewed returns the user's review of the recipe, if any.
func (s *ReviewService) HasReviewed(ctx context.Context, userID, recipeID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) recipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return true, nil
}
