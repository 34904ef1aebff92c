package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfolio/backend/internal/middleware"
	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/types"
)

// ReviewHandler handles review requests.
type ReviewHandler struct {
	reviews     *service.ReviewService
	sessions    middleware.SessionValidator
	rateLimiter *middleware.RateLimiter
}

// NewReviewHandler creates a new ReviewHandler. rateLimiter may be nil when
// Redis is unavailable; review creation is then unthrottled.
func NewReviewHandler(reviews *service.ReviewService, sessions middleware.SessionValidator, rateLimiter *middleware.RateLimiter) *ReviewHandler {
	return &ReviewHandler{
		reviews:     reviews,
		sessions:    sessions,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers the review routes
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("/recipe/:recipeId", h.ListForRecipe)
		reviews.GET("/user/:userId", h.ListForUser)
		reviews.GET("/check/:recipeId", middleware.RequireAuth(h.sessions), h.CheckReviewed)
		reviews.GET("/:id", h.GetReview)

		create := []gin.HandlerFunc{middleware.RequireAuth(h.sessions)}
		if h.rateLimiter != nil {
			create = append(create, h.rateLimiter.RateLimitMiddleware())
		}
		create = append(create, h.CreateReview)
		reviews.POST("/recipe/:recipeId", create...)

		reviews.PUT("/:id", middleware.RequireAuth(h.sessions), middleware.RequireOwner(h.lookupReview), h.UpdateReview)
		reviews.DELETE("/:id", middleware.RequireAuth(h.sessions), middleware.RequireOwner(h.lookupReview), h.DeleteReview)
		reviews.POST("/:id/helpful", middleware.RequireAuth(h.sessions), h.MarkHelpful)
	}
}

func (h *ReviewHandler) lookupReview(ctx context.Context, id uuid.UUID) (middleware.Owned, error) {
	return h.reviews.GetReview(ctx, id)
}

// ListForRecipe returns a recipe's reviews with the rating distribution.
func (h *ReviewHandler) ListForRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sortBy := c.DefaultQuery("sort_by", "recent")

	reviews, distribution, total, err := h.reviews.ListForRecipe(c.Request.Context(), recipeID, sortBy, page, limit)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"reviews":             reviews,
		"rating_distribution": distribution,
		"pagination": types.Pagination{
			Current: page,
			Pages:   pages(total, limit),
			Total:   total,
		},
	})
}

// ListForUser returns a user's reviews.
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	reviews, total, err := h.reviews.ListForUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"pagination": types.Pagination{
			Current: page,
			Pages:   pages(total, limit),
			Total:   total,
		},
	})
}

// GetReview returns a single review.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	review, err := h.reviews.GetReview(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// CreateReview posts a review on a recipe and triggers the rating recompute.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userID, recipeID, &req)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review added successfully",
		"review":  review,
	})
}

// UpdateReview updates an owned review and triggers the rating recompute.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	review := c.MustGet(middleware.ContextResource).(*models.Review)

	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	updated, err := h.reviews.UpdateReview(c.Request.Context(), review, &req)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review updated successfully",
		"review":  updated,
	})
}

// DeleteReview deletes an owned review and triggers the rating recompute.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	review := c.MustGet(middleware.ContextResource).(*models.Review)

	if err := h.reviews.DeleteReview(c.Request.Context(), review); err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted successfully",
	})
}

// MarkHelpful increments a review's helpful vote counter.
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	review, err := h.reviews.MarkHelpful(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"helpful_votes": review.HelpfulVotes,
	})
}

// CheckReviewed reports whether the caller has reviewed the recipe.
func (h *ReviewHandler) CheckReviewed(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	review, err := h.reviews.HasReviewed(c.Request.Context(), userID, recipeID)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"has_reviewed": review != nil,
		"review":       review,
	})
}
