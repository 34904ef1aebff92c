package api

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfolio/backend/internal/middleware"
	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/types"
)

// RecipeHandler handles recipe requests.
type RecipeHandler struct {
	recipes  *service.RecipeService
	images   *service.ImageService
	sessions middleware.SessionValidator
}

// NewRecipeHandler creates a new RecipeHandler. images may be nil when no
// object storage is configured; uploads are then rejected.
func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService, sessions middleware.SessionValidator) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		images:   images,
		sessions: sessions,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/featured", h.FeaturedRecipes)
		recipes.GET("/recent", h.RecentRecipes)
		recipes.GET("/categories", h.CategoryCounts)
		recipes.GET("/user/:userId", h.RecipesByUser)
		recipes.GET("/mine", middleware.RequireAuth(h.sessions), h.MyRecipes)
		recipes.GET("/:id", middleware.AttachUser(h.sessions, nil), h.GetRecipe)
		recipes.POST("", middleware.RequireAuth(h.sessions), h.CreateRecipe)
		recipes.PUT("/:id", middleware.RequireAuth(h.sessions), middleware.RequireOwner(h.lookupRecipe), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireAuth(h.sessions), middleware.RequireOwner(h.lookupRecipe), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.RequireAuth(h.sessions), h.ToggleFavorite)
		recipes.GET("/:id/favorite-status", middleware.RequireAuth(h.sessions), h.FavoriteStatus)
	}
}

func (h *RecipeHandler) lookupRecipe(ctx context.Context, id uuid.UUID) (middleware.Owned, error) {
	return h.recipes.GetRecipe(ctx, id)
}

func pages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ListRecipes returns published recipes with filtering, sorting and
// pagination.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.RecipeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failValidation(c, err)
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 12
	}

	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), &q)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipes": recipes,
		"pagination": types.Pagination{
			Current: q.Page,
			Pages:   pages(total, q.Limit),
			Total:   total,
			Limit:   q.Limit,
		},
	})
}

// FeaturedRecipes returns the highest rated published recipes.
func (h *RecipeHandler) FeaturedRecipes(c *gin.Context) {
	recipes, err := h.recipes.FeaturedRecipes(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

// RecentRecipes returns the latest published recipes.
func (h *RecipeHandler) RecentRecipes(c *gin.Context) {
	recipes, err := h.recipes.RecentRecipes(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

// CategoryCounts returns recipe counts grouped by category.
func (h *RecipeHandler) CategoryCounts(c *gin.Context) {
	counts, err := h.recipes.CategoryCounts(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": counts})
}

// RecipesByUser returns a user's published recipes.
func (h *RecipeHandler) RecipesByUser(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	recipes, total, err := h.recipes.RecipesByUser(c.Request.Context(), authorID, page, limit)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipes": recipes,
		"pagination": types.Pagination{
			Current: page,
			Pages:   pages(total, limit),
			Total:   total,
		},
	})
}

// MyRecipes returns the current user's recipes, drafts included.
func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	recipes, err := h.recipes.MyRecipes(c.Request.Context(), userID)
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipes": recipes})
}

// GetRecipe returns a single recipe and bumps its view counter. Optional
// auth: drafts are visible to their author only.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	var viewerID *uuid.UUID
	if v, exists := c.Get(middleware.ContextUserID); exists {
		uid := v.(uuid.UUID)
		viewerID = &uid
	}

	recipe, err := h.recipes.ViewRecipe(c.Request.Context(), id, viewerID)
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipe": recipe})
}

// uploadImage stores the optional multipart image, returning its URL and
// object key. A missing file is not an error.
func (h *RecipeHandler) uploadImage(c *gin.Context) (string, string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", "", nil
	}
	if h.images == nil {
		return "", "", service.ErrInvalidImageType
	}
	return h.images.UploadRecipeImage(c.Request.Context(), header)
}

// cleanupImage deletes an uploaded object on the error path so failures
// never leave orphaned files.
func (h *RecipeHandler) cleanupImage(ctx context.Context, key string) {
	if key == "" || h.images == nil {
		return
	}
	if err := h.images.Delete(ctx, key); err != nil {
		log.Printf("failed to delete uploaded image %s: %v", key, err)
	}
}

// CreateRecipe creates a recipe from a JSON or multipart payload.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	imageURL, imageKey, err := h.uploadImage(c)
	if err != nil {
		failService(c, err)
		return
	}

	req, err := bindRecipeRequest(c)
	if err != nil {
		h.cleanupImage(c.Request.Context(), imageKey)
		failValidation(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, req, imageURL)
	if err != nil {
		h.cleanupImage(c.Request.Context(), imageKey)
		failService(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

// UpdateRecipe updates an owned recipe. The ownership middleware has already
// resolved and authorized the resource.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipe := c.MustGet(middleware.ContextResource).(*models.Recipe)
	oldImageURL := recipe.ImageURL

	imageURL, imageKey, err := h.uploadImage(c)
	if err != nil {
		failService(c, err)
		return
	}

	req, err := bindRecipeRequest(c)
	if err != nil {
		h.cleanupImage(c.Request.Context(), imageKey)
		failValidation(c, err)
		return
	}

	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), recipe, req, imageURL)
	if err != nil {
		h.cleanupImage(c.Request.Context(), imageKey)
		failService(c, err)
		return
	}

	// Replaced image: drop the old object.
	if imageURL != "" && oldImageURL != "" && h.images != nil {
		h.cleanupImage(c.Request.Context(), h.images.KeyFromURL(oldImageURL))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe updated successfully",
		"recipe":  updated,
	})
}

// DeleteRecipe deletes an owned recipe with its reviews and favorites.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipe := c.MustGet(middleware.ContextResource).(*models.Recipe)

	if err := h.recipes.DeleteRecipe(c.Request.Context(), recipe); err != nil {
		failService(c, err)
		return
	}

	if recipe.ImageURL != "" && h.images != nil {
		h.cleanupImage(c.Request.Context(), h.images.KeyFromURL(recipe.ImageURL))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe deleted successfully",
	})
}

// ToggleFavorite flips the recipe's membership in the caller's favorite set.
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	isFavorited, err := h.recipes.ToggleFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		failService(c, err)
		return
	}

	message := "Removed from favorites"
	if isFavorited {
		message = "Added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_favorited": isFavorited,
		"message":      message,
	})
}

// FavoriteStatus reports whether the recipe is in the caller's favorite set.
func (h *RecipeHandler) FavoriteStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	isFavorited, err := h.recipes.IsFavorited(c.Request.Context(), userID, recipeID)
	if err != nil {
		failService(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_favorited": isFavorited,
	})
}
