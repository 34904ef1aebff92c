package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CreateRecipe creates a new recipe owned by authorID. imageURL may be empty.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	recipe := models.Recipe{
		ImageURL:      imageURL,
		Title:         req.Title,
		Description:   req.Description,
		AuthorID:      authorID,
		Category:      req.Category,
		Cuisine:       req.Cuisine,
		Difficulty:    req.Difficulty,
		PrepTime:      req.PrepTime,
		CookTime:      req.CookTime,
		Servings:      req.Servings,
		Ingredients:   models.IngredientList(req.Ingredients),
		Instructions:  models.InstructionList(req.Instructions),
		Tags:          models.JSONBStringArray(req.Tags),
		DietaryInfo:   models.JSONBDietaryInfo(req.DietaryInfo),
		NutritionInfo: models.JSONBNutritionInfo(req.NutritionInfo),
		IsPublished:   true,
		Embedding:     GenerateEmbedding(req.Title + " " + req.Description),
	}
	if req.IsPublished != nil {
		recipe.IsPublished = *req.IsPublished
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipe retrieves a recipe by ID without side effects.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ViewRecipe retrieves a recipe for display and bumps its view counter.
// Unpublished recipes are visible to their author only; everyone else gets
// ErrNotFound rather than ErrForbidden so drafts stay invisible.
// The increment is read-modify-write and may undercount under concurrent
// reads; views are telemetry, not a correctness-critical counter.
func (s *RecipeService) ViewRecipe(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if !recipe.IsPublished && (viewerID == nil || *viewerID != recipe.AuthorID) {
		return nil, ErrNotFound
	}

	recipe.Views++
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("views", recipe.Views).Error; err != nil {
		log.Printf("failed to bump view count for recipe %s: %v", id, err)
	}
	return recipe, nil
}

// UpdateRecipe replaces the mutable fields of an already-authorized recipe.
// Ownership has been checked upstream; the derived rating fields and views
// are deliberately not in the update set. An empty imageURL keeps the
// current image.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipe *models.Recipe, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	if imageURL != "" {
		recipe.ImageURL = imageURL
	}
	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Category = req.Category
	recipe.Cuisine = req.Cuisine
	recipe.Difficulty = req.Difficulty
	recipe.PrepTime = req.PrepTime
	recipe.CookTime = req.CookTime
	recipe.Servings = req.Servings
	recipe.Ingredients = models.IngredientList(req.Ingredients)
	recipe.Instructions = models.InstructionList(req.Instructions)
	recipe.Tags = models.JSONBStringArray(req.Tags)
	recipe.DietaryInfo = models.JSONBDietaryInfo(req.DietaryInfo)
	recipe.NutritionInfo = models.JSONBNutritionInfo(req.NutritionInfo)
	if req.IsPublished != nil {
		recipe.IsPublished = *req.IsPublished
	}
	recipe.Embedding = GenerateEmbedding(req.Title + " " + req.Description)

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe along with its reviews and favorite rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
}

// ListRecipes returns published recipes matching the query, with the total
// count for pagination.
func (s *RecipeService) ListRecipes(ctx context.Context, q *types.RecipeListQuery) ([]models.Recipe, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("is_published = ?", true)

	if q.Query != "" {
		like := "%" + strings.ToLower(q.Query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where(
				"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ? OR LOWER(tags::text) LIKE ?",
				like, like, like, like,
			)
		} else {
			query = query.Where(
				"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(tags) LIKE ?",
				like, like, like, like,
			)
		}
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Difficulty != "" {
		query = query.Where("difficulty = ?", q.Difficulty)
	}
	if q.Cuisine != "" {
		query = query.Where("LOWER(cuisine) LIKE ?", "%"+strings.ToLower(q.Cuisine)+"%")
	}
	if s.db.Dialector.Name() == "postgres" {
		if q.Vegetarian {
			query = query.Where("dietary_info->>'vegetarian' = 'true'")
		}
		if q.Vegan {
			query = query.Where("dietary_info->>'vegan' = 'true'")
		}
		if q.GlutenFree {
			query = query.Where("dietary_info->>'gluten_free' = 'true'")
		}
	} else {
		if q.Vegetarian {
			query = query.Where("dietary_info LIKE ?", `%"vegetarian":true%`)
		}
		if q.Vegan {
			query = query.Where("dietary_info LIKE ?", `%"vegan":true%`)
		}
		if q.GlutenFree {
			query = query.Where("dietary_info LIKE ?", `%"gluten_free":true%`)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortFields := map[string]string{
		"created_at":     "created_at",
		"average_rating": "average_rating",
		"total_ratings":  "total_ratings",
		"views":          "views",
		"title":          "title",
	}
	if q.Query != "" && s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(q.Query)
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else if col, ok := sortFields[q.SortBy]; ok {
		dir := "DESC"
		if q.SortOrder == "asc" {
			dir = "ASC"
		}
		query = query.Order(col + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// FeaturedRecipes returns the top published recipes by rating.
func (s *RecipeService) FeaturedRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("average_rating DESC, total_ratings DESC").
		Limit(6).
		Find(&recipes).Error
	return recipes, err
}

// RecentRecipes returns the latest published recipes.
func (s *RecipeService) RecentRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(8).
		Find(&recipes).Error
	return recipes, err
}

// CategoryCounts groups published recipes by category.
func (s *RecipeService) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("category, COUNT(*) as count").
		Where("is_published = ?", true).
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

// RecipesByUser returns an author's published recipes, paginated.
func (s *RecipeService) RecipesByUser(ctx context.Context, authorID uuid.UUID, page, limit int) ([]models.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ? AND is_published = ?", authorID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

// MyRecipes returns all of a user's own recipes, drafts included.
func (s *RecipeService) MyRecipes(ctx context.Context, authorID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&recipes).Error
	return recipes, err
}

// ToggleFavorite flips membership of the recipe in the user's favorite set and
// reports the resulting state. Check-then-act: concurrent toggles by the same
// user race, last writer wins.
func (s *RecipeService) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return false, err
	}

	var fav models.RecipeFavorite
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&fav).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).
			Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&models.RecipeFavorite{}).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.RecipeFavorite{RecipeID: recipeID, UserID: userID}
		if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// IsFavorited reports whether the recipe is in the user's favorite set.
func (s *RecipeService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecipeFavorite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

// FavoriteRecipes returns the recipes in the user's favorite set.
func (s *RecipeService) FavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID).
		Order("recipe_favorites.created_at DESC").
		Find(&recipes).Error
	return recipes, err
}
