package types

import "github.com/forkfolio/backend/internal/models"

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=30"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name" binding:"max=50"`
	LastName        string `json:"last_name" binding:"max=50"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /auth/profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Bio       string `json:"bio" binding:"max=500"`
}

// ChangePasswordRequest is the payload for PUT /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// RecipeRequest is the payload for recipe create and update. It arrives either
// as JSON or as multipart form fields with the nested values JSON-encoded.
type RecipeRequest struct {
	Title         string                   `json:"title" binding:"required,min=3,max=100"`
	Description   string                   `json:"description" binding:"required,min=10,max=1000"`
	Category      string                   `json:"category" binding:"required"`
	Cuisine       string                   `json:"cuisine" binding:"max=50"`
	Difficulty    string                   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	PrepTime      int                      `json:"prep_time" binding:"min=0,max=1440"`
	CookTime      int                      `json:"cook_time" binding:"min=0,max=1440"`
	Servings      int                      `json:"servings" binding:"required,min=1,max=100"`
	Ingredients   []models.Ingredient      `json:"ingredients" binding:"required,min=1,dive"`
	Instructions  []models.InstructionStep `json:"instructions" binding:"required,min=1,dive"`
	Tags          []string                 `json:"tags" binding:"dive,max=30"`
	DietaryInfo   models.DietaryInfo       `json:"dietary_info"`
	NutritionInfo models.NutritionInfo     `json:"nutrition_info"`
	IsPublished   *bool                    `json:"is_published"`
}

// ReviewRequest is the payload for review create and update.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=100"`
	Comment string `json:"comment" binding:"required,min=10,max=2000"`
}

// RecipeListQuery captures the list endpoint's filter, sort and pagination
// parameters.
type RecipeListQuery struct {
	Query      string `form:"q"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
	Cuisine    string `form:"cuisine"`
	Vegetarian bool   `form:"vegetarian"`
	Vegan      bool   `form:"vegan"`
	GlutenFree bool   `form:"gluten_free"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// Pagination is the envelope pagination block.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit,omitempty"`
}
