package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/forkfolio/backend/internal/models"
)

// CreateTestUser creates a user with a bcrypt hash of "testpassword123".
// Username and email are unique per call so tests can create several.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	suffix := uuid.NewString()[:8]
	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     fmt.Sprintf("testuser_%s", suffix),
		Email:        fmt.Sprintf("testuser+%s@example.com", suffix),
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestRecipe creates a published recipe owned by authorID.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID) *models.Recipe {
	recipe := &models.Recipe{
		Title:       "Test Recipe",
		Description: "A test recipe",
		AuthorID:    authorID,
		Category:    "dinner",
		Difficulty:  "easy",
		PrepTime:    10,
		CookTime:    20,
		Servings:    4,
		Ingredients: models.IngredientList{
			{Name: "flour", Amount: "2", Unit: "cups"},
		},
		Instructions: models.InstructionList{
			{StepNumber: 1, Instruction: "Mix everything"},
		},
		IsPublished: true,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// CreateTestDraft creates an unpublished recipe owned by authorID.
func CreateTestDraft(t *testing.T, db *gorm.DB, authorID uuid.UUID) *models.Recipe {
	recipe := CreateTestRecipe(t, db, authorID)
	require.NoError(t, db.Model(recipe).Update("is_published", false).Error)
	recipe.IsPublished = false
	return recipe
}

// CreateTestReview creates a review by userID on recipeID with the given
// rating, bypassing the service layer.
func CreateTestReview(t *testing.T, db *gorm.DB, userID, recipeID uuid.UUID, rating int) *models.Review {
	review := &models.Review{
		RecipeID: recipeID,
		UserID:   userID,
		Rating:   rating,
		Comment:  "A test review",
	}
	require.NoError(t, db.Create(review).Error)
	return review
}
