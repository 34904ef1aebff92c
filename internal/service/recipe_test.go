package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/testhelpers"
	"github.com/forkfolio/backend/internal/types"
)

func recipeReq(title string) *types.RecipeRequest {
	return &types.RecipeRequest{
		Title:       title,
		Description: "A dish worth writing home about",
		Category:    "dinner",
		Difficulty:  "easy",
		PrepTime:    10,
		CookTime:    20,
		Servings:    4,
		Ingredients: []models.Ingredient{
			{Name: "flour", Amount: "2", Unit: "cups"},
		},
		Instructions: []models.InstructionStep{
			{StepNumber: 1, Instruction: "Mix everything"},
		},
	}
}

func TestCreateAndGetRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)

	recipe, err := svc.CreateRecipe(ctx, author.ID, recipeReq("Pasta Carbonara"), "")
	require.NoError(t, err)
	assert.True(t, recipe.IsPublished)
	assert.Equal(t, author.ID, recipe.AuthorID)

	got, err := svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta Carbonara", got.Title)
	assert.Len(t, got.Ingredients, 1)
}

func TestGetRecipeNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)

	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestViewRecipeBumpsCounter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	for i := 0; i < 3; i++ {
		_, err := svc.ViewRecipe(ctx, recipe.ID, nil)
		require.NoError(t, err)
	}

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, int64(3), got.Views)
}

func TestViewRecipeDraftVisibility(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	other := testhelpers.CreateTestUser(t, db)
	draft := testhelpers.CreateTestDraft(t, db, author.ID)

	// Anonymous and non-author viewers get a 404, not a 403, so drafts
	// stay invisible.
	_, err := svc.ViewRecipe(ctx, draft.ID, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.ViewRecipe(ctx, draft.ID, &other.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	got, err := svc.ViewRecipe(ctx, draft.ID, &author.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestUpdateRecipePreservesDerivedFields(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	require.NoError(t, db.Model(recipe).Updates(map[string]interface{}{
		"average_rating": 4.5,
		"total_ratings":  2,
	}).Error)
	require.NoError(t, db.First(recipe, "id = ?", recipe.ID).Error)

	updated, err := svc.UpdateRecipe(ctx, recipe, recipeReq("New Title"), "")
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Equal(t, int64(2), got.TotalRatings)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)
	testhelpers.CreateTestReview(t, db, reviewer.ID, recipe.ID, 5)

	_, err := svc.ToggleFavorite(ctx, reviewer.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe))

	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var reviewCount, favCount int64
	require.NoError(t, db.Model(&models.Review{}).Where("recipe_id = ?", recipe.ID).Count(&reviewCount).Error)
	require.NoError(t, db.Model(&models.RecipeFavorite{}).Where("recipe_id = ?", recipe.ID).Count(&favCount).Error)
	assert.Equal(t, int64(0), reviewCount)
	assert.Equal(t, int64(0), favCount)
}

func TestListRecipesFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)

	_, err := svc.CreateRecipe(ctx, author.ID, recipeReq("Pancakes"), "")
	require.NoError(t, err)

	dessert := recipeReq("Chocolate Cake")
	dessert.Category = "dessert"
	_, err = svc.CreateRecipe(ctx, author.ID, dessert, "")
	require.NoError(t, err)

	draft := recipeReq("Secret Project")
	unpublished := false
	draft.IsPublished = &unpublished
	_, err = svc.CreateRecipe(ctx, author.ID, draft, "")
	require.NoError(t, err)

	recipes, total, err := svc.ListRecipes(ctx, &types.RecipeListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, recipes, 2)

	recipes, total, err = svc.ListRecipes(ctx, &types.RecipeListQuery{Category: "dessert"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Chocolate Cake", recipes[0].Title)

	// Drafts never surface through search either.
	recipes, _, err = svc.ListRecipes(ctx, &types.RecipeListQuery{Query: "secret"})
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestCategoryCounts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	for i := 0; i < 2; i++ {
		testhelpers.CreateTestRecipe(t, db, author.ID)
	}
	dessert := recipeReq("Tiramisu")
	dessert.Category = "dessert"
	_, err := svc.CreateRecipe(ctx, author.ID, dessert, "")
	require.NoError(t, err)

	counts, err := svc.CategoryCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "dinner", counts[0].Category)
	assert.Equal(t, int64(2), counts[0].Count)
}

func TestToggleFavoriteIsSelfInverse(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	user := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	favorited, err := svc.ToggleFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	is, err := svc.IsFavorited(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, is)

	favorited, err = svc.ToggleFavorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	is, err = svc.IsFavorited(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestToggleFavoriteUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)

	user := testhelpers.CreateTestUser(t, db)
	_, err := svc.ToggleFavorite(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMyRecipesIncludesDrafts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	testhelpers.CreateTestRecipe(t, db, author.ID)
	testhelpers.CreateTestDraft(t, db, author.ID)

	mine, err := svc.MyRecipes(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// The public per-user listing hides drafts.
	published, total, err := svc.RecipesByUser(ctx, author.ID, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, published, 1)
}

func TestFavoriteRecipesListing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	user := testhelpers.CreateTestUser(t, db)
	first := testhelpers.CreateTestRecipe(t, db, author.ID)
	second := testhelpers.CreateTestRecipe(t, db, author.ID)

	_, err := svc.ToggleFavorite(ctx, user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(ctx, user.ID, second.ID)
	require.NoError(t, err)

	favorites, err := svc.FavoriteRecipes(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 2)
}
