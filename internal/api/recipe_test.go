package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/testhelpers"
)

func recipePayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "A dish worth writing home about",
		"category":    "dinner",
		"difficulty":  "easy",
		"prep_time":   10,
		"cook_time":   20,
		"servings":    4,
		"ingredients": []map[string]interface{}{
			{"name": "flour", "amount": "2", "unit": "cups"},
		},
		"instructions": []map[string]interface{}{
			{"step_number": 1, "instruction": "Mix everything"},
		},
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	token := env.sessions.Issue(author.ID)

	w := env.do(t, http.MethodPost, "/api/v1/recipes", token, recipePayload("Pasta Carbonara"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	var count int64
	require.NoError(t, env.db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateRecipeInvalidCategory(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	token := env.sessions.Issue(author.ID)

	payload := recipePayload("Mystery Dish")
	payload["category"] = "midnight-snackery"

	w := env.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid category")
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	token := env.sessions.Issue(author.ID)

	payload := recipePayload("Ok")
	payload["description"] = "short"

	w := env.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["errors"])
}

func TestUpdateRecipeOwnershipEnforced(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	intruder := testhelpers.CreateTestUser(t, env.db)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID)

	payload := recipePayload("Renamed Dish")

	w := env.do(t, http.MethodPut, "/api/v1/recipes/"+recipe.ID.String(), env.sessions.Issue(intruder.ID), payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/recipes/"+recipe.ID.String(), env.sessions.Issue(author.ID), payload)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Recipe
	require.NoError(t, env.db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Renamed Dish", got.Title)
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID)
	token := env.sessions.Issue(author.ID)

	w := env.do(t, http.MethodDelete, "/api/v1/recipes/"+recipe.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipeUnknownID(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	token := env.sessions.Issue(author.ID)

	w := env.do(t, http.MethodDelete, "/api/v1/recipes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeBumpsViews(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID)

	w := env.do(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Recipe
	require.NoError(t, env.db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, int64(1), got.Views)
}

func TestGetDraftHiddenFromOthers(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	other := testhelpers.CreateTestUser(t, env.db)
	draft := testhelpers.CreateTestDraft(t, env.db, author.ID)

	w := env.do(t, http.MethodGet, "/api/v1/recipes/"+draft.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+draft.ID.String(), env.sessions.Issue(other.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+draft.ID.String(), env.sessions.Issue(author.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToggleFavoriteEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	user := testhelpers.CreateTestUser(t, env.db)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID)
	token := env.sessions.Issue(user.ID)

	w := env.do(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_favorited"])
	assert.Equal(t, "Added to favorites", body["message"])

	w = env.do(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["is_favorited"])
	assert.Equal(t, "Removed from favorites", body["message"])
}

func TestFavoriteStatusEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	user := testhelpers.CreateTestUser(t, env.db)
	recipe := testhelpers.CreateTestRecipe(t, env.db, author.ID)
	token := env.sessions.Issue(user.ID)

	w := env.do(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String()+"/favorite-status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["is_favorited"])
}

func TestListRecipesEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	testhelpers.CreateTestRecipe(t, env.db, author.ID)
	testhelpers.CreateTestDraft(t, env.db, author.ID)

	w := env.do(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["recipes"], 1)
}

func TestMyRecipesEndpoint(t *testing.T) {
	env := setupEnv(t)
	author := testhelpers.CreateTestUser(t, env.db)
	testhelpers.CreateTestRecipe(t, env.db, author.ID)
	testhelpers.CreateTestDraft(t, env.db, author.ID)
	token := env.sessions.Issue(author.ID)

	w := env.do(t, http.MethodGet, "/api/v1/recipes/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["recipes"], 2)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
