package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/types"
)

var errInvalidCategory = errors.New("invalid category")

// decodeJSONField unmarshals a JSON-encoded form value into dest. A missing
// or malformed value leaves dest at its zero value; decode failures never
// propagate to the caller.
func decodeJSONField(raw string, dest interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), dest)
}

// bindRecipeRequest reads a recipe payload from either a JSON body or a
// multipart form whose nested fields arrive as JSON-encoded strings, then
// runs the standard struct validation.
func bindRecipeRequest(c *gin.Context) (*types.RecipeRequest, error) {
	var req types.RecipeRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Title = c.PostForm("title")
		req.Description = c.PostForm("description")
		req.Category = c.PostForm("category")
		req.Cuisine = c.PostForm("cuisine")
		req.Difficulty = c.PostForm("difficulty")
		req.PrepTime, _ = strconv.Atoi(c.PostForm("prep_time"))
		req.CookTime, _ = strconv.Atoi(c.PostForm("cook_time"))
		req.Servings, _ = strconv.Atoi(c.PostForm("servings"))

		decodeJSONField(c.PostForm("ingredients"), &req.Ingredients)
		decodeJSONField(c.PostForm("instructions"), &req.Instructions)
		decodeJSONField(c.PostForm("tags"), &req.Tags)
		decodeJSONField(c.PostForm("dietary_info"), &req.DietaryInfo)
		decodeJSONField(c.PostForm("nutrition_info"), &req.NutritionInfo)

		if v, ok := c.GetPostForm("is_published"); ok {
			published := v == "true"
			req.IsPublished = &published
		}

		if err := binding.Validator.ValidateStruct(&req); err != nil {
			return nil, err
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
	}

	if !validCategory(req.Category) {
		return nil, errInvalidCategory
	}
	return &req, nil
}

func validCategory(category string) bool {
	for _, c := range models.Categories {
		if c == category {
			return true
		}
	}
	return false
}
