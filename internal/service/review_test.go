package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfolio/backend/internal/models"
	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/testhelpers"
	"github.com/forkfolio/backend/internal/types"
)

func reviewReq(rating int) *types.ReviewRequest {
	return &types.ReviewRequest{
		Rating:  rating,
		Comment: "This recipe turned out great",
	}
}

func TestCreateReviewUpdatesRating(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	review, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(3))
	require.NoError(t, err)
	assert.Equal(t, 3, review.Rating)

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Equal(t, int64(1), got.TotalRatings)
}

func TestRatingAverageRoundsHalfUp(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	// 2, 3, 3 averages 2.666..., which rounds to 2.7.
	for _, rating := range []int{2, 3, 3} {
		reviewer := testhelpers.CreateTestUser(t, db)
		_, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(rating))
		require.NoError(t, err)
	}

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 2.7, got.AverageRating)
	assert.Equal(t, int64(3), got.TotalRatings)

	// 2, 3, 3, 4 averages 3.0 exactly.
	reviewer := testhelpers.CreateTestUser(t, db)
	_, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(4))
	require.NoError(t, err)

	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Equal(t, int64(4), got.TotalRatings)
}

func TestUpdateReviewRecomputesRating(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	review, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(3))
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, review, reviewReq(5))
	require.NoError(t, err)

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, int64(1), got.TotalRatings)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	review, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(4))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctx, review))

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, 0.0, got.AverageRating)
	assert.Equal(t, int64(0), got.TotalRatings)

	// The unique pair slot is freed, so the user can review again.
	_, err = svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(2))
	require.NoError(t, err)
}

func TestCreateReviewOwnRecipeForbidden(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	_, err := svc.CreateReview(ctx, author.ID, recipe.ID, reviewReq(5))
	assert.ErrorIs(t, err, service.ErrOwnRecipe)

	var got models.Recipe
	require.NoError(t, db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, int64(0), got.TotalRatings)
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	_, err := svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(4))
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, reviewer.ID, recipe.ID, reviewReq(5))
	assert.ErrorIs(t, err, service.ErrDuplicateReview)
}

func TestCreateReviewUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)

	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, reviewer.ID)

	other := testhelpers.CreateTestUser(t, db)
	require.NoError(t, db.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error)

	_, err := svc.CreateReview(context.Background(), other.ID, recipe.ID, reviewReq(4))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListForRecipeDistribution(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	for _, rating := range []int{5, 5, 3} {
		reviewer := testhelpers.CreateTestUser(t, db)
		testhelpers.CreateTestReview(t, db, reviewer.ID, recipe.ID, rating)
	}

	reviews, distribution, total, err := svc.ListForRecipe(ctx, recipe.ID, "rating", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 3)
	assert.Equal(t, 5, reviews[0].Rating)

	require.Len(t, distribution, 2)
	assert.Equal(t, 5, distribution[0].Rating)
	assert.Equal(t, int64(2), distribution[0].Count)
	assert.Equal(t, 3, distribution[1].Rating)
	assert.Equal(t, int64(1), distribution[1].Count)
}

func TestMarkHelpful(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)
	review := testhelpers.CreateTestReview(t, db, reviewer.ID, recipe.ID, 4)

	got, err := svc.MarkHelpful(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.HelpfulVotes)

	got, err = svc.MarkHelpful(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.HelpfulVotes)
}

func TestHasReviewed(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewReviewService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db)
	reviewer := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID)

	review, err := svc.HasReviewed(ctx, reviewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, review)

	testhelpers.CreateTestReview(t, db, reviewer.ID, recipe.ID, 4)

	review, err = svc.HasReviewed(ctx, reviewer.ID, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 4, review.Rating)
}
