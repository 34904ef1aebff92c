package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/testhelpers"
	"github.com/forkfolio/backend/internal/types"
)

func registerReq(username, email string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("chef_anna", "anna@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "chef_anna", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)

	got, err := svc.Login(ctx, "anna@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("chef_anna", "anna@example.com"))
	require.NoError(t, err)

	// Unknown email and wrong password return the same error.
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "anna@example.com", "wrongpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("chef_anna", "anna@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("other_chef", "anna@example.com"))
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("chef_anna", "anna@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("chef_anna", "anna2@example.com"))
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegisterRejectsBadUsername(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)

	_, err := svc.Register(context.Background(), registerReq("chef anna!", "anna@example.com"))
	assert.ErrorIs(t, err, service.ErrInvalidUsername)
}

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)

	got, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		FirstName: "Anna",
		LastName:  "Smith",
		Bio:       "I cook things",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, "I cook things", got.Bio)
}

func TestChangePassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)

	err := svc.ChangePassword(ctx, user.ID, "notthepassword", "newpassword456")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "testpassword123", "newpassword456"))

	_, err = svc.Login(ctx, user.Email, "testpassword123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, user.Email, "newpassword456")
	assert.NoError(t, err)
}
