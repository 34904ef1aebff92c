package service

import "errors"

// Sentinel errors surfaced by services and mapped to HTTP statuses by the
// api package.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUsernameTaken      = errors.New("a user with this username already exists")
	ErrOwnRecipe          = errors.New("you cannot review your own recipe")
	ErrDuplicateReview    = errors.New("you have already reviewed this recipe")
	ErrSessionExpired     = errors.New("session expired or revoked")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
