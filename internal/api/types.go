package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/forkfolio/backend/internal/service"
)

// FieldError is a per-field validation failure in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// failValidation renders a binding error as a 400 with per-field messages.
func failValidation(c *gin.Context, err error) {
	if errors.Is(err, errInvalidCategory) {
		fail(c, http.StatusBadRequest, "Invalid category")
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fields,
		})
		return
	}
	fail(c, http.StatusBadRequest, "Invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "please enter a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// failService maps a service error onto the envelope with the right status.
// Unexpected errors become a generic 500; detail stays server-side.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fail(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		fail(c, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrOwnRecipe):
		fail(c, http.StatusForbidden, service.ErrOwnRecipe.Error())
	case errors.Is(err, service.ErrDuplicateReview):
		fail(c, http.StatusConflict, service.ErrDuplicateReview.Error())
	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusConflict, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		fail(c, http.StatusConflict, service.ErrUsernameTaken.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrWrongPassword):
		fail(c, http.StatusUnauthorized, service.ErrWrongPassword.Error())
	case errors.Is(err, service.ErrSessionExpired):
		fail(c, http.StatusUnauthorized, service.ErrSessionExpired.Error())
	case errors.Is(err, service.ErrInvalidUsername):
		fail(c, http.StatusBadRequest, service.ErrInvalidUsername.Error())
	case errors.Is(err, service.ErrImageTooLarge):
		fail(c, http.StatusBadRequest, service.ErrImageTooLarge.Error())
	case errors.Is(err, service.ErrInvalidImageType):
		fail(c, http.StatusBadRequest, service.ErrInvalidImageType.Error())
	default:
		fail(c, http.StatusInternalServerError, "Server error")
	}
}
