package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfolio/backend/internal/service"
)

// Owned is a resource with a single user permitted to mutate it.
type Owned interface {
	OwnerID() uuid.UUID
}

// ResourceLookup fetches an owned resource by id. It returns
// service.ErrNotFound when the resource is absent.
type ResourceLookup func(ctx context.Context, id uuid.UUID) (Owned, error)

// RequireOwner authorizes mutation of an owned resource: 404 when the id is
// malformed or the resource is absent, 403 when the caller is not the owner.
// On success the resolved resource is stored in the context so handlers do
// not fetch it a second time. Must run after RequireAuth.
func RequireOwner(lookup ResourceLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Resource not found",
			})
			c.Abort()
			return
		}

		resource, err := lookup(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"message": "Resource not found",
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Authorization error",
				})
			}
			c.Abort()
			return
		}

		userID, exists := c.Get(ContextUserID)
		if !exists || resource.OwnerID() != userID.(uuid.UUID) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You do not have permission to perform this action",
			})
			c.Abort()
			return
		}

		c.Set(ContextResource, resource)
		c.Next()
	}
}
