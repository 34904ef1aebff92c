package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a single user's rating of a recipe. The composite unique index
// enforces at most one review per (recipe, user) pair. Reviews delete hard;
// a soft-delete marker would keep the unique index claimed and block the
// user from reviewing the recipe again.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_recipe_user;index" json:"recipe_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_recipe_user;index" json:"user_id"`
	Rating       int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title        string    `gorm:"size:100" json:"title,omitempty"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	HelpfulVotes int64     `gorm:"not null;default:0" json:"helpful_votes"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
}

// OwnerID reports the user permitted to mutate this review.
func (r *Review) OwnerID() uuid.UUID {
	return r.UserID
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
