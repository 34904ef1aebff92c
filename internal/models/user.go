package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. PasswordHash is a bcrypt digest and never
// serialized. Favorite membership lives in recipe_favorites.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Username        string         `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	FirstName       string         `gorm:"size:50" json:"first_name,omitempty"`
	LastName        string         `gorm:"size:50" json:"last_name,omitempty"`
	Bio             string         `gorm:"type:text" json:"bio,omitempty"`
	ProfileImageURL string         `gorm:"size:255" json:"profile_image_url,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
