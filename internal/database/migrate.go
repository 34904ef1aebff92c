package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/forkfolio/backend/internal/models"
)

// Migrate brings the schema up to date. On PostgreSQL the pgvector extension
// must exist before the recipes table, whose embedding column uses the vector
// type. SQLite (tests) skips the extension and gets the same tables.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to create vector extension: %w", err)
		}
	} else {
		log.Printf("Using GORM auto-migration for %s", db.Dialector.Name())
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Review{},
		&models.RecipeFavorite{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}
