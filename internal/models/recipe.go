package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Recipe categories accepted by the API.
var Categories = []string{
	"breakfast", "lunch", "dinner", "appetizer", "dessert",
	"snack", "beverage", "soup", "salad", "side-dish", "other",
}

// Difficulty levels accepted by the API.
var Difficulties = []string{"easy", "medium", "hard"}

// Ingredient is a single entry in a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name" binding:"required,max=100"`
	Amount string `json:"amount" binding:"required,max=50"`
	Unit   string `json:"unit,omitempty" binding:"max=30"`
}

// InstructionStep is a numbered step in a recipe's instructions.
type InstructionStep struct {
	StepNumber  int    `json:"step_number" binding:"required,min=1"`
	Instruction string `json:"instruction" binding:"required,max=1000"`
}

// DietaryInfo holds the dietary flags for a recipe.
type DietaryInfo struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"gluten_free"`
	DairyFree  bool `json:"dairy_free"`
	NutFree    bool `json:"nut_free"`
}

// NutritionInfo holds optional per-serving nutrition figures.
type NutritionInfo struct {
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// IngredientList is a custom type for storing ingredients as JSONB
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// InstructionList is a custom type for storing instruction steps as JSONB
type InstructionList []InstructionStep

// Value implements the driver.Valuer interface
func (l InstructionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *InstructionList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// JSONBDietaryInfo stores DietaryInfo as a JSONB object.
type JSONBDietaryInfo DietaryInfo

// Value implements the driver.Valuer interface
func (d JSONBDietaryInfo) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface
func (d *JSONBDietaryInfo) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// JSONBNutritionInfo stores NutritionInfo as a JSONB object.
type JSONBNutritionInfo NutritionInfo

// Value implements the driver.Valuer interface
func (n JSONBNutritionInfo) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *JSONBNutritionInfo) Scan(value interface{}) error {
	return scanJSON(value, n)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, dest)
}

// Recipe is a published (or draft) recipe owned by its author.
// AverageRating and TotalRatings are derived from the live review set and are
// written only by the review service's recompute; Views is a best-effort counter.
type Recipe struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`
	Title         string             `gorm:"size:100;not null" json:"title"`
	Description   string             `gorm:"type:text;not null" json:"description"`
	AuthorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"author_id"`
	Category      string             `gorm:"size:50;not null;index" json:"category"`
	Cuisine       string             `gorm:"size:50" json:"cuisine,omitempty"`
	Difficulty    string             `gorm:"size:10;not null" json:"difficulty"`
	PrepTime      int                `gorm:"not null" json:"prep_time"`
	CookTime      int                `gorm:"not null" json:"cook_time"`
	Servings      int                `gorm:"not null" json:"servings"`
	Ingredients   IngredientList     `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions  InstructionList    `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	ImageURL      string             `gorm:"size:255" json:"image_url,omitempty"`
	Tags          JSONBStringArray   `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	DietaryInfo   JSONBDietaryInfo   `gorm:"type:jsonb;not null;default:'{}'" json:"dietary_info"`
	NutritionInfo JSONBNutritionInfo `gorm:"type:jsonb;not null;default:'{}'" json:"nutrition_info"`
	AverageRating float64            `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings  int64              `gorm:"not null;default:0" json:"total_ratings"`
	Views         int64              `gorm:"not null;default:0" json:"views"`
	IsPublished   bool               `gorm:"not null;default:true" json:"is_published"`
	Embedding     pgvector.Vector    `gorm:"type:vector(3)" json:"-"`
}

// TotalTime is prep plus cook time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// OwnerID reports the user permitted to mutate this recipe.
func (r *Recipe) OwnerID() uuid.UUID {
	return r.AuthorID
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
