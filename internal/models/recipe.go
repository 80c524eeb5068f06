package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

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
	if value == nil {
		*a = JSONBStringArray{}
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

	return json.Unmarshal(bytes, a)
}

// Recipe difficulty levels accepted by the API.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is an authored recipe. AuthorID is set once at creation and never
// changes; only the author may update or delete the record. AverageRating
// and RatingCount are derived from Ratings at read time and never persisted.
type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	PrepTime     int              `gorm:"not null;check:prep_time >= 0" json:"prep_time"`
	CookTime     int              `gorm:"not null;check:cook_time >= 0" json:"cook_time"`
	Servings     int              `gorm:"not null;check:servings >= 1" json:"servings"`
	Difficulty   string           `gorm:"size:50;not null" json:"difficulty"`
	Cuisine      string           `gorm:"size:100" json:"cuisine"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	// No column default here: gorm skips zero-value fields that carry a
	// default tag on insert, which would turn IsPublic=false into true.
	// The API layer supplies the default instead.
	IsPublic     bool             `gorm:"not null" json:"is_public"`
	AuthorID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`

	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ratings []Rating `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`

	// Derived at read time from Ratings, never persisted.
	AverageRating float64 `gorm:"-" json:"average_rating"`
	RatingCount   int     `gorm:"-" json:"rating_count"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
