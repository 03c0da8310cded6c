package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is a string slice stored as a JSON array
type StringList []string

// Value implements the driver.Valuer interface. The array is written as JSON
// text so SQLite's json functions can read it back.
func (a StringList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(value interface{}) error {
	if value == nil {
		*a = StringList{}
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

// CuratedFood is a row of the curated nutrition table.
type CuratedFood struct {
	ID             uuid.UUID   `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Name           string      `gorm:"size:255;not null;index" json:"name"`
	Description    string      `gorm:"type:text" json:"description"`
	Category       string      `gorm:"size:100" json:"category"`
	Keywords       StringList  `gorm:"type:jsonb;not null;default:'[]'" json:"keywords"`
	Nutrients      NutrientDoc `gorm:"type:jsonb" json:"nutrients"`
	IsVegetarian   bool        `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan        bool        `gorm:"not null;default:false" json:"is_vegan"`
	ContainsGluten bool        `gorm:"not null;default:false" json:"contains_gluten"`
}

func (CuratedFood) TableName() string {
	return "nutrition_foods"
}

// BeforeCreate assigns an ID when the caller did not
func (f *CuratedFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ToFoodItem converts the row into the unified result shape.
func (f *CuratedFood) ToFoodItem() FoodItem {
	return FoodItem{
		ID:             f.ID.String(),
		Name:           DisplayName(f.Name),
		Source:         SourceCurated,
		Nutrients:      f.Nutrients.Normalize(),
		Category:       f.Category,
		Description:    f.Description,
		IsVegetarian:   f.IsVegetarian,
		IsVegan:        f.IsVegan,
		ContainsGluten: f.ContainsGluten,
	}
}

// ContributedFood is a food entry added by an individual user.
type ContributedFood struct {
	ID             uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerID        uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Category       string         `gorm:"size:100" json:"category"`
	Nutrients      NutrientDoc    `gorm:"type:jsonb" json:"nutrients"`
	IsVegetarian   bool           `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan        bool           `gorm:"not null;default:false" json:"is_vegan"`
	ContainsGluten bool           `gorm:"not null;default:false" json:"contains_gluten"`
}

func (ContributedFood) TableName() string {
	return "user_foods"
}

// BeforeCreate assigns an ID when the caller did not
func (f *ContributedFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *ContributedFood) ToFoodItem() FoodItem {
	return FoodItem{
		ID:             f.ID.String(),
		Name:           DisplayName(f.Name),
		Source:         SourceContributed,
		Nutrients:      f.Nutrients.Normalize(),
		Category:       f.Category,
		Description:    f.Description,
		IsVegetarian:   f.IsVegetarian,
		IsVegan:        f.IsVegan,
		ContainsGluten: f.ContainsGluten,
	}
}

// Recipe is a saved recipe with per-serving nutrients.
type Recipe struct {
	ID             uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerID        uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Category       string         `gorm:"size:100" json:"category"`
	Ingredients    StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions   StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Servings       int            `gorm:"not null;default:1" json:"servings"`
	Nutrients      NutrientDoc    `gorm:"type:jsonb" json:"nutrients"`
	IsVegetarian   bool           `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan        bool           `gorm:"not null;default:false" json:"is_vegan"`
	ContainsGluten bool           `gorm:"not null;default:false" json:"contains_gluten"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an ID when the caller did not
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Recipe) ToFoodItem() FoodItem {
	return FoodItem{
		ID:             r.ID.String(),
		Name:           DisplayName(r.Name),
		Source:         SourceRecipe,
		Nutrients:      r.Nutrients.Normalize(),
		Category:       r.Category,
		Description:    r.Description,
		IsVegetarian:   r.IsVegetarian,
		IsVegan:        r.IsVegan,
		ContainsGluten: r.ContainsGluten,
	}
}
