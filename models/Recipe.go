package models

import "gorm.io/gorm"

type Recipe struct {
	gorm.Model
	Name        string             `gorm:"not null" json:"name"`
	SourceURL   string             `json:"source_url"`
	SourceType  string             `gorm:"type:varchar(32);default:manual" json:"source_type"`
	Description string             `gorm:"type:text" json:"description"`
	Servings    int                `gorm:"not null;default:4" json:"servings"`
	MealType    string             `gorm:"type:varchar(32)" json:"meal_type"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	OwnerID     uint               `gorm:"not null" json:"owner_id"`
	Owner       *User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// RecipeIngredient holds one free-text ingredient line as it was entered or
// parsed. Quantity and unit stay untyped text; the shopping pipeline decides
// what is numeric.
type RecipeIngredient struct {
	gorm.Model
	RecipeID       uint   `gorm:"index;not null" json:"recipe_id"`
	IngredientName string `gorm:"not null" json:"ingredient_name"`
	Quantity       string `json:"quantity"`
	Unit           string `json:"unit"`
	IsOptional     bool   `gorm:"not null;default:false" json:"is_optional"`
}
