package models

import "gorm.io/gorm"

// Substitution maps an ingredient to its replacement. Rows are soft-deleted by
// clearing Active so the history of corrections survives.
type Substitution struct {
	gorm.Model
	OriginalIngredient   string `gorm:"uniqueIndex;not null" json:"original_ingredient"`
	SubstituteIngredient string `gorm:"not null" json:"substitute_ingredient"`
	Reason               string `json:"reason"`
	Active               bool   `gorm:"not null;default:true" json:"active"`
}
