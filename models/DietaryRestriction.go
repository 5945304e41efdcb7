package models

import "gorm.io/gorm"

// DietaryRestriction is a household-wide constraint ("vegetarian", "no nuts").
// Rows are soft-deleted by clearing Active.
type DietaryRestriction struct {
	gorm.Model
	RestrictionName string `gorm:"uniqueIndex;not null" json:"restriction_name"`
	Active          bool   `gorm:"not null;default:true" json:"active"`
}
