package models

import "gorm.io/gorm"

// OrganicPreference marks an ingredient the household wants organic by
// default. Membership is the whole signal; removing the row removes the
// preference.
type OrganicPreference struct {
	gorm.Model
	Ingredient string `gorm:"uniqueIndex;not null" json:"ingredient"`
}
