package models

import (
	"time"

	"gorm.io/gorm"
)

// PreferredProduct pins an ingredient to a specific catalog stockcode.
// Fallbacks holds alternative stockcodes tried in order when the primary
// product is unavailable.
type PreferredProduct struct {
	gorm.Model
	Ingredient  string     `gorm:"uniqueIndex;not null" json:"ingredient"`
	Stockcode   int64      `gorm:"not null" json:"stockcode"`
	ProductName string     `json:"product_name"`
	Brand       string     `json:"brand"`
	Size        string     `json:"size"`
	Price       float64    `json:"price"`
	IsOrganic   bool       `gorm:"not null;default:false" json:"is_organic"`
	ImageURL    string     `json:"image_url"`
	Fallbacks   []Fallback `gorm:"foreignKey:PreferredProductID" json:"fallback_stockcodes"`
	UseCount    int64      `gorm:"not null;default:0" json:"use_count"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

// Fallback is one alternative stockcode for a preferred product. Position
// preserves the order fallbacks are tried in.
type Fallback struct {
	gorm.Model
	PreferredProductID uint  `gorm:"index;not null"`
	Stockcode          int64 `gorm:"not null" json:"stockcode"`
	Position           int   `gorm:"not null" json:"position"`
}
